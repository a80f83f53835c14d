package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturador/internal/config"
	"github.com/rezonia/facturador/internal/tusfacturas"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.False(t, cfg.Server.Debug)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsAllowedOrigins)
	assert.Equal(t, tusfacturas.DefaultBaseURL, cfg.TusFacturas.BaseURL)
	assert.Equal(t, tusfacturas.DefaultTimeout, cfg.TusFacturas.Timeout)
	assert.Empty(t, cfg.TusFacturas.UserToken)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "facturador.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  debug: true
  cors_allowed_origins:
    - https://app.example.com
tusfacturas:
  base_url: http://localhost:4000/api
  timeout: 5s
  usertoken: from-file
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CorsAllowedOrigins)
	assert.Equal(t, "http://localhost:4000/api", cfg.TusFacturas.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.TusFacturas.Timeout)
	assert.Equal(t, "from-file", cfg.TusFacturas.UserToken)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "facturador.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tusfacturas:\n  usertoken: from-file\n"), 0o600))

	t.Setenv("FACTURADOR_TUSFACTURAS_USERTOKEN", "from-env")
	t.Setenv("FACTURADOR_TUSFACTURAS_APIKEY", "key-env")
	t.Setenv("FACTURADOR_SERVER_PORT", "7070")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.TusFacturas.UserToken)
	assert.Equal(t, "key-env", cfg.TusFacturas.APIKey)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FACTURADOR_TUSFACTURAS_APIKEY=dotenv-key\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FACTURADOR_TUSFACTURAS_APIKEY") })

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.TusFacturas.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("FACTURADOR_SERVER_PORT", "70000")
	_, err = config.Load("")
	assert.ErrorContains(t, err, "invalid server port")
}
