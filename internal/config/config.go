// Package config loads facturador settings from defaults, an optional YAML
// file, a .env file and FACTURADOR_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rezonia/facturador/internal/tusfacturas"
)

const EnvPrefix = "FACTURADOR"

type Config struct {
	Server struct {
		Host               string   `mapstructure:"host"`
		Port               int      `mapstructure:"port"`
		Debug              bool     `mapstructure:"debug"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	TusFacturas struct {
		BaseURL   string        `mapstructure:"base_url"`
		Timeout   time.Duration `mapstructure:"timeout"`
		UserToken string        `mapstructure:"usertoken"`
		APIKey    string        `mapstructure:"apikey"`
	} `mapstructure:"tusfacturas"`
}

// Addr returns host:port for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Content-Type", "Authorization"})

	v.SetDefault("tusfacturas.base_url", tusfacturas.DefaultBaseURL)
	v.SetDefault("tusfacturas.timeout", tusfacturas.DefaultTimeout)
	// Registered so AutomaticEnv picks them up on Unmarshal
	v.SetDefault("tusfacturas.usertoken", "")
	v.SetDefault("tusfacturas.apikey", "")
}

// Load reads the configuration. path may be empty, in which case only
// defaults, .env and the environment are used. A missing file at an explicit
// path is an error.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.TusFacturas.Timeout <= 0 {
		return nil, fmt.Errorf("invalid tusfacturas timeout: %s", cfg.TusFacturas.Timeout)
	}

	return &cfg, nil
}
