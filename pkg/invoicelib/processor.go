package invoicelib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rezonia/facturador/internal/render"
	"github.com/rezonia/facturador/internal/tusfacturas"
)

// Result is a draft together with its provider payload
type Result struct {
	Draft      *InvoiceDraft
	Payload    *Payload
	Defaults   []MappingDefault
	Warnings   []string
	Validation ValidationResult
}

// Options configures a Processor
type Options struct {
	Credentials Credentials

	BaseURL string        // TusFacturasApp API base URL
	Timeout time.Duration // HTTP timeout for Submit
	Workers int           // concurrent inputs in ProcessBatch
}

// DefaultWorkers bounds ProcessBatch when Options.Workers is unset
const DefaultWorkers = 4

// DefaultOptions returns default processor options
func DefaultOptions() Options {
	return Options{
		BaseURL: tusfacturas.DefaultBaseURL,
		Timeout: tusfacturas.DefaultTimeout,
		Workers: DefaultWorkers,
	}
}

// Processor turns draft inputs into validated provider payloads
type Processor struct {
	client  *tusfacturas.Client
	options Options
}

// NewProcessor creates a new processor with the given options
func NewProcessor(opts Options) *Processor {
	var clientOpts []tusfacturas.ClientOption
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, tusfacturas.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		clientOpts = append(clientOpts, tusfacturas.WithTimeout(opts.Timeout))
	}

	return &Processor{
		client:  tusfacturas.NewClient(clientOpts...),
		options: opts,
	}
}

// NewDefaultProcessor creates a processor with default options and no credentials
func NewDefaultProcessor() *Processor {
	return NewProcessor(DefaultOptions())
}

// ParseDraft decodes a JSON draft input and builds the draft
func (p *Processor) ParseDraft(r io.Reader) (*InvoiceDraft, error) {
	var in DraftInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return in.ToDraft()
}

// Serialize maps a draft to the provider payload and validates it
func (p *Processor) Serialize(draft *InvoiceDraft) *Result {
	s := tusfacturas.Serialize(draft, p.options.Credentials)
	return &Result{
		Draft:      draft,
		Payload:    s.Payload,
		Defaults:   s.Defaults,
		Warnings:   s.Warnings(),
		Validation: tusfacturas.Validate(s.Payload),
	}
}

// Process parses a draft input and serializes it
func (p *Processor) Process(ctx context.Context, r io.Reader) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	draft, err := p.ParseDraft(r)
	if err != nil {
		return nil, err
	}
	return p.Serialize(draft), nil
}

// ProcessBatch processes inputs with at most Options.Workers in flight.
// Results keep the input order; a failed input leaves a nil entry and the
// first error is returned alongside the other results.
func (p *Processor) ProcessBatch(ctx context.Context, inputs []io.Reader) ([]*Result, error) {
	results := make([]*Result, len(inputs))

	workers := p.options.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, input := range inputs {
		g.Go(func() error {
			result, err := p.Process(ctx, input)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}

	return results, g.Wait()
}

// Submit serializes the draft and sends it to TusFacturasApp
func (p *Processor) Submit(ctx context.Context, draft *InvoiceDraft) (*Response, error) {
	result := p.Serialize(draft)
	return p.client.Submit(ctx, result.Payload)
}

// RenderPreview writes the PDF preview of a draft
func (p *Processor) RenderPreview(w io.Writer, draft *InvoiceDraft) error {
	return render.RenderDraft(w, draft)
}
