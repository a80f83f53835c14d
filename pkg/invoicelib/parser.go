package invoicelib

import (
	"context"
	"io"
)

// DraftParser builds drafts from their JSON input form
type DraftParser interface {
	// ParseDraft decodes and validates a draft input
	ParseDraft(r io.Reader) (*InvoiceDraft, error)
}

// Pipeline processes draft inputs into provider payloads
type Pipeline interface {
	DraftParser

	// Process parses and serializes one input
	Process(ctx context.Context, r io.Reader) (*Result, error)

	// ProcessBatch processes multiple inputs
	ProcessBatch(ctx context.Context, inputs []io.Reader) ([]*Result, error)
}

// Submitter sends drafts to the e-billing provider
type Submitter interface {
	Submit(ctx context.Context, draft *InvoiceDraft) (*Response, error)
}

var (
	_ Pipeline  = (*Processor)(nil)
	_ Submitter = (*Processor)(nil)
)
