// Package llm implements the AI-assisted extraction path: two interchangeable
// providers behind one interface, both normalizing to the same partial payment
// record and the same failure contract.
package llm

import (
	"context"
	"fmt"

	"github.com/ikrajcar/uplatko/internal/hub3"
)

// Provider names as stored in settings and configuration.
const (
	ProviderNone   = "none"
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Provider extracts payment fields from raw invoice text via an external
// text-generation service. Any failure (transport, HTTP status, missing text
// payload, unparseable JSON) is a *ProviderError; there are no partial results.
type Provider interface {
	Name() string
	Extract(ctx context.Context, text, apiKey string) (hub3.PartialRecord, error)
}

// ProviderError wraps any failure of an AI extraction attempt. Callers treat
// it as recoverable: the orchestrator falls back to heuristic extraction.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s extraction failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerErr(provider string, format string, args ...any) *ProviderError {
	return &ProviderError{Provider: provider, Err: fmt.Errorf(format, args...)}
}
