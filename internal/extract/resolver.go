package extract

import (
	"context"

	"github.com/ikrajcar/uplatko/internal/hub3"
	"github.com/ikrajcar/uplatko/internal/llm"
	"go.uber.org/zap"
)

// CredentialSource looks up the stored API key for a provider. An empty
// string means no credential is stored.
type CredentialSource interface {
	APIKey(provider string) string
}

// Advisory is a non-blocking warning surfaced to the user when extraction
// degrades to the heuristic path.
type Advisory struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	AdvisoryMissingCredential = "missing_credential"
	AdvisoryProviderFailed    = "provider_failed"
)

// Resolver selects between AI-assisted and heuristic extraction. It never
// fails: whatever happens on the AI path, the caller always gets a usable
// (possibly empty) partial record, so the user is never blocked from manual
// entry.
type Resolver struct {
	providers map[string]llm.Provider
	logger    *zap.Logger
}

// NewResolver creates a resolver over the given providers.
func NewResolver(logger *zap.Logger, providers ...llm.Provider) *Resolver {
	byName := make(map[string]llm.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Resolver{providers: byName, logger: logger}
}

// Resolve runs at most one extraction chain: the selected provider if it is
// known and credentialed, then the heuristic fallback. A successful AI result
// replaces the heuristic output entirely; it is never merged.
func (r *Resolver) Resolve(ctx context.Context, text, provider string, creds CredentialSource) (hub3.PartialRecord, []Advisory) {
	if provider == "" || provider == llm.ProviderNone {
		return Heuristic(text), nil
	}

	p, ok := r.providers[provider]
	if !ok {
		r.logger.Warn("Unknown extraction provider selected", zap.String("provider", provider))
		return Heuristic(text), []Advisory{{
			Code:    AdvisoryProviderFailed,
			Message: "unknown provider " + provider + ", used heuristic extraction",
		}}
	}

	apiKey := creds.APIKey(provider)
	if apiKey == "" {
		r.logger.Warn("Provider selected but no API key stored", zap.String("provider", provider))
		return Heuristic(text), []Advisory{{
			Code:    AdvisoryMissingCredential,
			Message: provider + " is selected but no API key is set, used heuristic extraction",
		}}
	}

	fields, err := p.Extract(ctx, text, apiKey)
	if err != nil {
		r.logger.Warn("AI extraction failed, falling back to heuristics",
			zap.String("provider", provider),
			zap.Error(err))
		return Heuristic(text), []Advisory{{
			Code:    AdvisoryProviderFailed,
			Message: provider + " extraction failed, used heuristic extraction; review the fields",
		}}
	}

	return fields, nil
}
