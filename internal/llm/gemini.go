package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ikrajcar/uplatko/internal/hub3"
	"go.uber.org/zap"
)

// DefaultGeminiEndpoint is Google's generateContent REST endpoint. The API
// key travels as a query parameter, not a header.
const DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// Gemini extracts payment fields through the Google Generative Language API.
type Gemini struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewGemini creates a Gemini provider. An empty endpoint selects the default.
func NewGemini(endpoint string, timeout time.Duration, logger *zap.Logger) *Gemini {
	if endpoint == "" {
		endpoint = DefaultGeminiEndpoint
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Gemini{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (g *Gemini) Name() string { return ProviderGemini }

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Extract sends the extraction prompt plus invoice text and decodes the JSON
// object from the first candidate's text.
func (g *Gemini) Extract(ctx context.Context, text, apiKey string) (hub3.PartialRecord, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: extractionPrompt + "\n\nInvoice text:\n" + text}}},
		},
		GenerationConfig: geminiGenConfig{Temperature: 0.1, MaxOutputTokens: 512},
	})
	if err != nil {
		return hub3.PartialRecord{}, providerErr(ProviderGemini, "encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"?key="+apiKey, bytes.NewReader(body))
	if err != nil {
		return hub3.PartialRecord{}, providerErr(ProviderGemini, "build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return hub3.PartialRecord{}, providerErr(ProviderGemini, "request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	g.logger.Debug("Gemini response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return hub3.PartialRecord{}, providerErr(ProviderGemini, "API error %d: %s", resp.StatusCode, truncateBody(raw))
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return hub3.PartialRecord{}, providerErr(ProviderGemini, "decode envelope: %w", err)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 ||
		decoded.Candidates[0].Content.Parts[0].Text == "" {
		return hub3.PartialRecord{}, providerErr(ProviderGemini, "empty response")
	}

	return decodeFields(ProviderGemini, decoded.Candidates[0].Content.Parts[0].Text)
}

// truncateBody keeps error messages readable when the API returns a long
// HTML or JSON error page.
func truncateBody(raw []byte) string {
	const max = 256
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
