package llm

import (
	"context"
	"time"

	"github.com/ikrajcar/uplatko/internal/hub3"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Groq exposes an OpenAI-compatible chat completions API, so the client is
// the OpenAI SDK with the base URL pointed at Groq.
const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
)

// Groq extracts payment fields through Groq's chat completions endpoint.
type Groq struct {
	baseURL string
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewGroq creates a Groq provider. Empty baseURL and model select defaults.
func NewGroq(baseURL, model string, timeout time.Duration, logger *zap.Logger) *Groq {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	if model == "" {
		model = DefaultGroqModel
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Groq{baseURL: baseURL, model: model, timeout: timeout, logger: logger}
}

func (g *Groq) Name() string { return ProviderGroq }

// Extract sends the extraction prompt as the system message and the invoice
// text as user content, then decodes the JSON object from the completion.
func (g *Groq) Extract(ctx context.Context, text, apiKey string) (hub3.PartialRecord, error) {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = g.baseURL
	client := openai.NewClientWithConfig(cfg)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.1,
		MaxTokens:   512,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Invoice text:\n" + text},
		},
	})
	if err != nil {
		return hub3.PartialRecord{}, providerErr(ProviderGroq, "request failed: %w", err)
	}

	g.logger.Debug("Groq response received",
		zap.String("model", g.model),
		zap.Duration("elapsed", time.Since(start)))

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return hub3.PartialRecord{}, providerErr(ProviderGroq, "empty response")
	}

	return decodeFields(ProviderGroq, resp.Choices[0].Message.Content)
}
