package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func geminiServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func geminiEnvelope(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]}}]}`
}

func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\n':
			out += `\n`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

func TestGeminiExtract(t *testing.T) {
	srv := geminiServer(t, http.StatusOK,
		geminiEnvelope(`{"iban":"HR1210010051863000160","amount":100.5,"recipientName":"ACME d.o.o."}`))

	g := NewGemini(srv.URL, time.Second, zap.NewNop())
	fields, err := g.Extract(context.Background(), "invoice text", "test-key")

	require.NoError(t, err)
	assert.Equal(t, "HR1210010051863000160", fields.IBAN)
	assert.Equal(t, 100.5, fields.Amount)
	assert.Equal(t, "ACME d.o.o.", fields.RecipientName)
}

func TestGeminiExtractStripsCodeFence(t *testing.T) {
	srv := geminiServer(t, http.StatusOK,
		geminiEnvelope("```json\n{\"amount\":42}\n```"))

	g := NewGemini(srv.URL, time.Second, zap.NewNop())
	fields, err := g.Extract(context.Background(), "text", "test-key")

	require.NoError(t, err)
	assert.Equal(t, 42.0, fields.Amount)
}

func TestGeminiExtractFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusForbidden, `{"error":"bad key"}`},
		{"empty candidates", http.StatusOK, `{"candidates":[]}`},
		{"empty text", http.StatusOK, geminiEnvelope("")},
		{"no JSON object", http.StatusOK, geminiEnvelope("sorry, I cannot help")},
		{"malformed JSON", http.StatusOK, geminiEnvelope(`{"amount": not a number}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := geminiServer(t, tt.status, tt.body)
			g := NewGemini(srv.URL, time.Second, zap.NewNop())

			_, err := g.Extract(context.Background(), "text", "test-key")

			var perr *ProviderError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, ProviderGemini, perr.Provider)
		})
	}
}

func TestGeminiExtractNetworkFailure(t *testing.T) {
	srv := geminiServer(t, http.StatusOK, "{}")
	srv.Close()

	g := NewGemini(srv.URL, time.Second, zap.NewNop())
	_, err := g.Extract(context.Background(), "text", "test-key")

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
}
