package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func groqServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func completionBody(content string) string {
	msg := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	raw, _ := json.Marshal(msg)
	return string(raw)
}

func TestGroqExtract(t *testing.T) {
	srv := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultGroqModel, req["model"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(`{"iban":"HR1210010051863000160","amount":75.25}`)))
	})

	g := NewGroq(srv.URL, "", time.Second, zap.NewNop())
	fields, err := g.Extract(context.Background(), "invoice text", "test-key")

	require.NoError(t, err)
	assert.Equal(t, "HR1210010051863000160", fields.IBAN)
	assert.Equal(t, 75.25, fields.Amount)
}

func TestGroqExtractHTTPError(t *testing.T) {
	srv := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	})

	g := NewGroq(srv.URL, "", time.Second, zap.NewNop())
	_, err := g.Extract(context.Background(), "text", "test-key")

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ProviderGroq, perr.Provider)
}

func TestGroqExtractEmptyChoices(t *testing.T) {
	srv := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	})

	g := NewGroq(srv.URL, "", time.Second, zap.NewNop())
	_, err := g.Extract(context.Background(), "text", "test-key")

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
}

func TestGroqExtractProseResponse(t *testing.T) {
	srv := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("I could not find any payment data.")))
	})

	g := NewGroq(srv.URL, "", time.Second, zap.NewNop())
	_, err := g.Extract(context.Background(), "text", "test-key")

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
}

func TestDecodeFields(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"bare object", `{"amount":1}`, false},
		{"leading BOM and whitespace", "\uFEFF  {\"amount\":1}", false},
		{"code fence", "```json\n{\"amount\":1}\n```", false},
		{"surrounding prose", `Here you go: {"amount":1} hope it helps`, false},
		{"no object", "nothing here", true},
		{"broken object", `{"amount":}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := decodeFields(ProviderGroq, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1.0, fields.Amount)
		})
	}
}
