package settings_test

import (
	"path/filepath"
	"testing"

	"github.com/ikrajcar/uplatko/internal/llm"
	"github.com/ikrajcar/uplatko/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *settings.Store {
	t.Helper()
	s, err := settings.Open(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProviderDefaultsToNone(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, llm.ProviderNone, s.Provider())
}

func TestSetProviderRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetProvider(llm.ProviderGemini))
	assert.Equal(t, llm.ProviderGemini, s.Provider())

	require.NoError(t, s.SetProvider(llm.ProviderNone))
	assert.Equal(t, llm.ProviderNone, s.Provider())
}

func TestSetProviderRejectsUnknown(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.SetProvider("copilot"))
}

func TestAPIKeyRoundTrip(t *testing.T) {
	s := newTestStore(t)

	assert.Empty(t, s.APIKey(llm.ProviderGroq))
	assert.False(t, s.HasAPIKey(llm.ProviderGroq))

	require.NoError(t, s.SetAPIKey(llm.ProviderGroq, "gsk_test"))
	assert.Equal(t, "gsk_test", s.APIKey(llm.ProviderGroq))
	assert.True(t, s.HasAPIKey(llm.ProviderGroq))

	require.NoError(t, s.ClearAPIKey(llm.ProviderGroq))
	assert.Empty(t, s.APIKey(llm.ProviderGroq))
}

func TestClearAPIKeyIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ClearAPIKey(llm.ProviderGemini))
	require.NoError(t, s.ClearAPIKey(llm.ProviderGemini))
}

func TestAPIKeyEnvOverride(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetAPIKey(llm.ProviderGemini, "stored-key"))

	t.Setenv("GEMINI_API_KEY", "env-key")
	assert.Equal(t, "env-key", s.APIKey(llm.ProviderGemini))

	t.Setenv("GEMINI_API_KEY", "")
	assert.Equal(t, "stored-key", s.APIKey(llm.ProviderGemini))
}

func TestReadsAfterCloseReturnDefaults(t *testing.T) {
	s, err := settings.Open(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	require.NoError(t, s.SetProvider(llm.ProviderGroq))
	require.NoError(t, s.Close())

	assert.Equal(t, llm.ProviderNone, s.Provider())
	assert.Empty(t, s.APIKey(llm.ProviderGroq))
}

func TestKeysAreScopedPerProvider(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetAPIKey(llm.ProviderGemini, "gem"))

	assert.Empty(t, s.APIKey(llm.ProviderGroq))
	assert.Equal(t, "gem", s.APIKey(llm.ProviderGemini))
}
