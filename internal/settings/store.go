// Package settings persists the user's extraction provider selection and API
// keys in an embedded BoltDB file. A single-user desktop tool needs no
// database process; one file under the user's data directory is enough.
package settings

import (
	"fmt"
	"os"
	"strings"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/ikrajcar/uplatko/internal/llm"
)

const bucketName = "settings"

const providerKey = "provider"

// Store wraps a BoltDB database holding provider selection and credentials.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the settings database at the given path and
// ensures the settings bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// Provider returns the selected extraction provider, defaulting to "none"
// when nothing has been stored yet.
func (s *Store) Provider() string {
	value := s.get(providerKey)
	if value == llm.ProviderGemini || value == llm.ProviderGroq {
		return value
	}
	return llm.ProviderNone
}

// SetProvider stores the provider selection.
func (s *Store) SetProvider(provider string) error {
	switch provider {
	case llm.ProviderNone, llm.ProviderGemini, llm.ProviderGroq:
	default:
		return fmt.Errorf("unknown provider: %s", provider)
	}
	return s.put(providerKey, provider)
}

// APIKey returns the credential for a provider. Environment variables
// (GEMINI_API_KEY, GROQ_API_KEY) take precedence over stored keys so the
// store never has to hold a secret the user prefers to keep in the shell.
// An empty result means no credential is available.
func (s *Store) APIKey(provider string) string {
	if env := os.Getenv(strings.ToUpper(provider) + "_API_KEY"); env != "" {
		return env
	}
	return s.get(apiKeyKey(provider))
}

// SetAPIKey stores the credential for a provider.
func (s *Store) SetAPIKey(provider, key string) error {
	return s.put(apiKeyKey(provider), key)
}

// ClearAPIKey removes the stored credential for a provider. Clearing a key
// that was never stored is a no-op.
func (s *Store) ClearAPIKey(provider string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(apiKeyKey(provider)))
	})
}

// HasAPIKey reports whether a credential is stored in the database itself,
// ignoring environment overrides. Used to mask keys in the settings API.
func (s *Store) HasAPIKey(provider string) bool {
	return s.get(apiKeyKey(provider)) != ""
}

func apiKeyKey(provider string) string {
	return "api_key:" + provider
}

func (s *Store) get(key string) string {
	var value string
	// View only returns the closure's error, which is nil here; a read
	// against a closed database simply yields the empty value.
	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketName)).Get([]byte(key)); v != nil {
			value = string(v)
		}
		return nil
	})
	return value
}

func (s *Store) put(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), []byte(value))
	})
}
