package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	catalogapp "github.com/clothstore/backend/internal/application/catalog"
)

var _ catalogapp.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage discards uploaded bytes and only remembers keys.
// It is used when no bucket is configured so the catalog stays usable in development.
type StubObjectStorage struct {
	BaseURL string

	mu   sync.Mutex
	keys map[string]struct{}
}

// NewStubObjectStorage creates a stub storage that serves URLs under baseURL
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "https://storage.example.com"
	}
	return &StubObjectStorage{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		keys:    make(map[string]struct{}),
	}
}

// Upload drains body and records key
func (s *StubObjectStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.keys[key] = struct{}{}
	s.mu.Unlock()
	return s.BaseURL + "/" + key, nil
}

// DeleteObject forgets key
func (s *StubObjectStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
	return nil
}

// KeyFromURL reverses the URLs returned by Upload
func (s *StubObjectStorage) KeyFromURL(rawURL string) (string, bool) {
	key, ok := strings.CutPrefix(rawURL, s.BaseURL+"/")
	return key, ok && key != ""
}

// Has reports whether key is currently stored
func (s *StubObjectStorage) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}
