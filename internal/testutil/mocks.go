package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/SimonScharf/GoodWordsDictionary/internal/models"
)

// ErrMockStorage is returned by FailingStore operations
var ErrMockStorage = errors.New("mock storage unavailable")

// StaticSource is an in-memory word source whose catalogue can be changed
// between calls
type StaticSource struct {
	mu    sync.Mutex
	words []models.Word
	Err   error
	Calls int
}

// NewStaticSource creates a word source serving words
func NewStaticSource(words []models.Word) *StaticSource {
	return &StaticSource{words: append([]models.Word(nil), words...)}
}

// ListWords returns a copy of the current catalogue
func (s *StaticSource) ListWords(ctx context.Context) ([]models.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]models.Word(nil), s.words...), nil
}

// SetWords replaces the catalogue
func (s *StaticSource) SetWords(words []models.Word) {
	s.mu.Lock()
	s.words = append([]models.Word(nil), words...)
	s.mu.Unlock()
}

// FailingStore is a history store whose operations can be made to fail
type FailingStore struct {
	mu         sync.Mutex
	data       map[string][]byte
	FailGet    bool
	FailSet    bool
	FailRemove bool
	Calls      []string
}

// NewFailingStore creates a store that fails every operation
func NewFailingStore() *FailingStore {
	return &FailingStore{
		data:       make(map[string][]byte),
		FailGet:    true,
		FailSet:    true,
		FailRemove: true,
	}
}

// Get mocks reading a key
func (s *FailingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, fmt.Sprintf("GET %s", key))
	if s.FailGet {
		return nil, false, ErrMockStorage
	}
	v, ok := s.data[key]
	return v, ok, nil
}

// Set mocks writing a key
func (s *FailingStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, fmt.Sprintf("SET %s (%d bytes)", key, len(value)))
	if s.FailSet {
		return ErrMockStorage
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Remove mocks deleting a key
func (s *FailingStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, fmt.Sprintf("REMOVE %s", key))
	if s.FailRemove {
		return ErrMockStorage
	}
	delete(s.data, key)
	return nil
}

// MockDefiner mocks a definition lookup service
type MockDefiner struct {
	mu          sync.Mutex
	ProviderID  string
	Definitions map[string]string
	Errors      map[string]error
	Calls       []string
}

// Define returns the canned definition for term
func (m *MockDefiner) Define(ctx context.Context, term string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, term)
	if err, ok := m.Errors[term]; ok {
		return "", err
	}
	if def, ok := m.Definitions[term]; ok {
		return def, nil
	}
	return "", fmt.Errorf("no mock definition for %s", term)
}

// Name returns the mock provider name
func (m *MockDefiner) Name() string {
	if m.ProviderID == "" {
		return "mock"
	}
	return m.ProviderID
}
