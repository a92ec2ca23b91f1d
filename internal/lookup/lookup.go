package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/SimonScharf/GoodWordsDictionary/internal"
)

var (
	// ErrNoDefinition is returned when a provider knows no definition for a term
	ErrNoDefinition = errors.New("no definition found")
	// ErrNotConfigured is returned when no provider has an API key
	ErrNotConfigured = errors.New("no definition provider configured")
)

// Definer looks up a short definition for a term
type Definer interface {
	Define(ctx context.Context, term string) (string, error)
	Name() string
}

// Config holds the API keys of the definition providers. Providers without
// a key are left out of the chain.
type Config struct {
	MerriamWebsterKey string
	OpenAIKey         string
	OpenAIModel       string
	GeminiKey         string
	GeminiModel       string
}

// New builds the provider chain (Merriam-Webster, OpenAI, Gemini, in that
// order) behind a cache
func New(ctx context.Context, cfg Config) (Definer, error) {
	var definers []Definer

	if cfg.MerriamWebsterKey != "" {
		definers = append(definers, NewMerriamWebster(cfg.MerriamWebsterKey))
	}
	if cfg.OpenAIKey != "" {
		definers = append(definers, NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel))
	}
	if cfg.GeminiKey != "" {
		g, err := NewGemini(ctx, cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		definers = append(definers, g)
	}

	switch len(definers) {
	case 0:
		return nil, ErrNotConfigured
	case 1:
		return NewCache(definers[0]), nil
	default:
		return NewCache(NewFallback(definers...)), nil
	}
}

// Fallback tries definers in order and returns the first definition found
type Fallback struct {
	definers []Definer
}

// NewFallback creates a chain over definers
func NewFallback(definers ...Definer) *Fallback {
	return &Fallback{definers: definers}
}

// Define returns the first successful answer. When every provider fails the
// errors are joined; ErrNoDefinition is kept matchable when any provider
// reported it.
func (f *Fallback) Define(ctx context.Context, term string) (string, error) {
	if len(f.definers) == 0 {
		return "", ErrNotConfigured
	}

	var errs []error
	for _, d := range f.definers {
		def, err := d.Define(ctx, term)
		if err == nil {
			return def, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
	}
	return "", errors.Join(errs...)
}

// Name lists the chained providers
func (f *Fallback) Name() string {
	names := make([]string, 0, len(f.definers))
	for _, d := range f.definers {
		names = append(names, d.Name())
	}
	return strings.Join(names, " -> ")
}

// Cache memoizes definitions per case-insensitive term. Failures are not cached.
type Cache struct {
	definer     Definer
	mu          sync.RWMutex
	definitions map[string]string
}

// NewCache wraps definer with an in-memory cache
func NewCache(definer Definer) *Cache {
	return &Cache{
		definer:     definer,
		definitions: make(map[string]string),
	}
}

// Define answers from the cache or asks the wrapped definer
func (c *Cache) Define(ctx context.Context, term string) (string, error) {
	key := internal.NormalizeTerm(term)
	if def, ok := c.Get(key); ok {
		return def, nil
	}

	def, err := c.definer.Define(ctx, term)
	if err != nil {
		return "", err
	}
	c.Add(key, def)
	return def, nil
}

// Name returns the wrapped definer's name
func (c *Cache) Name() string {
	return c.definer.Name()
}

// Add stores a definition
func (c *Cache) Add(term, definition string) {
	c.mu.Lock()
	c.definitions[internal.NormalizeTerm(term)] = definition
	c.mu.Unlock()
}

// Get retrieves a cached definition
func (c *Cache) Get(term string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.definitions[internal.NormalizeTerm(term)]
	return def, ok
}
