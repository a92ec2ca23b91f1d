package dictionary

import (
	"context"
	"log/slog"

	"github.com/SimonScharf/GoodWordsDictionary/internal/logging"
	"github.com/SimonScharf/GoodWordsDictionary/internal/models"
)

// Fallback serves the catalogue from a primary source and falls back to a
// secondary one (usually the bundled file dictionary) when the primary fails
type Fallback struct {
	primary  Source
	fallback Source
	logger   *slog.Logger
}

// NewFallback creates a source that falls back to secondary if primary fails
func NewFallback(primary, fallback Source, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Fallback{primary: primary, fallback: fallback, logger: logger}
}

// ListWords tries the primary source first
func (f *Fallback) ListWords(ctx context.Context) ([]models.Word, error) {
	words, err := f.primary.ListWords(ctx)
	if err == nil {
		return words, nil
	}

	f.logger.Warn("primary word source failed, using fallback", "error", err)
	return f.fallback.ListWords(ctx)
}

// Add goes to the primary source when it accepts new words
func (f *Fallback) Add(ctx context.Context, w models.Word) (models.Word, int, error) {
	if editable, ok := f.primary.(Editable); ok {
		return editable.Add(ctx, w)
	}
	if editable, ok := f.fallback.(Editable); ok {
		return editable.Add(ctx, w)
	}
	return models.Word{}, 0, ErrReadOnly
}
