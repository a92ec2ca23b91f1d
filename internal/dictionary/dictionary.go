package dictionary

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/SimonScharf/GoodWordsDictionary/internal"
	"github.com/SimonScharf/GoodWordsDictionary/internal/models"
)

var (
	// ErrDuplicateWord is returned when adding a term that already exists
	ErrDuplicateWord = errors.New("word already exists in dictionary")
	// ErrInvalidWord is returned when a word or its definition is missing
	ErrInvalidWord = errors.New("word and definition are required")
	// ErrWordNotFound is returned by lookups for unknown terms
	ErrWordNotFound = errors.New("word not found")
	// ErrEmptyDictionary is returned when a random word is requested from an empty catalogue
	ErrEmptyDictionary = errors.New("dictionary is empty")
	// ErrReadOnly is returned when no configured source accepts new words
	ErrReadOnly = errors.New("word source is read-only")
)

// Source supplies the merged catalogue
type Source interface {
	ListWords(ctx context.Context) ([]models.Word, error)
}

// Editable is a Source that accepts new words
type Editable interface {
	Source
	// Add stores w and returns the stored form and the new catalogue size
	Add(ctx context.Context, w models.Word) (models.Word, int, error)
}

// Normalize trims a new entry and lowercases its term, the form words are
// stored in. It fails with ErrInvalidWord when either field is blank.
func Normalize(w models.Word) (models.Word, error) {
	out := models.Word{
		Term:       internal.NormalizeTerm(w.Term),
		Definition: strings.TrimSpace(w.Definition),
	}
	if out.Term == "" || out.Definition == "" {
		return models.Word{}, ErrInvalidWord
	}
	return out, nil
}

// Find returns the word whose term matches case-insensitively
func Find(ctx context.Context, src Source, term string) (models.Word, error) {
	words, err := src.ListWords(ctx)
	if err != nil {
		return models.Word{}, err
	}
	key := internal.NormalizeTerm(term)
	for _, w := range words {
		if w.Key() == key {
			return w, nil
		}
	}
	return models.Word{}, ErrWordNotFound
}

// Random returns a uniformly chosen word of the catalogue
func Random(ctx context.Context, src Source) (models.Word, error) {
	words, err := src.ListWords(ctx)
	if err != nil {
		return models.Word{}, err
	}
	if len(words) == 0 {
		return models.Word{}, ErrEmptyDictionary
	}
	return words[rand.IntN(len(words))], nil
}
