package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/SimonScharf/GoodWordsDictionary/internal/models"
)

// document is the on-disk dictionary format
type document struct {
	Words []models.Word `json:"words"`
}

// File is a dictionary backed by JSON files: a base dictionary and an
// optional file of user-added words. Files are read on every call so
// additions made by other processes are picked up.
type File struct {
	basePath string
	userPath string
	mu       sync.Mutex
}

// NewFile creates a file dictionary. When userPath is empty new words are
// appended to the base file.
func NewFile(basePath, userPath string) *File {
	return &File{basePath: basePath, userPath: userPath}
}

// ListWords returns base words followed by user words, de-duplicated by
// case-insensitive term. A missing user file counts as empty.
func (f *File) ListWords(ctx context.Context) ([]models.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.listLocked()
}

func (f *File) listLocked() ([]models.Word, error) {
	base, err := readDocument(f.basePath, false)
	if err != nil {
		return nil, err
	}
	if f.userPath == "" {
		return models.Merge(base.Words), nil
	}

	user, err := readDocument(f.userPath, true)
	if err != nil {
		return nil, err
	}
	return models.Merge(base.Words, user.Words), nil
}

// Add normalizes w and appends it to the user file (or the base file when
// no user file is configured)
func (f *File) Add(ctx context.Context, w models.Word) (models.Word, int, error) {
	if err := ctx.Err(); err != nil {
		return models.Word{}, 0, err
	}

	word, err := Normalize(w)
	if err != nil {
		return models.Word{}, 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	existing, err := f.listLocked()
	if err != nil {
		return models.Word{}, 0, err
	}
	for _, e := range existing {
		if e.Key() == word.Key() {
			return models.Word{}, 0, fmt.Errorf("%w: %s", ErrDuplicateWord, word.Term)
		}
	}

	target := f.userPath
	if target == "" {
		target = f.basePath
	}
	doc, err := readDocument(target, true)
	if err != nil {
		return models.Word{}, 0, err
	}
	doc.Words = append(doc.Words, word)
	if err := writeDocument(target, doc); err != nil {
		return models.Word{}, 0, err
	}

	return word, len(existing) + 1, nil
}

func readDocument(path string, missingOK bool) (document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if missingOK && os.IsNotExist(err) {
			return document{}, nil
		}
		return document{}, fmt.Errorf("failed to read dictionary: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("failed to parse dictionary %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// writeDocument replaces path atomically
func writeDocument(path string, doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dictionary: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create dictionary directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".dictionary-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace dictionary: %w", err)
	}
	return nil
}
