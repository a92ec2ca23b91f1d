package dictionary

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/SimonScharf/GoodWordsDictionary/internal/models"
	"github.com/SimonScharf/GoodWordsDictionary/internal/testutil"
)

func newTestDictionary(t *testing.T) (*File, string, string) {
	t.Helper()

	dir := t.TempDir()
	base := testutil.CreateTestDictionary(t, dir, "dictionary.json", testutil.SampleWords())
	user := filepath.Join(dir, "user", "words.json")
	return NewFile(base, user), base, user
}

func TestFile_ListWords(t *testing.T) {
	dir := t.TempDir()
	base := testutil.CreateTestDictionary(t, dir, "dictionary.json", []models.Word{
		{Term: "apple", Definition: "a fruit"},
		{Term: "Apple", Definition: "duplicate"},
		{Term: "brave", Definition: "courageous"},
	})
	user := testutil.CreateTestDictionary(t, dir, "user.json", []models.Word{
		{Term: "BRAVE", Definition: "user duplicate"},
		{Term: "candid", Definition: "frank"},
	})

	got, err := NewFile(base, user).ListWords(context.Background())
	if err != nil {
		t.Fatalf("ListWords failed: %v", err)
	}

	want := []models.Word{
		{Term: "apple", Definition: "a fruit"},
		{Term: "brave", Definition: "courageous"},
		{Term: "candid", Definition: "frank"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListWords() = %v, want %v", got, want)
	}
}

func TestFile_ListWords_MissingUserFile(t *testing.T) {
	d, _, _ := newTestDictionary(t)

	got, err := d.ListWords(context.Background())
	if err != nil {
		t.Fatalf("ListWords failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 base words, got %d", len(got))
	}
}

func TestFile_ListWords_MissingBaseFile(t *testing.T) {
	d := NewFile(filepath.Join(t.TempDir(), "missing.json"), "")

	if _, err := d.ListWords(context.Background()); err == nil {
		t.Error("Expected error for missing base dictionary")
	}
}

func TestFile_ListWords_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	testutil.CreateTestFile(t, path, []byte("{words"))

	if _, err := NewFile(path, "").ListWords(context.Background()); err == nil {
		t.Error("Expected error for invalid dictionary JSON")
	}
}

func TestFile_Add(t *testing.T) {
	d, _, user := newTestDictionary(t)
	ctx := context.Background()

	word, total, err := d.Add(ctx, models.Word{Term: "  Candid ", Definition: " frank and honest "})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	want := models.Word{Term: "candid", Definition: "frank and honest"}
	if word != want {
		t.Errorf("Add() word = %v, want %v", word, want)
	}
	if total != 3 {
		t.Errorf("Add() total = %d, want 3", total)
	}

	testutil.AssertFileExists(t, user)
	testutil.AssertFileContains(t, user, `"word": "candid"`)

	words, err := d.ListWords(ctx)
	if err != nil {
		t.Fatalf("ListWords failed: %v", err)
	}
	if len(words) != 3 || words[2] != want {
		t.Errorf("Added word not listed last: %v", words)
	}
}

func TestFile_Add_WithoutUserFile(t *testing.T) {
	dir := t.TempDir()
	base := testutil.CreateTestDictionary(t, dir, "dictionary.json", testutil.SampleWords())
	d := NewFile(base, "")

	if _, _, err := d.Add(context.Background(), models.Word{Term: "candid", Definition: "frank"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	testutil.AssertFileContains(t, base, `"word": "candid"`)
}

func TestFile_Add_Errors(t *testing.T) {
	tests := []struct {
		name    string
		word    models.Word
		wantErr error
	}{
		{"duplicate base word", models.Word{Term: "apple", Definition: "x"}, ErrDuplicateWord},
		{"duplicate ignoring case", models.Word{Term: "BRAVE", Definition: "x"}, ErrDuplicateWord},
		{"empty term", models.Word{Term: "  ", Definition: "x"}, ErrInvalidWord},
		{"empty definition", models.Word{Term: "candid", Definition: " "}, ErrInvalidWord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, user := newTestDictionary(t)

			_, _, err := d.Add(context.Background(), tt.word)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() error = %v, want %v", err, tt.wantErr)
			}
			testutil.AssertFileNotExists(t, user)
		})
	}
}

func TestFile_Add_DuplicateOfUserWord(t *testing.T) {
	d, _, _ := newTestDictionary(t)
	ctx := context.Background()

	if _, _, err := d.Add(ctx, models.Word{Term: "candid", Definition: "frank"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, _, err := d.Add(ctx, models.Word{Term: "Candid", Definition: "again"}); !errors.Is(err, ErrDuplicateWord) {
		t.Errorf("Expected ErrDuplicateWord, got %v", err)
	}
}

func TestFile_Add_Concurrent(t *testing.T) {
	d, _, _ := newTestDictionary(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, _, err := d.Add(ctx, models.Word{Term: fmt.Sprintf("word%d", i), Definition: "def"}); err != nil {
				t.Errorf("Add(word%d) failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	words, err := d.ListWords(ctx)
	if err != nil {
		t.Fatalf("ListWords failed: %v", err)
	}
	if len(words) != 22 {
		t.Errorf("Expected 22 words after concurrent adds, got %d", len(words))
	}
}

func TestFind(t *testing.T) {
	d, _, _ := newTestDictionary(t)
	ctx := context.Background()

	w, err := Find(ctx, d, " APPLE")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if w.Definition != "a fruit" {
		t.Errorf("Find() = %v", w)
	}

	if _, err := Find(ctx, d, "zebra"); !errors.Is(err, ErrWordNotFound) {
		t.Errorf("Expected ErrWordNotFound, got %v", err)
	}
}

func TestRandom(t *testing.T) {
	ctx := context.Background()
	src := testutil.NewStaticSource(testutil.SampleWords())

	for i := 0; i < 10; i++ {
		w, err := Random(ctx, src)
		if err != nil {
			t.Fatalf("Random failed: %v", err)
		}
		if w.Term != "apple" && w.Term != "brave" {
			t.Errorf("Random() returned unknown word %v", w)
		}
	}

	if _, err := Random(ctx, testutil.NewStaticSource(nil)); !errors.Is(err, ErrEmptyDictionary) {
		t.Errorf("Expected ErrEmptyDictionary, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(models.Word{Term: " Zeal ", Definition: " great energy\n"})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got.Term != "zeal" || got.Definition != "great energy" {
		t.Errorf("Normalize() = %v", got)
	}
}
