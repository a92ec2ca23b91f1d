package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestDefaultGeneratorOptions(t *testing.T) {
	opts := DefaultGeneratorOptions()

	if opts.OutputPath != "goodwords.csv" {
		t.Errorf("Expected output path 'goodwords.csv', got '%s'", opts.OutputPath)
	}
	if !opts.IncludeHeaders {
		t.Error("Expected IncludeHeaders to be true")
	}
	if opts.DeckName != "Good Words" {
		t.Errorf("Expected deck name 'Good Words', got '%s'", opts.DeckName)
	}
}

func TestNewGenerator(t *testing.T) {
	gen := NewGenerator(nil)
	if gen == nil {
		t.Fatal("NewGenerator returned nil")
	}
	if gen.options == nil {
		t.Error("Generator options should not be nil")
	}

	gen = NewGenerator(&GeneratorOptions{OutputPath: "custom.csv"})
	if gen.options.OutputPath != "custom.csv" {
		t.Errorf("Expected custom output path, got '%s'", gen.options.OutputPath)
	}
}

func TestAddCardAndStats(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddCard(Card{Term: "apple", Definition: "a fruit"})
	gen.AddCard(Card{Term: "brave", Definition: "fearless", Notes: "word of the day 2024-01-01"})

	if len(gen.GetCards()) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(gen.GetCards()))
	}
	total, withNotes := gen.Stats()
	if total != 2 || withNotes != 1 {
		t.Errorf("Stats() = %d, %d, want 2, 1", total, withNotes)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	return records
}

func TestGenerateCSV(t *testing.T) {
	tests := []struct {
		name           string
		includeHeaders bool
		wantRows       int
	}{
		{"with headers", true, 3},
		{"without headers", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "words.csv")
			gen := NewGenerator(&GeneratorOptions{OutputPath: out, IncludeHeaders: tt.includeHeaders})
			gen.AddCard(Card{Term: "apple", Definition: "a fruit, usually red"})
			gen.AddCard(Card{Term: "brave", Definition: `said "yes"`, Notes: "word of the day 2024-01-01"})

			if err := gen.GenerateCSV(); err != nil {
				t.Fatalf("GenerateCSV failed: %v", err)
			}

			records := readCSV(t, out)
			if len(records) != tt.wantRows {
				t.Fatalf("Expected %d rows, got %d", tt.wantRows, len(records))
			}
			if tt.includeHeaders && strings.Join(records[0], ",") != "Word,Definition,Notes" {
				t.Errorf("Unexpected headers: %v", records[0])
			}

			last := records[len(records)-1]
			if last[0] != "brave" || last[1] != `said "yes"` || last[2] != "word of the day 2024-01-01" {
				t.Errorf("Unexpected record: %v", last)
			}
		})
	}
}

func TestGenerateCSV_InvalidPath(t *testing.T) {
	gen := NewGenerator(&GeneratorOptions{OutputPath: filepath.Join(t.TempDir(), "missing", "out.csv")})
	if err := gen.GenerateCSV(); err == nil {
		t.Error("Expected error for invalid output path")
	}
}

func TestGenerate_PicksFormatByExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "words.csv")
	gen := NewGenerator(&GeneratorOptions{OutputPath: csvPath})
	gen.AddCard(Card{Term: "apple", Definition: "a fruit"})
	if err := gen.Generate(); err != nil {
		t.Fatalf("Generate(csv) failed: %v", err)
	}
	if records := readCSV(t, csvPath); len(records) != 1 {
		t.Errorf("Expected 1 CSV row, got %d", len(records))
	}

	apkgPath := filepath.Join(dir, "words.APKG")
	gen = NewGenerator(&GeneratorOptions{OutputPath: apkgPath, DeckName: "Test"})
	gen.AddCard(Card{Term: "apple", Definition: "a fruit"})
	if err := gen.Generate(); err != nil {
		t.Fatalf("Generate(apkg) failed: %v", err)
	}
	if _, err := zip.OpenReader(apkgPath); err != nil {
		t.Errorf("Expected a zip package: %v", err)
	}
}

func TestGenerateAPKG(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "deck.apkg")

	gen := NewGenerator(nil)
	gen.AddCard(Card{Term: "apple", Definition: "a fruit"})
	gen.AddCard(Card{Term: "brave", Definition: "fearless", Notes: "word of the day 2024-01-01"})
	if err := gen.GenerateAPKG(out, "Good Words"); err != nil {
		t.Fatalf("GenerateAPKG failed: %v", err)
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("Failed to open package: %v", err)
	}
	defer zr.Close()

	names := map[string]*zip.File{}
	for _, f := range zr.File {
		names[f.Name] = f
	}
	if _, ok := names["media"]; !ok {
		t.Error("Package is missing the media map")
	}
	col, ok := names["collection.anki2"]
	if !ok {
		t.Fatal("Package is missing collection.anki2")
	}

	// Extract the collection and inspect it
	dbPath := filepath.Join(dir, "collection.anki2")
	rc, err := col.Open()
	if err != nil {
		t.Fatalf("Failed to open collection: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("Failed to read collection: %v", err)
	}
	if err := os.WriteFile(dbPath, data, 0644); err != nil {
		t.Fatalf("Failed to write collection: %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var notes, cards int
	if err := db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&notes); err != nil {
		t.Fatalf("Failed to count notes: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&cards); err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if notes != 2 || cards != 4 {
		t.Errorf("Expected 2 notes and 4 cards, got %d and %d", notes, cards)
	}

	var flds string
	if err := db.QueryRow(`SELECT flds FROM notes WHERE sfld = 'brave'`).Scan(&flds); err != nil {
		t.Fatalf("Failed to read note: %v", err)
	}
	if want := "brave\x1ffearless\x1fword of the day 2024-01-01"; flds != want {
		t.Errorf("flds = %q, want %q", flds, want)
	}

	var decks string
	if err := db.QueryRow(`SELECT decks FROM col`).Scan(&decks); err != nil {
		t.Fatalf("Failed to read collection: %v", err)
	}
	if !strings.Contains(decks, `"name":"Good Words"`) {
		t.Errorf("Deck name missing from collection: %s", decks)
	}
}

func TestChecksum(t *testing.T) {
	// sha1("apple") = d0be2dc421be4fcd0172e5afceea3970e2f3d940
	if got, want := checksum("apple"), int64(0xd0be2dc4); got != want {
		t.Errorf("checksum(apple) = %d, want %d", got, want)
	}
}
