package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SimonScharf/GoodWordsDictionary/internal/models"
)

// SampleWords returns the two-word catalogue used across tests
func SampleWords() []models.Word {
	return []models.Word{
		{Term: "apple", Definition: "a fruit"},
		{Term: "brave", Definition: "courageous"},
	}
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateTestDictionary writes words as a dictionary file ({"words": [...]})
// into dir and returns its path
func CreateTestDictionary(t *testing.T, dir, name string, words []models.Word) string {
	t.Helper()

	data, err := json.MarshalIndent(struct {
		Words []models.Word `json:"words"`
	}{Words: words}, "", "  ")
	if err != nil {
		t.Fatalf("Failed to encode dictionary: %v", err)
	}

	path := filepath.Join(dir, name)
	CreateTestFile(t, path, data)
	return path
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// Clock is a settable time source for engine tests
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock fixed at noon UTC on the given YYYY-MM-DD date
func NewClock(t *testing.T, date string) *Clock {
	t.Helper()

	c := &Clock{}
	c.SetDate(t, date)
	return c
}

// Now returns the clock's current time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// SetDate moves the clock to noon UTC on date
func (c *Clock) SetDate(t *testing.T, date string) {
	t.Helper()

	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("Invalid test date %q: %v", date, err)
	}

	c.mu.Lock()
	c.now = d.Add(12 * time.Hour)
	c.mu.Unlock()
}

// AddDays advances the clock by n calendar days
func (c *Clock) AddDays(n int) {
	c.mu.Lock()
	c.now = c.now.AddDate(0, 0, n)
	c.mu.Unlock()
}
