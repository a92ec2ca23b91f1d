package internal

import (
	"testing"
	"time"
)

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apple", "apple"},
		{"  Brave ", "brave"},
		{"ЯБЪЛКА", "ябълка"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeTerm(tt.in); got != tt.want {
			t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDateKey(t *testing.T) {
	// 23:30 UTC on Dec 31 is already Jan 1 in Berlin
	ts := time.Date(2023, 12, 31, 23, 30, 0, 0, time.UTC)

	if got := DateKey(ts, nil); got != "2023-12-31" {
		t.Errorf("DateKey(nil loc) = %s, want 2023-12-31", got)
	}

	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}
	if got := DateKey(ts, berlin); got != "2024-01-01" {
		t.Errorf("DateKey(Berlin) = %s, want 2024-01-01", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"wordHistory", "wordHistory"},
		{"word history", "word_history"},
		{"../etc/passwd", "___etc_passwd"},
		{"ябълка-1", "ябълка-1"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
