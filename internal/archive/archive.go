package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SaveHistory writes a snapshot of the history log into dir/archive and
// returns the path of the snapshot
func SaveHistory(dir string, data []byte) (string, error) {
	return saveHistory(dir, data, time.Now)
}

func saveHistory(dir string, data []byte, now func() time.Time) (string, error) {
	archiveDir := filepath.Join(dir, "archive")

	// Create archive directory if it doesn't exist
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ts := now()
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("history-%s.json", ts.Format("20060102-150405")))

	// Check if archive already exists (two clears within one second)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("history-%s.json", ts.Format("20060102-150405.000000")))
	}

	f, err := os.OpenFile(archivePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}

	return archivePath, nil
}
