package batch

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// WordEntry is one line of a batch file
type WordEntry struct {
	Term       string
	Definition string
	// NeedsDefinition is set when the line carried only the term
	NeedsDefinition bool
}

// ReadBatchFile reads words from a file and returns WordEntry slice
// Supports formats:
// - Term only: "candid" (definition will be looked up)
// - With definition: "candid = truthful and straightforward"
// Lines without a term ("= something") and blank lines are ignored.
func ReadBatchFile(filename string) ([]WordEntry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseBatch(content)
}

// ParseBatch parses batch file content
func ParseBatch(content []byte) ([]WordEntry, error) {
	var entries []WordEntry

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		term, definition, found := strings.Cut(line, "=")
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		definition = strings.TrimSpace(definition)

		entries = append(entries, WordEntry{
			Term:            term,
			Definition:      definition,
			NeedsDefinition: !found || definition == "",
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}

	return entries, nil
}
