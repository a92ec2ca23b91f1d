package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []WordEntry
		wantErr     bool
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "words with definitions",
			fileContent: `candid = truthful and straightforward
brave = ready to face danger`,
			want: []WordEntry{
				{Term: "candid", Definition: "truthful and straightforward"},
				{Term: "brave", Definition: "ready to face danger"},
			},
		},
		{
			name: "mixed format",
			fileContent: `candid
brave = ready to face danger
serene`,
			want: []WordEntry{
				{Term: "candid", NeedsDefinition: true},
				{Term: "brave", Definition: "ready to face danger"},
				{Term: "serene", NeedsDefinition: true},
			},
		},
		{
			name: "empty lines and whitespace",
			fileContent: `
candid

  brave = ready to face danger  

`,
			want: []WordEntry{
				{Term: "candid", NeedsDefinition: true},
				{Term: "brave", Definition: "ready to face danger"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "candid\r\nbrave = bold\r\nserene",
			want: []WordEntry{
				{Term: "candid", NeedsDefinition: true},
				{Term: "brave", Definition: "bold"},
				{Term: "serene", NeedsDefinition: true},
			},
		},
		{
			name:        "multiple equals signs",
			fileContent: `equal = having the same value = as another`,
			want: []WordEntry{
				{Term: "equal", Definition: "having the same value = as another"},
			},
		},
		{
			name: "lines without a term are ignored",
			fileContent: `= orphan definition
candid`,
			want: []WordEntry{
				{Term: "candid", NeedsDefinition: true},
			},
		},
		{
			name:        "empty definition",
			fileContent: `candid =`,
			want: []WordEntry{
				{Term: "candid", NeedsDefinition: true},
			},
		},
		{
			name: "comments",
			fileContent: `# vocabulary for week 3
candid`,
			want: []WordEntry{
				{Term: "candid", NeedsDefinition: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp file
			tmpDir := t.TempDir()
			tmpFile := filepath.Join(tmpDir, "test.txt")
			err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644)
			if err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, err := ReadBatchFile(tmpFile)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadBatchFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile_FileNotFound(t *testing.T) {
	_, err := ReadBatchFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestParseBatch_KeepsTermCase(t *testing.T) {
	got, err := ParseBatch([]byte("Candid = Truthful"))
	if err != nil {
		t.Fatalf("ParseBatch() error = %v", err)
	}
	want := []WordEntry{{Term: "Candid", Definition: "Truthful"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseBatch() = %v, want %v", got, want)
	}
}
