package cli

import (
	"os"
	"path/filepath"
)

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile        string
	DictionaryBase string
	DictionaryUser string
	DictionaryURL  string
	StoreBackend   string
	StorePath      string
	StoreURL       string
	Timezone       string
	LogLevel       string
	LogFormat      string

	// clear-history
	Archive bool

	// add
	NoAutoFetch bool

	// export
	DeckName  string
	NoHeaders bool

	// serve
	ServerAddr string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		StoreBackend: "sqlite",
		LogLevel:     "warn",
		LogFormat:    "text",
		DeckName:     "Good Words",
		ServerAddr:   ":3001",
	}
}

// StateDir is where goodwords keeps its dictionary, history and archives
// unless configured otherwise
func StateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "goodwords")
}
