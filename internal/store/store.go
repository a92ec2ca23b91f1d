package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name
var ErrUnknownBackend = errors.New("unknown store backend")

// Store is a key-value store for opaque values
type Store interface {
	// Get returns the value for key; found is false when the key is absent
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases the store's resources
	Close() error
}

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRemote = "remote"
)

// Config selects and configures a store backend
type Config struct {
	Backend string        // memory, file, sqlite or remote
	Path    string        // directory (file) or database path (sqlite)
	URL     string        // base URL of the REST service (remote)
	Timeout time.Duration // request timeout (remote)
}

// NormalizeBackend returns the canonical spelling of a backend name
func NormalizeBackend(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Open creates the store described by cfg
func Open(cfg Config) (Store, error) {
	switch NormalizeBackend(cfg.Backend) {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendFile:
		return NewFile(cfg.Path)
	case BackendSQLite:
		return NewSQLite(cfg.Path)
	case BackendRemote:
		return NewRemote(cfg.URL, cfg.Timeout)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
