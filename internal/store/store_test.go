package store

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "wordHistory")
	require.NoError(t, err)
	assert.False(t, found, "fresh store should not contain key")

	require.NoError(t, s.Set(ctx, "wordHistory", []byte(`[{"date":"2024-01-01"}]`)))
	got, found, err := s.Get(ctx, "wordHistory")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[{"date":"2024-01-01"}]`, string(got))

	require.NoError(t, s.Set(ctx, "wordHistory", []byte(`[]`)))
	got, _, err = s.Get(ctx, "wordHistory")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got), "Set should replace the previous value")

	require.NoError(t, s.Set(ctx, "other", []byte("x")))
	require.NoError(t, s.Remove(ctx, "wordHistory"))
	_, found, err = s.Get(ctx, "wordHistory")
	require.NoError(t, err)
	assert.False(t, found, "removed key should be gone")

	_, found, err = s.Get(ctx, "other")
	require.NoError(t, err)
	assert.True(t, found, "Remove should not touch other keys")

	assert.NoError(t, s.Remove(ctx, "never-set"), "removing an absent key is not an error")
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'z'

	got, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemory()
	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Set(ctx, "k", nil), context.Canceled)
}

func TestFile(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "history"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "wordHistory", []byte("persisted")))

	second, err := NewFile(dir)
	require.NoError(t, err)
	got, found, err := second.Get(ctx, "wordHistory")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "persisted", string(got))
}

func TestFile_KeyIsSanitized(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "../escape", []byte("x")))

	assert.FileExists(t, filepath.Join(dir, "___escape.json"))
}

func TestNewFile_RequiresDir(t *testing.T) {
	_, err := NewFile("")
	assert.Error(t, err)
}

func TestSQLite(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "db", "goodwords.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLite_InMemory(t *testing.T) {
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLite_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "goodwords.db")

	first, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "wordHistory", []byte("persisted")))
	require.NoError(t, first.Close())

	second, err := NewSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	got, found, err := second.Get(ctx, "wordHistory")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "persisted", string(got))
}

// kvHandler serves /api/kv/{key} from a Memory store
func kvHandler(m *Memory) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kv/{key}", func(w http.ResponseWriter, r *http.Request) {
		v, ok, _ := m.Get(r.Context(), r.PathValue("key"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(v)
	})
	mux.HandleFunc("PUT /api/kv/{key}", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		m.Set(r.Context(), r.PathValue("key"), body)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /api/kv/{key}", func(w http.ResponseWriter, r *http.Request) {
		m.Remove(r.Context(), r.PathValue("key"))
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func TestRemote(t *testing.T) {
	srv := httptest.NewServer(kvHandler(NewMemory()))
	defer srv.Close()

	s, err := NewRemote(srv.URL+"/", 0)
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestRemote_ServerErrorTripsBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s, err := NewRemote(srv.URL, 0)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < breakerFailures; i++ {
		_, _, err := s.Get(ctx, "wordHistory")
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "status 500"), "unexpected error: %v", err)
	}

	_, _, err = s.Get(ctx, "wordHistory")
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState), "expected open breaker, got %v", err)
	assert.EqualValues(t, breakerFailures, calls.Load(), "open breaker should not reach the server")
}

func TestNewRemote_InvalidURL(t *testing.T) {
	_, err := NewRemote("", 0)
	assert.Error(t, err)

	_, err = NewRemote("not a url", 0)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		want    interface{}
		wantErr error
	}{
		{"default is memory", Config{}, &Memory{}, nil},
		{"memory", Config{Backend: "memory"}, &Memory{}, nil},
		{"file", Config{Backend: "file", Path: filepath.Join(dir, "files")}, &File{}, nil},
		{"sqlite", Config{Backend: "SQLite", Path: filepath.Join(dir, "kv.db")}, &SQLite{}, nil},
		{"remote", Config{Backend: "remote", URL: "http://localhost:3001"}, &Remote{}, nil},
		{"unknown", Config{Backend: "redis"}, nil, ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.IsType(t, tt.want, s)
		})
	}
}
