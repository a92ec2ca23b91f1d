package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/SimonScharf/GoodWordsDictionary/internal/daily"
	"github.com/SimonScharf/GoodWordsDictionary/internal/dictionary"
	"github.com/SimonScharf/GoodWordsDictionary/internal/models"
)

type wordsResponse struct {
	Words []models.Word `json:"words"`
}

type addResponse struct {
	Message    string      `json:"message"`
	Word       models.Word `json:"word"`
	TotalWords int         `json:"totalWords"`
}

type todayResponse struct {
	Date string `json:"date"`
	models.Word
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, healthResponse{Status: "OK", Message: "Dictionary server is running"})
}

func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.words.ListWords(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Failed to read dictionary", err)
		return
	}
	if words == nil {
		words = []models.Word{}
	}
	s.writeJSON(w, r, http.StatusOK, wordsResponse{Words: words})
}

func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	editable, ok := s.words.(dictionary.Editable)
	if !ok {
		s.fail(w, r, http.StatusMethodNotAllowed, "Dictionary is read-only", dictionary.ErrReadOnly)
		return
	}

	var in models.Word
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&in); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Word and definition are required"})
		return
	}

	word, total, err := editable.Add(r.Context(), in)
	switch {
	case err == nil:
	case errors.Is(err, dictionary.ErrInvalidWord):
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Word and definition are required"})
		return
	case errors.Is(err, dictionary.ErrDuplicateWord):
		s.writeJSON(w, r, http.StatusConflict, errorResponse{Error: "Word already exists in dictionary"})
		return
	default:
		s.fail(w, r, http.StatusInternalServerError, "Failed to add word", err)
		return
	}

	s.logger.Info("word added", "term", word.Term, "total", total, "request_id", RequestID(r.Context()))
	s.writeJSON(w, r, http.StatusOK, addResponse{
		Message:    "Word added successfully",
		Word:       word,
		TotalWords: total,
	})
}

func (s *Server) handleRandomWord(w http.ResponseWriter, r *http.Request) {
	word, err := dictionary.Random(r.Context(), s.words)
	switch {
	case err == nil:
		s.writeJSON(w, r, http.StatusOK, word)
	case errors.Is(err, dictionary.ErrEmptyDictionary):
		s.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "Dictionary is empty"})
	default:
		s.fail(w, r, http.StatusInternalServerError, "Failed to get random word", err)
	}
}

func (s *Server) handleGetWord(w http.ResponseWriter, r *http.Request) {
	word, err := dictionary.Find(r.Context(), s.words, r.PathValue("term"))
	switch {
	case err == nil:
		s.writeJSON(w, r, http.StatusOK, word)
	case errors.Is(err, dictionary.ErrWordNotFound):
		s.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "Word not found"})
	default:
		s.fail(w, r, http.StatusInternalServerError, "Failed to read dictionary", err)
	}
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	date, word, err := s.engine.TodaysWord(r.Context())
	switch {
	case err == nil:
		s.writeJSON(w, r, http.StatusOK, todayResponse{Date: date, Word: word})
	case errors.Is(err, daily.ErrEmptyCatalogue):
		s.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "No words available"})
	default:
		s.fail(w, r, http.StatusInternalServerError, "Failed to select word of the day", err)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Stats(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ClearHistory(r.Context()); err != nil {
		s.fail(w, r, http.StatusServiceUnavailable, "Failed to clear history", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleKVGet(w http.ResponseWriter, r *http.Request) {
	value, found, err := s.kv.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Failed to read value", err)
		return
	}
	if !found {
		s.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "Key not found"})
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(value)
}

func (s *Server) handleKVPut(w http.ResponseWriter, r *http.Request) {
	value, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeJSON(w, r, http.StatusRequestEntityTooLarge, errorResponse{Error: "Value too large"})
		return
	}
	if err := s.kv.Set(r.Context(), r.PathValue("key"), value); err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Failed to write value", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleKVDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.kv.Remove(r.Context(), r.PathValue("key")); err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Failed to remove value", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail logs err and answers with a generic message
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	s.logger.Error(msg, "error", err, "path", r.URL.Path, "request_id", RequestID(r.Context()))
	s.writeJSON(w, r, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err, "request_id", RequestID(r.Context()))
	}
}
