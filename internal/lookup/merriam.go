package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const (
	merriamWebsterURL     = "https://www.dictionaryapi.com/api/v3/references/thesaurus/json/"
	merriamWebsterTimeout = 15 * time.Second
)

// MerriamWebster looks terms up in the Merriam-Webster thesaurus API
type MerriamWebster struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// mwEntry is the part of a thesaurus entry we use
type mwEntry struct {
	Shortdef []string `json:"shortdef"`
}

// NewMerriamWebster creates a thesaurus client
func NewMerriamWebster(apiKey string) *MerriamWebster {
	return &MerriamWebster{
		apiKey:     apiKey,
		baseURL:    merriamWebsterURL,
		httpClient: &http.Client{Timeout: merriamWebsterTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "merriam-webster",
			Timeout: time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// An unknown word is an answer, not an outage
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNoDefinition)
			},
		}),
	}
}

// Name returns the provider name
func (m *MerriamWebster) Name() string { return "merriam-webster" }

// Define returns the first short definition of the first thesaurus entry
func (m *MerriamWebster) Define(ctx context.Context, term string) (string, error) {
	if m.apiKey == "" {
		return "", fmt.Errorf("Merriam-Webster API key not configured")
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return "", ErrNoDefinition
	}

	out, err := m.breaker.Execute(func() (interface{}, error) {
		return m.fetch(ctx, term)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (m *MerriamWebster) fetch(ctx context.Context, term string) (string, error) {
	params := url.Values{}
	params.Set("key", m.apiKey)
	reqURL := m.baseURL + url.PathEscape(term) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Merriam-Webster request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("Merriam-Webster API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var entries []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(entries) == 0 {
		return "", ErrNoDefinition
	}

	// Unknown words come back as a list of spelling suggestions (plain strings)
	var entry mwEntry
	if err := json.Unmarshal(entries[0], &entry); err != nil {
		return "", ErrNoDefinition
	}
	if len(entry.Shortdef) == 0 || strings.TrimSpace(entry.Shortdef[0]) == "" {
		return "", ErrNoDefinition
	}
	return strings.TrimSpace(entry.Shortdef[0]), nil
}
