package dictionary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SimonScharf/GoodWordsDictionary/internal/models"
)

const clientTimeout = 15 * time.Second

// Client reads and extends the catalogue through the REST service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// AddResponse is the body returned by POST /api/words
type AddResponse struct {
	Message    string      `json:"message"`
	Word       models.Word `json:"word"`
	TotalWords int         `json:"totalWords"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewClient creates a client for the service at baseURL (e.g. http://localhost:3001)
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = clientTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListWords fetches GET /api/words
func (c *Client) ListWords(ctx context.Context) ([]models.Word, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/words", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch words: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch words: %s", readError(resp))
	}

	var doc document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode words: %w", err)
	}
	return models.Merge(doc.Words), nil
}

// Add posts a new word to POST /api/words
func (c *Client) Add(ctx context.Context, w models.Word) (models.Word, int, error) {
	word, err := Normalize(w)
	if err != nil {
		return models.Word{}, 0, err
	}

	body, err := json.Marshal(word)
	if err != nil {
		return models.Word{}, 0, fmt.Errorf("failed to encode word: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/words", bytes.NewReader(body))
	if err != nil {
		return models.Word{}, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Word{}, 0, fmt.Errorf("failed to add word: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict:
		return models.Word{}, 0, fmt.Errorf("%w: %s", ErrDuplicateWord, word.Term)
	case http.StatusBadRequest:
		return models.Word{}, 0, ErrInvalidWord
	default:
		return models.Word{}, 0, fmt.Errorf("failed to add word: %s", readError(resp))
	}

	var out AddResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.Word{}, 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return out.Word, out.TotalWords, nil
}

// Health checks GET /api/health
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: %s", readError(resp))
	}
	return nil
}

// readError extracts the {"error": ...} message of a failed response
func readError(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e errorResponse
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
