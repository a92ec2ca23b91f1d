package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const (
	remoteTimeout   = 10 * time.Second
	remoteMaxValue  = 8 << 20
	remoteKVPath    = "/api/kv/"
	breakerFailures = 3
)

// Remote is a Store talking to the goodwords REST service (/api/kv/{key}).
// Requests go through a circuit breaker so an unreachable server fails fast.
type Remote struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

type remoteResult struct {
	body  []byte
	found bool
}

// NewRemote creates a store for the service at baseURL
func NewRemote(baseURL string, timeout time.Duration) (*Remote, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("remote store requires a base URL")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid remote store URL: %w", err)
	}
	if timeout <= 0 {
		timeout = remoteTimeout
	}

	return &Remote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "remote-store",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerFailures
			},
		}),
	}, nil
}

func (r *Remote) keyURL(key string) string {
	return r.baseURL + remoteKVPath + url.PathEscape(key)
}

func (r *Remote) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := r.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, false, err
	}
	return res.body, res.found, nil
}

func (r *Remote) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.do(ctx, http.MethodPut, key, value)
	return err
}

func (r *Remote) Remove(ctx context.Context, key string) error {
	_, err := r.do(ctx, http.MethodDelete, key, nil)
	return err
}

func (r *Remote) Close() error {
	r.httpClient.CloseIdleConnections()
	return nil
}

// do performs one request through the breaker. A 404 is a valid answer
// (key absent) and does not count as a failure.
func (r *Remote) do(ctx context.Context, method, key string, body []byte) (remoteResult, error) {
	out, err := r.breaker.Execute(func() (interface{}, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, r.keyURL(key), reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/octet-stream")
		}

		resp, err := r.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, key, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound && method == http.MethodGet:
			return remoteResult{}, nil
		case resp.StatusCode >= 300:
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("%s %s: status %d: %s", method, key, resp.StatusCode, strings.TrimSpace(string(msg)))
		}

		if method != http.MethodGet {
			return remoteResult{found: true}, nil
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, remoteMaxValue))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		return remoteResult{body: data, found: true}, nil
	})
	if err != nil {
		return remoteResult{}, err
	}
	return out.(remoteResult), nil
}
