package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10

	maxErrorBody = 1024
)

// transport executes JSON requests against one upstream, rate limited
type transport struct {
	provider   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	header     http.Header
}

func newTransport(provider string, o options) *transport {
	header := http.Header{}
	header.Set("Accept", "application/json")
	if o.userAgent != "" {
		header.Set("User-Agent", o.userAgent)
	}
	return &transport{
		provider:   provider,
		httpClient: o.httpClient,
		limiter:    o.limiter,
		logger:     o.logger.With(zap.String("provider", provider)),
		header:     header,
	}
}

// do sends the request and decodes a 2xx JSON body into result.
// Every failure comes back as ErrUnavailable.
func (t *transport) do(ctx context.Context, op, method, url string, body interface{}, header http.Header, result interface{}) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return unavailable(t.provider, op, fmt.Errorf("rate limiter: %w", err))
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return unavailable(t.provider, op, fmt.Errorf("failed to encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return unavailable(t.provider, op, fmt.Errorf("failed to create request: %w", err))
	}
	for key, values := range t.header {
		req.Header[key] = values
	}
	for key, values := range header {
		req.Header[key] = values
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return unavailable(t.provider, op, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	t.logger.Debug("Upstream request",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return unavailable(t.provider, op, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet)))
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return unavailable(t.provider, op, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
