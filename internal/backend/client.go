package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// maxBodySize caps how much of a backend response is decoded.
const maxBodySize = 8 << 20

// Client performs JSON GET requests against the storefront backend.
type Client struct {
	http   *http.Client
	logger zerolog.Logger
}

// NewClient creates a backend client with the given request timeout.
func NewClient(timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "backend-client").Logger(),
	}
}

// GetJSON fetches url and decodes the JSON body into v.
// Any non-2xx status is an error.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("backend request failed")
		return fmt.Errorf("failed to call %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().
			Str("url", url).
			Int("status", resp.StatusCode).
			Msg("backend returned unexpected status")
		return fmt.Errorf("unexpected status code from %s: %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(v); err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("failed to decode backend response")
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}

	c.logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request completed")

	return nil
}
