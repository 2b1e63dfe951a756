// Package upstream holds the HTTP clients for the competition-results
// provider (The Blue Alliance) and the performance-metrics provider
// (Statbotics).
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/frcscout/pkg/logger"
	"github.com/okian/frcscout/pkg/metrics"
)

// maxBodyBytes bounds how much of a response body is decoded.
const maxBodyBytes = 8 << 20

// Client issues rate-limited JSON GET requests against one provider.
type Client struct {
	provider string
	baseURL  string
	header   http.Header
	http     *http.Client
	limiter  *rate.Limiter
	log      logger.Logger
}

func newClient(provider, baseURL string, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		header:   http.Header{"Accept": []string{"application/json"}},
		http:     &http.Client{Timeout: DefaultTimeout},
		limiter:  rate.NewLimiter(rate.Limit(DefaultRPS), DefaultBurst),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON fetches path and decodes the body into out. endpoint is the low
// cardinality name used in logs and metrics.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordUpstreamRequest(c.provider, endpoint, callOutcome(err), float64(time.Since(start).Milliseconds()))
		if err != nil {
			c.log.Warn(ctx, "upstream call failed",
				logger.String("provider", c.provider),
				logger.String("endpoint", endpoint),
				logger.Duration("elapsed", time.Since(start)),
				logger.Error(err))
		}
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s %s: %w: %w", c.provider, endpoint, ErrRateLimited, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", c.provider, endpoint, err)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.provider, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", c.provider, endpoint, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s %s: status %d: %w", c.provider, endpoint, resp.StatusCode, ErrUnexpectedStatus)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%s %s: %w: %w", c.provider, endpoint, ErrDecode, err)
	}
	return nil
}

func callOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDecode):
		return "decode_error"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
