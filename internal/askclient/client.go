// Package askclient talks to a running scouting server over POST /ask.
package askclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okian/frcscout/pkg/logger"
)

// maxReplyBytes caps how much of a response body is read.
const maxReplyBytes = 1 << 20

// Client sends chat questions to the server.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

type askRequest struct {
	TeamNumber string `json:"team_number"`
}

type askResponse struct {
	Reply string `json:"reply"`
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ask posts text and returns the reply.
func (c *Client) Ask(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(askRequest{TeamNumber: text})
	if err != nil {
		return "", fmt.Errorf("marshal question: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post /ask: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out askResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return out.Reply, nil
}
