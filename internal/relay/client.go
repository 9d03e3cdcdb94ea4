package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iksnae/glasschat/internal"
)

// Client posts prompts to a relay and implements internal.Replier. Every
// failure, transport or HTTP status, is reported as internal.ErrUpstream.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the relay at baseURL
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: &http.Client{}}
}

var _ internal.Replier = (*Client)(nil)

// Reply sends prompt to POST /api/gemini and returns the reply text
func (c *Client) Reply(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(Request{Message: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to encode relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/gemini", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", internal.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", internal.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: reading relay response: %w", internal.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return "", fmt.Errorf("%w: relay returned %d: %s", internal.ErrUpstream, resp.StatusCode, e.Error)
		}
		return "", fmt.Errorf("%w: relay returned %d", internal.ErrUpstream, resp.StatusCode)
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%w: decoding relay response: %w", internal.ErrUpstream, err)
	}
	internal.LogDebug("Relay replied with %d byte(s)", len(out.Reply))
	return out.Reply, nil
}
