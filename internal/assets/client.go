// Package assets integrates the content API: it fetches generated shot
// records and turns them into ready-to-edit overlay collections.
package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ContentError represents an error response from the content API.
type ContentError struct {
	StatusCode int
	Body       string
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content api: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for server errors (5xx). Client errors (4xx)
// are considered permanent.
func (e *ContentError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// Shot is one generated scene returned by the content API.
type Shot struct {
	ID        string  `json:"id"`
	ImageURL  string  `json:"imageUrl"`
	VideoURL  string  `json:"videoUrl"`
	AudioURL  string  `json:"audioUrl"`
	DurationS float64 `json:"duration"`
	VoiceOver string  `json:"voice_over"`
}

// Client fetches shots from the content API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// FetchShots retrieves the shots of one generated collection.
func (c *Client) FetchShots(ctx context.Context, collectionID string) ([]Shot, error) {
	url := fmt.Sprintf("%s/api/collections/%s/shots", c.baseURL, collectionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ContentError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var wrapper struct {
		Shots []Shot `json:"shots"`
	}
	if err := json.Unmarshal(respBody, &wrapper); err != nil {
		return nil, fmt.Errorf("unmarshal shots response: %w", err)
	}

	if c.logger != nil {
		c.logger.Info("fetched shots", "collection_id", collectionID, "count", len(wrapper.Shots))
	}
	return wrapper.Shots, nil
}
