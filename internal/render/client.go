package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// GatewayError represents an error response from the render backend.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("render backend: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for server errors (5xx). Client errors (4xx)
// are considered permanent.
func (e *GatewayError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// Gateway abstracts the render backend for the poller and tests.
type Gateway interface {
	Invoke(ctx context.Context, req Request) (Handle, error)
	Progress(ctx context.Context, handle Handle) (Progress, error)
}

// HTTPClient talks to the render backend over HTTP.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Invoke submits a render and returns its backend handle.
func (c *HTTPClient) Invoke(ctx context.Context, req Request) (Handle, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Handle{}, fmt.Errorf("marshal render request: %w", err)
	}

	url := fmt.Sprintf("%s/api/render", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Handle{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	if c.logger != nil {
		c.logger.Info("invoking render",
			"url", url,
			"render_id", req.ID,
			"overlay_count", len(req.InputProps.Overlays),
			"duration_frames", req.InputProps.DurationInFrames,
		)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Handle{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Handle{}, &GatewayError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var handle Handle
	if err := json.Unmarshal(respBody, &handle); err != nil {
		return Handle{}, fmt.Errorf("decode render handle: %w", err)
	}
	if handle.RenderID == "" || handle.BucketName == "" {
		return Handle{}, fmt.Errorf("render backend returned incomplete handle: %s", string(respBody))
	}
	return handle, nil
}

// Progress fetches the current state of an in-flight render.
func (c *HTTPClient) Progress(ctx context.Context, handle Handle) (Progress, error) {
	url := fmt.Sprintf("%s/api/progress/%s/%s", c.baseURL, handle.BucketName, handle.RenderID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Progress{}, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Progress{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Progress{}, &GatewayError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var progress Progress
	if err := json.Unmarshal(respBody, &progress); err != nil {
		return Progress{}, fmt.Errorf("decode render progress: %w", err)
	}
	return progress, nil
}
