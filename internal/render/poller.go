package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const DefaultPollInterval = time.Second

// diskSpaceHint rewrites the backend's opaque fetch failure into something
// actionable. The backend surfaces out-of-space conditions as a generic
// fetch error.
const diskSpaceHint = "render storage may be out of disk space; free up space and try again"

// Poller drives an in-flight render to completion by polling the gateway at
// a fixed interval until it reports done or error.
type Poller struct {
	gateway  Gateway
	interval time.Duration
	logger   *slog.Logger
}

func NewPoller(gateway Gateway, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		gateway:  gateway,
		interval: interval,
		logger:   logger,
	}
}

// Poll blocks until the render finishes, the context is cancelled, or the
// gateway returns a permanent error. Each intermediate progress response is
// handed to onProgress before the next tick; onProgress may be nil.
func (p *Poller) Poll(ctx context.Context, handle Handle, onProgress func(Progress)) (Progress, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		progress, err := p.gateway.Progress(ctx, handle)
		if err != nil {
			if gerr, ok := err.(*GatewayError); ok && gerr.IsRetryable() {
				if p.logger != nil {
					p.logger.Warn("progress poll failed, retrying", "render_id", handle.RenderID, "error", err)
				}
				select {
				case <-ctx.Done():
					return Progress{}, ctx.Err()
				case <-ticker.C:
					continue
				}
			}
			return Progress{}, fmt.Errorf("poll render %s: %w", handle.RenderID, err)
		}

		switch progress.Type {
		case ProgressTypeDone:
			return progress, nil
		case ProgressTypeError:
			progress.ErrorMessage = normalizeBackendError(progress.ErrorMessage)
			return progress, nil
		case ProgressTypeProgress:
			if onProgress != nil {
				onProgress(progress)
			}
		default:
			return Progress{}, fmt.Errorf("render %s: unexpected progress type %q", handle.RenderID, progress.Type)
		}

		select {
		case <-ctx.Done():
			return Progress{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func normalizeBackendError(msg string) string {
	if strings.Contains(msg, "Failed to fetch") {
		return diskSpaceHint
	}
	return msg
}
