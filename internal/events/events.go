// Package events publishes render lifecycle notifications to a message
// broker so downstream consumers (notification services, dashboards) can
// react without polling the editor.
package events

import (
	"context"
	"time"
)

const (
	TypeRenderStarted  = "render.started"
	TypeRenderProgress = "render.progress"
	TypeRenderDone     = "render.done"
	TypeRenderFailed   = "render.failed"
)

// Event is the wire format published to the broker.
type Event struct {
	Type      string    `json:"type"`
	ProjectID string    `json:"project_id"`
	RenderID  string    `json:"render_id"`
	Progress  float64   `json:"progress,omitempty"`
	URL       string    `json:"url,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher is used when no broker is configured. Publishing succeeds
// silently so the render path never depends on broker availability.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }
