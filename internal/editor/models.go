// Package editor owns the editing sessions of the agent: each session holds
// one project's overlay collection together with its history, layout view
// state and drag controller, and serializes all mutations on it.
package editor

import (
	"time"

	"github.com/google/uuid"

	"github.com/framewright/framewright-editor/internal/timeline"
)

// Project is the persisted form of a composition.
type Project struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	FPS       int                 `json:"fps"`
	Width     int                 `json:"width"`
	Height    int                 `json:"height"`
	Overlays  timeline.Collection `json:"overlays"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// RenderStatus values persisted with render records.
const (
	RenderStatusInvoking  = "invoking"
	RenderStatusRendering = "rendering"
	RenderStatusDone      = "done"
	RenderStatusError     = "error"
)

// RenderRecord tracks one render of a project through the render backend.
type RenderRecord struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	BucketName string    `json:"bucket_name,omitempty"`
	Status     string    `json:"status"`
	Progress   float64   `json:"progress"`
	URL        string    `json:"url,omitempty"`
	Size       int64     `json:"size"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MediaFile is an uploaded media asset served back to the preview player.
type MediaFile struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	DurationS float64   `json:"duration_s,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewID returns a fresh identifier for projects, renders and media files.
func NewID() string {
	return uuid.NewString()
}

// OverlayPatch is a partial overlay update applied by property panels. Nil
// fields are left untouched.
type OverlayPatch struct {
	From             *int     `json:"from,omitempty"`
	DurationInFrames *int     `json:"durationInFrames,omitempty"`
	Row              *int     `json:"row,omitempty"`
	Left             *float64 `json:"left,omitempty"`
	Top              *float64 `json:"top,omitempty"`
	Width            *float64 `json:"width,omitempty"`
	Height           *float64 `json:"height,omitempty"`
	Rotation         *float64 `json:"rotation,omitempty"`
	Src              *string  `json:"src,omitempty"`
	VideoStartTime   *int     `json:"videoStartTime,omitempty"`
	StartFromSound   *int     `json:"startFromSound,omitempty"`
	Content          *string  `json:"content,omitempty"`
}

// touchesPlacement reports whether the patch moves the overlay on the grid,
// which forces a collision re-resolution at commit.
func (p OverlayPatch) touchesPlacement() bool {
	return p.From != nil || p.DurationInFrames != nil || p.Row != nil
}

func (p OverlayPatch) apply(o *timeline.Overlay) {
	if p.From != nil {
		o.From = *p.From
	}
	if p.DurationInFrames != nil {
		o.DurationInFrames = *p.DurationInFrames
	}
	if p.Row != nil {
		o.Row = *p.Row
	}
	if p.Left != nil {
		o.Left = *p.Left
	}
	if p.Top != nil {
		o.Top = *p.Top
	}
	if p.Width != nil {
		o.Width = *p.Width
	}
	if p.Height != nil {
		o.Height = *p.Height
	}
	if p.Rotation != nil {
		o.Rotation = *p.Rotation
	}
	if p.Src != nil {
		o.Src = *p.Src
	}
	if p.VideoStartTime != nil {
		o.VideoStartTime = *p.VideoStartTime
	}
	if p.StartFromSound != nil {
		o.StartFromSound = *p.StartFromSound
	}
	if p.Content != nil {
		o.Content = *p.Content
	}
}
