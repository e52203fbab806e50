// Package render drives the remote render backend: it invokes renders,
// polls their progress and records the outcome. The backend itself is a
// black box reached over HTTP.
package render

import (
	"github.com/framewright/framewright-editor/internal/timeline"
)

// InputProps is the composition payload handed to the render backend.
type InputProps struct {
	Overlays         timeline.Collection `json:"overlays"`
	DurationInFrames int                 `json:"durationInFrames"`
	FPS              int                 `json:"fps"`
	Width            int                 `json:"width"`
	Height           int                 `json:"height"`
	Src              string              `json:"src,omitempty"`
}

// Request invokes one render.
type Request struct {
	ID         string     `json:"id"`
	InputProps InputProps `json:"inputProps"`
}

// Handle identifies an in-flight render on the backend.
type Handle struct {
	RenderID   string `json:"renderId"`
	BucketName string `json:"bucketName"`
}

// ProgressType discriminates the backend's progress responses.
type ProgressType string

const (
	ProgressTypeProgress ProgressType = "progress"
	ProgressTypeDone     ProgressType = "done"
	ProgressTypeError    ProgressType = "error"
)

// Progress is one progress poll result.
type Progress struct {
	Type         ProgressType `json:"type"`
	Progress     float64      `json:"progress"`
	URL          string       `json:"url,omitempty"`
	Size         int64        `json:"size,omitempty"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
}
