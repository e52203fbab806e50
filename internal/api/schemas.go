package api

import (
	"time"

	"github.com/framewright/framewright-editor/internal/editor"
	"github.com/framewright/framewright-editor/internal/timeline"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	State          string  `json:"state"`
	SessionsOpen   int     `json:"sessions_open"`
	ProjectsCount  int     `json:"projects_count"`
	RenderState    string  `json:"render_state,omitempty"`
	RenderProgress float64 `json:"render_progress,omitempty"`
}

type CreateProjectRequest struct {
	Name   string `json:"name"`
	FPS    int    `json:"fps,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type ProjectResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FPS          int    `json:"fps"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	OverlayCount int    `json:"overlay_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type ProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// AddOverlayRequest carries the overlay to insert. With auto_place the
// placement engine picks the slot and from/row in the payload are ignored.
type AddOverlayRequest struct {
	Overlay   timeline.Overlay `json:"overlay"`
	AutoPlace bool             `json:"auto_place"`
}

type SplitOverlayRequest struct {
	Frame int `json:"frame"`
}

type ZoomRequest struct {
	Scale     float64 `json:"scale,omitempty"`
	Direction string  `json:"direction,omitempty"` // "in" or "out"
}

type ZoomResponse struct {
	ZoomScale float64 `json:"zoomScale"`
}

type RowsResponse struct {
	VisibleRows int `json:"visibleRows"`
}

type DragBeginRequest struct {
	OverlayID int64   `json:"overlayId"`
	Action    string  `json:"action"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type DragMoveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ImportRequest struct {
	CollectionID string `json:"collection_id"`
}

type ImportResponse struct {
	OverlaysAdded int `json:"overlays_added"`
}

type RenderResponse struct {
	ID         string  `json:"id"`
	ProjectID  string  `json:"project_id"`
	Status     string  `json:"status"`
	Progress   float64 `json:"progress"`
	URL        string  `json:"url,omitempty"`
	Size       int64   `json:"size,omitempty"`
	Error      string  `json:"error,omitempty"`
	BucketName string  `json:"bucket_name,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type MediaResponse struct {
	ID        string  `json:"id"`
	Filename  string  `json:"filename"`
	URL       string  `json:"url"`
	Size      int64   `json:"size"`
	DurationS float64 `json:"duration_s,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func ProjectToResponse(p *editor.Project) ProjectResponse {
	return ProjectResponse{
		ID:           p.ID,
		Name:         p.Name,
		FPS:          p.FPS,
		Width:        p.Width,
		Height:       p.Height,
		OverlayCount: len(p.Overlays),
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}

func RenderToResponse(r *editor.RenderRecord) RenderResponse {
	return RenderResponse{
		ID:         r.ID,
		ProjectID:  r.ProjectID,
		Status:     r.Status,
		Progress:   r.Progress,
		URL:        r.URL,
		Size:       r.Size,
		Error:      r.Error,
		BucketName: r.BucketName,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  r.UpdatedAt.Format(time.RFC3339),
	}
}

func MediaToResponse(m *editor.MediaFile) MediaResponse {
	return MediaResponse{
		ID:        m.ID,
		Filename:  m.Filename,
		URL:       "/media/" + m.ID,
		Size:      m.Size,
		DurationS: m.DurationS,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
