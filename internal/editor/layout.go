package editor

import (
	"math"

	"github.com/framewright/framewright-editor/internal/config"
)

// Layout holds the timeline view state: visible row count, zoom scale, and
// the pixel/frame mapping every interaction is computed against. Changing
// the view never mutates overlay data.
type Layout struct {
	comp        config.Composition
	visibleRows int
	zoomScale   float64
}

func NewLayout(comp config.Composition) *Layout {
	return &Layout{
		comp:        comp,
		visibleRows: comp.InitialRows,
		zoomScale:   1.0,
	}
}

func (l *Layout) VisibleRows() int {
	return l.visibleRows
}

func (l *Layout) ZoomScale() float64 {
	return l.zoomScale
}

// AddRow grows the visible row count up to the configured maximum.
func (l *Layout) AddRow() bool {
	if l.visibleRows >= l.comp.MaxRows {
		return false
	}
	l.visibleRows++
	return true
}

// RemoveRow shrinks the visible row count, never below the initial count.
// It returns the index of the row that disappeared; the caller is expected
// to drop the overlays on it.
func (l *Layout) RemoveRow() (int, bool) {
	if l.visibleRows <= l.comp.InitialRows {
		return 0, false
	}
	l.visibleRows--
	return l.visibleRows, true
}

// SetZoom clamps the scale into the configured bounds.
func (l *Layout) SetZoom(scale float64) float64 {
	if scale < l.comp.MinZoom {
		scale = l.comp.MinZoom
	}
	if scale > l.comp.MaxZoom {
		scale = l.comp.MaxZoom
	}
	l.zoomScale = scale
	return l.zoomScale
}

func (l *Layout) ZoomIn() float64 {
	return l.SetZoom(l.zoomScale + l.comp.ZoomStep)
}

func (l *Layout) ZoomOut() float64 {
	return l.SetZoom(l.zoomScale - l.comp.ZoomStep)
}

// TimelineWidthPx is the rendered width of the timeline at the current zoom.
func (l *Layout) TimelineWidthPx() float64 {
	return l.comp.TimelineWidthPx * l.zoomScale
}

// RowHeightPx is the rendered height of one timeline row.
func (l *Layout) RowHeightPx() float64 {
	return l.comp.TimelineRowPx
}

// PixelsToFrames converts a horizontal pixel distance into whole frames,
// snapped to the 1-frame grid.
func (l *Layout) PixelsToFrames(px float64, totalDuration int) int {
	width := l.TimelineWidthPx()
	if width <= 0 || totalDuration <= 0 {
		return 0
	}
	return int(math.Round(px / width * float64(totalDuration)))
}

// FramesToPixels converts a frame position into a horizontal pixel offset.
func (l *Layout) FramesToPixels(frames, totalDuration int) float64 {
	if totalDuration <= 0 {
		return 0
	}
	return float64(frames) / float64(totalDuration) * l.TimelineWidthPx()
}
