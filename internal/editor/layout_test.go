package editor

import (
	"testing"

	"github.com/framewright/framewright-editor/internal/config"
)

func TestLayout_Rows(t *testing.T) {
	l := NewLayout(config.DefaultComposition())

	if l.VisibleRows() != 3 {
		t.Fatalf("VisibleRows() = %d, want 3", l.VisibleRows())
	}

	// Grow to the configured maximum of 8.
	grown := 0
	for l.AddRow() {
		grown++
	}
	if grown != 5 || l.VisibleRows() != 8 {
		t.Errorf("grew %d rows to %d visible, want 5 rows to 8", grown, l.VisibleRows())
	}
	if l.AddRow() {
		t.Error("AddRow() past the maximum = true, want false")
	}

	dropped, ok := l.RemoveRow()
	if !ok || dropped != 7 {
		t.Errorf("RemoveRow() = (%d, %v), want (7, true)", dropped, ok)
	}

	for {
		if _, ok := l.RemoveRow(); !ok {
			break
		}
	}
	if l.VisibleRows() != 3 {
		t.Errorf("VisibleRows() after shrinking = %d, want the initial 3", l.VisibleRows())
	}
}

func TestLayout_ZoomBounds(t *testing.T) {
	l := NewLayout(config.DefaultComposition())

	if got := l.SetZoom(10); got != 4.0 {
		t.Errorf("SetZoom(10) = %v, want 4.0", got)
	}
	if got := l.SetZoom(-1); got != 0.25 {
		t.Errorf("SetZoom(-1) = %v, want 0.25", got)
	}

	l.SetZoom(1.0)
	if got := l.ZoomOut(); got != 0.75 {
		t.Errorf("ZoomOut() = %v, want 0.75", got)
	}
	if got := l.ZoomIn(); got != 1.0 {
		t.Errorf("ZoomIn() = %v, want 1.0", got)
	}
}

func TestLayout_PixelFrameMapping(t *testing.T) {
	l := NewLayout(config.DefaultComposition())
	total := 300

	tests := []struct {
		name string
		px   float64
		want int
	}{
		{"zero", 0, 0},
		{"full width", 1000, 300},
		{"half width", 500, 150},
		{"rounds to nearest frame", 501, 150},
		{"negative", -100, -30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.PixelsToFrames(tt.px, total); got != tt.want {
				t.Errorf("PixelsToFrames(%v, %d) = %d, want %d", tt.px, total, got, tt.want)
			}
		})
	}
}

func TestLayout_ZoomScalesMapping(t *testing.T) {
	l := NewLayout(config.DefaultComposition())
	total := 100

	base := l.PixelsToFrames(100, total)
	l.SetZoom(2.0)
	zoomed := l.PixelsToFrames(100, total)

	if base != 10 || zoomed != 5 {
		t.Errorf("100px = %d frames at 1x and %d at 2x, want 10 and 5", base, zoomed)
	}

	if got := l.FramesToPixels(50, total); got != 1000 {
		t.Errorf("FramesToPixels(50, 100) at 2x = %v, want 1000", got)
	}
	if got := l.TimelineWidthPx(); got != 2000 {
		t.Errorf("TimelineWidthPx() at 2x = %v, want 2000", got)
	}
}

func TestLayout_DegenerateInputs(t *testing.T) {
	l := NewLayout(config.DefaultComposition())
	if got := l.PixelsToFrames(500, 0); got != 0 {
		t.Errorf("PixelsToFrames with zero duration = %d, want 0", got)
	}
	if got := l.FramesToPixels(10, 0); got != 0 {
		t.Errorf("FramesToPixels with zero duration = %v, want 0", got)
	}
}
