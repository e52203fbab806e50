package editor

import (
	"fmt"
	"math"

	"github.com/framewright/framewright-editor/internal/timeline"
)

// DragAction is fixed for the duration of one gesture.
type DragAction string

const (
	ActionMove        DragAction = "move"
	ActionResizeStart DragAction = "resize-start"
	ActionResizeEnd   DragAction = "resize-end"
)

func (a DragAction) Valid() bool {
	switch a {
	case ActionMove, ActionResizeStart, ActionResizeEnd:
		return true
	default:
		return false
	}
}

// Ghost is the transient visual rectangle mutated during a drag. Horizontal
// geometry is percentage-based against the timeline width so it survives
// zoom changes mid-gesture; the authoritative overlay stays untouched until
// the gesture ends.
type Ghost struct {
	LeftPct  float64 `json:"leftPct"`
	WidthPct float64 `json:"widthPct"`
	Row      int     `json:"row"`
}

// DragInfo is the state of one active gesture.
type DragInfo struct {
	ID            int64      `json:"id"`
	Action        DragAction `json:"action"`
	StartX        float64    `json:"startX"`
	StartY        float64    `json:"startY"`
	StartFrom     int        `json:"startFrom"`
	StartDuration int        `json:"startDuration"`
	StartRow      int        `json:"startRow"`
	Ghost         Ghost      `json:"ghost"`
}

// DragController converts pointer movement into frame-accurate position,
// duration and row changes. It is a two-state machine: idle (info == nil)
// and dragging. Collision checking is deliberately deferred to drag end.
type DragController struct {
	info *DragInfo
}

func NewDragController() *DragController {
	return &DragController{}
}

// Dragging reports whether a gesture is active.
func (d *DragController) Dragging() bool {
	return d.info != nil
}

// Info returns a copy of the active gesture state.
func (d *DragController) Info() (DragInfo, bool) {
	if d.info == nil {
		return DragInfo{}, false
	}
	return *d.info, true
}

// Begin enters the dragging state, capturing the overlay's committed slot as
// the initial ghost geometry.
func (d *DragController) Begin(o timeline.Overlay, action DragAction, x, y float64, totalDuration int) error {
	if !action.Valid() {
		return fmt.Errorf("unknown drag action %q", action)
	}
	if totalDuration <= 0 {
		return fmt.Errorf("total duration must be positive, got %d", totalDuration)
	}
	d.info = &DragInfo{
		ID:            o.ID,
		Action:        action,
		StartX:        x,
		StartY:        y,
		StartFrom:     o.From,
		StartDuration: o.DurationInFrames,
		StartRow:      o.Row,
		Ghost: Ghost{
			LeftPct:  pct(o.From, totalDuration),
			WidthPct: pct(o.DurationInFrames, totalDuration),
			Row:      o.Row,
		},
	}
	return nil
}

// Move translates the pointer position into a ghost update. Frame deltas are
// snapped to the 1-frame grid; the row delta comes from the vertical pixel
// delta divided by the row height, rounded and clamped. No collision checks
// happen here; the ghost may visually overlap committed overlays.
func (d *DragController) Move(x, y float64, layout *Layout, totalDuration int) {
	if d.info == nil || totalDuration <= 0 {
		return
	}
	info := d.info

	frameDelta := layout.PixelsToFrames(x-info.StartX, totalDuration)

	switch info.Action {
	case ActionMove:
		from := info.StartFrom + frameDelta
		if from < 0 {
			from = 0
		}
		rowDelta := int(math.Round((y - info.StartY) / layout.RowHeightPx()))
		row := clampInt(info.StartRow+rowDelta, 0, layout.VisibleRows()-1)
		info.Ghost.LeftPct = pct(from, totalDuration)
		info.Ghost.Row = row

	case ActionResizeStart:
		// The end edge is fixed; the start cannot cross it (minimum one
		// frame) nor go below zero.
		fixedEnd := info.StartFrom + info.StartDuration
		from := clampInt(info.StartFrom+frameDelta, 0, fixedEnd-1)
		info.Ghost.LeftPct = pct(from, totalDuration)
		info.Ghost.WidthPct = pct(fixedEnd-from, totalDuration)

	case ActionResizeEnd:
		duration := info.StartDuration + frameDelta
		if duration < 1 {
			duration = 1
		}
		info.Ghost.WidthPct = pct(duration, totalDuration)
	}
}

// Commit is the result of a finished gesture, already collision-resolved.
type Commit struct {
	ID            int64
	From          int
	Duration      int
	Row           int
	TrimmedFrames int // front trim, non-zero only for resize-start
}

// End converts the ghost's final geometry back to frame units, resolves it
// against the collection and leaves the dragging state. A cancelled or
// never-started gesture returns ok=false.
func (d *DragController) End(overlays timeline.Collection, layout *Layout, totalDuration int) (Commit, bool) {
	if d.info == nil {
		return Commit{}, false
	}
	info := d.info
	d.info = nil

	from := framesFromPct(info.Ghost.LeftPct, totalDuration)
	duration := framesFromPct(info.Ghost.WidthPct, totalDuration)
	if duration < 1 {
		duration = 1
	}
	if info.Action == ActionResizeStart {
		// Keep the fixed end exact; percentage rounding may drift a frame.
		duration = info.StartFrom + info.StartDuration - from
		if duration < 1 {
			duration = 1
		}
	}

	pos := timeline.CheckOverlapAndAdjust(overlays, info.ID, from, duration, info.Ghost.Row, layout.VisibleRows())

	commit := Commit{
		ID:       info.ID,
		From:     pos.From,
		Duration: duration,
		Row:      pos.Row,
	}
	if info.Action == ActionResizeStart {
		commit.TrimmedFrames = pos.From - info.StartFrom
		commit.Duration = info.StartFrom + info.StartDuration - pos.From
		if commit.Duration < 1 {
			commit.Duration = 1
		}
	}
	return commit, true
}

// Cancel discards the ghost without committing anything.
func (d *DragController) Cancel() {
	d.info = nil
}

func pct(frames, totalDuration int) float64 {
	return float64(frames) / float64(totalDuration) * 100.0
}

func framesFromPct(p float64, totalDuration int) int {
	return int(math.Round(p / 100.0 * float64(totalDuration)))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
