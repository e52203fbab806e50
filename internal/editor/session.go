package editor

import (
	"fmt"
	"sync"

	"github.com/framewright/framewright-editor/internal/config"
	"github.com/framewright/framewright-editor/internal/timeline"
)

// Session is the live editing state of one open project. All mutations are
// serialized by the session mutex; reads hand out snapshots so callers never
// observe a torn collection.
type Session struct {
	mu sync.Mutex

	project  *Project
	overlays timeline.Collection
	history  *History
	layout   *Layout
	drag     *DragController
	comp     config.Composition
}

func NewSession(project *Project, comp config.Composition) *Session {
	return &Session{
		project:  project,
		overlays: project.Overlays.Clone(),
		history:  NewHistory(comp.HistoryLimit),
		layout:   NewLayout(comp),
		drag:     NewDragController(),
		comp:     comp,
	}
}

// State is a consistent snapshot of the session handed to the API layer.
type State struct {
	Project          *Project            `json:"project"`
	Overlays         timeline.Collection `json:"overlays"`
	DurationInFrames int                 `json:"durationInFrames"`
	VisibleRows      int                 `json:"visibleRows"`
	ZoomScale        float64             `json:"zoomScale"`
	CanUndo          bool                `json:"canUndo"`
	CanRedo          bool                `json:"canRedo"`
	Dragging         bool                `json:"dragging"`
}

func (s *Session) Project() *Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Project:          s.project,
		Overlays:         s.overlays.Clone(),
		DurationInFrames: s.totalDurationLocked(),
		VisibleRows:      s.layout.VisibleRows(),
		ZoomScale:        s.layout.ZoomScale(),
		CanUndo:          s.history.CanUndo(),
		CanRedo:          s.history.CanRedo(),
		Dragging:         s.drag.Dragging(),
	}
}

// Overlays returns a snapshot of the collection.
func (s *Session) Overlays() timeline.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlays.Clone()
}

// TotalDuration derives the composition length from the current collection.
func (s *Session) TotalDuration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalDurationLocked()
}

func (s *Session) totalDurationLocked() int {
	floor := timeline.SecondsToFrames(s.comp.MinDurationSec, s.project.FPS)
	return s.overlays.TotalDuration(floor)
}

// AddOverlay commits a new overlay. With autoPlace the placement engine
// picks the slot; otherwise the caller's from/row are collision-resolved.
func (s *Session) AddOverlay(o timeline.Overlay, autoPlace bool) (timeline.Overlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !o.Type.Valid() {
		return timeline.Overlay{}, fmt.Errorf("unknown overlay type %q", o.Type)
	}
	if o.ID == 0 {
		o.ID = timeline.NewID()
	}
	if o.DurationInFrames < 1 {
		o.DurationInFrames = timeline.SecondsToFrames(s.comp.DefaultClipSec, s.project.FPS)
	}

	total := s.totalDurationLocked()
	if autoPlace {
		pos := timeline.FindNextAvailablePosition(s.overlays, s.layout.VisibleRows(), total)
		o.From = pos.From
		o.Row = pos.Row
	} else {
		pos := timeline.CheckOverlapAndAdjust(s.overlays, o.ID, o.From, o.DurationInFrames, o.Row, s.layout.VisibleRows())
		o.From = pos.From
		o.Row = pos.Row
	}

	s.history.Record(s.overlays)
	s.overlays.Add(o)
	return o, nil
}

// ImportOverlays commits a batch of pre-placed overlays as one operation
// with a single history entry. Each overlay is collision-resolved in input
// order; entries with unknown types are skipped.
func (s *Session) ImportOverlays(overlays timeline.Collection) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(overlays) == 0 {
		return 0
	}
	s.history.Record(s.overlays)

	added := 0
	for _, o := range overlays {
		if !o.Type.Valid() {
			continue
		}
		if o.ID == 0 {
			o.ID = timeline.NewID()
		}
		if o.DurationInFrames < 1 {
			o.DurationInFrames = 1
		}
		pos := timeline.CheckOverlapAndAdjust(s.overlays, o.ID, o.From, o.DurationInFrames, o.Row, s.layout.VisibleRows())
		o.From = pos.From
		o.Row = pos.Row
		s.overlays.Add(o)
		added++
	}
	return added
}

// ChangeOverlay applies a partial update to one overlay. Updates that move
// the overlay on the grid are re-resolved against the collection so the
// no-overlap invariant survives property-panel edits. Unknown ids no-op.
func (s *Session) ChangeOverlay(id int64, patch OverlayPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.overlays.Get(id); !ok {
		return false
	}

	s.history.Record(s.overlays)
	s.overlays.Change(id, func(o *timeline.Overlay) {
		patch.apply(o)
	})
	if patch.touchesPlacement() {
		o, _ := s.overlays.Get(id)
		pos := timeline.CheckOverlapAndAdjust(s.overlays, id, o.From, o.DurationInFrames, o.Row, s.layout.VisibleRows())
		s.overlays.Change(id, func(o *timeline.Overlay) {
			o.From = pos.From
			o.Row = pos.Row
		})
	}
	return true
}

// DeleteOverlay removes one overlay. Unknown ids no-op.
func (s *Session) DeleteOverlay(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.overlays.Get(id); !ok {
		return false
	}
	s.history.Record(s.overlays)
	return s.overlays.Delete(id)
}

// DuplicateOverlay clones an overlay into the next available slot.
func (s *Session) DuplicateOverlay(id int64) (timeline.Overlay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.overlays.Get(id); !ok {
		return timeline.Overlay{}, false
	}
	s.history.Record(s.overlays)
	return s.overlays.Duplicate(id, s.layout.VisibleRows(), s.totalDurationLocked())
}

// SplitOverlay divides an overlay at an absolute timeline frame.
func (s *Session) SplitOverlay(id int64, splitFrame int) (timeline.Overlay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.overlays.Get(id)
	if !ok || splitFrame <= o.From || splitFrame >= o.End() {
		return timeline.Overlay{}, false
	}
	s.history.Record(s.overlays)
	return s.overlays.Split(id, splitFrame, s.project.FPS)
}

// ResetOverlays clears the collection.
func (s *Session) ResetOverlays() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history.Record(s.overlays)
	s.overlays.Reset()
}

// UpdateOverlayStyles shallow-merges a style patch. Unknown ids no-op.
func (s *Session) UpdateOverlayStyles(id int64, patch timeline.StylePatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.overlays.Get(id); !ok {
		return false
	}
	s.history.Record(s.overlays)
	return s.overlays.UpdateStyles(id, patch)
}

// Undo restores the previous committed state.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.history.Undo(s.overlays)
	if !ok {
		return false
	}
	s.overlays = prev
	return true
}

// Redo reverses the most recent Undo.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.history.Redo(s.overlays)
	if !ok {
		return false
	}
	s.overlays = next
	return true
}

// AddRow grows the visible row count.
func (s *Session) AddRow() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.layout.AddRow()
	return s.layout.VisibleRows(), ok
}

// RemoveRow shrinks the visible row count and deletes the overlays that
// lived on the dropped row.
func (s *Session) RemoveRow() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.layout.RemoveRow()
	if !ok {
		return s.layout.VisibleRows(), false
	}
	s.history.Record(s.overlays)
	s.overlays.DeleteByRow(row)
	return s.layout.VisibleRows(), true
}

// SetZoom adjusts the display mapping only; overlay data is untouched.
func (s *Session) SetZoom(scale float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.SetZoom(scale)
}

func (s *Session) ZoomIn() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.ZoomIn()
}

func (s *Session) ZoomOut() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.ZoomOut()
}

// BeginDrag enters the dragging state for one overlay handle.
func (s *Session) BeginDrag(id int64, action DragAction, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.overlays.Get(id)
	if !ok {
		return fmt.Errorf("overlay %d not found", id)
	}
	if err := s.drag.Begin(o, action, x, y, s.totalDurationLocked()); err != nil {
		return err
	}
	s.overlays.Change(id, func(o *timeline.Overlay) { o.IsDragging = true })
	return nil
}

// MoveDrag updates the ghost. Ghost updates never enter history.
func (s *Session) MoveDrag(x, y float64) (Ghost, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drag.Move(x, y, s.layout, s.totalDurationLocked())
	info, ok := s.drag.Info()
	if !ok {
		return Ghost{}, false
	}
	return info.Ghost, true
}

// EndDrag commits the gesture: the ghost geometry is resolved by the
// placement engine and applied to the overlay, with front trims translated
// into media start offsets. A single drag produces exactly one history entry.
func (s *Session) EndDrag() (timeline.Overlay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	commit, ok := s.drag.End(s.overlays, s.layout, s.totalDurationLocked())
	if !ok {
		return timeline.Overlay{}, false
	}

	s.history.Record(s.overlays)
	s.overlays.Change(commit.ID, func(o *timeline.Overlay) {
		o.From = commit.From
		o.DurationInFrames = commit.Duration
		o.Row = commit.Row
		o.IsDragging = false
		o.ShiftMediaStart(commit.TrimmedFrames, s.project.FPS)
	})
	o, _ := s.overlays.Get(commit.ID)
	return o, true
}

// CancelDrag discards the ghost without committing.
func (s *Session) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info, ok := s.drag.Info(); ok {
		s.overlays.Change(info.ID, func(o *timeline.Overlay) { o.IsDragging = false })
	}
	s.drag.Cancel()
}
