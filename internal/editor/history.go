package editor

import "github.com/framewright/framewright-editor/internal/timeline"

// History keeps undo and redo stacks of full overlay-collection snapshots.
// Every committed mutation records the pre-mutation state and invalidates the
// redo stack; in-progress drag updates never touch it. The undo stack is
// capped so marathon editing sessions cannot grow memory without bound.
type History struct {
	undo  []timeline.Collection
	redo  []timeline.Collection
	limit int
}

// DefaultHistoryLimit bounds the undo stack when no limit is configured.
const DefaultHistoryLimit = 100

func NewHistory(limit int) *History {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Record pushes a snapshot of the current state onto the undo stack and
// clears the redo stack. Call it before applying a committed mutation.
func (h *History) Record(current timeline.Collection) {
	h.undo = append(h.undo, current.Clone())
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
}

// Undo exchanges the current state for the most recent snapshot.
func (h *History) Undo(current timeline.Collection) (timeline.Collection, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current.Clone())
	return top, true
}

// Redo reverses the most recent Undo.
func (h *History) Redo(current timeline.Collection) (timeline.Collection, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current.Clone())
	return top, true
}

func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}
