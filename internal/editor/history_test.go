package editor

import (
	"testing"

	"github.com/framewright/framewright-editor/internal/timeline"
)

func TestHistory_RoundTrip(t *testing.T) {
	h := NewHistory(100)
	state := timeline.Collection{}
	initial := state.Clone()

	// Three committed mutations, each recording the pre-mutation state.
	for i := 1; i <= 3; i++ {
		h.Record(state)
		state.Add(timeline.Overlay{ID: int64(i), Type: timeline.TypeText, From: i * 10, DurationInFrames: 5})
	}
	final := state.Clone()

	for i := 0; i < 3; i++ {
		prev, ok := h.Undo(state)
		if !ok {
			t.Fatalf("Undo() #%d = false, want true", i+1)
		}
		state = prev
	}
	if len(state) != len(initial) {
		t.Errorf("after 3 undos collection has %d overlays, want %d", len(state), len(initial))
	}
	if h.CanUndo() {
		t.Error("CanUndo() = true at initial state, want false")
	}

	for i := 0; i < 3; i++ {
		next, ok := h.Redo(state)
		if !ok {
			t.Fatalf("Redo() #%d = false, want true", i+1)
		}
		state = next
	}
	if len(state) != len(final) {
		t.Errorf("after 3 redos collection has %d overlays, want %d", len(state), len(final))
	}
	for i, o := range final {
		if state[i].ID != o.ID || state[i].From != o.From {
			t.Errorf("redo state[%d] = %+v, want %+v", i, state[i], o)
		}
	}
}

func TestHistory_RecordClearsRedo(t *testing.T) {
	h := NewHistory(100)
	state := timeline.Collection{}

	h.Record(state)
	state.Add(timeline.Overlay{ID: 1, Type: timeline.TypeText, DurationInFrames: 5})

	prev, _ := h.Undo(state)
	state = prev
	if !h.CanRedo() {
		t.Fatal("CanRedo() = false after undo, want true")
	}

	h.Record(state)
	if h.CanRedo() {
		t.Error("CanRedo() = true after a new committed mutation, want false")
	}
}

func TestHistory_CapBoundsUndoStack(t *testing.T) {
	h := NewHistory(5)
	state := timeline.Collection{}

	for i := 0; i < 20; i++ {
		h.Record(state)
	}

	undos := 0
	for {
		prev, ok := h.Undo(state)
		if !ok {
			break
		}
		state = prev
		undos++
	}
	if undos != 5 {
		t.Errorf("undo stack held %d entries, want 5", undos)
	}
}

func TestHistory_SnapshotsAreIsolated(t *testing.T) {
	h := NewHistory(100)
	state := timeline.Collection{{ID: 1, Type: timeline.TypeText, From: 0, DurationInFrames: 5}}

	h.Record(state)
	state.Change(1, func(o *timeline.Overlay) { o.From = 99 })

	prev, _ := h.Undo(state)
	if prev[0].From != 0 {
		t.Errorf("snapshot From = %d, want 0 (snapshot shares storage with live state)", prev[0].From)
	}
}
