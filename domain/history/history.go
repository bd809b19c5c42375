package history

import (
	"sitegraph/domain/core/aggregates"
)

// DefaultCapacity bounds how many snapshots a session retains
const DefaultCapacity = 50

// History is a bounded, branch-discarding undo/redo stack of graph
// snapshots. It is a linear history: recording while the cursor sits behind
// the last entry discards the redo branch permanently. Once the capacity is
// reached the oldest entry is evicted before a new one is pushed.
//
// The applying flag is the re-entrancy guard for snapshot application: while
// a snapshot returned by Undo or Redo is being applied to the live graph,
// Record calls are ignored so the application of an undo is never
// re-recorded as a fresh edit. The engine clears the flag only after the
// state-change notification triggered by the apply has run.
type History struct {
	entries  []aggregates.GraphSnapshot
	cursor   int
	capacity int
	applying bool
}

// New creates an empty history with the given capacity.
// Non-positive capacities fall back to DefaultCapacity.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{cursor: -1, capacity: capacity}
}

// Seed resets the history to a single entry holding the just-built graph,
// with the cursor on it, so the first undo is a no-op.
func (h *History) Seed(snapshot aggregates.GraphSnapshot) {
	h.entries = []aggregates.GraphSnapshot{snapshot.Clone()}
	h.cursor = 0
	h.applying = false
}

// Record appends a deep copy of the snapshot after the cursor, discarding
// any redo branch. While a snapshot is being applied this is a no-op.
func (h *History) Record(snapshot aggregates.GraphSnapshot) {
	if h.applying {
		return
	}
	h.entries = append(h.entries[:h.cursor+1], snapshot.Clone())
	if len(h.entries) > h.capacity {
		overflow := len(h.entries) - h.capacity
		h.entries = append([]aggregates.GraphSnapshot(nil), h.entries[overflow:]...)
	}
	h.cursor = len(h.entries) - 1
}

// Undo moves the cursor back one entry and returns the snapshot to apply.
// At or before the first entry it is a no-op.
func (h *History) Undo() (aggregates.GraphSnapshot, bool) {
	if h.cursor <= 0 {
		return aggregates.GraphSnapshot{}, false
	}
	h.cursor--
	return h.entries[h.cursor].Clone(), true
}

// Redo moves the cursor forward one entry and returns the snapshot to
// apply. At the last entry it is a no-op.
func (h *History) Redo() (aggregates.GraphSnapshot, bool) {
	if h.cursor >= len(h.entries)-1 {
		return aggregates.GraphSnapshot{}, false
	}
	h.cursor++
	return h.entries[h.cursor].Clone(), true
}

// CanUndo reports whether an undo step is available
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether a redo step is available
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// BeginApply raises the re-entrancy guard for snapshot application
func (h *History) BeginApply() {
	h.applying = true
}

// EndApply lowers the re-entrancy guard. Callers invoke this after the
// notification that follows snapshot application, not before.
func (h *History) EndApply() {
	h.applying = false
}

// Applying reports whether a snapshot application is in flight
func (h *History) Applying() bool {
	return h.applying
}

// Len returns the number of retained snapshots
func (h *History) Len() int {
	return len(h.entries)
}
