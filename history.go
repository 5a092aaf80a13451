package pixart

// History is a linear undo/redo stack of full image snapshots.
//
// The cursor points at the snapshot matching the current document. Taking a
// snapshot while the cursor is not at the tail discards every snapshot after
// it, so history never branches. Snapshots are deep copies and images handed
// out by Undo and Redo are fresh copies, so editing a returned image can never
// corrupt the stored history.
//
// Take one snapshot per completed user gesture, not per pixel.
type History struct {
	snapshots []*Image
	labels    []string
	cursor    int
	limit     int
}

// NewHistory creates an empty history.
func NewHistory(opts ...HistoryOption) *History {
	h := &History{cursor: -1}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Reset clears the history and seeds it with img as snapshot 0.
// Use it when a new or opened document replaces the current one.
func (h *History) Reset(img *Image) {
	clear(h.snapshots)
	h.snapshots = h.snapshots[:0]
	h.labels = h.labels[:0]
	h.cursor = -1
	h.TakeSnapshot(img, "open")
}

// TakeSnapshot stores a deep copy of img after the cursor, dropping any redo
// tail, and moves the cursor onto it.
func (h *History) TakeSnapshot(img *Image, label string) {
	tail := h.cursor + 1
	clear(h.snapshots[tail:])
	h.snapshots = append(h.snapshots[:tail], img.Clone())
	h.labels = append(h.labels[:tail], label)
	h.cursor++

	if h.limit > 0 && len(h.snapshots) > h.limit {
		drop := len(h.snapshots) - h.limit
		clear(h.snapshots[:drop])
		h.snapshots = h.snapshots[drop:]
		h.labels = h.labels[drop:]
		h.cursor -= drop
	}
	Logger().Debug("snapshot taken", "label", label, "cursor", h.cursor, "len", len(h.snapshots))
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor+1 < len(h.snapshots) }

// Undo steps back one snapshot and returns a copy of it, fully marked dirty.
// At the start of history it returns current unchanged.
func (h *History) Undo(current *Image) *Image {
	if !h.CanUndo() {
		return current
	}
	h.cursor--
	Logger().Debug("undo", "label", h.labels[h.cursor+1], "cursor", h.cursor)
	return h.restore()
}

// Redo steps forward one snapshot and returns a copy of it, fully marked
// dirty. At the end of history it returns current unchanged.
func (h *History) Redo(current *Image) *Image {
	if !h.CanRedo() {
		return current
	}
	h.cursor++
	Logger().Debug("redo", "label", h.labels[h.cursor], "cursor", h.cursor)
	return h.restore()
}

func (h *History) restore() *Image {
	img := h.snapshots[h.cursor].Clone()
	img.MarkAllDirty()
	return img
}

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Cursor returns the index of the current snapshot, or -1 when empty.
func (h *History) Cursor() int { return h.cursor }

// Label returns the label of the current snapshot, or "" when empty.
func (h *History) Label() string {
	if h.cursor < 0 {
		return ""
	}
	return h.labels[h.cursor]
}

// UndoLabel returns the label of the step Undo would revert, or "".
func (h *History) UndoLabel() string {
	if !h.CanUndo() {
		return ""
	}
	return h.labels[h.cursor]
}

// RedoLabel returns the label of the step Redo would reapply, or "".
func (h *History) RedoLabel() string {
	if !h.CanRedo() {
		return ""
	}
	return h.labels[h.cursor+1]
}
