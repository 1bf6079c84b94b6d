package history

// History is a linear undo stack: an ordered sequence of opaque entries and
// a cursor marking the current one. Storing after an undo drops every entry
// past the cursor.
//
// Invariant: -1 <= cursor < len(entries); an empty history has cursor -1.
// History is not safe for concurrent use.
type History[T any] struct {
	entries []T
	cursor  int
	limit   int
}

// New creates an empty history. limit > 0 bounds the number of entries kept;
// the oldest entries are dropped first. limit <= 0 keeps everything.
func New[T any](limit int) *History[T] {
	if limit < 0 {
		limit = 0
	}
	return &History[T]{cursor: -1, limit: limit}
}

// Store appends item after the cursor, discarding any redo-able entries.
func (h *History[T]) Store(item T) {
	if h.cursor != len(h.entries)-1 {
		h.entries = h.entries[:h.cursor+1]
	}
	h.entries = append(h.entries, item)
	h.cursor = len(h.entries) - 1
	h.trim()
}

// trim drops the oldest entries beyond limit and shifts the cursor with them
func (h *History[T]) trim() {
	if h.limit <= 0 || len(h.entries) <= h.limit {
		return
	}
	drop := len(h.entries) - h.limit
	h.entries = append([]T{}, h.entries[drop:]...)
	h.cursor -= drop
	if h.cursor < 0 {
		h.cursor = 0
	}
}

// Undo moves the cursor back one entry. It never goes below 0 once the
// history is non-empty and reports whether the cursor moved.
func (h *History[T]) Undo() bool {
	if h.cursor > 0 {
		h.cursor--
		return true
	}
	return false
}

// Redo moves the cursor forward one entry and reports whether it moved.
func (h *History[T]) Redo() bool {
	if h.cursor < len(h.entries)-1 {
		h.cursor++
		return true
	}
	return false
}

// Current returns the entry at the cursor.
func (h *History[T]) Current() (T, bool) {
	return h.at(h.cursor)
}

// Next returns the entry a Redo would move to.
func (h *History[T]) Next() (T, bool) {
	return h.at(h.cursor + 1)
}

func (h *History[T]) at(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(h.entries) {
		return zero, false
	}
	return h.entries[i], true
}

// Clear resets the history to the empty state.
func (h *History[T]) Clear() {
	h.entries = nil
	h.cursor = -1
}

// Len returns the number of stored entries.
func (h *History[T]) Len() int { return len(h.entries) }

// Cursor returns the current position, -1 when empty.
func (h *History[T]) Cursor() int { return h.cursor }

// Entries returns a copy of the stored entries, oldest first.
func (h *History[T]) Entries() []T {
	return append([]T(nil), h.entries...)
}
