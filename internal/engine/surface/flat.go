package surface

import (
	"sync"

	"github.com/google/uuid"
)

// Change describes a completed mutation on a surface.
type Change struct {
	SurfaceID string // Surface that changed
	Span      Span   // Range that was replaced (pre-splice offsets)
	OldText   string // Text that was replaced
	NewText   string // Text that was inserted
	Cursor    int    // Cursor offset after the mutation
}

// ChangeListener is invoked after a successful mutation.
type ChangeListener func(Change)

// Flat is a linear value buffer with a selection range. It models plain
// editable fields: single-line inputs, textareas, line editors.
// All methods are safe for concurrent use.
type Flat struct {
	mu       sync.RWMutex
	id       string
	value    string
	selStart int
	selEnd   int
	detached bool

	// Listeners fired on every successful splice, in registration order.
	// Change listeners model the generic "value changed" signal; commit
	// listeners model "content committed". Reactive embedders that only
	// repaint on these signals depend on both firing.
	changeListeners []ChangeListener
	commitListeners []ChangeListener
}

// FlatOption configures a Flat surface.
type FlatOption func(*Flat)

// WithChangeListener registers a listener for value-changed signals.
func WithChangeListener(fn ChangeListener) FlatOption {
	return func(f *Flat) {
		f.changeListeners = append(f.changeListeners, fn)
	}
}

// WithCommitListener registers a listener for content-committed signals.
func WithCommitListener(fn ChangeListener) FlatOption {
	return func(f *Flat) {
		f.commitListeners = append(f.commitListeners, fn)
	}
}

// NewFlat creates a flat surface with initial content. The cursor starts
// at the end of the content.
func NewFlat(value string, opts ...FlatOption) *Flat {
	f := &Flat{
		id:       uuid.NewString(),
		value:    value,
		selStart: len(value),
		selEnd:   len(value),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// ID returns the surface identifier.
func (f *Flat) ID() string {
	return f.id
}

// PlainText returns the full buffer content.
func (f *Flat) PlainText() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

// Len returns the buffer length in bytes.
func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.value)
}

// Selection returns the current selection range.
func (f *Flat) Selection() (int, int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.selStart, f.selEnd
}

// SetCursor collapses the selection to the given offset.
func (f *Flat) SetCursor(offset int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.detached {
		return ErrDetached
	}
	if offset < 0 || offset > len(f.value) {
		return ErrRangeInvalid
	}

	f.selStart = offset
	f.selEnd = offset
	return nil
}

// Insert inserts text at the current cursor position, replacing any
// active selection.
func (f *Flat) Insert(text string) (int, error) {
	start, end := f.Selection()
	return f.Splice(start, end, text)
}

// Splice replaces [start, end) with text and collapses the cursor to just
// after the inserted text. Both change and commit signals fire on success.
func (f *Flat) Splice(start, end int, text string) (int, error) {
	f.mu.Lock()

	if f.detached {
		f.mu.Unlock()
		return 0, ErrDetached
	}
	if err := validateRange(start, end, len(f.value)); err != nil {
		f.mu.Unlock()
		return 0, err
	}

	old := f.value[start:end]
	f.value = f.value[:start] + text + f.value[end:]
	cursor := start + len(text)
	f.selStart = cursor
	f.selEnd = cursor

	change := Change{
		SurfaceID: f.id,
		Span:      Span{Start: start, End: end},
		OldText:   old,
		NewText:   text,
		Cursor:    cursor,
	}
	changeFns := make([]ChangeListener, len(f.changeListeners))
	copy(changeFns, f.changeListeners)
	commitFns := make([]ChangeListener, len(f.commitListeners))
	copy(commitFns, f.commitListeners)
	f.mu.Unlock()

	// Fire listeners without holding the lock so they may read the surface.
	for _, fn := range changeFns {
		fn(change)
	}
	for _, fn := range commitFns {
		fn(change)
	}

	return cursor, nil
}

// Attached reports whether the surface is still live.
func (f *Flat) Attached() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return !f.detached
}

// Detach marks the surface as removed from its document. All further
// mutations fail with ErrDetached.
func (f *Flat) Detach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detached = true
}
