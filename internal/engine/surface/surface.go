package surface

import (
	"errors"
	"fmt"
)

// Errors returned by surface operations.
var (
	ErrDetached     = errors.New("surface detached from document")
	ErrRangeInvalid = errors.New("invalid range")
)

// Span represents a character range in a surface.
// Start is inclusive, End is exclusive: [Start, End).
type Span struct {
	Start int // Inclusive start offset
	End   int // Exclusive end offset
}

// NewSpan creates a new Span from start and end offsets.
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// Len returns the length of the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// IsValid returns true if the span is ordered (Start <= End).
func (s Span) IsValid() bool {
	return s.Start <= s.End
}

// Contains returns true if the given offset is within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Surface is the contract shared by all text-bearing editable regions.
//
// Offsets are byte offsets into the UTF-8 plain text of the surface.
// Any offset in [0, Len()] is valid as a splice boundary.
type Surface interface {
	// ID returns a stable identifier for this surface instance.
	ID() string

	// PlainText returns the full text content, independent of selection.
	PlainText() string

	// Len returns the total length of the plain text.
	Len() int

	// Selection returns the current selection range. A collapsed
	// selection (start == end) is the cursor position.
	Selection() (start, end int)

	// SetCursor collapses the selection to the given offset.
	SetCursor(offset int) error

	// Splice replaces the range [start, end) with text and positions the
	// cursor immediately after the inserted text. It returns the new
	// cursor offset.
	Splice(start, end int, text string) (int, error)

	// Attached reports whether the surface is still reachable from its
	// owning document. Splice and SetCursor fail on detached surfaces.
	Attached() bool
}

// validateRange checks a splice range against a surface length.
func validateRange(start, end, length int) error {
	if start < 0 || start > end || end > length {
		return ErrRangeInvalid
	}
	return nil
}
