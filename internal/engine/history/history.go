// Package history tracks completed expansions for undo.
//
// One stack is shared across all surfaces in a page context, so undo
// order is strictly chronological LIFO regardless of which surface an
// entry came from. The stack is bounded; pushing past the cap evicts the
// oldest entries.
package history

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/snipstorm/internal/engine/surface"
)

// ErrNothingToUndo is returned when the stack is empty.
var ErrNothingToUndo = errors.New("nothing to undo")

// DefaultMaxEntries bounds the stack when no cap is configured.
const DefaultMaxEntries = 50

// Record captures one applied expansion.
type Record struct {
	ID           string          // Unique record id
	Surface      surface.Surface // Surface the expansion was applied to
	OriginalText string          // Full surface text before the splice
	Trigger      string          // Trigger that caused the expansion
	Span         surface.Span    // Replaced span at record time
	Expanded     string          // Content that was inserted
	Timestamp    time.Time       // When the expansion completed
}

// NewRecord creates a record for an applied expansion.
func NewRecord(surf surface.Surface, originalText, trigger string, span surface.Span, expanded string) *Record {
	return &Record{
		ID:           uuid.NewString(),
		Surface:      surf,
		OriginalText: originalText,
		Trigger:      trigger,
		Span:         span,
		Expanded:     expanded,
		Timestamp:    time.Now(),
	}
}

// Stack is a bounded LIFO of expansion records.
// All methods are safe for concurrent use.
type Stack struct {
	mu         sync.Mutex
	records    []*Record
	maxEntries int
}

// NewStack creates a stack bounded to maxEntries. Non-positive values
// fall back to DefaultMaxEntries.
func NewStack(maxEntries int) *Stack {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Stack{maxEntries: maxEntries}
}

// Push adds a record, evicting the oldest entries past the cap.
func (s *Stack) Push(rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	if len(s.records) > s.maxEntries {
		excess := len(s.records) - s.maxEntries
		s.records = s.records[excess:]
	}
}

// Pop removes and returns the most recent record.
func (s *Stack) Pop() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return nil, ErrNothingToUndo
	}

	rec := s.records[len(s.records)-1]
	s.records = s.records[:len(s.records)-1]
	return rec, nil
}

// Peek returns the most recent record without removing it.
func (s *Stack) Peek() (*Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return nil, false
	}
	return s.records[len(s.records)-1], true
}

// Len returns the number of records on the stack.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Clear removes all records.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}
