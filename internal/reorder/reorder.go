// Package reorder implements the drag-reorder gesture over a list's
// entries. The engine owns the authoritative in-memory order for the
// duration of a gesture and yields the final order on drop.
package reorder

import (
	"sync"
	"time"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/errors"
)

// State is the gesture state.
type State string

const (
	// StateIdle means no gesture is in progress.
	StateIdle State = "idle"

	// StatePressed means a press was registered but the hold delay
	// has not yet elapsed. A release in this window is a tap.
	StatePressed State = "pressed"

	// StateDragging means an entry is being dragged.
	StateDragging State = "dragging"
)

// DefaultHoldDelay disambiguates a drag from a tap or scroll gesture.
const DefaultHoldDelay = 100 * time.Millisecond

// Engine tracks one reorder gesture at a time over a list's entries.
// Only one gesture may be active; a Begin while another gesture is in
// progress is rejected.
type Engine struct {
	mu        sync.Mutex
	holdDelay time.Duration

	state     State
	entries   []domain.AlbumEntry
	origin    int // Index the dragged entry started at
	current   int // Index the dragged entry currently occupies
	pressedAt time.Time
}

// NewEngine creates an engine over a copy of the given entries.
// A holdDelay of zero uses DefaultHoldDelay.
func NewEngine(entries []domain.AlbumEntry, holdDelay time.Duration) *Engine {
	if holdDelay <= 0 {
		holdDelay = DefaultHoldDelay
	}
	owned := make([]domain.AlbumEntry, len(entries))
	copy(owned, entries)
	return &Engine{
		holdDelay: holdDelay,
		state:     StateIdle,
		entries:   owned,
	}
}

// State returns the current gesture state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Entries returns the current order.
func (e *Engine) Entries() []domain.AlbumEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.AlbumEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Begin registers a press on the entry at index. The gesture stays in
// StatePressed until the hold delay elapses.
func (e *Engine) Begin(index int, at time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		return errors.Conflict("a reorder gesture is already in progress")
	}
	if index < 0 || index >= len(e.entries) {
		return errors.Validationf("index %d out of range", index)
	}

	e.state = StatePressed
	e.origin = index
	e.current = index
	e.pressedAt = at
	return nil
}

// Move updates the dragged entry's position. The first Move after the
// hold delay promotes the gesture to StateDragging; a Move before the
// delay cancels the gesture since the pointer is scrolling, not
// dragging.
func (e *Engine) Move(to int, at time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StatePressed:
		if at.Sub(e.pressedAt) < e.holdDelay {
			e.reset()
			return errors.Validation("moved before hold delay elapsed")
		}
		e.state = StateDragging
	case StateDragging:
	default:
		return errors.Conflict("no gesture in progress")
	}

	if to < 0 || to >= len(e.entries) {
		return errors.Validationf("index %d out of range", to)
	}

	e.current = to
	return nil
}

// Drop completes the gesture. With the pointer over a new position the
// entry is spliced out of its old slot and inserted at the new one,
// and ranks are recomputed from the final order. A release while still
// in StatePressed is a tap and changes nothing.
// Returns true when the order changed.
func (e *Engine) Drop(at time.Time) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateDragging:
	case StatePressed:
		e.reset()
		return false, nil
	default:
		return false, errors.Conflict("no gesture in progress")
	}

	moved := e.current != e.origin
	if moved {
		splice(e.entries, e.origin, e.current)
		domain.RecomputeRanks(e.entries)
	}

	e.reset()
	return moved, nil
}

// Cancel aborts the gesture, leaving the order unchanged.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

func (e *Engine) reset() {
	e.state = StateIdle
	e.origin = 0
	e.current = 0
	e.pressedAt = time.Time{}
}

// splice moves the element at from to position to, shifting the
// elements between them by one.
func splice(entries []domain.AlbumEntry, from, to int) {
	moved := entries[from]
	if from < to {
		copy(entries[from:to], entries[from+1:to+1])
	} else {
		copy(entries[to+1:from+1], entries[to:from])
	}
	entries[to] = moved
}

// MoveEntry performs a single splice over entries without gesture
// tracking, for callers that already know the old and new index.
// Ranks are recomputed from the final order.
func MoveEntry(entries []domain.AlbumEntry, from, to int) error {
	if from < 0 || from >= len(entries) {
		return errors.Validationf("index %d out of range", from)
	}
	if to < 0 || to >= len(entries) {
		return errors.Validationf("index %d out of range", to)
	}
	if from != to {
		splice(entries, from, to)
	}
	domain.RecomputeRanks(entries)
	return nil
}
