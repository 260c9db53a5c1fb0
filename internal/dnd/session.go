package dnd

import (
	"fmt"
	"time"
)

// State is the coordination engine's lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateResolving
	StateActive
	StateFinalizing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateActive:
		return "active"
	case StateFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// Result is how a drag ended.
type Result int

const (
	// ResultNotStarted means no session was opened: the handle resolved to
	// nil, resolution failed, or there was no drag to end.
	ResultNotStarted Result = iota
	// ResultCompleted means OnDrop fired on a target.
	ResultCompleted
	// ResultCancelled means the drag ended over no target or was torn down.
	ResultCancelled
)

func (r Result) String() string {
	switch r {
	case ResultCompleted:
		return "completed"
	case ResultCancelled:
		return "cancelled"
	default:
		return "not_started"
	}
}

// Session is one in-progress drag. The engine loop owns the live value;
// callers only ever see copies.
type Session struct {
	ID      string
	Handle  Handle
	Element any

	StartX, StartY float64
	X, Y           float64

	// Current is the target considered entered, nil when none.
	Current *DropTarget

	// Pending is true while a debounce timer or hit-test is outstanding.
	Pending bool

	StartedAt time.Time
}

func newSession(id string, handle Handle, element any, startX, startY, x, y float64, now time.Time) *Session {
	return &Session{
		ID:        id,
		Handle:    handle,
		Element:   element,
		StartX:    startX,
		StartY:    startY,
		X:         x,
		Y:         y,
		StartedAt: now,
	}
}

func (s *Session) moveTo(x, y float64) {
	s.X, s.Y = x, y
}

// Outcome is returned to the gesture collaborator when a drag finishes.
type Outcome struct {
	SessionID string
	Handle    Handle
	X, Y      float64
	Result    Result

	// Target received OnDrop; nil unless Result is ResultCompleted.
	Target *DropTarget

	// Forced is set when the session ended through teardown.
	Forced bool

	Duration time.Duration
}

// Cancelled reports whether the drag ended without a drop.
func (o Outcome) Cancelled() bool {
	return o.Result != ResultCompleted
}

// describe renders a handle for logs and span attributes.
func describe(h Handle) string {
	if s, ok := h.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", h)
}
