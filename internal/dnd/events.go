package dnd

// EventKind names an engine lifecycle event.
type EventKind string

const (
	EventSessionStarted EventKind = "session_started"
	EventSessionEnded   EventKind = "session_ended"
	EventHandleRejected EventKind = "handle_rejected"
	EventDragIn         EventKind = "drag_in"
	EventDragOver       EventKind = "drag_over"
	EventDragOut        EventKind = "drag_out"
	EventDrop           EventKind = "drop"
	EventTargetRemoved  EventKind = "target_removed"
)

// Event is published on the engine's event bus for UIs, logs and tests.
// Events for one session are published in the order the callbacks fire.
type Event struct {
	Kind      EventKind
	SessionID string
	Handle    Handle
	Target    string
	X, Y      float64
	Result    Result
	Err       error
}
