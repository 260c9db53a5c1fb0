// Package pubsub fans drag engine lifecycle events and debug log entries out
// to the UI. Publishers never block; see Broker.
package pubsub

import (
	"context"
	"time"
)

// EventType tells subscribers what kind of payload an event carries.
type EventType string

const (
	// DragEvent carries a dnd.Event from the coordination engine.
	DragEvent EventType = "drag"
	// LogEntryEvent carries one formatted debug log line.
	LogEntryEvent EventType = "log_entry"
)

// Event is one delivery: the payload plus when the broker stamped it.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber is what the board and app listen on.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher is what the engine and logger write to. Publish returns the
// number of subscribers that received the event.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T) int
}
