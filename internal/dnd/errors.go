package dnd

import "errors"

var (
	// ErrTargetNotRegistered is returned when unregistering a target the
	// registry does not hold.
	ErrTargetNotRegistered = errors.New("drop target not registered")

	// ErrInvalidTarget is returned when a target lacks Contains or OnDrop.
	ErrInvalidTarget = errors.New("invalid drop target")

	// ErrInvalidHost is returned when the host does not supply GetDragHandle.
	ErrInvalidHost = errors.New("invalid drag host")

	// ErrEngineStopped is returned by entry points once the engine loop has exited
	// or before it was started.
	ErrEngineStopped = errors.New("drag engine not running")

	// ErrQueueFull is returned when the engine cannot accept another gesture sample.
	ErrQueueFull = errors.New("drag engine queue full")
)
