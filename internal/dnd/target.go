package dnd

import (
	"context"
	"fmt"
)

// Handle is the caller-defined identity of the thing being dragged. The engine
// never inspects it.
type Handle = any

// ContainsFunc reports whether a drag of handle at (x, y) is over the target.
// It may block; the engine never calls it on the goroutine that delivers
// target callbacks.
type ContainsFunc func(ctx context.Context, handle Handle, x, y float64) (bool, error)

// TargetFunc is a drop target lifecycle callback.
type TargetFunc func(handle Handle, x, y float64)

// DropTarget is a region that can receive drops. Targets are compared by
// pointer identity; register the same *DropTarget you later unregister.
type DropTarget struct {
	// Name is used in logs, events and traces only.
	Name string

	// ZIndex orders hit-testing: higher values are tested first.
	ZIndex int

	// Contains is required.
	Contains ContainsFunc

	// OnDragIn, OnDragOver and OnDragOut are optional.
	OnDragIn   TargetFunc
	OnDragOver TargetFunc
	OnDragOut  TargetFunc

	// OnDrop is required.
	OnDrop TargetFunc
}

// Validate checks that the required members are present.
func (t *DropTarget) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil target", ErrInvalidTarget)
	}
	if t.Contains == nil {
		return fmt.Errorf("%w: %q has no Contains", ErrInvalidTarget, t.Name)
	}
	if t.OnDrop == nil {
		return fmt.Errorf("%w: %q has no OnDrop", ErrInvalidTarget, t.Name)
	}
	return nil
}

func (t *DropTarget) String() string {
	if t == nil {
		return "<none>"
	}
	if t.Name == "" {
		return fmt.Sprintf("target@%p", t)
	}
	return t.Name
}

// targetName is String without the pointer fallback, for event payloads.
func targetName(t *DropTarget) string {
	if t == nil {
		return ""
	}
	return t.String()
}
