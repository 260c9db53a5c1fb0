package dnd

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/zjrosen/dropzone/internal/log"
)

// TargetSource yields drop targets in hit-test priority order.
type TargetSource interface {
	Targets() []*DropTarget
}

// Registry is the ordered set of drop targets for one drag-drop context.
// Order is descending ZIndex; targets with equal ZIndex keep registration
// order. Registering the same target twice yields two entries.
type Registry struct {
	mu      sync.RWMutex
	targets []*DropTarget
}

var _ TargetSource = (*Registry)(nil)

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register inserts t and returns a function that unregisters it once.
func (r *Registry) Register(t *DropTarget) func() {
	r.mu.Lock()
	r.targets = append(r.targets, t)
	slices.SortStableFunc(r.targets, func(a, b *DropTarget) int {
		return cmp.Compare(b.ZIndex, a.ZIndex)
	})
	n := len(r.targets)
	r.mu.Unlock()

	log.Debug(log.CatRegistry, "target registered", "target", t, "zindex", t.ZIndex, "count", n)

	var once sync.Once
	return func() {
		once.Do(func() { _ = r.Unregister(t) })
	}
}

// Unregister removes the first entry identical to t. An absent target is
// logged and reported as ErrTargetNotRegistered; the registry is unchanged.
func (r *Registry) Unregister(t *DropTarget) error {
	r.mu.Lock()
	idx := slices.Index(r.targets, t)
	if idx >= 0 {
		r.targets = slices.Delete(r.targets, idx, idx+1)
	}
	n := len(r.targets)
	r.mu.Unlock()

	if idx < 0 {
		log.Warn(log.CatRegistry, "unregistering target that was never registered", "target", t)
		return fmt.Errorf("%w: %s", ErrTargetNotRegistered, t)
	}
	log.Debug(log.CatRegistry, "target unregistered", "target", t, "count", n)
	return nil
}

// Targets returns a snapshot of the targets in priority order.
func (r *Registry) Targets() []*DropTarget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.targets)
}

// Has reports whether t is currently registered.
func (r *Registry) Has(t *DropTarget) bool {
	if t == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.targets, t)
}

// Len returns the number of entries, duplicates included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.targets)
}
