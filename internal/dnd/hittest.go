package dnd

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/zjrosen/dropzone/internal/log"
)

// HitTester finds the first target, in priority order, whose Contains
// predicate accepts a drag sample. It never fires target callbacks.
type HitTester struct {
	resolutions atomic.Int64
	evaluations atomic.Int64
	failures    atomic.Int64
}

// NewHitTester returns a HitTester with zeroed counters.
func NewHitTester() *HitTester {
	return &HitTester{}
}

// Resolve returns the first target in src whose predicate yields true, or nil.
// A predicate that errors or panics counts as no match for this pass only.
func (h *HitTester) Resolve(ctx context.Context, src TargetSource, handle Handle, x, y float64) *DropTarget {
	h.resolutions.Add(1)
	for _, t := range src.Targets() {
		if ctx.Err() != nil {
			return nil
		}
		ok, err := h.evaluate(ctx, t, handle, x, y)
		if err != nil {
			h.failures.Add(1)
			log.ErrorErr(log.CatHitTest, "contains failed, skipping target", err,
				"target", t, "x", x, "y", y)
			continue
		}
		if ok {
			return t
		}
	}
	return nil
}

func (h *HitTester) evaluate(ctx context.Context, t *DropTarget, handle Handle, x, y float64) (ok bool, err error) {
	h.evaluations.Add(1)
	if t == nil || t.Contains == nil {
		return false, ErrInvalidTarget
	}
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("contains panicked: %v", r)
		}
	}()
	return t.Contains(ctx, handle, x, y)
}

// Resolutions returns how many times Resolve has been called.
func (h *HitTester) Resolutions() int64 { return h.resolutions.Load() }

// Evaluations returns how many Contains predicates have been invoked.
func (h *HitTester) Evaluations() int64 { return h.evaluations.Load() }

// Failures returns how many predicates errored or panicked.
func (h *HitTester) Failures() int64 { return h.failures.Load() }
