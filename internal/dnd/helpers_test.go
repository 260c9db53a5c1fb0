package dnd

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recorder collects target callbacks in the order they fire.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) count(s string) int {
	n := 0
	for _, c := range r.Calls() {
		if c == s {
			n++
		}
	}
	return n
}

// target builds a drop target that records every callback into r.
func (r *recorder) target(name string, z int, contains func(x, y float64) bool) *DropTarget {
	return &DropTarget{
		Name:   name,
		ZIndex: z,
		Contains: func(_ context.Context, _ Handle, x, y float64) (bool, error) {
			return contains(x, y), nil
		},
		OnDragIn:   func(Handle, float64, float64) { r.add("in:" + name) },
		OnDragOver: func(Handle, float64, float64) { r.add("over:" + name) },
		OnDragOut:  func(Handle, float64, float64) { r.add("out:" + name) },
		OnDrop:     func(_ Handle, x, y float64) { r.add(fmt.Sprintf("drop:%s@%v,%v", name, x, y)) },
	}
}

// rect returns a containment predicate for the half-open box [x0,x1)x[y0,y1).
func rect(x0, y0, x1, y1 float64) func(x, y float64) bool {
	return func(x, y float64) bool { return x >= x0 && x < x1 && y >= y0 && y < y1 }
}

func never(float64, float64) bool { return false }

// staticHost resolves every grant to the same handle.
func staticHost(handle Handle) Host {
	return Host{
		GetDragHandle: func(context.Context, float64, float64) (Handle, error) {
			return handle, nil
		},
	}
}

type fakeVisual struct {
	mu      sync.Mutex
	updates []string
	clears  int
}

func (v *fakeVisual) Update(element any, x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.updates = append(v.updates, fmt.Sprintf("%v@%v,%v", element, x, y))
}

func (v *fakeVisual) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clears++
}

func (v *fakeVisual) snapshot() ([]string, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.updates...), v.clears
}

func newTestEngine(t *testing.T, host Host, opts ...Option) (*Engine, *ManualClock) {
	t.Helper()
	clock := NewManualClock(time.Unix(1_700_000_000, 0))
	e, err := NewEngine(host, append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, e.Start(ctx))
	t.Cleanup(func() {
		cancel()
		e.Stop()
	})
	return e, clock
}

// settle waits until the engine has no queued messages, no outstanding
// hit-tests and no pending handle resolution.
func settle(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	require.Eventually(t, func() bool {
		if err := e.Sync(ctx); err != nil {
			return false
		}
		st := e.Stats()
		return st.InFlight == 0 && st.State != StateResolving && e.QueueLength() == 0
	}, 2*time.Second, time.Millisecond)
}

// startActive starts a drag at (x, y) and waits for the session to open.
func startActive(t *testing.T, e *Engine, x, y float64) {
	t.Helper()
	require.NoError(t, e.StartDrag(x, y))
	settle(t, e)
	require.Equal(t, StateActive, e.Stats().State)
}

// moveAndFlush sends one update and lets its debounce timer fire.
func moveAndFlush(t *testing.T, e *Engine, clock *ManualClock, x, y float64) {
	t.Helper()
	require.NoError(t, e.UpdateDrag(x, y))
	require.NoError(t, e.Sync(context.Background()))
	clock.Advance(e.Config().Debounce)
	settle(t, e)
}

func endDrag(t *testing.T, e *Engine, x, y float64) Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	out, err := e.EndDrag(ctx, x, y)
	require.NoError(t, err)
	return out
}
