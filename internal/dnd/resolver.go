package dnd

import (
	"context"
	"fmt"
	"sync"

	"github.com/zjrosen/dropzone/internal/log"
)

// GetHandleFunc turns a pointer-down location into a drag handle. A nil
// handle means "nothing draggable here". It may block.
type GetHandleFunc func(ctx context.Context, x, y float64) (Handle, error)

// Resolution is the settled result of one handle lookup.
type Resolution struct {
	Seq    uint64
	Handle Handle
	Err    error
}

// HandleResolver runs the host's handle lookup off the engine loop. Only one
// lookup may be pending; a Start while one is pending is ignored and the
// original lookup wins.
type HandleResolver struct {
	mu      sync.Mutex
	seq     uint64
	pending bool
}

// NewHandleResolver returns an idle resolver.
func NewHandleResolver() *HandleResolver {
	return &HandleResolver{}
}

// Start invokes fn exactly once on a new goroutine and hands its result to
// deliver. It returns the sequence number of the lookup and false when the
// call was ignored because another lookup is pending.
func (r *HandleResolver) Start(ctx context.Context, x, y float64, fn GetHandleFunc, deliver func(Resolution)) (uint64, bool) {
	r.mu.Lock()
	if r.pending {
		seq := r.seq
		r.mu.Unlock()
		log.Debug(log.CatResolver, "start ignored, resolution pending", "seq", seq)
		return 0, false
	}
	r.seq++
	seq := r.seq
	r.pending = true
	r.mu.Unlock()

	go func() {
		handle, err := call(ctx, fn, x, y)

		r.mu.Lock()
		if r.seq == seq {
			r.pending = false
		}
		r.mu.Unlock()

		deliver(Resolution{Seq: seq, Handle: handle, Err: err})
	}()
	return seq, true
}

// Pending reports whether a lookup is outstanding.
func (r *HandleResolver) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Abandon forgets the outstanding lookup so a new Start is accepted. The
// abandoned lookup still delivers, carrying its old sequence number.
func (r *HandleResolver) Abandon() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending {
		r.seq++
		r.pending = false
	}
}

func call(ctx context.Context, fn GetHandleFunc, x, y float64) (handle Handle, err error) {
	defer func() {
		if p := recover(); p != nil {
			handle, err = nil, fmt.Errorf("get drag handle panicked: %v", p)
		}
	}()
	return fn(ctx, x, y)
}
