package dnd

import (
	"context"
	"sync"

	"github.com/zjrosen/dropzone/internal/log"
)

// Source adapts a draggable element's raw gesture stream to the engine.
// It scales coordinates into the context's logical space, remembers the last
// pointer position for Terminate and Unmount, and ignores a second grant
// while its own drag is still open. Moves and releases only drive a drag this
// source started; when the engine ignored the grant because another drag was
// live, they are no-ops and the release reports ResultNotStarted.
//
// Host members set on a Source override the engine's Host for drags that
// start from it.
type Source struct {
	engine *Engine
	host   Host
	scale  float64

	mu      sync.Mutex
	lastX   float64
	lastY   float64
	granted bool
}

// NewSource creates a gesture adapter bound to e.
func (e *Engine) NewSource(host Host) *Source {
	scale := e.cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	return &Source{engine: e, host: host, scale: scale}
}

// Grant starts a drag at raw pointer coordinates (x, y).
func (s *Source) Grant(x, y float64) error {
	px, py := x*s.scale, y*s.scale

	s.mu.Lock()
	s.lastX, s.lastY = px, py
	if s.granted {
		s.mu.Unlock()
		log.Debug(log.CatEngine, "grant ignored, source already dragging")
		return nil
	}
	s.granted = true
	s.mu.Unlock()

	if err := s.engine.submit(startMsg{x: px, y: py, host: s.host, owner: s}); err != nil {
		s.mu.Lock()
		s.granted = false
		s.mu.Unlock()
		return err
	}
	return nil
}

// Move forwards a pointer move. Moves without a grant are ignored.
func (s *Source) Move(x, y float64) error {
	px, py := x*s.scale, y*s.scale

	s.mu.Lock()
	granted := s.granted
	if granted {
		s.lastX, s.lastY = px, py
	}
	s.mu.Unlock()

	if !granted {
		return nil
	}
	return s.engine.submit(updateMsg{x: px, y: py, owner: s})
}

// Release ends the drag at raw pointer coordinates (x, y).
func (s *Source) Release(ctx context.Context, x, y float64) (Outcome, error) {
	px, py := x*s.scale, y*s.scale

	s.mu.Lock()
	s.lastX, s.lastY = px, py
	s.mu.Unlock()

	return s.end(ctx)
}

// Terminate ends the drag at the last known coordinates, as when the platform
// steals the gesture.
func (s *Source) Terminate(ctx context.Context) (Outcome, error) {
	return s.end(ctx)
}

// Unmount force-ends a drag started from this source. OnDrop never fires.
func (s *Source) Unmount(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	granted := s.granted
	s.granted = false
	s.mu.Unlock()

	if !granted {
		return Outcome{Result: ResultNotStarted}, nil
	}

	reply := make(chan Outcome, 1)
	if err := s.engine.post(ctx, teardownMsg{owner: s, reply: reply}); err != nil {
		return Outcome{}, err
	}
	return s.engine.await(ctx, reply)
}

// Dragging reports whether the source has an open grant.
func (s *Source) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.granted
}

// Last returns the last logical pointer position seen by the source.
func (s *Source) Last() (x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastX, s.lastY
}

func (s *Source) end(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	granted := s.granted
	s.granted = false
	x, y := s.lastX, s.lastY
	s.mu.Unlock()

	if !granted {
		return Outcome{X: x, Y: y, Result: ResultNotStarted}, nil
	}
	return s.engine.end(ctx, endMsg{x: x, y: y, owner: s})
}
