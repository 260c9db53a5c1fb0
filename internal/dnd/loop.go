package dnd

import (
	"reflect"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/dropzone/internal/log"
	"github.com/zjrosen/dropzone/internal/tracing"
)

// message is a unit of work for the engine loop.
type message interface {
	apply(e *Engine)
}

type startMsg struct {
	x, y  float64
	host  Host
	owner *Source
}

type updateMsg struct {
	x, y  float64
	owner *Source
}

type endMsg struct {
	x, y  float64
	owner *Source
	reply chan Outcome
}

type teardownMsg struct {
	owner *Source
	reply chan Outcome
}

type resolvedMsg struct{ res Resolution }

type timerMsg struct{ gen uint64 }

type hitMsg struct {
	gen    uint64
	target *DropTarget
	x, y   float64
}

type targetRemovedMsg struct{ target *DropTarget }

type syncMsg struct{ reply chan struct{} }

type snapshotMsg struct{ reply chan *Session }

func (m startMsg) apply(e *Engine)         { e.handleStart(m) }
func (m updateMsg) apply(e *Engine)        { e.handleUpdate(m) }
func (m endMsg) apply(e *Engine)           { e.handleEnd(m) }
func (m teardownMsg) apply(e *Engine)      { e.handleTeardown(m) }
func (m resolvedMsg) apply(e *Engine)      { e.handleResolved(m.res) }
func (m timerMsg) apply(e *Engine)         { e.handleTimer(m) }
func (m hitMsg) apply(e *Engine)           { e.handleHit(m) }
func (m targetRemovedMsg) apply(e *Engine) { e.handleTargetRemoved(m) }
func (m syncMsg) apply(*Engine)            { close(m.reply) }

func (m snapshotMsg) apply(e *Engine) {
	if e.session == nil {
		m.reply <- nil
		return
	}
	s := *e.session
	m.reply <- &s
}

func newSessionID() string {
	return uuid.NewString()
}

// owns reports whether messages from src may drive the live drag. A nil src
// is the engine-level API and drives whatever drag is open.
func (e *Engine) owns(src *Source) bool {
	return src == nil || src == e.owner
}

// isNilHandle also catches typed nils such as a (*Card)(nil) boxed in Handle.
func isNilHandle(h Handle) bool {
	if h == nil {
		return true
	}
	switch v := reflect.ValueOf(h); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func (e *Engine) setState(s State) {
	if e.state != s {
		log.Debug(log.CatEngine, "state transition", "from", e.state, "to", s)
	}
	e.state = s
	e.stateGauge.Store(int32(s))
}

// ===========================================================================
// Idle -> Resolving
// ===========================================================================

func (e *Engine) handleStart(m startMsg) {
	if e.state != StateIdle {
		e.ignoredStarts.Add(1)
		log.Debug(log.CatEngine, "start ignored, drag already in progress", "state", e.state)
		return
	}

	host := e.host.merge(m.host)
	seq, ok := e.resolver.Start(e.ctx, m.x, m.y, host.GetDragHandle, func(res Resolution) {
		e.deliver(resolvedMsg{res: res})
	})
	if !ok {
		e.ignoredStarts.Add(1)
		return
	}

	e.active = host
	e.owner = m.owner
	e.resolveSeq = seq
	e.grantX, e.grantY = m.x, m.y
	e.latestX, e.latestY = m.x, m.y
	e.setState(StateResolving)
}

// ===========================================================================
// Resolving -> Active | Idle
// ===========================================================================

func (e *Engine) handleResolved(res Resolution) {
	if e.state != StateResolving || res.Seq != e.resolveSeq {
		log.Debug(log.CatResolver, "discarding stale handle resolution", "seq", res.Seq, "want", e.resolveSeq)
		return
	}

	if res.Err != nil || isNilHandle(res.Handle) {
		if res.Err != nil {
			log.ErrorErr(log.CatResolver, "drag handle resolution failed", res.Err,
				"x", e.grantX, "y", e.grantY)
			if e.active.OnError != nil {
				err := res.Err
				e.invoke("OnError", func() { e.active.OnError(err) })
			}
		} else {
			log.Debug(log.CatResolver, "no drag handle at grant point", "x", e.grantX, "y", e.grantY)
		}
		e.publish(Event{Kind: EventHandleRejected, X: e.latestX, Y: e.latestY, Err: res.Err})
		e.replyWaiters(Outcome{X: e.latestX, Y: e.latestY, Result: ResultNotStarted})
		e.reset()
		return
	}

	var element any
	if e.active.GetDragElement != nil {
		e.invoke("GetDragElement", func() { element = e.active.GetDragElement(res.Handle) })
	}

	s := newSession(e.newID(), res.Handle, element, e.grantX, e.grantY, e.latestX, e.latestY, e.clock.Now())
	e.session = s
	e.sessions.Add(1)
	e.setState(StateActive)

	_, e.span = e.tracer.Start(e.ctx, tracing.SpanDragSession,
		trace.WithAttributes(
			attribute.String(tracing.AttrSessionID, s.ID),
			attribute.String(tracing.AttrHandle, describe(s.Handle)),
			attribute.Float64(tracing.AttrStartX, s.StartX),
			attribute.Float64(tracing.AttrStartY, s.StartY),
		))

	log.Info(log.CatEngine, "drag session started", "session", s.ID, "handle", describe(s.Handle),
		"x", s.X, "y", s.Y)
	e.publish(Event{Kind: EventSessionStarted, SessionID: s.ID, Handle: s.Handle, X: s.X, Y: s.Y})

	if e.active.OnDragStart != nil {
		e.invoke("OnDragStart", func() { e.active.OnDragStart(s.Handle, s.StartX, s.StartY) })
	}
	e.updateVisual()

	if len(e.waiters) > 0 {
		// The release arrived while resolving; latest coordinates are the release point.
		e.finalize(e.latestX, e.latestY)
		return
	}
	e.beginHitTest(true)
}

// ===========================================================================
// Active: UpdateDrag, debounce, hit-test
// ===========================================================================

func (e *Engine) handleUpdate(m updateMsg) {
	if !e.owns(m.owner) {
		log.Debug(log.CatEngine, "update ignored, source does not own the drag", "state", e.state)
		return
	}
	switch e.state {
	case StateResolving:
		e.latestX, e.latestY = m.x, m.y
	case StateActive:
		e.session.moveTo(m.x, m.y)
		e.updateVisual()
		e.armDebounce()
	default:
		log.Debug(log.CatEngine, "update ignored", "state", e.state)
	}
}

func (e *Engine) armDebounce() {
	e.stopTimer()
	e.timerGen++
	gen := e.timerGen
	e.session.Pending = true
	e.timer = e.clock.AfterFunc(e.cfg.Debounce, func() {
		e.deliver(timerMsg{gen: gen})
	})
}

func (e *Engine) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) handleTimer(m timerMsg) {
	if e.state != StateActive || m.gen != e.timerGen || e.timer == nil {
		return
	}
	e.timer = nil
	e.beginHitTest(false)
}

// beginHitTest schedules a hit-test for the session's current coordinates.
// A debounced (non-immediate) request while another hit-test is in flight is
// folded into a single rerun once that one reports back. Immediate requests
// start right away and supersede anything in flight.
func (e *Engine) beginHitTest(immediate bool) {
	if !immediate && e.inFlight > 0 {
		e.rerun = true
		return
	}

	e.generation++
	gen := e.generation
	e.inFlight++
	e.inFlightGauge.Store(int32(e.inFlight))
	e.hitTests.Add(1)
	e.session.Pending = true

	s := e.session
	handle, x, y := s.Handle, s.X, s.Y
	go func() {
		target := e.hitTester.Resolve(e.ctx, e.registry, handle, x, y)
		e.deliver(hitMsg{gen: gen, target: target, x: x, y: y})
	}()
}

func (e *Engine) handleHit(m hitMsg) {
	e.inFlight--
	e.inFlightGauge.Store(int32(e.inFlight))

	if m.gen != e.generation || e.session == nil {
		e.discarded.Add(1)
		log.Debug(log.CatEngine, "discarding superseded hit-test", "gen", m.gen, "latest", e.generation)
		e.maybeRerun()
		return
	}

	switch e.state {
	case StateActive:
		e.applyTarget(m.target, m.x, m.y)
		if e.rerun {
			e.maybeRerun()
		} else if e.timer == nil {
			e.session.Pending = false
		}
	case StateFinalizing:
		e.applyTarget(m.target, m.x, m.y)
		e.complete()
	}
}

func (e *Engine) maybeRerun() {
	if e.rerun && e.inFlight == 0 && e.state == StateActive {
		e.rerun = false
		e.beginHitTest(false)
	}
}

// applyTarget moves the session onto target, firing out/in/over as needed.
// Targets that have been unregistered since the hit-test started are treated
// as absent and receive no callbacks.
func (e *Engine) applyTarget(target *DropTarget, x, y float64) {
	s := e.session
	if target != nil && !e.registry.Has(target) {
		target = nil
	}
	if s.Current != nil && !e.registry.Has(s.Current) {
		s.Current = nil
	}

	old := s.Current
	if old == target {
		if target != nil {
			e.fire(EventDragOver, target, target.OnDragOver, x, y)
		}
		return
	}

	if old != nil {
		e.fire(EventDragOut, old, old.OnDragOut, x, y)
	}
	s.Current = target
	if target != nil {
		e.fire(EventDragIn, target, target.OnDragIn, x, y)
		e.fire(EventDragOver, target, target.OnDragOver, x, y)
	}
}

func (e *Engine) fire(kind EventKind, t *DropTarget, fn TargetFunc, x, y float64) {
	s := e.session
	if e.span != nil {
		e.span.AddEvent(string(kind), trace.WithAttributes(
			attribute.String(tracing.AttrTarget, t.String()),
			attribute.Float64(tracing.AttrX, x),
			attribute.Float64(tracing.AttrY, y),
		))
	}
	if kind != EventDragOver {
		log.Debug(log.CatEngine, string(kind), "session", s.ID, "target", t, "x", x, "y", y)
	}
	if fn != nil {
		e.invoke(string(kind)+" "+t.String(), func() { fn(s.Handle, x, y) })
	}
	e.publish(Event{Kind: kind, SessionID: s.ID, Handle: s.Handle, Target: targetName(t), X: x, Y: y})
}

func (e *Engine) handleTargetRemoved(m targetRemovedMsg) {
	if e.session == nil || e.session.Current != m.target {
		return
	}
	if e.registry.Has(m.target) {
		// A duplicate registration of the same target is still live.
		return
	}
	log.Debug(log.CatEngine, "entered target unregistered, drag out suppressed",
		"session", e.session.ID, "target", m.target)
	e.session.Current = nil
	e.publish(Event{Kind: EventTargetRemoved, SessionID: e.session.ID, Handle: e.session.Handle,
		Target: targetName(m.target), X: e.session.X, Y: e.session.Y})
}

// ===========================================================================
// Active -> Finalizing -> Idle
// ===========================================================================

func (e *Engine) handleEnd(m endMsg) {
	if !e.owns(m.owner) {
		log.Debug(log.CatEngine, "end ignored, source does not own the drag", "state", e.state)
		m.reply <- Outcome{X: m.x, Y: m.y, Result: ResultNotStarted}
		return
	}
	switch e.state {
	case StateIdle:
		log.Debug(log.CatEngine, "end ignored, no drag in progress")
		m.reply <- Outcome{X: m.x, Y: m.y, Result: ResultNotStarted}
	case StateResolving:
		e.latestX, e.latestY = m.x, m.y
		e.waiters = append(e.waiters, m.reply)
	case StateActive:
		e.waiters = append(e.waiters, m.reply)
		e.finalize(m.x, m.y)
	case StateFinalizing:
		e.waiters = append(e.waiters, m.reply)
	}
}

// finalize performs the release-point hit-test. Completion continues in
// handleHit once the result arrives.
func (e *Engine) finalize(x, y float64) {
	e.stopTimer()
	e.rerun = false
	e.session.moveTo(x, y)
	e.setState(StateFinalizing)
	if e.visual != nil {
		e.invoke("Visual.Clear", e.visual.Clear)
	}
	e.beginHitTest(true)
}

func (e *Engine) complete() {
	s := e.session
	out := Outcome{
		SessionID: s.ID,
		Handle:    s.Handle,
		X:         s.X,
		Y:         s.Y,
		Result:    ResultCancelled,
		Duration:  e.clock.Now().Sub(s.StartedAt),
	}
	if s.Current != nil {
		e.fire(EventDrop, s.Current, s.Current.OnDrop, s.X, s.Y)
		out.Result = ResultCompleted
		out.Target = s.Current
	}
	e.finish(out)
}

// finish reports the outcome to the host and waiters and returns to Idle.
func (e *Engine) finish(out Outcome) {
	s := e.session
	s.Pending = false

	if out.Result == ResultCompleted {
		e.completed.Add(1)
		if e.active.OnDragComplete != nil {
			e.invoke("OnDragComplete", func() { e.active.OnDragComplete(out) })
		}
	} else {
		e.cancelled.Add(1)
		if e.active.OnDragCancel != nil {
			e.invoke("OnDragCancel", func() { e.active.OnDragCancel(out) })
		}
	}

	if e.span != nil {
		e.span.SetAttributes(
			attribute.String(tracing.AttrResult, out.Result.String()),
			attribute.String(tracing.AttrTarget, targetName(out.Target)),
			attribute.Bool(tracing.AttrForced, out.Forced),
		)
		if out.Forced {
			e.span.SetStatus(codes.Error, "drag torn down")
		} else {
			e.span.SetStatus(codes.Ok, "")
		}
		e.span.End()
		e.span = nil
	}

	log.Info(log.CatEngine, "drag session ended", "session", s.ID, "result", out.Result,
		"target", out.Target, "forced", out.Forced, "x", out.X, "y", out.Y)
	e.publish(Event{Kind: EventSessionEnded, SessionID: s.ID, Handle: s.Handle,
		Target: targetName(out.Target), X: out.X, Y: out.Y, Result: out.Result})

	e.replyWaiters(out)
	e.reset()
}

func (e *Engine) replyWaiters(out Outcome) {
	for _, w := range e.waiters {
		w <- out
	}
	e.waiters = nil
}

// reset releases every per-drag resource and returns to Idle.
func (e *Engine) reset() {
	e.stopTimer()
	e.rerun = false
	e.session = nil
	e.active = Host{}
	e.owner = nil
	e.resolveSeq = 0
	e.setState(StateIdle)
}

// ===========================================================================
// Forced teardown
// ===========================================================================

func (e *Engine) handleTeardown(m teardownMsg) {
	if !e.owns(m.owner) {
		m.reply <- Outcome{Result: ResultNotStarted}
		return
	}

	switch e.state {
	case StateIdle:
		m.reply <- Outcome{Result: ResultNotStarted}
	case StateResolving:
		log.Debug(log.CatEngine, "teardown while resolving, abandoning handle lookup")
		e.resolver.Abandon()
		out := Outcome{X: e.latestX, Y: e.latestY, Result: ResultNotStarted, Forced: true}
		e.replyWaiters(out)
		e.reset()
		m.reply <- out
	case StateActive, StateFinalizing:
		s := e.session
		// Invalidate in-flight hit-tests, including a pending release test.
		e.generation++
		e.stopTimer()
		if e.state == StateActive && e.visual != nil {
			e.invoke("Visual.Clear", e.visual.Clear)
		}
		if s.Current != nil && e.registry.Has(s.Current) {
			e.fire(EventDragOut, s.Current, s.Current.OnDragOut, s.X, s.Y)
		}
		s.Current = nil
		out := Outcome{
			SessionID: s.ID,
			Handle:    s.Handle,
			X:         s.X,
			Y:         s.Y,
			Result:    ResultCancelled,
			Forced:    true,
			Duration:  e.clock.Now().Sub(s.StartedAt),
		}
		e.finish(out)
		m.reply <- out
	}
}

func (e *Engine) updateVisual() {
	if e.visual == nil || e.session == nil {
		return
	}
	s := e.session
	e.invoke("Visual.Update", func() { e.visual.Update(s.Element, s.X, s.Y) })
}
