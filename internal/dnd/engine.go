// Package dnd is the drag-and-drop coordination engine.
//
// An Engine owns a Registry of drop targets and at most one drag Session.
// Gesture code feeds it StartDrag, UpdateDrag and EndDrag samples; the engine
// resolves the drag handle, debounces hit-testing while the pointer moves,
// and fires OnDragIn, OnDragOver, OnDragOut and OnDrop on targets.
//
// All engine state is mutated by a single loop goroutine (see Run). Handle
// lookups, debounce timers and hit-tests run elsewhere and report back to the
// loop as messages, so target callbacks and host callbacks are always invoked
// from the loop goroutine, one at a time.
package dnd

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/dropzone/internal/log"
	"github.com/zjrosen/dropzone/internal/pubsub"
)

// DefaultDebounce is the delay between the last UpdateDrag of a burst and
// the hit-test it triggers.
const DefaultDebounce = 5 * time.Millisecond

// DefaultQueueCapacity is the buffer size of the engine's message queue.
const DefaultQueueCapacity = 256

// Config tunes an Engine.
type Config struct {
	// Debounce delays hit-testing during UpdateDrag bursts.
	Debounce time.Duration
	// QueueCapacity bounds pending gesture samples.
	QueueCapacity int
	// Scale converts raw gesture coordinates into the context's logical space.
	// Applied by Source only; the Engine entry points take logical coordinates.
	Scale float64
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Debounce:      DefaultDebounce,
		QueueCapacity: DefaultQueueCapacity,
		Scale:         1,
	}
}

// Host is the set of callbacks the drag-drop context owner supplies.
// Only GetDragHandle is required.
type Host struct {
	GetDragHandle  GetHandleFunc
	GetDragElement func(handle Handle) any
	OnDragStart    func(handle Handle, x, y float64)
	OnDragComplete func(Outcome)
	OnDragCancel   func(Outcome)
	OnError        func(error)
}

// merge returns h with every non-nil member of o replacing h's.
func (h Host) merge(o Host) Host {
	if o.GetDragHandle != nil {
		h.GetDragHandle = o.GetDragHandle
	}
	if o.GetDragElement != nil {
		h.GetDragElement = o.GetDragElement
	}
	if o.OnDragStart != nil {
		h.OnDragStart = o.OnDragStart
	}
	if o.OnDragComplete != nil {
		h.OnDragComplete = o.OnDragComplete
	}
	if o.OnDragCancel != nil {
		h.OnDragCancel = o.OnDragCancel
	}
	if o.OnError != nil {
		h.OnError = o.OnError
	}
	return h
}

// Visual positions the drag ghost. Update with a nil element is allowed and
// means the host opted out of a ghost.
type Visual interface {
	Update(element any, x, y float64)
	Clear()
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the engine configuration. Zero fields keep defaults.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		if cfg.Debounce > 0 {
			e.cfg.Debounce = cfg.Debounce
		}
		if cfg.QueueCapacity > 0 {
			e.cfg.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.Scale > 0 {
			e.cfg.Scale = cfg.Scale
		}
	}
}

// WithClock sets the clock used for debounce timers.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithVisual sets the drag ghost collaborator.
func WithVisual(v Visual) Option {
	return func(e *Engine) { e.visual = v }
}

// WithEventBus publishes lifecycle events to bus.
func WithEventBus(bus *pubsub.Broker[Event]) Option {
	return func(e *Engine) { e.events = bus }
}

// WithTracer records one span per drag session.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithRegistry shares an existing registry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithIDGenerator overrides how session IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// Engine coordinates drag sessions against a registry of drop targets.
type Engine struct {
	cfg       Config
	host      Host
	registry  *Registry
	hitTester *HitTester
	resolver  *HandleResolver
	clock     Clock
	visual    Visual
	events    *pubsub.Broker[Event]
	tracer    trace.Tracer
	newID     func() string

	queue   chan message
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
	started atomic.Bool
	readyCh chan struct{}

	// Loop-owned state. Never touched outside the Run goroutine.
	state      State
	active     Host
	owner      *Source
	session    *Session
	span       trace.Span
	resolveSeq uint64
	grantX     float64
	grantY     float64
	latestX    float64
	latestY    float64
	waiters    []chan Outcome
	timer      Timer
	timerGen   uint64
	generation uint64
	inFlight   int
	rerun      bool

	// Counters readable from any goroutine.
	stateGauge     atomic.Int32
	inFlightGauge  atomic.Int32
	processed      atomic.Int64
	sessions       atomic.Int64
	completed      atomic.Int64
	cancelled      atomic.Int64
	hitTests       atomic.Int64
	discarded      atomic.Int64
	ignoredStarts  atomic.Int64
	callbackPanics atomic.Int64
}

// NewEngine creates an engine. Call Run (or Start) before feeding gestures.
func NewEngine(host Host, opts ...Option) (*Engine, error) {
	if host.GetDragHandle == nil {
		return nil, fmt.Errorf("%w: GetDragHandle is required", ErrInvalidHost)
	}
	e := &Engine{
		cfg:       DefaultConfig(),
		host:      host,
		hitTester: NewHitTester(),
		resolver:  NewHandleResolver(),
		clock:     RealClock{},
		tracer:    noop.NewTracerProvider().Tracer("dnd"),
		newID:     newSessionID,
		readyCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	return e, nil
}

// Run processes engine messages until ctx is cancelled or Stop is called.
// Run can only be called once; later calls return immediately.
func (e *Engine) Run(ctx context.Context) {
	if !e.started.CompareAndSwap(false, true) {
		return
	}

	e.ctx, e.cancel = context.WithCancel(ctx)
	e.queue = make(chan message, e.cfg.QueueCapacity)

	e.wg.Add(1)
	e.running.Store(true)
	close(e.readyCh)

	defer func() {
		e.running.Store(false)
		e.stopTimer()
		e.wg.Done()
	}()

	for {
		select {
		case <-e.ctx.Done():
			return
		case m := <-e.queue:
			m.apply(e)
			e.processed.Add(1)
		}
	}
}

// Start runs the loop on a new goroutine and waits until it accepts messages.
func (e *Engine) Start(ctx context.Context) error {
	go e.Run(ctx)
	return e.WaitForReady(ctx)
}

// WaitForReady blocks until Run has started.
func (e *Engine) WaitForReady(ctx context.Context) error {
	select {
	case <-e.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels the loop and waits for it to exit. A live session is dropped
// without callbacks; use Close for an orderly teardown.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
}

// Close tears down any live drag (see Teardown) and stops the loop.
func (e *Engine) Close() error {
	if e.running.Load() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, err := e.Teardown(ctx)
		cancel()
		e.Stop()
		return err
	}
	e.Stop()
	return nil
}

// Registry returns the engine's drop target registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Register validates and registers t. The returned function unregisters it;
// if t is the entered target of the live session, the session forgets it
// without firing OnDragOut.
func (e *Engine) Register(t *DropTarget) (func(), error) {
	if err := t.Validate(); err != nil {
		log.ErrorErr(log.CatRegistry, "rejecting drop target", err)
		return nil, err
	}
	e.registry.Register(t)
	var once sync.Once
	return func() {
		once.Do(func() { _ = e.Unregister(t) })
	}, nil
}

// Unregister removes t from the registry. See Register.
func (e *Engine) Unregister(t *DropTarget) error {
	if err := e.registry.Unregister(t); err != nil {
		return err
	}
	e.notify(targetRemovedMsg{target: t})
	return nil
}

// StartDrag begins a drag at (x, y) using the engine's Host. It is ignored
// unless the engine is idle.
func (e *Engine) StartDrag(x, y float64) error {
	return e.submit(startMsg{x: x, y: y})
}

// UpdateDrag records a pointer move. Hit-testing is debounced.
func (e *Engine) UpdateDrag(x, y float64) error {
	return e.submit(updateMsg{x: x, y: y})
}

// EndDrag releases the drag at (x, y) and waits for the session to finalize.
// When the handle is still resolving, the release is held until it settles.
func (e *Engine) EndDrag(ctx context.Context, x, y float64) (Outcome, error) {
	return e.end(ctx, endMsg{x: x, y: y})
}

func (e *Engine) end(ctx context.Context, m endMsg) (Outcome, error) {
	m.reply = make(chan Outcome, 1)
	if err := e.post(ctx, m); err != nil {
		return Outcome{}, err
	}
	return e.await(ctx, m.reply)
}

// Teardown force-ends the live drag at its last known coordinates. OnDragOut
// fires on the entered target; OnDrop never fires.
func (e *Engine) Teardown(ctx context.Context) (Outcome, error) {
	reply := make(chan Outcome, 1)
	if err := e.post(ctx, teardownMsg{reply: reply}); err != nil {
		return Outcome{}, err
	}
	return e.await(ctx, reply)
}

// Sync waits until every message submitted before it has been processed.
func (e *Engine) Sync(ctx context.Context) error {
	reply := make(chan struct{})
	if err := e.post(ctx, syncMsg{reply: reply}); err != nil {
		return err
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.ctx.Done():
		return ErrEngineStopped
	}
}

// Session returns a copy of the live session, if any.
func (e *Engine) Session(ctx context.Context) (Session, bool, error) {
	reply := make(chan *Session, 1)
	if err := e.post(ctx, snapshotMsg{reply: reply}); err != nil {
		return Session{}, false, err
	}
	select {
	case s := <-reply:
		if s == nil {
			return Session{}, false, nil
		}
		return *s, true, nil
	case <-ctx.Done():
		return Session{}, false, ctx.Err()
	case <-e.ctx.Done():
		return Session{}, false, ErrEngineStopped
	}
}

// Stats is a point-in-time view of engine counters.
type Stats struct {
	State          State
	InFlight       int
	Processed      int64
	Sessions       int64
	Completed      int64
	Cancelled      int64
	HitTests       int64
	Discarded      int64
	IgnoredStarts  int64
	CallbackPanics int64
}

// Stats returns current counters. Safe from any goroutine.
func (e *Engine) Stats() Stats {
	return Stats{
		State:          State(e.stateGauge.Load()),
		InFlight:       int(e.inFlightGauge.Load()),
		Processed:      e.processed.Load(),
		Sessions:       e.sessions.Load(),
		Completed:      e.completed.Load(),
		Cancelled:      e.cancelled.Load(),
		HitTests:       e.hitTests.Load(),
		Discarded:      e.discarded.Load(),
		IgnoredStarts:  e.ignoredStarts.Load(),
		CallbackPanics: e.callbackPanics.Load(),
	}
}

// IsRunning reports whether the loop accepts messages.
func (e *Engine) IsRunning() bool { return e.running.Load() }

// QueueLength returns the number of unprocessed messages.
func (e *Engine) QueueLength() int {
	if e.queue == nil {
		return 0
	}
	return len(e.queue)
}

// submit enqueues a gesture sample without blocking.
func (e *Engine) submit(m message) error {
	if !e.running.Load() {
		return ErrEngineStopped
	}
	select {
	case e.queue <- m:
		return nil
	default:
		log.Warn(log.CatEngine, "queue full, dropping gesture sample", "capacity", e.cfg.QueueCapacity)
		return ErrQueueFull
	}
}

// post enqueues m, waiting for room.
func (e *Engine) post(ctx context.Context, m message) error {
	if !e.running.Load() {
		return ErrEngineStopped
	}
	select {
	case e.queue <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.ctx.Done():
		return ErrEngineStopped
	}
}

// deliver is post for internal goroutines: it gives up only when the engine stops.
func (e *Engine) deliver(m message) {
	if e.ctx == nil {
		return
	}
	select {
	case e.queue <- m:
	case <-e.ctx.Done():
	}
}

// notify enqueues m without ever blocking the caller, which may be the loop
// itself (a target unregistering from inside its own callback).
func (e *Engine) notify(m message) {
	if !e.running.Load() {
		return
	}
	select {
	case e.queue <- m:
	default:
		go e.deliver(m)
	}
}

func (e *Engine) await(ctx context.Context, reply <-chan Outcome) (Outcome, error) {
	select {
	case o := <-reply:
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	case <-e.ctx.Done():
		return Outcome{}, ErrEngineStopped
	}
}

func (e *Engine) publish(ev Event) {
	if e.events != nil {
		e.events.Publish(pubsub.DragEvent, ev)
	}
}

// invoke runs a host or target callback, recovering panics so a misbehaving
// collaborator cannot take down the loop.
func (e *Engine) invoke(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.callbackPanics.Add(1)
			log.Error(log.CatEngine, "callback panicked", "callback", what, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}
