package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/dropzone/internal/dnd"
	"github.com/zjrosen/dropzone/internal/log"
	"github.com/zjrosen/dropzone/internal/tracing"
)

// DefaultSettleTimeout bounds how long a step may take to quiesce.
const DefaultSettleTimeout = 5 * time.Second

// ErrMismatch is returned by Verify when the transcript differs from Expect.
var ErrMismatch = errors.New("transcript mismatch")

// errTargetFailed is what failing targets report from Contains.
var errTargetFailed = errors.New("target failed")

// errHandleFailed is what failing handles report from resolution.
var errHandleFailed = errors.New("handle lookup failed")

// Option configures Run.
type Option func(*runner)

// WithTracer records the run and its drag sessions as spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *runner) { r.tracer = t }
}

// WithSettleTimeout overrides DefaultSettleTimeout.
func WithSettleTimeout(d time.Duration) Option {
	return func(r *runner) {
		if d > 0 {
			r.settleTimeout = d
		}
	}
}

// Result is what a script produced.
type Result struct {
	Script   string
	Lines    []string
	Outcomes []dnd.Outcome
	Stats    dnd.Stats
}

// String renders the transcript one line per entry.
func (r *Result) String() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return strings.Join(r.Lines, "\n") + "\n"
}

// Verify compares the transcript against expect and returns ErrMismatch with
// a line diff when they differ.
func (r *Result) Verify(expect []string) error {
	if len(expect) == 0 {
		return nil
	}
	if equalLines(expect, r.Lines) {
		return nil
	}
	return fmt.Errorf("%w:\n%s", ErrMismatch, LineDiff(expect, r.Lines))
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// LineDiff renders want against got as a unified-style line diff: "-" for
// expected lines that are missing, "+" for unexpected ones.
func LineDiff(want, got []string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(joinLines(want), joinLines(got))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
		}
	}
	return sb.String()
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// transcript collects lines from the engine loop and the resolver goroutine.
type transcript struct {
	mu    sync.Mutex
	lines []string
}

func (t *transcript) addf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

func (t *transcript) snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.lines...)
}

// ghostRecorder is the drag visual for scripts with ghost: true.
type ghostRecorder struct{ t *transcript }

func (g ghostRecorder) Update(element any, x, y float64) {
	if element == nil {
		g.t.addf("ghost hidden")
		return
	}
	g.t.addf("ghost %v at %s", element, point(x, y))
}

func (g ghostRecorder) Clear() { g.t.addf("ghost clear") }

type runner struct {
	script        *Script
	tracer        trace.Tracer
	settleTimeout time.Duration

	out     *transcript
	clock   *dnd.ManualClock
	engine  *dnd.Engine
	source  *dnd.Source
	targets map[string]*dnd.DropTarget
	unreg   map[string]func()
}

// Run executes s against a fresh engine and returns its transcript. Run does
// not compare against s.Expect; call Result.Verify for that.
func Run(ctx context.Context, s *Script, opts ...Option) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	r := &runner{
		script:        s,
		settleTimeout: DefaultSettleTimeout,
		out:           &transcript{},
		clock:         dnd.NewManualClock(time.Unix(0, 0).UTC()),
		targets:       make(map[string]*dnd.DropTarget, len(s.Targets)),
		unreg:         make(map[string]func(), len(s.Targets)),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, tracing.SpanReplay, trace.WithAttributes(
			attribute.String(tracing.AttrScript, s.Name),
			attribute.Int(tracing.AttrSteps, len(s.Steps)),
		))
		defer span.End()
		res, err := r.run(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return res, err
	}
	return r.run(ctx)
}

func (r *runner) run(ctx context.Context) (*Result, error) {
	s := r.script
	log.Info(log.CatReplay, "running script", "name", s.Name, "steps", len(s.Steps))

	if err := r.startEngine(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = r.engine.Close() }()

	res := &Result{Script: s.Name}
	for i, st := range s.Steps {
		r.out.addf("> %s", st)
		out, ended, err := r.step(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, st, err)
		}
		if err := r.settle(ctx); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, st, err)
		}
		if ended {
			res.Outcomes = append(res.Outcomes, out)
			r.out.addf("result %s", out.Result)
		}
		if st.Op == OpStart {
			r.dropRejectedGrant(ctx)
		}
	}

	res.Lines = r.out.snapshot()
	res.Stats = r.engine.Stats()
	log.Info(log.CatReplay, "script finished", "name", s.Name,
		"lines", len(res.Lines), "completed", res.Stats.Completed, "cancelled", res.Stats.Cancelled)
	return res, nil
}

func (r *runner) startEngine(ctx context.Context) error {
	s := r.script
	cfg := dnd.DefaultConfig()
	if s.Debounce > 0 {
		cfg.Debounce = s.Debounce
	}
	if s.Scale > 0 {
		cfg.Scale = s.Scale
	}

	seq := 0
	opts := []dnd.Option{
		dnd.WithConfig(cfg),
		dnd.WithClock(r.clock),
		dnd.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("s%d", seq)
		}),
	}
	if s.Ghost {
		opts = append(opts, dnd.WithVisual(ghostRecorder{t: r.out}))
	}
	if r.tracer != nil {
		opts = append(opts, dnd.WithTracer(r.tracer))
	}

	engine, err := dnd.NewEngine(r.host(), opts...)
	if err != nil {
		return err
	}
	for _, ts := range s.Targets {
		t := r.target(ts)
		unregister, err := engine.Register(t)
		if err != nil {
			return fmt.Errorf("registering %q: %w", ts.Name, err)
		}
		r.targets[ts.Name] = t
		r.unreg[ts.Name] = unregister
	}
	if err := engine.Start(ctx); err != nil {
		return err
	}
	r.engine = engine
	r.source = engine.NewSource(dnd.Host{})
	return nil
}

func (r *runner) host() dnd.Host {
	return dnd.Host{
		GetDragHandle: func(ctx context.Context, x, y float64) (dnd.Handle, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for _, h := range r.script.Handles {
				if !h.Rect.Contains(x, y) {
					continue
				}
				if h.Fail {
					r.out.addf("resolve %s failed", point(x, y))
					return nil, fmt.Errorf("%w: %s", errHandleFailed, h.Name)
				}
				r.out.addf("resolve %s %s", point(x, y), h.Name)
				return h.Name, nil
			}
			r.out.addf("resolve %s none", point(x, y))
			return nil, nil
		},
		GetDragElement: func(h dnd.Handle) any {
			return h
		},
		OnDragStart: func(h dnd.Handle, x, y float64) {
			r.out.addf("start %v at %s", h, point(x, y))
		},
		OnDragComplete: func(o dnd.Outcome) {
			r.out.addf("complete %v on %s", o.Handle, o.Target)
		},
		OnDragCancel: func(o dnd.Outcome) {
			if o.Forced {
				r.out.addf("cancel %v forced", o.Handle)
				return
			}
			r.out.addf("cancel %v", o.Handle)
		},
		OnError: func(err error) {
			r.out.addf("error %v", err)
		},
	}
}

func (r *runner) target(ts TargetSpec) *dnd.DropTarget {
	name, rect, fail := ts.Name, ts.Rect, ts.Fail
	return &dnd.DropTarget{
		Name:   name,
		ZIndex: ts.ZIndex,
		Contains: func(_ context.Context, _ dnd.Handle, x, y float64) (bool, error) {
			if fail {
				return false, errTargetFailed
			}
			return rect.Contains(x, y), nil
		},
		OnDragIn: func(h dnd.Handle, x, y float64) {
			r.out.addf("in %s %v at %s", name, h, point(x, y))
		},
		OnDragOver: func(h dnd.Handle, x, y float64) {
			r.out.addf("over %s %v at %s", name, h, point(x, y))
		},
		OnDragOut: func(h dnd.Handle, x, y float64) {
			r.out.addf("out %s %v at %s", name, h, point(x, y))
		},
		OnDrop: func(h dnd.Handle, x, y float64) {
			r.out.addf("drop %s %v at %s", name, h, point(x, y))
		},
	}
}

// step performs one gesture. ended is set for steps that finish a drag.
func (r *runner) step(ctx context.Context, st Step) (out dnd.Outcome, ended bool, err error) {
	switch st.Op {
	case OpStart:
		return out, false, r.source.Grant(st.X, st.Y)
	case OpMove:
		return out, false, r.source.Move(st.X, st.Y)
	case OpEnd:
		out, err = r.source.Release(ctx, st.X, st.Y)
		return out, err == nil, err
	case OpTerminate:
		out, err = r.source.Terminate(ctx)
		return out, err == nil, err
	case OpUnmount:
		out, err = r.source.Unmount(ctx)
		return out, err == nil, err
	case OpTeardown:
		out, err = r.engine.Teardown(ctx)
		if err == nil {
			// The engine ended the drag behind the source's back.
			_, _ = r.source.Unmount(ctx)
		}
		return out, err == nil, err
	case OpWait:
		// Timers only fire once the loop has armed them.
		if err := r.settle(ctx); err != nil {
			return out, false, err
		}
		r.clock.Advance(st.Duration)
		return out, false, nil
	case OpUnregister:
		unregister, ok := r.unreg[st.Target]
		if !ok {
			return out, false, fmt.Errorf("%w: unknown target %q", ErrInvalidScript, st.Target)
		}
		unregister()
		delete(r.unreg, st.Target)
		return out, false, nil
	}
	return out, false, fmt.Errorf("%w: unknown op %q", ErrInvalidScript, st.Op)
}

// dropRejectedGrant releases the source when the engine refused the drag,
// so the next start is not swallowed as a duplicate grant.
func (r *runner) dropRejectedGrant(ctx context.Context) {
	if !r.source.Dragging() {
		return
	}
	if _, ok, err := r.engine.Session(ctx); err == nil && !ok {
		_, _ = r.source.Unmount(ctx)
	}
}

// settle waits until the engine has drained its queue and has no hit-test or
// handle resolution outstanding.
func (r *runner) settle(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.settleTimeout)
	defer cancel()

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		if err := r.engine.Sync(ctx); err != nil {
			return err
		}
		st := r.engine.Stats()
		if st.InFlight == 0 && st.State != dnd.StateResolving && r.engine.QueueLength() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("engine did not settle: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func point(x, y float64) string {
	return fmt.Sprintf("%g,%g", x, y)
}
