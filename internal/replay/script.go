// Package replay runs scripted gestures against a headless drag engine and
// records the callbacks they produce. Scripts are YAML:
//
//	name: drop on trash
//	handles:
//	  - name: card-1
//	    rect: {x: 0, y: 0, w: 4, h: 1}
//	targets:
//	  - name: trash
//	    zindex: 1
//	    rect: {x: 10, y: 0, w: 5, h: 5}
//	steps:
//	  - {op: start, x: 1, y: 0}
//	  - {op: move, x: 12, y: 2}
//	  - {op: wait, duration: 5ms}
//	  - {op: end, x: 12, y: 2}
//	expect:
//	  - ...
//
// Time is simulated: wait advances the engine clock instead of sleeping, so
// a script produces the same transcript on every run.
package replay

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Step operations.
const (
	OpStart      = "start"      // grant at (x, y)
	OpMove       = "move"       // pointer move to (x, y)
	OpEnd        = "end"        // release at (x, y)
	OpTerminate  = "terminate"  // end at the last known position
	OpUnmount    = "unmount"    // force-end from the gesture source
	OpTeardown   = "teardown"   // force-end from the engine
	OpWait       = "wait"       // advance the clock by duration
	OpUnregister = "unregister" // remove target
)

var validOps = map[string]bool{
	OpStart: true, OpMove: true, OpEnd: true, OpTerminate: true,
	OpUnmount: true, OpTeardown: true, OpWait: true, OpUnregister: true,
}

// ErrInvalidScript is returned for scripts that cannot be run.
var ErrInvalidScript = errors.New("invalid replay script")

// Rect is an axis-aligned box. It contains the half-open range
// [X, X+W) x [Y, Y+H).
type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Contains reports whether (x, y) is inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// HandleSpec is a draggable region.
type HandleSpec struct {
	Name string `yaml:"name"`
	Rect Rect   `yaml:"rect"`
	Fail bool   `yaml:"fail"` // resolution returns an error
}

// TargetSpec is a drop target backed by a rectangle.
type TargetSpec struct {
	Name   string `yaml:"name"`
	ZIndex int    `yaml:"zindex"`
	Rect   Rect   `yaml:"rect"`
	Fail   bool   `yaml:"fail"` // Contains returns an error
}

// Step is one scripted gesture.
type Step struct {
	Op       string        `yaml:"op"`
	X        float64       `yaml:"x"`
	Y        float64       `yaml:"y"`
	Duration time.Duration `yaml:"duration"`
	Target   string        `yaml:"target"`
}

func (s Step) String() string {
	switch s.Op {
	case OpStart, OpMove, OpEnd:
		return fmt.Sprintf("%s %g,%g", s.Op, s.X, s.Y)
	case OpWait:
		return fmt.Sprintf("%s %s", s.Op, s.Duration)
	case OpUnregister:
		return fmt.Sprintf("%s %s", s.Op, s.Target)
	default:
		return s.Op
	}
}

// Script is a parsed replay file.
type Script struct {
	Name     string        `yaml:"name"`
	Debounce time.Duration `yaml:"debounce"`
	Scale    float64       `yaml:"scale"`
	Ghost    bool          `yaml:"ghost"` // record drag visual updates

	Handles []HandleSpec `yaml:"handles"`
	Targets []TargetSpec `yaml:"targets"`
	Steps   []Step       `yaml:"steps"`

	// Expect is the transcript the script must produce. Empty means any.
	Expect []string `yaml:"expect"`
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks names, operations and references.
func (s *Script) Validate() error {
	if s.Debounce < 0 {
		return fmt.Errorf("%w: debounce must not be negative", ErrInvalidScript)
	}
	if s.Scale < 0 {
		return fmt.Errorf("%w: scale must not be negative", ErrInvalidScript)
	}

	handles := make(map[string]bool, len(s.Handles))
	for i, h := range s.Handles {
		if h.Name == "" {
			return fmt.Errorf("%w: handle %d has no name", ErrInvalidScript, i)
		}
		if handles[h.Name] {
			return fmt.Errorf("%w: duplicate handle %q", ErrInvalidScript, h.Name)
		}
		handles[h.Name] = true
	}

	targets := make(map[string]bool, len(s.Targets))
	for i, t := range s.Targets {
		if t.Name == "" {
			return fmt.Errorf("%w: target %d has no name", ErrInvalidScript, i)
		}
		if targets[t.Name] {
			return fmt.Errorf("%w: duplicate target %q", ErrInvalidScript, t.Name)
		}
		targets[t.Name] = true
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScript)
	}
	for i, st := range s.Steps {
		if !validOps[st.Op] {
			return fmt.Errorf("%w: step %d: unknown op %q", ErrInvalidScript, i, st.Op)
		}
		if st.Op == OpWait && st.Duration <= 0 {
			return fmt.Errorf("%w: step %d: wait needs a positive duration", ErrInvalidScript, i)
		}
		if st.Op == OpUnregister && !targets[st.Target] {
			return fmt.Errorf("%w: step %d: unknown target %q", ErrInvalidScript, i, st.Target)
		}
	}
	return nil
}
