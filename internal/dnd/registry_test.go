package dnd

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func names(ts []*DropTarget) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func plainTarget(name string, z int) *DropTarget {
	return &DropTarget{
		Name:     name,
		ZIndex:   z,
		Contains: func(context.Context, Handle, float64, float64) (bool, error) { return false, nil },
		OnDrop:   func(Handle, float64, float64) {},
	}
}

func TestRegistry_OrdersByDescendingZIndex(t *testing.T) {
	r := NewRegistry()
	r.Register(plainTarget("low", 0))
	r.Register(plainTarget("high", 5))
	r.Register(plainTarget("mid", 2))

	require.Equal(t, []string{"high", "mid", "low"}, names(r.Targets()))
}

func TestRegistry_EqualZIndexKeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(plainTarget("a", 1))
	r.Register(plainTarget("b", 1))
	r.Register(plainTarget("top", 3))
	r.Register(plainTarget("c", 1))

	require.Equal(t, []string{"top", "a", "b", "c"}, names(r.Targets()))
}

func TestRegistry_DuplicateRegistrationAddsSecondEntry(t *testing.T) {
	r := NewRegistry()
	a := plainTarget("a", 0)
	r.Register(a)
	r.Register(a)
	require.Equal(t, 2, r.Len())

	require.NoError(t, r.Unregister(a))
	require.Equal(t, 1, r.Len())
	require.True(t, r.Has(a), "one entry remains after removing the first")
}

func TestRegistry_UnregisterAbsentIsReportedAndHarmless(t *testing.T) {
	r := NewRegistry()
	a := plainTarget("a", 0)
	r.Register(a)

	err := r.Unregister(plainTarget("ghost", 0))
	require.True(t, errors.Is(err, ErrTargetNotRegistered))
	require.Equal(t, []string{"a"}, names(r.Targets()))
}

func TestRegistry_UnregisterFuncRunsOnce(t *testing.T) {
	r := NewRegistry()
	a := plainTarget("a", 0)
	r.Register(a)
	unregister := r.Register(a)

	unregister()
	unregister()
	require.Equal(t, 1, r.Len(), "second call must not remove the other entry")
}

func TestRegistry_TargetsIsSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Register(plainTarget("a", 0))
	snap := r.Targets()
	r.Register(plainTarget("b", 9))

	require.Equal(t, []string{"a"}, names(snap))
	require.Equal(t, []string{"b", "a"}, names(r.Targets()))
}

// For any interleaving of register and unregister the registry equals the
// live entries stably sorted by descending zIndex.
func TestRegistry_OrderInvariantProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRegistry()

		type entry struct {
			target *DropTarget
			seq    int
		}
		var live []entry
		seq := 0

		numOps := rapid.IntRange(1, 80).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			if len(live) == 0 || rapid.IntRange(0, 2).Draw(t, "op") > 0 {
				z := rapid.IntRange(-3, 3).Draw(t, "zindex")
				tgt := plainTarget("t", z)
				r.Register(tgt)
				live = append(live, entry{tgt, seq})
				seq++
				continue
			}
			idx := rapid.IntRange(0, len(live)-1).Draw(t, "victim")
			if err := r.Unregister(live[idx].target); err != nil {
				t.Fatalf("unregister live target: %v", err)
			}
			live = slices.Delete(live, idx, idx+1)
		}

		want := slices.Clone(live)
		slices.SortStableFunc(want, func(a, b entry) int {
			if c := cmp.Compare(b.target.ZIndex, a.target.ZIndex); c != 0 {
				return c
			}
			return cmp.Compare(a.seq, b.seq)
		})

		got := r.Targets()
		if len(got) != len(want) {
			t.Fatalf("len = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i].target {
				t.Fatalf("position %d holds wrong target", i)
			}
		}
	})
}
