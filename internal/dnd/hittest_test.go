package dnd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHitTester_HigherZIndexWins(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	r.Register(rec.target("A", 1, rect(0, 0, 10, 10)))
	r.Register(rec.target("B", 2, rect(0, 0, 10, 10)))

	got := NewHitTester().Resolve(context.Background(), r, "card", 5, 5)
	require.NotNil(t, got)
	require.Equal(t, "B", got.Name)
	require.Empty(t, rec.Calls(), "resolve must not fire callbacks")
}

func TestHitTester_TieGoesToEarlierRegistration(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	r.Register(rec.target("first", 0, rect(0, 0, 10, 10)))
	r.Register(rec.target("second", 0, rect(0, 0, 10, 10)))

	got := NewHitTester().Resolve(context.Background(), r, nil, 1, 1)
	require.Equal(t, "first", got.Name)
}

func TestHitTester_EmptyAndMiss(t *testing.T) {
	h := NewHitTester()
	require.Nil(t, h.Resolve(context.Background(), NewRegistry(), nil, 0, 0))

	rec := &recorder{}
	r := NewRegistry()
	r.Register(rec.target("A", 0, rect(0, 0, 1, 1)))
	require.Nil(t, h.Resolve(context.Background(), r, nil, 50, 50))
	require.Equal(t, int64(2), h.Resolutions())
	require.Equal(t, int64(1), h.Evaluations())
}

func TestHitTester_StopsAtFirstMatch(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	r.Register(rec.target("top", 2, rect(0, 0, 10, 10)))
	r.Register(rec.target("bottom", 1, rect(0, 0, 10, 10)))

	h := NewHitTester()
	h.Resolve(context.Background(), r, nil, 1, 1)
	require.Equal(t, int64(1), h.Evaluations(), "lower priority targets are not evaluated")
}

func TestHitTester_FailingPredicatesAreSkipped(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	r.Register(&DropTarget{
		Name:   "erroring",
		ZIndex: 3,
		Contains: func(context.Context, Handle, float64, float64) (bool, error) {
			return true, errors.New("measure failed")
		},
		OnDrop: func(Handle, float64, float64) {},
	})
	r.Register(&DropTarget{
		Name:     "panicking",
		ZIndex:   2,
		Contains: func(context.Context, Handle, float64, float64) (bool, error) { panic("boom") },
		OnDrop:   func(Handle, float64, float64) {},
	})
	r.Register(rec.target("healthy", 1, rect(0, 0, 10, 10)))

	h := NewHitTester()
	got := h.Resolve(context.Background(), r, nil, 5, 5)
	require.NotNil(t, got)
	require.Equal(t, "healthy", got.Name)
	require.Equal(t, int64(2), h.Failures())
}

func TestHitTester_CancelledContextResolvesNothing(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	r.Register(rec.target("A", 0, rect(0, 0, 10, 10)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Nil(t, NewHitTester().Resolve(ctx, r, nil, 5, 5))
}
