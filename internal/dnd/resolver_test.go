package dnd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHandleResolver_DeliversResult(t *testing.T) {
	r := NewHandleResolver()
	got := make(chan Resolution, 1)

	seq, ok := r.Start(context.Background(), 1, 2, func(_ context.Context, x, y float64) (Handle, error) {
		return x + y, nil
	}, func(res Resolution) { got <- res })
	require.True(t, ok)

	res := <-got
	require.Equal(t, seq, res.Seq)
	require.Equal(t, 3.0, res.Handle)
	require.NoError(t, res.Err)
	require.False(t, r.Pending())
}

func TestHandleResolver_IgnoresStartWhilePending(t *testing.T) {
	r := NewHandleResolver()
	gate := make(chan struct{})
	got := make(chan Resolution, 2)
	deliver := func(res Resolution) { got <- res }

	_, ok := r.Start(context.Background(), 0, 0, func(context.Context, float64, float64) (Handle, error) {
		<-gate
		return "first", nil
	}, deliver)
	require.True(t, ok)
	require.True(t, r.Pending())

	_, ok = r.Start(context.Background(), 0, 0, func(context.Context, float64, float64) (Handle, error) {
		return "second", nil
	}, deliver)
	require.False(t, ok)

	close(gate)
	require.Equal(t, "first", (<-got).Handle)
	select {
	case res := <-got:
		t.Fatalf("unexpected second resolution %v", res)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHandleResolver_PanicBecomesError(t *testing.T) {
	r := NewHandleResolver()
	got := make(chan Resolution, 1)
	r.Start(context.Background(), 0, 0, func(context.Context, float64, float64) (Handle, error) {
		panic("no layout")
	}, func(res Resolution) { got <- res })

	res := <-got
	require.Nil(t, res.Handle)
	require.Error(t, res.Err)
}

func TestHandleResolver_AbandonAllowsNewStart(t *testing.T) {
	r := NewHandleResolver()
	gate := make(chan struct{})
	got := make(chan Resolution, 2)
	deliver := func(res Resolution) { got <- res }

	first, _ := r.Start(context.Background(), 0, 0, func(context.Context, float64, float64) (Handle, error) {
		<-gate
		return "old", nil
	}, deliver)
	r.Abandon()
	require.False(t, r.Pending())

	second, ok := r.Start(context.Background(), 0, 0, func(context.Context, float64, float64) (Handle, error) {
		return nil, errors.New("nothing here")
	}, deliver)
	require.True(t, ok)
	require.NotEqual(t, first, second)

	res := <-got
	require.Equal(t, second, res.Seq)
	close(gate)
	old := <-got
	require.Equal(t, first, old.Seq)
	require.False(t, r.Pending(), "a stale delivery must not clear a newer lookup's state")
}
