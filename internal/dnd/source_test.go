package dnd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSource_ScalesCoordinates(t *testing.T) {
	rec := &recorder{}
	e, clock := newTestEngine(t, staticHost("card"), WithConfig(Config{Scale: 2}))
	_, err := e.Register(rec.target("X", 0, rect(0, 0, 10, 10)))
	require.NoError(t, err)

	src := e.NewSource(Host{})
	require.NoError(t, src.Grant(30, 30))
	settle(t, e)

	s, ok, err := e.Session(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 60.0, s.StartX)

	require.NoError(t, src.Move(2, 2))
	require.NoError(t, e.Sync(context.Background()))
	clock.Advance(e.Config().Debounce)
	settle(t, e)

	out, err := src.Release(context.Background(), 3, 4)
	require.NoError(t, err)
	require.Equal(t, ResultCompleted, out.Result)
	require.Equal(t, 6.0, out.X)
	require.Equal(t, 8.0, out.Y)
	require.False(t, src.Dragging())
}

func TestSource_SecondGrantIsIgnored(t *testing.T) {
	calls := 0
	host := Host{
		GetDragHandle: func(context.Context, float64, float64) (Handle, error) {
			calls++
			return "card", nil
		},
	}
	e, _ := newTestEngine(t, host)
	src := e.NewSource(Host{})

	require.NoError(t, src.Grant(1, 1))
	settle(t, e)
	require.NoError(t, src.Grant(9, 9))
	settle(t, e)

	require.Equal(t, 1, calls)
	require.Equal(t, int64(0), e.Stats().IgnoredStarts, "the source filters the grant itself")
	x, y := src.Last()
	require.Equal(t, 9.0, x)
	require.Equal(t, 9.0, y)
}

func TestSource_MoveWithoutGrantIsIgnored(t *testing.T) {
	e, _ := newTestEngine(t, staticHost("card"))
	src := e.NewSource(Host{})

	require.NoError(t, src.Move(4, 4))
	settle(t, e)
	require.Equal(t, StateIdle, e.Stats().State)

	out, err := src.Terminate(context.Background())
	require.NoError(t, err)
	require.Equal(t, ResultNotStarted, out.Result)
}

func TestSource_TerminateEndsAtLastPosition(t *testing.T) {
	rec := &recorder{}
	e, clock := newTestEngine(t, staticHost("card"))
	_, err := e.Register(rec.target("X", 0, rect(0, 0, 10, 10)))
	require.NoError(t, err)

	src := e.NewSource(Host{})
	require.NoError(t, src.Grant(50, 50))
	settle(t, e)
	require.NoError(t, src.Move(5, 5))
	require.NoError(t, e.Sync(context.Background()))
	clock.Advance(e.Config().Debounce)
	settle(t, e)

	out, err := src.Terminate(context.Background())
	require.NoError(t, err)
	require.Equal(t, ResultCompleted, out.Result)
	require.Equal(t, 1, rec.count("drop:X@5,5"))
}

func TestSource_UnmountForceEndsOwnDragOnly(t *testing.T) {
	rec := &recorder{}
	e, _ := newTestEngine(t, staticHost("card"))
	_, err := e.Register(rec.target("X", 0, rect(0, 0, 10, 10)))
	require.NoError(t, err)

	owner := e.NewSource(Host{})
	bystander := e.NewSource(Host{})

	require.NoError(t, owner.Grant(5, 5))
	settle(t, e)

	out, err := bystander.Unmount(context.Background())
	require.NoError(t, err)
	require.Equal(t, ResultNotStarted, out.Result)
	require.Equal(t, StateActive, e.Stats().State)

	out, err = owner.Unmount(context.Background())
	require.NoError(t, err)
	require.True(t, out.Forced)
	require.Equal(t, ResultCancelled, out.Result)
	require.Equal(t, []string{"in:X", "over:X", "out:X"}, rec.Calls())
	require.False(t, owner.Dragging())
}

func TestSource_HostOverridesEngineHost(t *testing.T) {
	var engineStarts, sourceStarts int
	host := staticHost("engine-card")
	host.OnDragStart = func(Handle, float64, float64) { engineStarts++ }
	e, _ := newTestEngine(t, host)

	src := e.NewSource(Host{
		GetDragHandle: func(context.Context, float64, float64) (Handle, error) { return "source-card", nil },
		OnDragStart:   func(Handle, float64, float64) { sourceStarts++ },
	})
	require.NoError(t, src.Grant(1, 1))
	settle(t, e)

	s, ok, err := e.Session(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "source-card", s.Handle)
	require.Equal(t, 0, engineStarts)
	require.Equal(t, 1, sourceStarts)
}

func TestSource_IgnoredGrantCannotDriveAnotherDrag(t *testing.T) {
	rec := &recorder{}
	e, clock := newTestEngine(t, staticHost("card"))
	_, err := e.Register(rec.target("X", 0, rect(0, 0, 10, 10)))
	require.NoError(t, err)

	owner := e.NewSource(Host{})
	latecomer := e.NewSource(Host{})

	require.NoError(t, owner.Grant(5, 5))
	settle(t, e)
	require.Equal(t, StateActive, e.Stats().State)

	require.NoError(t, latecomer.Grant(60, 60))
	settle(t, e)
	require.Equal(t, int64(1), e.Stats().IgnoredStarts)

	require.NoError(t, latecomer.Move(60, 60))
	require.NoError(t, e.Sync(context.Background()))
	clock.Advance(e.Config().Debounce)
	settle(t, e)

	out, err := latecomer.Release(context.Background(), 60, 60)
	require.NoError(t, err)
	require.Equal(t, ResultNotStarted, out.Result)
	require.Empty(t, out.SessionID)
	require.False(t, latecomer.Dragging())
	require.Equal(t, StateActive, e.Stats().State, "the owner's drag survives")

	s, ok, err := e.Session(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 5.0, s.X, "the latecomer's move never reached the session")
	require.Equal(t, []string{"in:X", "over:X"}, rec.Calls())

	out, err = owner.Release(context.Background(), 6, 6)
	require.NoError(t, err)
	require.Equal(t, ResultCompleted, out.Result)
	require.Equal(t, []string{"in:X", "over:X", "over:X", "drop:X@6,6"}, rec.Calls())
}

func TestSource_RejectedGrantIsNotRemembered(t *testing.T) {
	e, err := NewEngine(staticHost("card"))
	require.NoError(t, err)
	src := e.NewSource(Host{})

	require.ErrorIs(t, src.Grant(1, 1), ErrEngineStopped)
	require.False(t, src.Dragging())
}
