package board_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/dropzone/internal/board"
	"github.com/zjrosen/dropzone/internal/config"
	"github.com/zjrosen/dropzone/internal/infrastructure/sqlite"
)

// countingRepo counts list queries to observe the column cache.
type countingRepo struct {
	board.CardRepository
	lists int
}

func (r *countingRepo) ListByStatus(ctx context.Context, status string) ([]board.Card, error) {
	r.lists++
	return r.CardRepository.ListByStatus(ctx, status)
}

func newService(t *testing.T, cacheEnabled bool) (*board.Service, *countingRepo) {
	t.Helper()
	db, err := sqlite.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := &countingRepo{CardRepository: db.CardRepository()}
	svc := board.NewService(repo, config.DefaultColumns(), config.CacheConfig{
		Enabled:         cacheEnabled,
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	})
	return svc, repo
}

func TestService_SeedOnlyOnce(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()

	n, err := svc.Seed(ctx)
	require.NoError(t, err)
	require.Positive(t, n)

	again, err := svc.Seed(ctx)
	require.NoError(t, err)
	require.Zero(t, again)
}

func TestService_CardsAreCachedUntilWrite(t *testing.T) {
	svc, repo := newService(t, true)
	ctx := context.Background()

	_, err := svc.AddCard(ctx, "one", "todo")
	require.NoError(t, err)

	for range 3 {
		cards, err := svc.Cards(ctx, "todo")
		require.NoError(t, err)
		require.Len(t, cards, 1)
	}
	require.Equal(t, 1, repo.lists)

	_, err = svc.AddCard(ctx, "two", "todo")
	require.NoError(t, err)
	cards, err := svc.Cards(ctx, "todo")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	require.Equal(t, 2, repo.lists)
}

func TestService_DisabledCacheAlwaysQueries(t *testing.T) {
	svc, repo := newService(t, false)
	ctx := context.Background()

	for range 3 {
		_, err := svc.Cards(ctx, "todo")
		require.NoError(t, err)
	}
	require.Equal(t, 3, repo.lists)
}

func TestService_MoveCardHonorsAccepts(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()

	card, err := svc.AddCard(ctx, "task", "todo")
	require.NoError(t, err)

	require.False(t, svc.CanDrop(*card, "review"), "review only takes doing cards")
	_, err = svc.MoveCard(ctx, card.ID, "review", "s-1")
	require.True(t, errors.Is(err, board.ErrNotAccepted))

	require.True(t, svc.CanDrop(*card, "doing"))
	mv, err := svc.MoveCard(ctx, card.ID, "doing", "s-2")
	require.NoError(t, err)
	require.Equal(t, "todo", mv.From)
	require.Equal(t, "doing", mv.To)

	todo, err := svc.Cards(ctx, "todo")
	require.NoError(t, err)
	require.Empty(t, todo)
	doing, err := svc.Cards(ctx, "doing")
	require.NoError(t, err)
	require.Len(t, doing, 1)

	history, err := svc.History(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "s-2", history[0].SessionID)
}

func TestService_MoveToSameColumnIsNoop(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()

	card, err := svc.AddCard(ctx, "task", "todo")
	require.NoError(t, err)
	require.False(t, svc.CanDrop(*card, "todo"))

	mv, err := svc.MoveCard(ctx, card.ID, "todo", "s-1")
	require.NoError(t, err)
	require.Nil(t, mv)
}

func TestService_UnknownColumn(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()

	_, err := svc.AddCard(ctx, "task", "limbo")
	require.ErrorIs(t, err, board.ErrUnknownColumn)

	card, err := svc.AddCard(ctx, "task", "todo")
	require.NoError(t, err)
	_, err = svc.MoveCard(ctx, card.ID, "limbo", "")
	require.ErrorIs(t, err, board.ErrUnknownColumn)

	_, err = svc.MoveCard(ctx, "missing", "doing", "")
	require.True(t, board.IsCardNotFound(err))
}

func TestService_SetColumnsReplacesLayout(t *testing.T) {
	svc, repo := newService(t, true)
	ctx := context.Background()

	_, err := svc.Cards(ctx, "todo")
	require.NoError(t, err)

	svc.SetColumns(ctx, []config.ColumnConfig{{Name: "Inbox", Status: "todo"}})
	require.Len(t, svc.Columns(), 1)
	_, ok := svc.Column("doing")
	require.False(t, ok)

	_, err = svc.Cards(ctx, "todo")
	require.NoError(t, err)
	require.Equal(t, 2, repo.lists, "reload flushes cached lists")
}
