package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/dropzone/internal/board"
)

// setupTestRepo creates a new DB and returns the repository for testing.
// The DB is closed when the test completes.
func setupTestRepo(t *testing.T) board.CardRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { db.Close() })
	return db.CardRepository()
}

func TestCardRepository_CreateAppendsToColumn(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	a := &board.Card{ID: "a", Title: "first", Status: "todo"}
	b := &board.Card{ID: "b", Title: "second", Status: "todo"}
	c := &board.Card{ID: "c", Title: "elsewhere", Status: "done"}
	for _, card := range []*board.Card{a, b, c} {
		require.NoError(t, repo.Create(ctx, card))
	}
	require.Equal(t, 0, a.Position)
	require.Equal(t, 1, b.Position)
	require.Equal(t, 0, c.Position)
	require.False(t, a.CreatedAt.IsZero())

	todo, err := repo.ListByStatus(ctx, "todo")
	require.NoError(t, err)
	require.Len(t, todo, 2)
	require.Equal(t, "a", todo[0].ID)
	require.Equal(t, "b", todo[1].ID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestCardRepository_ListEmptyColumnIsEmptySlice(t *testing.T) {
	repo := setupTestRepo(t)
	cards, err := repo.ListByStatus(context.Background(), "nowhere")
	require.NoError(t, err)
	require.NotNil(t, cards)
	require.Empty(t, cards)
}

func TestCardRepository_GetNotFound(t *testing.T) {
	repo := setupTestRepo(t)
	_, err := repo.Get(context.Background(), "missing")
	require.True(t, board.IsCardNotFound(err))
}

func TestCardRepository_MoveUpdatesStatusAndHistory(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &board.Card{ID: "x", Title: "existing", Status: "doing"}))
	require.NoError(t, repo.Create(ctx, &board.Card{ID: "m", Title: "mover", Status: "todo"}))

	mv := &board.Move{CardID: "m", From: "todo", To: "doing", SessionID: "sess-1"}
	require.NoError(t, repo.Move(ctx, mv))
	require.NotZero(t, mv.ID)

	card, err := repo.Get(ctx, "m")
	require.NoError(t, err)
	require.Equal(t, "doing", card.Status)
	require.Equal(t, 1, card.Position, "moved card goes to the bottom of the target column")

	history, err := repo.History(ctx, "m")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "todo", history[0].From)
	require.Equal(t, "doing", history[0].To)
	require.Equal(t, "sess-1", history[0].SessionID)
}

func TestCardRepository_MoveMissingCardRecordsNothing(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	err := repo.Move(ctx, &board.Move{CardID: "ghost", From: "todo", To: "done"})
	require.True(t, board.IsCardNotFound(err))

	history, err := repo.History(ctx, "ghost")
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestCardRepository_InMemory(t *testing.T) {
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	repo := db.CardRepository()
	require.NoError(t, repo.Create(context.Background(), &board.Card{ID: "a", Title: "a", Status: "todo"}))
	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

// Any sequence of moves keeps every card in exactly one column and each
// column's positions strictly increasing.
func TestCardRepository_MovesKeepColumnsConsistent(t *testing.T) {
	statuses := []string{"todo", "doing", "done"}

	rapid.Check(t, func(rt *rapid.T) {
		repo := setupTestRepo(t)
		ctx := context.Background()

		numCards := rapid.IntRange(1, 8).Draw(rt, "numCards")
		where := make(map[string]string, numCards)
		for i := range numCards {
			id := fmt.Sprintf("card-%d", i)
			status := rapid.SampledFrom(statuses).Draw(rt, "status")
			if err := repo.Create(ctx, &board.Card{ID: id, Title: id, Status: status}); err != nil {
				rt.Fatalf("create: %v", err)
			}
			where[id] = status
		}

		numMoves := rapid.IntRange(0, 15).Draw(rt, "numMoves")
		for range numMoves {
			id := fmt.Sprintf("card-%d", rapid.IntRange(0, numCards-1).Draw(rt, "card"))
			to := rapid.SampledFrom(statuses).Draw(rt, "to")
			if err := repo.Move(ctx, &board.Move{CardID: id, From: where[id], To: to}); err != nil {
				rt.Fatalf("move: %v", err)
			}
			where[id] = to
		}

		total := 0
		for _, status := range statuses {
			cards, err := repo.ListByStatus(ctx, status)
			if err != nil {
				rt.Fatalf("list: %v", err)
			}
			for i, c := range cards {
				if where[c.ID] != status {
					rt.Fatalf("%s listed in %s, expected %s", c.ID, status, where[c.ID])
				}
				if i > 0 && c.Position <= cards[i-1].Position {
					rt.Fatalf("positions not increasing in %s", status)
				}
			}
			total += len(cards)
		}
		if total != numCards {
			rt.Fatalf("listed %d cards, want %d", total, numCards)
		}
	})
}
