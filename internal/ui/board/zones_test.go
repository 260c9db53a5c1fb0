package board

import (
	"context"
	"testing"

	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	cards "github.com/zjrosen/dropzone/internal/board"
)

func TestInZone(t *testing.T) {
	z := &zone.ZoneInfo{StartX: 2, StartY: 1, EndX: 5, EndY: 3}

	require.True(t, inZone(z, 2, 1))
	require.True(t, inZone(z, 5.9, 3.9), "fractional coordinates fall in the cell they are in")
	require.False(t, inZone(z, 6, 2))
	require.False(t, inZone(z, 1.99, 2))
	require.False(t, inZone(nil, 0, 0))
	require.False(t, inZone(&zone.ZoneInfo{}, 0, 0))
}

func TestIndex_HandleAt(t *testing.T) {
	f, m := newFixture(t)
	m = load(m)
	card := *m.SelectedCard()
	render(t, m, CardZoneID(card.ID), ColumnZoneID("done"))

	cz := zone.Get(CardZoneID(card.ID))
	h, err := f.index.HandleAt(context.Background(), float64(cz.StartX+1), float64(cz.StartY))
	require.NoError(t, err)
	require.Equal(t, card, h)
	require.Equal(t, card.Title, f.index.Element(h))

	dz := zone.Get(ColumnZoneID("done"))
	h, err = f.index.HandleAt(context.Background(), float64(dz.StartX+2), float64(dz.EndY-1))
	require.NoError(t, err)
	require.Nil(t, h, "empty space has no handle")
}

func TestIndex_HandleAtCancelled(t *testing.T) {
	ix := NewIndex()
	ix.SetColumn("todo", []cards.Card{{ID: "a", Title: "a", Status: "todo"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ix.HandleAt(ctx, 0, 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestIndex_SetColumnCopies(t *testing.T) {
	ix := NewIndex()
	cs := []cards.Card{{ID: "a"}, {ID: "b"}}
	ix.SetColumn("todo", cs)
	cs[0].ID = "changed"

	ix.mu.RLock()
	require.Equal(t, "a", ix.byColumn["todo"][0].ID)
	ix.mu.RUnlock()

	ix.Reset()
	require.Zero(t, ix.Len())
}

func TestIndex_ElementOfForeignHandle(t *testing.T) {
	require.Nil(t, NewIndex().Element("not a card"))
}

func TestColumnTarget_Contains(t *testing.T) {
	f, m := newFixture(t)
	m = load(m)
	render(t, m, ColumnZoneID("todo"), ColumnZoneID("doing"), ColumnZoneID("review"))

	todoCard := m.Column(0).Items()[0]
	ctx := context.Background()
	center := func(status string) (float64, float64) {
		z := zone.Get(ColumnZoneID(status))
		return float64(z.StartX+z.EndX) / 2, float64(z.StartY+z.EndY) / 2
	}

	doing := ColumnTarget(f.svc, "doing", 0)
	require.NoError(t, doing.Validate())

	x, y := center("doing")
	ok, err := doing.Contains(ctx, todoCard, x, y)
	require.NoError(t, err)
	require.True(t, ok)

	ok, _ = doing.Contains(ctx, "not a card", x, y)
	require.False(t, ok, "foreign handles are refused")

	x, y = center("todo")
	ok, _ = doing.Contains(ctx, todoCard, x, y)
	require.False(t, ok, "pointer outside the column")

	ok, _ = ColumnTarget(f.svc, "todo", 0).Contains(ctx, todoCard, x, y)
	require.False(t, ok, "a card's own column never accepts it")

	x, y = center("review")
	ok, _ = ColumnTarget(f.svc, "review", 0).Contains(ctx, todoCard, x, y)
	require.False(t, ok, "review only takes cards from doing")
}
