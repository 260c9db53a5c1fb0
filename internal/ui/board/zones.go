package board

import (
	"context"
	"math"
	"sync"

	zone "github.com/lrstanley/bubblezone"

	cards "github.com/zjrosen/dropzone/internal/board"
	"github.com/zjrosen/dropzone/internal/dnd"
	"github.com/zjrosen/dropzone/internal/log"
)

// ColumnZoneID is the bubblezone ID of a column panel.
func ColumnZoneID(status string) string { return "column:" + status }

// CardZoneID is the bubblezone ID of a card row.
func CardZoneID(id string) string { return "card:" + id }

// inZone reports whether the cell holding (x, y) lies in z. Zone bounds are
// inclusive on both ends.
func inZone(z *zone.ZoneInfo, x, y float64) bool {
	if z == nil || z.IsZero() {
		return false
	}
	cx, cy := int(math.Floor(x)), int(math.Floor(y))
	return cx >= z.StartX && cx <= z.EndX && cy >= z.StartY && cy <= z.EndY
}

// Index is the set of cards currently rendered on the board. The drag engine
// reads it from its resolver goroutines while the UI replaces it on load, so
// it carries its own lock.
type Index struct {
	mu       sync.RWMutex
	byColumn map[string][]cards.Card
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{byColumn: make(map[string][]cards.Card)}
}

// SetColumn replaces the cards of one column.
func (ix *Index) SetColumn(status string, cs []cards.Card) {
	ix.mu.Lock()
	ix.byColumn[status] = append([]cards.Card(nil), cs...)
	ix.mu.Unlock()
}

// Reset forgets every column.
func (ix *Index) Reset() {
	ix.mu.Lock()
	ix.byColumn = make(map[string][]cards.Card)
	ix.mu.Unlock()
}

// Len returns the number of indexed cards.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	n := 0
	for _, cs := range ix.byColumn {
		n += len(cs)
	}
	return n
}

// HandleAt returns the card whose row is under (x, y), or nil when the
// pointer is not on a card. It satisfies dnd.GetHandleFunc.
func (ix *Index) HandleAt(ctx context.Context, x, y float64) (dnd.Handle, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	for _, cs := range ix.byColumn {
		for _, c := range cs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if inZone(zone.Get(CardZoneID(c.ID)), x, y) {
				return c, nil
			}
		}
	}
	return nil, nil
}

// Element returns the ghost label for a dragged card.
func (ix *Index) Element(h dnd.Handle) any {
	c, ok := h.(cards.Card)
	if !ok {
		return nil
	}
	return c.Title
}

// Host returns the engine callbacks backed by the index.
func (ix *Index) Host() dnd.Host {
	return dnd.Host{
		GetDragHandle:  ix.HandleAt,
		GetDragElement: ix.Element,
		OnError: func(err error) {
			log.ErrorErr(log.CatBoard, "drag handle lookup failed", err)
		},
	}
}

// ColumnTarget builds the drop target for one column. The pointer must be
// inside the column panel and the service must allow the move; columns that
// refuse the card are never entered.
func ColumnTarget(svc *cards.Service, status string, zIndex int) *dnd.DropTarget {
	return &dnd.DropTarget{
		Name:   status,
		ZIndex: zIndex,
		Contains: func(_ context.Context, h dnd.Handle, x, y float64) (bool, error) {
			card, ok := h.(cards.Card)
			if !ok {
				return false, nil
			}
			if !inZone(zone.Get(ColumnZoneID(status)), x, y) {
				return false, nil
			}
			return svc.CanDrop(card, status), nil
		},
		OnDragIn: func(h dnd.Handle, _, _ float64) {
			log.Debug(log.CatBoard, "card over column", "column", status, "card", h)
		},
		OnDragOut: func(h dnd.Handle, _, _ float64) {
			log.Debug(log.CatBoard, "card left column", "column", status, "card", h)
		},
		OnDrop: func(h dnd.Handle, x, y float64) {
			log.Info(log.CatBoard, "card dropped", "column", status, "card", h, "x", x, "y", y)
		},
	}
}
