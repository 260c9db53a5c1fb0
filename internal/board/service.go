package board

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/dropzone/internal/cachemanager"
	"github.com/zjrosen/dropzone/internal/config"
	"github.com/zjrosen/dropzone/internal/log"
)

// Service answers the board UI's queries and applies drops.
// Column card lists are served through a read-through cache that is
// invalidated on every write.
type Service struct {
	repo  CardRepository
	lists *cachemanager.ReadThroughCache[[]Card, string]
	ttl   time.Duration

	mu      sync.RWMutex
	columns []config.ColumnConfig
}

// NewService creates a board service over repo.
func NewService(repo CardRepository, columns []config.ColumnConfig, cacheCfg config.CacheConfig) *Service {
	s := &Service{
		repo:    repo,
		ttl:     cacheCfg.TTL,
		columns: slices.Clone(columns),
	}
	cache := cachemanager.NewInMemoryCacheManager[[]Card]("column-cards", cacheCfg.TTL, cacheCfg.CleanupInterval)
	s.lists = cachemanager.NewReadThroughCache[[]Card, string](cache, repo.ListByStatus, !cacheCfg.Enabled)
	return s
}

func cacheKey(status string) string {
	return "column:" + status
}

// Columns returns the configured columns in display order.
func (s *Service) Columns() []config.ColumnConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.columns)
}

// SetColumns replaces the column layout, as after a config reload.
func (s *Service) SetColumns(ctx context.Context, columns []config.ColumnConfig) {
	s.mu.Lock()
	s.columns = slices.Clone(columns)
	s.mu.Unlock()
	s.lists.Reset(ctx)
	log.Info(log.CatBoard, "columns replaced", "count", len(columns))
}

// Column returns the column for status.
func (s *Service) Column(status string) (config.ColumnConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.columns {
		if c.StatusOrDefault() == status {
			return c, true
		}
	}
	return config.ColumnConfig{}, false
}

// Cards returns the cards in the column for status.
func (s *Service) Cards(ctx context.Context, status string) ([]Card, error) {
	cards, err := s.lists.Get(ctx, cacheKey(status), status, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("listing %s cards: %w", status, err)
	}
	return cards, nil
}

// AddCard creates a card at the bottom of the column for status.
func (s *Service) AddCard(ctx context.Context, title, status string) (*Card, error) {
	if _, ok := s.Column(status); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, status)
	}
	card := &Card{ID: uuid.NewString(), Title: title, Status: status}
	if err := s.repo.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}
	s.lists.Invalidate(ctx, cacheKey(status))
	return card, nil
}

// CanDrop reports whether card may be dropped on the column for status.
// Dropping a card on its own column is never a move.
func (s *Service) CanDrop(card Card, status string) bool {
	if card.Status == status {
		return false
	}
	col, ok := s.Column(status)
	return ok && col.Accept(card.Status)
}

// MoveCard moves a card to the column for status and records the move
// against the drag session that produced it.
func (s *Service) MoveCard(ctx context.Context, cardID, status, sessionID string) (*Move, error) {
	card, err := s.repo.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}
	col, ok := s.Column(status)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, status)
	}
	if card.Status == status {
		return nil, nil
	}
	if !col.Accept(card.Status) {
		return nil, fmt.Errorf("%w: %s does not take %s cards", ErrNotAccepted, col.Name, card.Status)
	}

	mv := &Move{CardID: card.ID, From: card.Status, To: status, SessionID: sessionID}
	if err := s.repo.Move(ctx, mv); err != nil {
		return nil, fmt.Errorf("moving card %s: %w", card.ID, err)
	}
	s.lists.Invalidate(ctx, cacheKey(mv.From), cacheKey(mv.To))
	log.Info(log.CatBoard, "card moved", "card", card.ID, "from", mv.From, "to", mv.To, "session", sessionID)
	return mv, nil
}

// History returns the moves of a card.
func (s *Service) History(ctx context.Context, cardID string) ([]Move, error) {
	return s.repo.History(ctx, cardID)
}

// sampleCards seed an empty board.
var sampleCards = []struct{ title, status string }{
	{"Write release notes", "todo"},
	{"Triage bug reports", "todo"},
	{"Profile hit-test latency", "todo"},
	{"Debounce pointer moves", "doing"},
	{"Review zone layout", "review"},
	{"Ship sqlite store", "done"},
}

// Seed inserts sample cards when the board is empty. Cards whose status has
// no configured column are skipped. Returns the number inserted.
func (s *Service) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting cards: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	inserted := 0
	for _, sc := range sampleCards {
		if _, ok := s.Column(sc.status); !ok {
			continue
		}
		if _, err := s.AddCard(ctx, sc.title, sc.status); err != nil {
			return inserted, err
		}
		inserted++
	}
	log.Info(log.CatBoard, "seeded board", "cards", inserted)
	return inserted, nil
}
