// Package board is the kanban domain behind the drag-drop demo host: cards
// live in status columns and are moved by dropping them on another column.
package board

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Card is a single kanban card.
type Card struct {
	ID        string
	Title     string
	Status    string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Card) String() string {
	return c.Title
}

// Move is one entry of a card's move history.
type Move struct {
	ID        int64
	CardID    string
	From      string
	To        string
	SessionID string // drag session that produced the move
	MovedAt   time.Time
}

// CardNotFoundError is returned when a card ID does not exist.
type CardNotFoundError struct {
	ID string
}

func (e *CardNotFoundError) Error() string {
	return fmt.Sprintf("card not found: %s", e.ID)
}

// IsCardNotFound reports whether err is a CardNotFoundError.
func IsCardNotFound(err error) bool {
	var target *CardNotFoundError
	return errors.As(err, &target)
}

var (
	// ErrUnknownColumn is returned when a status has no configured column.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNotAccepted is returned when a column refuses cards from the source status.
	ErrNotAccepted = errors.New("column does not accept card")
)

// CardRepository is the persistence interface for cards and their moves.
type CardRepository interface {
	// Create inserts card, appending it to the end of its status column.
	// Position, CreatedAt and UpdatedAt are set on card.
	Create(ctx context.Context, card *Card) error

	// Get returns a card by ID or CardNotFoundError.
	Get(ctx context.Context, id string) (*Card, error)

	// ListByStatus returns the cards of one column ordered by position.
	ListByStatus(ctx context.Context, status string) ([]Card, error)

	// Count returns the total number of cards.
	Count(ctx context.Context) (int, error)

	// Move changes the card's status to mv.To, appends it to the end of the
	// target column and records mv in the history. It is atomic.
	Move(ctx context.Context, mv *Move) error

	// History returns a card's moves, oldest first.
	History(ctx context.Context, cardID string) ([]Move, error)

	// Close releases any resources held by the repository.
	Close() error
}
