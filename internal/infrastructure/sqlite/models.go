package sqlite

import (
	"time"

	"github.com/zjrosen/dropzone/internal/board"
)

// cardModel is the row shape of the cards table. Times are Unix milliseconds.
type cardModel struct {
	ID        string
	Title     string
	Status    string
	Position  int
	CreatedAt int64
	UpdatedAt int64
}

func (m *cardModel) toDomain() board.Card {
	return board.Card{
		ID:        m.ID,
		Title:     m.Title,
		Status:    m.Status,
		Position:  m.Position,
		CreatedAt: time.UnixMilli(m.CreatedAt),
		UpdatedAt: time.UnixMilli(m.UpdatedAt),
	}
}

// moveModel is the row shape of the card_moves table.
type moveModel struct {
	ID        int64
	CardID    string
	From      string
	To        string
	SessionID string
	MovedAt   int64
}

func (m *moveModel) toDomain() board.Move {
	return board.Move{
		ID:        m.ID,
		CardID:    m.CardID,
		From:      m.From,
		To:        m.To,
		SessionID: m.SessionID,
		MovedAt:   time.UnixMilli(m.MovedAt),
	}
}
