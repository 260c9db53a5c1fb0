package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/dropzone/internal/board"
)

const cardColumns = `id, title, status, position, created_at, updated_at`

// cardRepository implements board.CardRepository using SQLite.
type cardRepository struct {
	db  *DB
	now func() time.Time
}

func newCardRepository(db *DB) *cardRepository {
	return &cardRepository{db: db, now: time.Now}
}

// Ensure cardRepository implements board.CardRepository.
var _ board.CardRepository = (*cardRepository)(nil)

func scanCard(scanner interface{ Scan(...any) error }) (*cardModel, error) {
	var m cardModel
	err := scanner.Scan(&m.ID, &m.Title, &m.Status, &m.Position, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

// nextPosition returns the position after the last card in status.
func nextPosition(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, status string) (int, error) {
	var pos int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE status = ?`, status,
	).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("failed to compute position: %w", err)
	}
	return pos, nil
}

func (r *cardRepository) Create(ctx context.Context, card *board.Card) error {
	pos, err := nextPosition(ctx, r.db.conn, card.Status)
	if err != nil {
		return err
	}
	now := r.now()
	_, err = r.db.conn.ExecContext(ctx,
		`INSERT INTO cards (`+cardColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		card.ID, card.Title, card.Status, pos, now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}
	card.Position = pos
	card.CreatedAt = time.UnixMilli(now.UnixMilli())
	card.UpdatedAt = card.CreatedAt
	return nil
}

func (r *cardRepository) Get(ctx context.Context, id string) (*board.Card, error) {
	row := r.db.conn.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	m, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &board.CardNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	card := m.toDomain()
	return &card, nil
}

func (r *cardRepository) ListByStatus(ctx context.Context, status string) ([]board.Card, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE status = ? ORDER BY position, created_at`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := []board.Card{}
	for rows.Next() {
		m, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

func (r *cardRepository) Move(ctx context.Context, mv *board.Move) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	pos, err := nextPosition(ctx, tx, mv.To)
	if err != nil {
		return err
	}
	now := r.now().UnixMilli()

	result, err := tx.ExecContext(ctx,
		`UPDATE cards SET status = ?, position = ?, updated_at = ? WHERE id = ?`,
		mv.To, pos, now, mv.CardID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return &board.CardNotFoundError{ID: mv.CardID}
	}

	result, err = tx.ExecContext(ctx,
		`INSERT INTO card_moves (card_id, from_status, to_status, session_id, moved_at) VALUES (?, ?, ?, ?, ?)`,
		mv.CardID, mv.From, mv.To, mv.SessionID, now,
	)
	if err != nil {
		return fmt.Errorf("failed to record move: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit move: %w", err)
	}
	mv.ID = id
	mv.MovedAt = time.UnixMilli(now)
	return nil
}

func (r *cardRepository) History(ctx context.Context, cardID string) ([]board.Move, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, card_id, from_status, to_status, session_id, moved_at
		 FROM card_moves WHERE card_id = ? ORDER BY id`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list moves: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var moves []board.Move
	for rows.Next() {
		var m moveModel
		if err := rows.Scan(&m.ID, &m.CardID, &m.From, &m.To, &m.SessionID, &m.MovedAt); err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate moves: %w", err)
	}
	return moves, nil
}

// Close is a no-op; the DB owns the connection.
func (r *cardRepository) Close() error {
	return nil
}
