// Package sqlite persists board cards and their move history in a sqlite
// database using the pure-Go ncruces driver.
package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/dropzone/internal/board"
	"github.com/zjrosen/dropzone/internal/log"
)

// schema is applied on every open; statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS cards (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	status TEXT NOT NULL,
	position INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cards_status_position ON cards(status, position);

CREATE TABLE IF NOT EXISTS card_moves (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	card_id TEXT NOT NULL,
	from_status TEXT NOT NULL,
	to_status TEXT NOT NULL,
	session_id TEXT NOT NULL DEFAULT '',
	moved_at INTEGER NOT NULL,
	FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_card_moves_card ON card_moves(card_id, id);
`

// DB wraps the sqlite connection pool.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the database at path with WAL journaling,
// foreign keys and a 5s busy timeout, then applies the schema.
// The special path ":memory:" opens a private in-memory database.
func NewDB(path string) (*DB, error) {
	dsn := "file::memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		dsn = "file:" + path
	}

	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(wal)")
	dsn += "?" + q.Encode()

	log.Debug(log.CatStore, "Opening database", "path", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.ErrorErr(log.CatStore, "Failed to open database", err, "path", path)
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		log.ErrorErr(log.CatStore, "Failed to ping database", err, "path", path)
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	log.Info(log.CatStore, "Connected to database", "path", path)
	return &DB{conn: conn, path: path}, nil
}

// CardRepository returns a board.CardRepository backed by this database.
func (db *DB) CardRepository() board.CardRepository {
	return newCardRepository(db)
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}
