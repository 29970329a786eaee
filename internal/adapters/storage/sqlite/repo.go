// Package sqlite persists boards in single-file SQLite databases.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanschultz/kanboard/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines the registered modernc driver.
const driverName = "sqlite"

// schemaVersion is recorded in PRAGMA user_version.
const schemaVersion = 1

// Store reads and writes whole boards, one database file per board.
type Store struct{}

// New constructs a Store.
func New() *Store {
	return &Store{}
}

// LoadBoard reads the board stored in the database at path.
// A missing file wraps fs.ErrNotExist and is never created by a load.
func (s *Store) LoadBoard(ctx context.Context, path string) (domain.Board, error) {
	if _, err := os.Stat(path); err != nil {
		return domain.Board{}, fmt.Errorf("stat sqlite board: %w", err)
	}
	db, err := open(ctx, path)
	if err != nil {
		return domain.Board{}, err
	}
	defer func() {
		_ = db.Close()
	}()

	cols, err := listColumns(ctx, db)
	if err != nil {
		return domain.Board{}, err
	}
	if err := attachCards(ctx, db, cols); err != nil {
		return domain.Board{}, err
	}
	return domain.RestoreBoard(cols)
}

// SaveBoard replaces the board stored at path in one transaction.
func (s *Store) SaveBoard(ctx context.Context, path string, b domain.Board) (err error) {
	if strings.TrimSpace(path) == "" {
		return errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := open(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close sqlite: %w", closeErr)
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("clear cards: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM board_columns`); err != nil {
		return fmt.Errorf("clear columns: %w", err)
	}
	for colIdx, col := range b.Columns() {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO board_columns(position, name) VALUES (?, ?)`,
			colIdx, col.Name,
		); err != nil {
			return fmt.Errorf("insert column %q: %w", col.Name, err)
		}
		for cardIdx, card := range col.Cards {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO cards(column_position, position, id, title, description, priority, done, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				colIdx,
				cardIdx,
				card.ID,
				card.Title,
				card.Description,
				string(card.Priority),
				boolToInt(card.Done),
				ts(card.CreatedAt),
				ts(card.UpdatedAt),
			); err != nil {
				return fmt.Errorf("insert card %q: %w", card.Title, err)
			}
		}
	}
	err = tx.Commit()
	return err
}

// open opens the database at path and applies the schema.
func open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// migrate creates the board tables when absent.
func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS board_columns (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cards (
			column_position INTEGER NOT NULL,
			position INTEGER NOT NULL,
			id TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL,
			done INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT '',
			PRIMARY KEY(column_position, position),
			FOREIGN KEY(column_position) REFERENCES board_columns(position) ON DELETE CASCADE
		);`,
		fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// listColumns reads columns in board order.
func listColumns(ctx context.Context, db *sql.DB) ([]domain.Column, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM board_columns ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer rows.Close()

	var out []domain.Column
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, domain.Column{Name: name})
	}
	return out, rows.Err()
}

// attachCards reads cards into their columns, preserving stored order.
func attachCards(ctx context.Context, db *sql.DB, cols []domain.Column) error {
	rows, err := db.QueryContext(ctx, `
		SELECT c.column_position, c.id, c.title, c.description, c.priority, c.done, c.created_at, c.updated_at
		FROM cards c
		ORDER BY c.column_position ASC, c.position ASC
	`)
	if err != nil {
		return fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			colIdx      int
			card        domain.Card
			priorityRaw string
			doneRaw     int
			createdRaw  string
			updatedRaw  string
		)
		if err := rows.Scan(&colIdx, &card.ID, &card.Title, &card.Description, &priorityRaw, &doneRaw, &createdRaw, &updatedRaw); err != nil {
			return err
		}
		if colIdx < 0 || colIdx >= len(cols) {
			return fmt.Errorf("card %q references column %d: %w", card.Title, colIdx, domain.ErrIndexOutOfRange)
		}
		priority, err := domain.ParsePriority(priorityRaw)
		if err != nil {
			return fmt.Errorf("card %q: %w", card.Title, err)
		}
		card.Priority = priority
		card.Done = doneRaw != 0
		if card.CreatedAt, err = parseTS(createdRaw); err != nil {
			return fmt.Errorf("card %q created_at: %w", card.Title, err)
		}
		if card.UpdatedAt, err = parseTS(updatedRaw); err != nil {
			return fmt.Errorf("card %q updated_at: %w", card.Title, err)
		}
		cols[colIdx].Cards = append(cols[colIdx].Cards, card)
	}
	return rows.Err()
}

// ts formats a timestamp in the persisted layout.
func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return domain.Stamp(t).Format(domain.TimestampLayout)
}

// parseTS parses a persisted timestamp; "" is the zero time.
func parseTS(v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(domain.TimestampLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimestamps, v)
	}
	return parsed.UTC(), nil
}

// boolToInt maps a flag onto SQLite's integer booleans.
func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
