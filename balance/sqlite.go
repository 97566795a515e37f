package balance

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const schema = `
CREATE TABLE IF NOT EXISTS balance (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	cash TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// SQLiteStore keeps the balance in a single-row table. Cash is stored as
// decimal text so no precision is lost.
type SQLiteStore struct {
	path   string
	db     *sql.DB
	def    decimal.Decimal
	logger *slog.Logger
}

func NewSQLite(path string, def decimal.Decimal, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create balance schema: %w", err)
	}
	return &SQLiteStore{path: path, db: db, def: def, logger: logger}, nil
}

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Read(ctx context.Context) decimal.Decimal {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT cash FROM balance WHERE id = 1`).Scan(&text)
	if err != nil {
		s.logger.WarnContext(ctx, "balance unavailable, using default",
			slog.String("default", s.def.String()),
			slog.Any("error", err))
		return s.def
	}

	cash, err := decimal.NewFromString(text)
	if err != nil {
		s.logger.WarnContext(ctx, "balance malformed, using default",
			slog.String("value", text),
			slog.String("default", s.def.String()),
			slog.Any("error", err))
		return s.def
	}
	return cash
}

// Write upserts the single row in one statement.
func (s *SQLiteStore) Write(ctx context.Context, cash decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balance (id, cash, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET cash = excluded.cash, updated_at = excluded.updated_at`,
		cash.String(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("write balance: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
