// internal/storage/chat/sqlite.go
package chat

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tomaskal/hermes/internal/core"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS chat_history (
	id           TEXT PRIMARY KEY,
	user         TEXT NOT NULL,
	prompt       TEXT NOT NULL,
	response     TEXT NOT NULL,
	model_used   TEXT NOT NULL,
	tokens_used  INTEGER NOT NULL,
	cost         REAL NOT NULL,
	timestamp    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_history_user ON chat_history(user);
CREATE INDEX IF NOT EXISTS idx_chat_history_timestamp ON chat_history(timestamp);
`

// SQLiteStore persists chat accounting records in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append persists a record.
func (s *SQLiteStore) Append(ctx context.Context, record core.AccountingRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_history (id, user, prompt, response, model_used, tokens_used, cost, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.User, record.Prompt, record.Response,
		string(record.Provider), record.TokensUsed, record.Cost,
		record.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return core.WrapError(core.ErrStore, err)
	}
	return nil
}

// Aggregate returns totals over all stored records.
func (s *SQLiteStore) Aggregate(ctx context.Context) (core.Aggregate, error) {
	var agg core.Aggregate
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(tokens_used), 0), COALESCE(SUM(cost), 0) FROM chat_history`,
	).Scan(&agg.TotalChats, &agg.TotalTokens, &agg.TotalCost)
	if err != nil {
		return core.Aggregate{}, core.WrapError(core.ErrStore, err)
	}
	return agg, nil
}

// List returns records matching the filter, oldest first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]core.AccountingRecord, error) {
	query := `SELECT id, user, prompt, response, model_used, tokens_used, cost, timestamp
	          FROM chat_history WHERE 1=1`
	var args []any

	if filter.User != "" {
		query += " AND user = ?"
		args = append(args, filter.User)
	}
	if filter.Provider != "" {
		query += " AND model_used = ?"
		args = append(args, string(filter.Provider))
	}
	if !filter.From.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.From.UTC().Format(time.RFC3339Nano))
	}
	if !filter.To.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.To.UTC().Format(time.RFC3339Nano))
	}

	query += " ORDER BY timestamp ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.WrapError(core.ErrStore, err)
	}
	defer rows.Close()

	var result []core.AccountingRecord
	for rows.Next() {
		var r core.AccountingRecord
		var provider, ts string
		if err := rows.Scan(&r.ID, &r.User, &r.Prompt, &r.Response, &provider, &r.TokensUsed, &r.Cost, &ts); err != nil {
			return nil, core.WrapError(core.ErrStore, err)
		}
		r.Provider = core.ProviderName(provider)
		if r.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, core.WrapError(core.ErrStore, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, core.WrapError(core.ErrStore, err)
	}
	return result, nil
}

var _ Store = (*SQLiteStore)(nil)
