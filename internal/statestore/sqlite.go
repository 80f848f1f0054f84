package statestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/msardana94/momentumbot/internal/portfolio"
)

// SQLiteStore keeps the portfolio as a single-row record. The payload stays
// JSON so file and sqlite backends are interchangeable.
type SQLiteStore struct {
	db          *sql.DB
	initialCash float64
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS portfolio_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	record TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);`

func NewSQLiteStore(path string, initialCash float64) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite state: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, initialCash: initialCash}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (portfolio.Portfolio, error) {
	var record string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM portfolio_state WHERE id = 1`).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return portfolio.New(s.initialCash), nil
	}
	if err != nil {
		return portfolio.New(s.initialCash), fmt.Errorf("read portfolio state: %w", err)
	}
	var p portfolio.Portfolio
	if err := json.Unmarshal([]byte(record), &p); err != nil {
		return portfolio.New(s.initialCash), fmt.Errorf("unmarshal portfolio state: %w", err)
	}
	if p.Holdings == nil {
		p.Holdings = []portfolio.Position{}
	}
	return p, nil
}

func (s *SQLiteStore) Save(ctx context.Context, p portfolio.Portfolio) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal portfolio state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO portfolio_state (id, record, updated_at)
		VALUES (1, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(id) DO UPDATE SET
			record = excluded.record,
			updated_at = excluded.updated_at`, string(data))
	if err != nil {
		return fmt.Errorf("write portfolio state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
