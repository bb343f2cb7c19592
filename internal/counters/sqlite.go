package counters

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/andrelcunha/rascal-go/topology"
)

// sqliteCounter is the durable, single-process redelivery counter backend
// (§4.1.6's "sqlite" type), grounded on the teacher's go.mod dependency on
// github.com/mattn/go-sqlite3 — the interface/implementation split mirrors
// pkg/persistence's Persistence interface with swappable backends.
type sqliteCounter struct {
	db *sql.DB
}

func newSQLiteCounter(cfg *topology.CounterConfig) (Counter, error) {
	path := "rascal-redeliveries.db"
	if cfg != nil {
		if p, ok := cfg.Options["path"].(string); ok && p != "" {
			path = p
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening redelivery counter db %s: %w", path, err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS redelivery_counts (
		message_id TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing redelivery counter schema: %w", err)
	}
	return &sqliteCounter{db: db}, nil
}

func (c *sqliteCounter) Get(ctx context.Context, messageID string) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT count FROM redelivery_counts WHERE message_id = ?`, messageID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *sqliteCounter) Incr(ctx context.Context, messageID string) (int, error) {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO redelivery_counts (message_id, count) VALUES (?, 1)
		ON CONFLICT(message_id) DO UPDATE SET count = count + 1
	`, messageID)
	if err != nil {
		return 0, err
	}
	return c.Get(ctx, messageID)
}

func (c *sqliteCounter) Clear(ctx context.Context, messageID string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM redelivery_counts WHERE message_id = ?`, messageID)
	return err
}
