// Package sqlite provides a SQLite-backed implementation of history.Driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/loomworksco/recall/pkg/history"
)

// Driver implements history.Driver using SQLite as the storage backend.
type Driver struct {
	db *sql.DB
}

// NewDriver creates a new SQLite-backed history driver.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewDriver(dbPath string) (*Driver, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Driver{db: db}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return d, nil
}

// migrate creates the necessary tables if they don't exist.
func (d *Driver) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		conversation_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		query TEXT NOT NULL,
		response TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (conversation_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_history_conversation ON history(conversation_id);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Append records an exchange, assigning the next sequence number atomically.
func (d *Driver) Append(ctx context.Context, conversationID, query, response string) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO history (conversation_id, seq, query, response)
		VALUES (
			?,
			COALESCE((SELECT MAX(seq) + 1 FROM history WHERE conversation_id = ?), 0),
			?,
			?
		)
	`, conversationID, conversationID, query, response)
	if err != nil {
		return fmt.Errorf("appending history entry: %w", err)
	}

	return nil
}

// Scan returns all entries for the conversation in insertion order.
func (d *Driver) Scan(ctx context.Context, conversationID string) ([]history.Entry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT conversation_id, seq, query, response
		FROM history
		WHERE conversation_id = ?
		ORDER BY seq ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("scanning history: %w", err)
	}
	defer rows.Close()

	entries := []history.Entry{}
	for rows.Next() {
		var entry history.Entry
		if err := rows.Scan(&entry.ConversationID, &entry.Seq, &entry.Query, &entry.Response); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history rows: %w", err)
	}

	return entries, nil
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.db.Close()
}

var _ history.Driver = (*Driver)(nil)
