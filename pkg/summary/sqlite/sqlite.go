// Package sqlite provides a SQLite-backed implementation of summary.Store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/loomworksco/recall/pkg/summary"
)

// Store implements summary.Store using SQLite as the storage backend.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite-backed summary store.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the necessary tables if they don't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS summaries (
		conversation_id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		version INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Get returns the stored summary, or an empty version-0 summary for an
// unknown conversation.
func (s *Store) Get(ctx context.Context, conversationID string) (summary.Summary, error) {
	result := summary.Summary{ConversationID: conversationID}

	err := s.db.QueryRowContext(ctx, `
		SELECT text, version FROM summaries WHERE conversation_id = ?
	`, conversationID).Scan(&result.Text, &result.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result, nil
		}
		return summary.Summary{}, fmt.Errorf("reading summary: %w", err)
	}

	return result, nil
}

// Set replaces the summary text and bumps the version (last write wins).
func (s *Store) Set(ctx context.Context, conversationID, text string) (int64, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (conversation_id, text, version, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(conversation_id) DO UPDATE SET
			text = excluded.text,
			version = summaries.version + 1,
			updated_at = CURRENT_TIMESTAMP
	`, conversationID, text)
	if err != nil {
		return 0, fmt.Errorf("writing summary: %w", err)
	}

	var version int64
	err = s.db.QueryRowContext(ctx, `
		SELECT version FROM summaries WHERE conversation_id = ?
	`, conversationID).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("reading summary version: %w", err)
	}

	return version, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ summary.Store = (*Store)(nil)
