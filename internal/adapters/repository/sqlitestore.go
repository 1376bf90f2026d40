package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/okian/glossa/internal/domain/model"
)

// Default connection pool settings.
const (
	defaultMaxOpenConns = 10
	defaultMaxIdleConns = 5
)

const schema = `
CREATE TABLE IF NOT EXISTS archives (
	id          TEXT PRIMARY KEY,
	corpus      TEXT NOT NULL,
	type        TEXT NOT NULL,
	framework   TEXT NOT NULL DEFAULT '',
	text_id     TEXT NOT NULL DEFAULT '',
	name        TEXT NOT NULL DEFAULT '',
	coder       TEXT NOT NULL DEFAULT '',
	span_count  INTEGER NOT NULL DEFAULT 0,
	track_count INTEGER NOT NULL DEFAULT 0,
	doc         TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_archives_corpus ON archives(corpus);
CREATE INDEX IF NOT EXISTS idx_archives_text ON archives(text_id);
`

// SQLiteStore implements Store on a local SQLite file via
// modernc.org/sqlite (no cgo). The full archive is kept as a JSON
// document column; listing columns are denormalized for filtering and
// ordering.
type SQLiteStore struct {
	db *sql.DB
}

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*sql.DB)

// WithMaxOpenConns overrides the connection pool's open limit.
func WithMaxOpenConns(n int) SQLiteOption {
	return func(db *sql.DB) {
		if n > 0 {
			db.SetMaxOpenConns(n)
		}
	}
}

// NewSQLiteStore opens (creating if needed) the archive database at
// path.
func NewSQLiteStore(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	for _, opt := range opts {
		opt(db)
	}

	// WAL keeps readers unblocked while a save is in flight.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save upserts the archive by id.
func (s *SQLiteStore) Save(ctx context.Context, a model.Archive) (model.Archive, error) {
	now := time.Now().UTC()
	if a.ID == "" {
		a.ID = uuid.NewString()
		a.CreatedAt = now
	} else {
		existing, err := s.Get(ctx, a.ID)
		switch {
		case err == nil:
			a.CreatedAt = existing.CreatedAt
			// Keep stored display metadata when the update omits it.
			if a.Name == "" {
				a.Name = existing.Name
			}
			if a.Coder == "" {
				a.Coder = existing.Coder
			}
			if a.TextID == "" {
				a.TextID = existing.TextID
			}
		case errors.Is(err, ErrNotFound):
			a.CreatedAt = now
		default:
			return model.Archive{}, err
		}
	}
	a.UpdatedAt = now

	doc, err := json.Marshal(a)
	if err != nil {
		return model.Archive{}, fmt.Errorf("%w: %w", ErrStore, err)
	}

	const q = `
INSERT INTO archives (id, corpus, type, framework, text_id, name, coder, span_count, track_count, doc, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	corpus = excluded.corpus,
	type = excluded.type,
	framework = excluded.framework,
	text_id = excluded.text_id,
	name = excluded.name,
	coder = excluded.coder,
	span_count = excluded.span_count,
	track_count = excluded.track_count,
	doc = excluded.doc,
	updated_at = excluded.updated_at`
	_, err = s.db.ExecContext(ctx, q,
		a.ID, a.Corpus, a.Type, a.Framework, a.TextID, a.Name, a.Coder,
		len(a.Spans), len(a.Tracks), string(doc), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return model.Archive{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return a, nil
}

// Get returns the full archive document.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Archive, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT doc FROM archives WHERE id = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Archive{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return model.Archive{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	var a model.Archive
	if err := json.Unmarshal([]byte(doc), &a); err != nil {
		return model.Archive{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return a, nil
}

// List returns matching summaries, newest first.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]Summary, error) {
	q := `SELECT id, corpus, type, framework, text_id, name, coder, span_count, track_count, updated_at
FROM archives WHERE 1=1`
	var args []any
	if f.Corpus != "" {
		q += " AND corpus = ?"
		args = append(args, f.Corpus)
	}
	if f.Type != "" {
		q += " AND type = ?"
		args = append(args, f.Type)
	}
	if f.TextID != "" {
		q += " AND text_id = ?"
		args = append(args, f.TextID)
	}
	q += " ORDER BY updated_at DESC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.Corpus, &sm.Type, &sm.Framework, &sm.TextID,
			&sm.Name, &sm.Coder, &sm.SpanCount, &sm.TrackCount, &sm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStore, err)
		}
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return out, nil
}

// Delete removes an archive by id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM archives WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// Rename updates the archive's display name both in the listing
// column and inside the stored document.
func (s *SQLiteStore) Rename(ctx context.Context, id, name string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	a.Name = name
	_, err = s.Save(ctx, a)
	return err
}

// Count returns the number of persisted archives.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM archives").Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
