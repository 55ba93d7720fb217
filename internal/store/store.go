// Package store keeps a history of exported track lists in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jfmyers9/tracklist/pkg/spotify"
	_ "modernc.org/sqlite"
)

// Store is an export history backed by SQLite
type Store struct {
	db *sql.DB
}

// Export is one resolved URL and its tracks
type Export struct {
	SourceURL string
	Ref       spotify.ResourceReference
	Tracks    []spotify.TrackRecord
	CreatedAt time.Time // zero means now
}

// ExportSummary describes a stored export without its tracks
type ExportSummary struct {
	ID         int64
	SourceURL  string
	Kind       spotify.Kind
	ResourceID string
	TrackCount int
	CreatedAt  time.Time
}

// New opens (or creates) the export history at dbPath
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps :memory: databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS exports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_url TEXT NOT NULL,
			kind TEXT NOT NULL,
			resource_id TEXT NOT NULL,
			track_count INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS export_tracks (
			export_id INTEGER NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			track_id TEXT NOT NULL,
			title TEXT NOT NULL,
			artists TEXT NOT NULL,
			album TEXT NOT NULL,
			duration TEXT NOT NULL,
			url TEXT NOT NULL,
			PRIMARY KEY (export_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_exports_created ON exports(created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save records an export and its tracks in one transaction
func (s *Store) Save(ctx context.Context, e Export) (int64, error) {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO exports (source_url, kind, resource_id, track_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		e.SourceURL,
		e.Ref.Kind.String(),
		e.Ref.ID,
		len(e.Tracks),
		createdAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert export: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO export_tracks (export_id, position, track_id, title, artists, album, duration, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, t := range e.Tracks {
		artists, err := json.Marshal(t.Artists)
		if err != nil {
			return 0, fmt.Errorf("failed to encode artists for %s: %w", t.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, t.ID, t.Title, string(artists), t.Album, t.Duration, t.URL); err != nil {
			return 0, fmt.Errorf("failed to insert track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// List returns the most recent exports, newest first
// A limit <= 0 returns all of them
func (s *Store) List(ctx context.Context, limit int) ([]ExportSummary, error) {
	query := `
		SELECT id, source_url, kind, resource_id, track_count, created_at
		FROM exports
		ORDER BY created_at DESC, id DESC
	`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	var exports []ExportSummary
	for rows.Next() {
		var e ExportSummary
		var kind string
		var createdUnix int64

		if err := rows.Scan(&e.ID, &e.SourceURL, &kind, &e.ResourceID, &e.TrackCount, &createdUnix); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}

		e.Kind, err = spotify.ParseKind(kind)
		if err != nil {
			return nil, fmt.Errorf("export %d: %w", e.ID, err)
		}
		e.CreatedAt = time.Unix(createdUnix, 0)

		exports = append(exports, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exports: %w", err)
	}

	return exports, nil
}

// Tracks returns the tracks of one export in their original order
func (s *Store) Tracks(ctx context.Context, exportID int64) ([]spotify.TrackRecord, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM exports WHERE id = ?", exportID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to look up export: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("export with id %d not found", exportID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT track_id, title, artists, album, duration, url
		FROM export_tracks
		WHERE export_id = ?
		ORDER BY position ASC
	`, exportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := make([]spotify.TrackRecord, 0)
	for rows.Next() {
		var t spotify.TrackRecord
		var artists string

		if err := rows.Scan(&t.ID, &t.Title, &artists, &t.Album, &t.Duration, &t.URL); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		if err := json.Unmarshal([]byte(artists), &t.Artists); err != nil {
			return nil, fmt.Errorf("failed to decode artists for %s: %w", t.ID, err)
		}

		tracks = append(tracks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracks: %w", err)
	}

	return tracks, nil
}

// Prune removes exports older than maxAge along with their tracks
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()

	result, err := s.db.ExecContext(ctx, "DELETE FROM exports WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune exports: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// Count returns the number of stored exports
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM exports").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count exports: %w", err)
	}
	return count, nil
}
