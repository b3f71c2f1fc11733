package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"StorySync/internal/cli/model"
	"StorySync/internal/cli/repo"

	_ "modernc.org/sqlite"
)

// StoryRepositorySQLite is the durable record store backed by a local
// SQLite file. Pending photo blobs live inside the DB so they survive a
// full process restart.
type StoryRepositorySQLite struct {
	db *sql.DB
}

var _ repo.StoryRepository = (*StoryRepositorySQLite)(nil)

// Open opens (and creates if needed) the store at dbPath and runs schema
// migrations once.
func Open(dbPath string) (*StoryRepositorySQLite, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: empty db path", repo.ErrStorageUnavailable)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("%w: %w", repo.ErrStorageUnavailable, err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repo.ErrStorageUnavailable, err)
	}
	// Concurrent triggers (sync, refresh) share one connection to keep
	// writes serialized inside SQLite.
	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate: %w", repo.ErrStorageUnavailable, err)
	}
	return &StoryRepositorySQLite{db: db}, nil
}

// Close closes the underlying DB.
func (r *StoryRepositorySQLite) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Upsert writes the record in a single statement, so no reader can observe
// a partially-written row.
func (r *StoryRepositorySQLite) Upsert(ctx context.Context, s model.Story) error {
	if s.ID == "" {
		return errors.New("empty story id")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO stories(
        id, name, description, photo_url, photo_blob, lat, lon, created_at, sync_status
    ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT(id) DO UPDATE SET
        name = excluded.name,
        description = excluded.description,
        photo_url = excluded.photo_url,
        photo_blob = excluded.photo_blob,
        lat = excluded.lat,
        lon = excluded.lon,
        created_at = excluded.created_at,
        sync_status = excluded.sync_status`,
		s.ID, s.Name, s.Description, s.PhotoURL, s.PhotoBlob,
		floatOrNull(s.Lat), floatOrNull(s.Lon), s.CreatedAt, string(s.SyncStatus),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", repo.ErrStorageUnavailable, err)
	}
	return nil
}

// GetAll returns all records ordered by created_at desc, id asc.
func (r *StoryRepositorySQLite) GetAll(ctx context.Context) ([]model.Story, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, photo_url, photo_blob, lat, lon, created_at, sync_status
        FROM stories ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repo.ErrStorageUnavailable, err)
	}
	defer rows.Close()
	var res []model.Story
	for rows.Next() {
		s, err := scanStory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", repo.ErrStorageUnavailable, err)
		}
		res = append(res, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", repo.ErrStorageUnavailable, err)
	}
	return res, nil
}

// GetByID returns a single record by id.
func (r *StoryRepositorySQLite) GetByID(ctx context.Context, id string) (*model.Story, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description, photo_url, photo_blob, lat, lon, created_at, sync_status
        FROM stories WHERE id = ?`, id)
	s, err := scanStory(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", repo.ErrStorageUnavailable, err)
	}
	return s, nil
}

// Delete removes a record. Returns false when the id was absent.
func (r *StoryRepositorySQLite) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%w: %w", repo.ErrStorageUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", repo.ErrStorageUnavailable, err)
	}
	return n > 0, nil
}

// Clear removes every record.
func (r *StoryRepositorySQLite) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM stories`); err != nil {
		return fmt.Errorf("%w: %w", repo.ErrStorageUnavailable, err)
	}
	return nil
}

func scanStory(scan func(dest ...any) error) (*model.Story, error) {
	var s model.Story
	var lat, lon sql.NullFloat64
	var status string
	if err := scan(&s.ID, &s.Name, &s.Description, &s.PhotoURL, &s.PhotoBlob,
		&lat, &lon, &s.CreatedAt, &status); err != nil {
		return nil, err
	}
	if lat.Valid {
		v := lat.Float64
		s.Lat = &v
	}
	if lon.Valid {
		v := lon.Float64
		s.Lon = &v
	}
	s.SyncStatus = model.SyncStatus(status)
	return &s, nil
}

func floatOrNull(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
