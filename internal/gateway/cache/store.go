package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Partition names. Bumping a version string here retires the old partition:
// Prune removes anything not in AllowedPartitions on gateway startup.
const (
	ShellPartition = "story-shell-v1"
	APIPartition   = "story-api-v1"
)

// AllowedPartitions is the current partition allow-list.
var AllowedPartitions = []string{ShellPartition, APIPartition}

// ErrMiss — no cached entry for the requested key. A legitimate state.
var ErrMiss = errors.New("cache miss")

// Entry is one cached response, keyed by partition and request identity.
type Entry struct {
	Partition   string `gorm:"primaryKey;size:64"`
	Key         string `gorm:"primaryKey;size:2048"`
	Status      int
	ContentType string
	Header      []byte // JSON-encoded response headers
	Body        []byte
	StoredAt    time.Time
}

// Store persists cache entries in a local SQLite file so cached responses
// survive gateway restarts.
type Store struct {
	db *gorm.DB
}

// Open opens (and creates if needed) the cache DB at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: path}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying DB.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get returns the cached entry for (partition, key), or ErrMiss.
func (s *Store) Get(ctx context.Context, partition, key string) (*Entry, error) {
	var e Entry
	tx := s.db.WithContext(ctx).
		Where("partition = ? AND key = ?", partition, key).
		First(&e)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMiss
		}
		return nil, tx.Error
	}
	return &e, nil
}

// Put stores an entry, replacing any previous one under the same key.
func (s *Store) Put(ctx context.Context, e Entry) error {
	e.StoredAt = time.Now()
	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "partition"}, {Name: "key"}},
		UpdateAll: true,
	}).Create(&e)
	return tx.Error
}

// Prune removes every entry whose partition is not in allowed. Returns the
// number of removed entries.
func (s *Store) Prune(ctx context.Context, allowed []string) (int64, error) {
	tx := s.db.WithContext(ctx).
		Where("partition NOT IN ?", allowed).
		Delete(&Entry{})
	return tx.RowsAffected, tx.Error
}

// Partitions lists the distinct partition names currently present.
func (s *Store) Partitions(ctx context.Context) ([]string, error) {
	var names []string
	tx := s.db.WithContext(ctx).Model(&Entry{}).
		Distinct("partition").
		Order("partition").
		Pluck("partition", &names)
	return names, tx.Error
}
