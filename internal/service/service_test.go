package service

import (
	"context"
	"testing"

	"StorySync/internal/model"
	"StorySync/internal/repo"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file::memory:"}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Story{}, &model.Subscription{}); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

func newUserRepo(t *testing.T) repo.UserRepository {
	t.Helper()
	return repo.NewUserRepository(newTestDB(t))
}

// memPhotoStore records uploads in memory.
type memPhotoStore struct {
	keys  []string
	types []string
	err   error
}

func (m *memPhotoStore) Put(_ context.Context, key, contentType string, _ []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.keys = append(m.keys, key)
	m.types = append(m.types, contentType)
	return "http://photos.local/" + key, nil
}
