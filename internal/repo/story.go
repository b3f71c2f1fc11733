package repo

import (
	"context"

	"StorySync/internal/model"

	"gorm.io/gorm"
)

// StoryRepository is the server-side story store.
type StoryRepository interface {
	Create(ctx context.Context, s *model.Story) error
	List(ctx context.Context) ([]model.Story, error)
}

type storyRepo struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepo{db: db}
}

func (r *storyRepo) Create(ctx context.Context, s *model.Story) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *storyRepo) List(ctx context.Context) ([]model.Story, error) {
	var stories []model.Story
	tx := r.db.WithContext(ctx).Order("created_at DESC").Find(&stories)
	return stories, tx.Error
}
