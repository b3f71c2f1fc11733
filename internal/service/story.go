package service

import (
	"context"
	"time"

	"StorySync/internal/model"
	"StorySync/internal/repo"
	"StorySync/internal/storage"

	"github.com/google/uuid"
)

// StoryService handles story publication and listing.
type StoryService struct {
	stories repo.StoryRepository
	users   repo.UserRepository
	photos  storage.PhotoStore
}

func NewStoryService(stories repo.StoryRepository, users repo.UserRepository, photos storage.PhotoStore) *StoryService {
	return &StoryService{stories: stories, users: users, photos: photos}
}

// CreateInput carries a multipart story upload.
type CreateInput struct {
	Description string
	Photo       []byte
	ContentType string
	Lat         *float64
	Lon         *float64
}

// Create stores the photo and the story row, denormalizing the author name
// into the record for the listing.
func (s *StoryService) Create(ctx context.Context, userID string, in CreateInput) (*model.Story, error) {
	id := uuid.NewString()
	photoURL, err := s.photos.Put(ctx, id+".jpg", in.ContentType, in.Photo)
	if err != nil {
		return nil, err
	}

	name := ""
	if u, err := s.users.GetByID(ctx, userID); err == nil {
		name = u.Name
	}

	story := &model.Story{
		ID:          id,
		UserID:      userID,
		Name:        name,
		Description: in.Description,
		PhotoURL:    photoURL,
		Lat:         in.Lat,
		Lon:         in.Lon,
		CreatedAt:   time.Now(),
	}
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// List returns all stories, newest first.
func (s *StoryService) List(ctx context.Context) ([]model.Story, error) {
	return s.stories.List(ctx)
}
