package service

import (
	"context"
	"errors"
	"time"

	"StorySync/internal/cli/api"
	"StorySync/internal/cli/model"
	"StorySync/internal/cli/repo"

	"go.uber.org/zap"
)

// StoryService implements the user-facing record operations: create a
// story (online or offline), edit, bookmark, delete and the derived reads.
type StoryService struct {
	repo   repo.StoryRepository
	api    RemoteAPI
	logger *zap.SugaredLogger
}

func NewStoryService(r repo.StoryRepository, a RemoteAPI, logger *zap.SugaredLogger) *StoryService {
	return &StoryService{repo: r, api: a, logger: logger}
}

// CreateInput carries the fields of a new story.
type CreateInput struct {
	Description string
	Photo       []byte
	PhotoName   string
	Lat         *float64
	Lon         *float64
}

// Create publishes the story immediately when the API is reachable,
// otherwise parks it in the store as pending under a local-only id.
func (s *StoryService) Create(ctx context.Context, in CreateInput) (*model.Story, error) {
	if in.Description == "" {
		return nil, errors.New("description is required")
	}
	if len(in.Photo) == 0 {
		return nil, errors.New("photo is required")
	}

	if s.api.Online(ctx) {
		res, err := s.api.CreateStory(ctx, in.Description, in.Photo, in.PhotoName, in.Lat, in.Lon)
		if err != nil {
			return nil, err
		}
		story := model.Story{
			ID:          res.ID,
			Description: in.Description,
			PhotoURL:    res.PhotoURL,
			Lat:         in.Lat,
			Lon:         in.Lon,
			CreatedAt:   time.Now().Unix(),
			SyncStatus:  model.StatusSynced,
		}
		if story.ID == "" {
			// Server confirmed the create but returned no id; the next
			// refresh will pull the canonical copy.
			s.logger.Warnw("create: server response carried no id, skipping local copy")
			return &story, nil
		}
		if err := s.repo.Upsert(ctx, story); err != nil {
			return nil, err
		}
		return &story, nil
	}

	story := model.Story{
		ID:          model.NewLocalID(),
		Description: in.Description,
		PhotoBlob:   in.Photo,
		Lat:         in.Lat,
		Lon:         in.Lon,
		CreatedAt:   time.Now().Unix(),
		SyncStatus:  model.StatusPending,
	}
	if err := s.repo.Upsert(ctx, story); err != nil {
		return nil, err
	}
	s.logger.Infow("create: stored offline", "id", story.ID)
	return &story, nil
}

// EditInput carries the mutable fields of a story. Nil fields are left
// untouched; CreatedAt is immutable.
type EditInput struct {
	Description *string
	Photo       []byte // replacing the photo resets the story to pending
	Lat         *float64
	Lon         *float64
}

// Edit updates a stored story. The sync status is preserved unless a new
// photo is supplied, which resets the record to pending so the next sync
// run re-publishes it.
func (s *StoryService) Edit(ctx context.Context, id string, in EditInput) (*model.Story, error) {
	story, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Description != nil {
		if *in.Description == "" {
			return nil, errors.New("description must not be empty")
		}
		story.Description = *in.Description
	}
	if in.Lat != nil {
		story.Lat = in.Lat
	}
	if in.Lon != nil {
		story.Lon = in.Lon
	}
	if len(in.Photo) > 0 {
		story.PhotoBlob = in.Photo
		story.PhotoURL = ""
		story.SyncStatus = model.StatusPending
	}
	if err := s.repo.Upsert(ctx, *story); err != nil {
		return nil, err
	}
	return story, nil
}

// Save bookmarks a story from the remote listing as a local cache copy.
func (s *StoryService) Save(ctx context.Context, dto api.StoryDTO) (*model.Story, error) {
	story := storyFromDTO(dto)
	story.SyncStatus = model.StatusSaved
	if err := s.repo.Upsert(ctx, story); err != nil {
		return nil, err
	}
	return &story, nil
}

// Delete removes a story from the local store.
func (s *StoryService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// Get returns a single story.
func (s *StoryService) Get(ctx context.Context, id string) (*model.Story, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the current local snapshot.
func (s *StoryService) List(ctx context.Context) ([]model.Story, error) {
	return s.repo.GetAll(ctx)
}

// SearchStories filters the snapshot by keyword.
func (s *StoryService) SearchStories(ctx context.Context, keyword string) ([]model.Story, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return Search(all, keyword), nil
}

// FilterStories filters the snapshot by sync status.
func (s *StoryService) FilterStories(ctx context.Context, typ string) ([]model.Story, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(all, typ), nil
}

// SortStories orders the snapshot by field and order ("asc"/"desc").
func (s *StoryService) SortStories(ctx context.Context, field, order string) ([]model.Story, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return Sort(all, field, order), nil
}

// Clear wipes the local store.
func (s *StoryService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// storyFromDTO converts a remote listing entry into a local record keyed by
// its server id.
func storyFromDTO(dto api.StoryDTO) model.Story {
	createdAt := time.Now().Unix()
	if dto.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, dto.CreatedAt); err == nil {
			createdAt = t.Unix()
		}
	}
	return model.Story{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		PhotoURL:    dto.PhotoURL,
		Lat:         dto.Lat,
		Lon:         dto.Lon,
		CreatedAt:   createdAt,
		SyncStatus:  model.StatusSynced,
	}
}
