package service

import (
	"context"

	"StorySync/internal/cli/api"
)

// RemoteAPI is the slice of the story API client the services depend on.
type RemoteAPI interface {
	// Online reports whether the API origin is reachable right now.
	Online(ctx context.Context) bool
	// ListStories fetches the authoritative listing.
	ListStories(ctx context.Context) ([]api.StoryDTO, error)
	// CreateStory uploads a new story with its photo bytes.
	CreateStory(ctx context.Context, description string, photo []byte, photoName string, lat, lon *float64) (*api.CreateResult, error)
}
