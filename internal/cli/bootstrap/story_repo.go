package bootstrap

import (
	"sync"

	"StorySync/internal/cli/repo"
	reposqlite "StorySync/internal/cli/repo/sqlite"
	"StorySync/internal/config"
)

var (
	once    sync.Once
	shared  repo.StoryRepository
	openErr error
)

// OpenStoryRepo returns the process-wide record store handle, opening it on
// first use. Concurrent first callers share the same in-flight open; the
// store is never opened twice.
func OpenStoryRepo(cfg *config.Config) (repo.StoryRepository, error) {
	once.Do(func() {
		shared, openErr = reposqlite.Open(cfg.ClientDBPath)
	})
	return shared, openErr
}

// Reset drops the shared handle so the next OpenStoryRepo opens anew.
// Intended for tests.
func Reset() {
	if shared != nil {
		_ = shared.Close()
	}
	once = sync.Once{}
	shared = nil
	openErr = nil
}
