package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"StorySync/internal/cli/api"
	"StorySync/internal/cli/model"
	"StorySync/internal/cli/repo"

	"go.uber.org/zap"
)

// ErrSyncInFlight — a sync run was requested while another is still
// running. The caller should simply drop the trigger.
var ErrSyncInFlight = errors.New("sync already in progress")

// SyncError records one record's failure inside an otherwise-continuing
// sync run.
type SyncError struct {
	ID  string `json:"id"`
	Err string `json:"error"`
}

// SyncResult summarizes one drain of the pending queue.
type SyncResult struct {
	Synced int         `json:"synced"`
	Total  int         `json:"total"`
	Errors []SyncError `json:"errors,omitempty"`
}

// Message renders the result for display.
func (r *SyncResult) Message() string {
	if r.Total == 0 {
		return "No pending stories"
	}
	return fmt.Sprintf("Synced %d of %d stories", r.Synced, r.Total)
}

// Syncer drains pending records to the story API. One record's failure
// never blocks the rest; failed records stay pending for a future run.
type Syncer struct {
	repo     repo.StoryRepository
	api      RemoteAPI
	logger   *zap.SugaredLogger
	inFlight atomic.Bool
}

func NewSyncer(r repo.StoryRepository, a RemoteAPI, logger *zap.SugaredLogger) *Syncer {
	return &Syncer{repo: r, api: a, logger: logger}
}

// TrySync runs one sync pass. Overlapping triggers (manual button, online
// event, periodic timer) are collapsed: while a run is in flight every
// other call returns ErrSyncInFlight without side effects.
//
// Without connectivity the run aborts immediately with api.ErrNoConnection
// and touches neither the network nor the store.
func (s *Syncer) TrySync(ctx context.Context) (*SyncResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSyncInFlight
	}
	defer s.inFlight.Store(false)

	if !s.api.Online(ctx) {
		return nil, api.ErrNoConnection
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	pending := Filter(all, string(model.StatusPending))
	if len(pending) == 0 {
		return &SyncResult{}, nil
	}

	res := &SyncResult{Total: len(pending)}
	for _, story := range pending {
		if err := s.syncOne(ctx, story); err != nil {
			s.logger.Warnw("sync: record failed, left pending", "id", story.ID, "error", err)
			res.Errors = append(res.Errors, SyncError{ID: story.ID, Err: err.Error()})
			continue
		}
		res.Synced++
	}
	s.logger.Infow("sync run finished", "synced", res.Synced, "total", res.Total)
	return res, nil
}

// syncOne publishes a single pending record and commits its outcome before
// the next record starts. Sync is always a create; the local-only id never
// travels to the server.
func (s *Syncer) syncOne(ctx context.Context, story model.Story) error {
	created, err := s.api.CreateStory(ctx, story.Description, story.PhotoBlob, photoName(story), story.Lat, story.Lon)
	if err != nil {
		return err
	}

	// Write the server-confirmed copy before removing the pending one: a
	// failure in between leaves a duplicate, never a lost record.
	if created.ID != "" {
		replacement := model.Story{
			ID:          created.ID,
			Name:        story.Name,
			Description: story.Description,
			PhotoURL:    created.PhotoURL,
			Lat:         story.Lat,
			Lon:         story.Lon,
			CreatedAt:   story.CreatedAt,
			SyncStatus:  model.StatusSynced,
		}
		if err := s.repo.Upsert(ctx, replacement); err != nil {
			return fmt.Errorf("store synced copy: %w", err)
		}
	}
	if _, err := s.repo.Delete(ctx, story.ID); err != nil {
		return fmt.Errorf("drop pending copy: %w", err)
	}
	return nil
}

func photoName(story model.Story) string {
	return story.ID + ".jpg"
}
