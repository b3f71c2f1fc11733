package service

import (
	"context"
	"errors"

	"StorySync/internal/cli/api"
	"StorySync/internal/cli/auth"
	"StorySync/internal/cli/model"
	"StorySync/internal/cli/repo"

	"go.uber.org/zap"
)

// Reconciler merges the authoritative remote listing into the local store.
// It only ever upserts under server ids, so pending records, which live
// under local-only ids, are never touched.
type Reconciler struct {
	repo   repo.StoryRepository
	api    RemoteAPI
	logger *zap.SugaredLogger
}

func NewReconciler(r repo.StoryRepository, a RemoteAPI, logger *zap.SugaredLogger) *Reconciler {
	return &Reconciler{repo: r, api: a, logger: logger}
}

// Refresh returns the current snapshot, merging server truth first when
// connectivity allows. Offline, it is a pure local read, the normal path
// rather than a failure. Network and remote failures are swallowed in favor of the
// last known snapshot; auth failures are surfaced so the caller can prompt
// a re-login.
func (r *Reconciler) Refresh(ctx context.Context) ([]model.Story, error) {
	if !r.api.Online(ctx) {
		return r.repo.GetAll(ctx)
	}

	list, err := r.api.ListStories(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, auth.ErrNoCredential) {
			return nil, err
		}
		r.logger.Warnw("refresh: listing failed, serving local snapshot", "error", err)
		return r.repo.GetAll(ctx)
	}

	for _, dto := range list {
		if dto.ID == "" {
			continue
		}
		story := storyFromDTO(dto)
		if err := r.repo.Upsert(ctx, story); err != nil {
			r.logger.Warnw("refresh: upsert failed", "id", dto.ID, "error", err)
		}
	}
	return r.repo.GetAll(ctx)
}
