package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"StorySync/internal/cli/api"
	"StorySync/internal/cli/auth"
	"StorySync/internal/cli/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresh_OfflineIsAPureLocalRead(t *testing.T) {
	r := newMemRepo(pendingStory("offline_1", "draft"))
	remote := &fakeAPI{online: false}
	rec := NewReconciler(r, remote, testLogger())

	list, err := rec.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 0, remote.listCalls)
	assert.Empty(t, r.opLog())
}

func TestRefresh_MergesRemoteListingUnderServerIDs(t *testing.T) {
	r := newMemRepo(pendingStory("offline_1", "draft"))
	remote := &fakeAPI{
		online: true,
		listFn: func() ([]api.StoryDTO, error) {
			return []api.StoryDTO{
				{ID: "s1", Name: "ann", Description: "hello", PhotoURL: "u1", CreatedAt: "2026-01-02T03:04:05Z"},
				{ID: "s2", Description: "world", PhotoURL: "u2"},
				{Description: "no id, skipped"},
			}, nil
		},
	}
	rec := NewReconciler(r, remote, testLogger())

	list, err := rec.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)

	s1, ok := r.get("s1")
	require.True(t, ok)
	assert.Equal(t, model.StatusSynced, s1.SyncStatus)
	assert.Equal(t, "hello", s1.Description)
	assert.Equal(t, int64(1767323045), s1.CreatedAt)

	// The pending draft lives under a local-only id, so the merge cannot
	// touch it.
	draft, ok := r.get("offline_1")
	require.True(t, ok)
	assert.Equal(t, model.StatusPending, draft.SyncStatus)
	assert.NotEmpty(t, draft.PhotoBlob)
}

func TestRefresh_RemoteFailureServesSnapshot(t *testing.T) {
	r := newMemRepo(model.Story{ID: "s1", Description: "cached", PhotoURL: "u", SyncStatus: model.StatusSynced})
	remote := &fakeAPI{
		online: true,
		listFn: func() ([]api.StoryDTO, error) {
			return nil, fmt.Errorf("%w: 500", api.ErrRemote)
		},
	}
	rec := NewReconciler(r, remote, testLogger())

	list, err := rec.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "cached", list[0].Description)
}

func TestRefresh_ConnectionFailureServesSnapshot(t *testing.T) {
	r := newMemRepo(model.Story{ID: "s1", Description: "cached", PhotoURL: "u", SyncStatus: model.StatusSynced})
	remote := &fakeAPI{
		online: true,
		listFn: func() ([]api.StoryDTO, error) {
			return nil, fmt.Errorf("%w: dial tcp", api.ErrNoConnection)
		},
	}
	rec := NewReconciler(r, remote, testLogger())

	list, err := rec.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRefresh_AuthFailuresSurface(t *testing.T) {
	for _, sentinel := range []error{api.ErrUnauthorized, auth.ErrNoCredential} {
		r := newMemRepo()
		remote := &fakeAPI{
			online: true,
			listFn: func() ([]api.StoryDTO, error) {
				return nil, fmt.Errorf("listing: %w", sentinel)
			},
		}
		rec := NewReconciler(r, remote, testLogger())

		_, err := rec.Refresh(context.Background())
		assert.True(t, errors.Is(err, sentinel), "expected %v to surface", sentinel)
	}
}

func TestRefresh_RepeatedMergeIsIdempotent(t *testing.T) {
	r := newMemRepo()
	remote := &fakeAPI{
		online: true,
		listFn: func() ([]api.StoryDTO, error) {
			return []api.StoryDTO{{ID: "s1", Description: "d", PhotoURL: "u", CreatedAt: "2026-01-02T03:04:05Z"}}, nil
		},
	}
	rec := NewReconciler(r, remote, testLogger())

	for i := 0; i < 3; i++ {
		list, err := rec.Refresh(context.Background())
		require.NoError(t, err)
		assert.Len(t, list, 1)
	}
}
