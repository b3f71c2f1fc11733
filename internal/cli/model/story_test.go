package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLocalID(t *testing.T) {
	id := NewLocalID()
	assert.True(t, IsLocalID(id))
	assert.NotEqual(t, id, NewLocalID())

	// server-issued ids are outside the local namespace
	assert.False(t, IsLocalID("story-FvU4u0Vp2S3PMsFg"))
	assert.False(t, IsLocalID(""))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		story Story
		want  error
	}{
		{"pending with blob", Story{ID: "offline_1", PhotoBlob: []byte{1}, SyncStatus: StatusPending}, nil},
		{"pending without blob", Story{ID: "offline_1", SyncStatus: StatusPending}, ErrPendingWithoutBlob},
		{"pending with url", Story{ID: "offline_1", PhotoBlob: []byte{1}, PhotoURL: "u", SyncStatus: StatusPending}, ErrPendingWithURL},
		{"synced with url", Story{ID: "s1", PhotoURL: "u", SyncStatus: StatusSynced}, nil},
		{"synced with blob", Story{ID: "s1", PhotoURL: "u", PhotoBlob: []byte{1}, SyncStatus: StatusSynced}, ErrSyncedWithBlob},
		{"saved with blob", Story{ID: "s1", PhotoURL: "u", PhotoBlob: []byte{1}, SyncStatus: StatusSaved}, ErrSyncedWithBlob},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.story.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestHasLocation(t *testing.T) {
	lat, lon := 1.0, 2.0
	assert.False(t, (&Story{}).HasLocation())
	assert.False(t, (&Story{Lat: &lat}).HasLocation())
	assert.True(t, (&Story{Lat: &lat, Lon: &lon}).HasLocation())
}
