package model

import (
	"strings"

	"github.com/google/uuid"
)

// SyncStatus describes where a story stands relative to the remote service.
type SyncStatus string

const (
	// StatusPending — created or edited offline, not yet confirmed by the server.
	StatusPending SyncStatus = "pending"
	// StatusSynced — confirmed present on the server under a server-issued id.
	StatusSynced SyncStatus = "synced"
	// StatusSaved — bookmarked by the user from the remote listing.
	StatusSaved SyncStatus = "saved"
)

// LocalIDPrefix namespaces ids generated offline so they can never collide
// with server-issued ids.
const LocalIDPrefix = "offline_"

// Story is the unit of storage in the client record store.
//
// A pending story holds the raw photo bytes in PhotoBlob until its upload is
// confirmed; a synced or saved story holds the resolved PhotoURL instead.
// The two fields are mutually exclusive.
type Story struct {
	ID          string
	Name        string
	Description string
	PhotoURL    string
	PhotoBlob   []byte
	Lat         *float64
	Lon         *float64
	CreatedAt   int64 // unix seconds, immutable after creation
	SyncStatus  SyncStatus
}

// HasLocation reports whether both coordinates are present.
func (s *Story) HasLocation() bool {
	return s.Lat != nil && s.Lon != nil
}

// NewLocalID generates a local-only story id.
func NewLocalID() string {
	return LocalIDPrefix + uuid.NewString()
}

// IsLocalID reports whether id belongs to the local-only namespace.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// Validate checks the pending-blob/synced-URL invariant.
func (s *Story) Validate() error {
	switch s.SyncStatus {
	case StatusPending:
		if len(s.PhotoBlob) == 0 {
			return ErrPendingWithoutBlob
		}
		if s.PhotoURL != "" {
			return ErrPendingWithURL
		}
	case StatusSynced, StatusSaved:
		if len(s.PhotoBlob) > 0 {
			return ErrSyncedWithBlob
		}
	}
	return nil
}
