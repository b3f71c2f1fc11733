package model

import "time"

// Subscription is a push delivery target registered by a client.
type Subscription struct {
	Endpoint  string `gorm:"primaryKey;size:2048"`
	UserID    string `gorm:"size:36;index;not null"`
	P256dh    string `gorm:"size:255"`
	Auth      string `gorm:"size:255"`
	CreatedAt time.Time
}
