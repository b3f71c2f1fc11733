package model

import "time"

// Story is a published story as the server stores it.
type Story struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"size:36;index;not null"`
	Name        string `gorm:"size:100"` // author display name, denormalized for the listing
	Description string `gorm:"not null"`
	PhotoURL    string `gorm:"size:2048;not null"`
	Lat         *float64
	Lon         *float64
	CreatedAt   time.Time
}
