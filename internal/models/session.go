package models

import "time"

// Session is the server-side record behind a session cookie.
// Deleting the row revokes every token that carries its ID.
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    uint      `gorm:"not null;index"`
	Remember  bool      `gorm:"not null;default:false"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
