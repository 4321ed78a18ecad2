package models

import (
	"time"
)

// User is an administrative account. Accounts are created by the startup
// bootstrap or a seeding run, never through the public API.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
