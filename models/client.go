package models

import (
	"time"
)

// Client is a customer identified by email. Clients are created lazily the
// first time a booking arrives with an unseen email and are append-only:
// nothing in this service updates or deletes them.
type Client struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"not null" json:"fullName"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Phone    string `gorm:"not null" json:"phone"`

	CreatedAt time.Time `json:"createdAt"`

	Bookings []Booking `gorm:"foreignKey:ClientID" json:"-"`
}
