package models

import (
	"time"
)

// BookingStatus is the lifecycle state of a booking. Transitions are
// deliberately unconstrained: staff may move a booking between any two
// statuses in any order.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusApproved   BookingStatus = "approved"
	StatusRejected   BookingStatus = "rejected"
)

func (s BookingStatus) String() string {
	return string(s)
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// AllStatuses returns every valid booking status.
func AllStatuses() []BookingStatus {
	return []BookingStatus{
		StatusPending,
		StatusInProgress,
		StatusCompleted,
		StatusApproved,
		StatusRejected,
	}
}

// Services is the fixed set of bookable services.
var Services = []string{
	"Consultancy",
	"Networking",
	"Computer Maintenance",
	"Cybersecurity",
}

func IsValidService(name string) bool {
	for _, s := range Services {
		if s == name {
			return true
		}
	}
	return false
}

// Booking is a customer's request for a service on a preferred date.
// BookingID is the public, human-readable identifier; it never changes after
// creation. The Client association is populated on reads that join the owning
// client and omitted from JSON when nil.
type Booking struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BookingID string `gorm:"uniqueIndex;not null" json:"bookingId"`

	ClientID uint    `gorm:"index;not null" json:"clientId"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	Service        string        `gorm:"not null" json:"service"`
	PreferredDate  string        `gorm:"not null" json:"preferredDate"`
	AdditionalInfo string        `json:"additionalInfo,omitempty"`
	Status         BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	AssignedTo     string        `json:"assignedTo"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
