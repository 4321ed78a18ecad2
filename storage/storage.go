// Package storage is the single data-access boundary: the client registry,
// the booking store, and the analytics counts all live behind the Storage
// interface. GormStorage is the canonical Postgres-backed implementation;
// MemoryStorage backs tests and database-less development runs.
package storage

import (
	"errors"
	"time"

	"ais-booking-backend/models"
)

var (
	// ErrNotFound is returned when the targeted record does not exist. A
	// booking whose client row is gone is also reported as not found.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when a client with the email already
	// exists. Callers doing resolve-or-create retry the lookup on it.
	ErrDuplicateEmail = errors.New("client with this email already exists")

	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrClientNotFound rejects a booking whose clientId references nothing.
	ErrClientNotFound = errors.New("client does not exist")

	// ErrInvalidService rejects a service outside the enumerated set.
	ErrInvalidService = errors.New("unknown service")

	// ErrInvalidStatus rejects a status outside the enumerated set.
	ErrInvalidStatus = errors.New("unknown booking status")
)

// BookingUpdate carries the admin-mutable booking fields. Nil means
// "leave unchanged"; updatedAt is refreshed regardless.
type BookingUpdate struct {
	Status     *models.BookingStatus
	AssignedTo *string
}

// Analytics is the aggregate snapshot recomputed on every call.
// ActiveClients is the literal total client count.
type Analytics struct {
	TotalBookings     int64 `json:"totalBookings"`
	PendingBookings   int64 `json:"pendingBookings"`
	CompletedBookings int64 `json:"completedBookings"`
	ActiveClients     int64 `json:"activeClients"`
}

type Storage interface {
	// Users
	GetUserByUsername(username string) (*models.User, error)
	CreateUser(username, hashedPassword string) (*models.User, error)

	// Client registry (append-only)
	GetClientByEmail(email string) (*models.Client, error)
	CreateClient(fullName, email, phone string) (*models.Client, error)
	GetAllClients() ([]models.Client, error)

	// Booking store
	CreateBooking(clientID uint, service, preferredDate, additionalInfo string) (*models.Booking, error)
	GetBooking(id uint) (*models.Booking, error)
	GetBookingByBookingID(bookingID string) (*models.Booking, error)
	UpdateBooking(id uint, update BookingUpdate) (*models.Booking, error)
	DeleteBooking(id uint) (bool, error)
	GetAllBookings() ([]models.Booking, error)
	GetBookingsByStatus(status models.BookingStatus) ([]models.Booking, error)

	// Aggregates
	GetBookingAnalytics() (*Analytics, error)
	CountBookingsSince(t time.Time) (int64, error)
	CountBookingsByStatus() (map[models.BookingStatus]int64, error)
}
