package storage

import (
	"errors"
	"time"

	"ais-booking-backend/models"
	"ais-booking-backend/utils"

	"gorm.io/gorm"
)

// GormStorage implements Storage on top of a gorm-managed Postgres database.
// It relies on gorm's TranslateError so unique-index violations surface as
// gorm.ErrDuplicatedKey.
type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func (s *GormStorage) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStorage) CreateUser(username, hashedPassword string) (*models.User, error) {
	user := models.User{Username: username, Password: hashedPassword}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStorage) GetClientByEmail(email string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("email = ?", email).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (s *GormStorage) CreateClient(fullName, email, phone string) (*models.Client, error) {
	client := models.Client{FullName: fullName, Email: email, Phone: phone}
	if err := s.db.Create(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &client, nil
}

func (s *GormStorage) GetAllClients() ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Order("created_at DESC, id DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *GormStorage) CreateBooking(clientID uint, service, preferredDate, additionalInfo string) (*models.Booking, error) {
	if !models.IsValidService(service) {
		return nil, ErrInvalidService
	}

	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// A concurrent process can mint the same identifier in the same
	// millisecond; the unique index rejects it and we mint a fresh one.
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		booking := models.Booking{
			BookingID:      utils.GenerateBookingID(),
			ClientID:       clientID,
			Service:        service,
			PreferredDate:  preferredDate,
			AdditionalInfo: additionalInfo,
			Status:         models.StatusPending,
		}
		err := s.db.Create(&booking).Error
		if err == nil {
			return &booking, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *GormStorage) GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Client").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// A dangling client reference reads as not found, not as an error.
	if booking.Client == nil {
		return nil, ErrNotFound
	}
	return &booking, nil
}

func (s *GormStorage) GetBookingByBookingID(bookingID string) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Client").Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.Client == nil {
		return nil, ErrNotFound
	}
	return &booking, nil
}

func (s *GormStorage) UpdateBooking(id uint, update BookingUpdate) (*models.Booking, error) {
	if update.Status != nil && !update.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	var booking models.Booking
	if err := s.db.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if update.Status != nil {
		booking.Status = *update.Status
	}
	if update.AssignedTo != nil {
		booking.AssignedTo = *update.AssignedTo
	}
	booking.UpdatedAt = time.Now()

	if err := s.db.Save(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *GormStorage) DeleteBooking(id uint) (bool, error) {
	result := s.db.Delete(&models.Booking{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStorage) GetAllBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.Preload("Client").Order("created_at DESC, id DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return withClientsOnly(bookings), nil
}

func (s *GormStorage) GetBookingsByStatus(status models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("Client").
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return withClientsOnly(bookings), nil
}

func (s *GormStorage) GetBookingAnalytics() (*Analytics, error) {
	var a Analytics
	if err := s.db.Model(&models.Booking{}).Count(&a.TotalBookings).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Booking{}).Where("status = ?", models.StatusPending).Count(&a.PendingBookings).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Booking{}).Where("status = ?", models.StatusCompleted).Count(&a.CompletedBookings).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Client{}).Count(&a.ActiveClients).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStorage) CountBookingsSince(t time.Time) (int64, error) {
	var n int64
	err := s.db.Model(&models.Booking{}).Where("created_at >= ?", t).Count(&n).Error
	return n, err
}

func (s *GormStorage) CountBookingsByStatus() (map[models.BookingStatus]int64, error) {
	rows := []struct {
		Status models.BookingStatus
		Count  int64
	}{}
	err := s.db.Model(&models.Booking{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.BookingStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// withClientsOnly drops bookings whose client row has been removed so list
// responses never carry a half-joined record.
func withClientsOnly(bookings []models.Booking) []models.Booking {
	out := bookings[:0]
	for _, b := range bookings {
		if b.Client != nil {
			out = append(out, b)
		}
	}
	return out
}
