package storage

import (
	"sort"
	"sync"
	"time"

	"ais-booking-backend/models"
	"ais-booking-backend/utils"
)

// MemoryStorage keeps everything in process-local maps guarded by one mutex.
// It backs the test suite and DB-less development runs; Postgres via
// GormStorage is the deployment backend.
type MemoryStorage struct {
	mu sync.Mutex

	users    map[uint]models.User
	clients  map[uint]models.Client
	bookings map[uint]models.Booking

	nextUserID    uint
	nextClientID  uint
	nextBookingID uint
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:         make(map[uint]models.User),
		clients:       make(map[uint]models.Client),
		bookings:      make(map[uint]models.Booking),
		nextUserID:    1,
		nextClientID:  1,
		nextBookingID: 1,
	}
}

func (s *MemoryStorage) GetUserByUsername(username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) CreateUser(username, hashedPassword string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return nil, ErrDuplicateUsername
		}
	}
	now := time.Now()
	user := models.User{
		ID:        s.nextUserID,
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[user.ID] = user
	s.nextUserID++
	out := user
	return &out, nil
}

func (s *MemoryStorage) GetClientByEmail(email string) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.Email == email {
			client := c
			return &client, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) CreateClient(fullName, email, phone string) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The uniqueness check and the insert happen under the same lock, the
	// in-memory equivalent of the unique index backstopping the
	// resolve-or-create race.
	for _, c := range s.clients {
		if c.Email == email {
			return nil, ErrDuplicateEmail
		}
	}
	client := models.Client{
		ID:        s.nextClientID,
		FullName:  fullName,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now(),
	}
	s.clients[client.ID] = client
	s.nextClientID++
	out := client
	return &out, nil
}

func (s *MemoryStorage) GetAllClients() ([]models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clients := make([]models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool {
		if !clients[i].CreatedAt.Equal(clients[j].CreatedAt) {
			return clients[i].CreatedAt.After(clients[j].CreatedAt)
		}
		return clients[i].ID > clients[j].ID
	})
	return clients, nil
}

func (s *MemoryStorage) CreateBooking(clientID uint, service, preferredDate, additionalInfo string) (*models.Booking, error) {
	if !models.IsValidService(service) {
		return nil, ErrInvalidService
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[clientID]; !ok {
		return nil, ErrClientNotFound
	}
	now := time.Now()
	booking := models.Booking{
		ID:             s.nextBookingID,
		BookingID:      utils.GenerateBookingID(),
		ClientID:       clientID,
		Service:        service,
		PreferredDate:  preferredDate,
		AdditionalInfo: additionalInfo,
		Status:         models.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.bookings[booking.ID] = booking
	s.nextBookingID++
	out := booking
	return &out, nil
}

func (s *MemoryStorage) GetBooking(id uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.joinClient(booking)
}

func (s *MemoryStorage) GetBookingByBookingID(bookingID string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.BookingID == bookingID {
			return s.joinClient(b)
		}
	}
	return nil, ErrNotFound
}

// joinClient attaches a copy of the owning client; a dangling reference reads
// as not found. Callers must hold the lock.
func (s *MemoryStorage) joinClient(booking models.Booking) (*models.Booking, error) {
	client, ok := s.clients[booking.ClientID]
	if !ok {
		return nil, ErrNotFound
	}
	booking.Client = &client
	return &booking, nil
}

func (s *MemoryStorage) UpdateBooking(id uint, update BookingUpdate) (*models.Booking, error) {
	if update.Status != nil && !update.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Status != nil {
		booking.Status = *update.Status
	}
	if update.AssignedTo != nil {
		booking.AssignedTo = *update.AssignedTo
	}
	// The clock may not have advanced since the last write; updatedAt must
	// still move forward.
	now := time.Now()
	if !now.After(booking.UpdatedAt) {
		now = booking.UpdatedAt.Add(time.Nanosecond)
	}
	booking.UpdatedAt = now

	s.bookings[id] = booking
	out := booking
	return &out, nil
}

func (s *MemoryStorage) DeleteBooking(id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return false, nil
	}
	delete(s.bookings, id)
	return true, nil
}

func (s *MemoryStorage) GetAllBookings() ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listBookings(func(models.Booking) bool { return true }), nil
}

func (s *MemoryStorage) GetBookingsByStatus(status models.BookingStatus) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listBookings(func(b models.Booking) bool { return b.Status == status }), nil
}

// listBookings returns matching bookings joined with their clients, newest
// first, skipping dangling references. Callers must hold the lock.
func (s *MemoryStorage) listBookings(match func(models.Booking) bool) []models.Booking {
	bookings := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if !match(b) {
			continue
		}
		client, ok := s.clients[b.ClientID]
		if !ok {
			continue
		}
		b.Client = &client
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].ID > bookings[j].ID
	})
	return bookings
}

func (s *MemoryStorage) GetBookingAnalytics() (*Analytics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := Analytics{
		TotalBookings: int64(len(s.bookings)),
		ActiveClients: int64(len(s.clients)),
	}
	for _, b := range s.bookings {
		switch b.Status {
		case models.StatusPending:
			a.PendingBookings++
		case models.StatusCompleted:
			a.CompletedBookings++
		}
	}
	return &a, nil
}

func (s *MemoryStorage) CountBookingsSince(t time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, b := range s.bookings {
		if !b.CreatedAt.Before(t) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStorage) CountBookingsByStatus() (map[models.BookingStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[models.BookingStatus]int64)
	for _, b := range s.bookings {
		counts[b.Status]++
	}
	return counts, nil
}
