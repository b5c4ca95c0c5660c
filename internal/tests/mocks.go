package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32
	SearchCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	SearchError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

// GetTrip returns the stored trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Trip, error) {
	return m.GetByID(ctx, id)
}

func (m *MockTripRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if t.DriverID == driverID {
			copy := *t
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockTripRepository) Search(ctx context.Context, filter repository.TripSearchFilter) ([]*domain.Trip, error) {
	atomic.AddInt32(&m.SearchCallCount, 1)
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Trip
	for _, t := range m.trips {
		if !matchesFilter(t, filter) {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}
	return result, nil
}

func matchesFilter(t *domain.Trip, filter repository.TripSearchFilter) bool {
	if !t.Active {
		return false
	}
	if t.RideAt.Before(filter.From) || t.RideAt.After(filter.To) {
		return false
	}
	if t.SeatsLeft < filter.MinSeats {
		return false
	}
	if len(filter.Statuses) > 0 {
		ok := false
		for _, s := range filter.Statuses {
			if t.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if filter.MinPrice != nil && t.PricePerSeatCents < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && t.PricePerSeatCents > *filter.MaxPrice {
		return false
	}
	return true
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, t := range m.trips {
		if !t.Active && t.RideAt.Before(cutoff) {
			delete(m.trips, id)
			deleted++
		}
	}
	return deleted, nil
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
// Create enforces the one-live-booking-per-(trip, rider) constraint the
// way the database unique index does.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.TripID == booking.TripID && b.RiderID == booking.RiderID && b.Live() {
			return repository.ErrDuplicateBooking
		}
	}
	copy := *booking
	m.bookings[booking.ID] = &copy
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	return m.GetByID(ctx, id)
}

func (m *MockBookingRepository) GetByTripAndRider(ctx context.Context, tripID, riderID string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.TripID == tripID && b.RiderID == riderID {
			copy := *b
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockBookingRepository) GetByTripID(ctx context.Context, tripID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.TripID == tripID {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBookingRepository) GetByRiderID(ctx context.Context, riderID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.RiderID == riderID {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *booking
	m.bookings[booking.ID] = &copy
	return nil
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.User, error) {
	return m.GetByID(ctx, id)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

// ──────────────────────────────────────────────
// MOCK RATING REPOSITORY
// ──────────────────────────────────────────────

// MockRatingRepository is a mock implementation of RatingRepository.
type MockRatingRepository struct {
	mu      sync.RWMutex
	ratings map[string]*domain.Rating

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockRatingRepository creates a new mock rating repository.
func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{
		ratings: make(map[string]*domain.Rating),
	}
}

// GetRating returns the stored rating for test assertions.
func (m *MockRatingRepository) GetRating(id string) *domain.Rating {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ratings[id]
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.ratings {
		if r.BookingID == rating.BookingID && r.RaterID == rating.RaterID {
			return repository.ErrDuplicateRating
		}
	}
	copy := *rating
	m.ratings[rating.ID] = &copy
	return nil
}

func (m *MockRatingRepository) GetByBookingAndRater(ctx context.Context, bookingID, raterID string) (*domain.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.ratings {
		if r.BookingID == bookingID && r.RaterID == raterID {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION MANAGER
// ──────────────────────────────────────────────

// MockTxManager serializes transactions over the mock repositories with
// a single mutex, the way row locks serialize them in the database.
// After-commit hooks run only when the transaction function succeeds.
type MockTxManager struct {
	mu       sync.Mutex
	trips    *MockTripRepository
	bookings *MockBookingRepository
	users    *MockUserRepository
	ratings  *MockRatingRepository

	TxCallCount int32
}

// NewMockTxManager creates a mock transaction manager over the given
// mock repositories.
func NewMockTxManager(trips *MockTripRepository, bookings *MockBookingRepository, users *MockUserRepository, ratings *MockRatingRepository) *MockTxManager {
	return &MockTxManager{trips: trips, bookings: bookings, users: users, ratings: ratings}
}

func (m *MockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	atomic.AddInt32(&m.TxCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &mockTx{trips: m.trips, bookings: m.bookings, users: m.users, ratings: m.ratings}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for _, hook := range tx.hooks {
		hook()
	}
	return nil
}

type mockTx struct {
	trips    *MockTripRepository
	bookings *MockBookingRepository
	users    *MockUserRepository
	ratings  *MockRatingRepository
	hooks    []func()
}

func (t *mockTx) Trips() repository.TripRepository       { return t.trips }
func (t *mockTx) Bookings() repository.BookingRepository { return t.bookings }
func (t *mockTx) Users() repository.UserRepository       { return t.users }
func (t *mockTx) Ratings() repository.RatingRepository   { return t.ratings }
func (t *mockTx) AfterCommit(fn func())                  { t.hooks = append(t.hooks, fn) }

// ──────────────────────────────────────────────
// MOCK MAILER
// ──────────────────────────────────────────────

// MockMailer records sent messages for assertions.
type MockMailer struct {
	mu   sync.Mutex
	Sent []SentMail

	SendError error
}

// SentMail is one recorded message.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// NewMockMailer creates a new mock mailer.
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// SentTo returns the messages delivered to the given address.
func (m *MockMailer) SentTo(to string) []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentMail
	for _, s := range m.Sent {
		if s.To == to {
			out = append(out, s)
		}
	}
	return out
}
