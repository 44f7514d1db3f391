package stubapi

import (
	"context"
	"sync"
	"time"

	"sitekit/pkg/model"
)

const (
	BookingStatusPending = "pending"
	MessageStatusNew     = "new"
)

type Booking struct {
	ID        string
	Request   model.BookingRequest
	Service   model.Service
	Status    string
	CreatedAt time.Time
}

type ContactMessage struct {
	ID        string
	Request   model.ContactRequest
	Status    string
	CreatedAt time.Time
}

type Store interface {
	SaveBooking(ctx context.Context, b Booking) error
	SaveMessage(ctx context.Context, m ContactMessage) error
}

// MemoryStore keeps submissions for the lifetime of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings []Booking
	messages []ContactMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SaveBooking(ctx context.Context, b Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append(s.bookings, b)
	return nil
}

func (s *MemoryStore) SaveMessage(ctx context.Context, m ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	return nil
}

func (s *MemoryStore) Bookings() []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Booking(nil), s.bookings...)
}

func (s *MemoryStore) Messages() []ContactMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ContactMessage(nil), s.messages...)
}
