package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingRejected  EventType = "BOOKING_REJECTED"
	EventBookingForwarded EventType = "BOOKING_FORWARDED"
	EventBookingFailed    EventType = "BOOKING_FAILED"
)

// Event records the outcome of one booking submission. It never holds
// customer contact details.
type Event struct {
	ID         uuid.UUID
	Type       EventType
	ProviderID string
	ServiceID  string
	EventDate  string
	EventTime  string
	Payload    []byte
	CreatedAt  time.Time
}

// Repository contains all journal DB interactions.
type Repository interface {
	Insert(ctx context.Context, ev Event) error
	ListRecent(ctx context.Context, providerID string, limit int) ([]Event, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
