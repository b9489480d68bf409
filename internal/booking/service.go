package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/tasting-booking-gateway/internal/availability"
	"github.com/hackgods/tasting-booking-gateway/internal/backend"
	"github.com/hackgods/tasting-booking-gateway/internal/config"
	"github.com/hackgods/tasting-booking-gateway/internal/journal"
	redisclient "github.com/hackgods/tasting-booking-gateway/internal/redis"
)

// Backend is the subset of the booking backend API the service consumes.
type Backend interface {
	ProviderAvailability(ctx context.Context, providerID string) (*backend.ProviderAvailability, error)
	PublicSchedule(ctx context.Context, providerID string) ([]availability.BookedSlot, error)
	WidgetData(ctx context.Context, serviceID string) (*backend.WidgetData, error)
	CreateBooking(ctx context.Context, req backend.BookingRequest) (*backend.BookingConfirmation, error)
}

type Journal interface {
	Insert(ctx context.Context, ev journal.Event) error
}

type Service struct {
	backend     Backend
	locker      redisclient.Locker
	journal     Journal
	logger      *zap.Logger
	granularity int
	clock       func() time.Time
}

func NewService(b Backend, locker redisclient.Locker, j Journal, cfg config.Config, logger *zap.Logger) *Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		backend:     b,
		locker:      locker,
		journal:     j,
		logger:      logger,
		granularity: cfg.SlotGranularity,
		clock:       func() time.Time { return time.Now().In(loc) },
	}
}

type SlotQuery struct {
	ProviderID string
	ServiceID  string
	Date       string
	Adults     int
	Children   int
}

type SlotsResult struct {
	Date            string
	DurationMinutes int
	MaxParticipants int
	Morning         []availability.Candidate
	Afternoon       []availability.Candidate
	// Degraded is set when some backend data could not be loaded; a missing
	// public schedule means booked events were not subtracted.
	Degraded bool
}

// Slots returns the bookable start times for one date, split for display.
func (s *Service) Slots(ctx context.Context, q SlotQuery) (*SlotsResult, error) {
	date, ok := availability.NormalizeDate(q.Date)
	if !ok {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidQuery)
	}

	snap := s.loadSnapshot(ctx, q.ProviderID, q.ServiceID)
	sched := snap.schedule(q.Adults+q.Children, s.granularity)
	morning, afternoon := availability.SplitByPeriod(availability.Resolve(sched, date, s.clock()))

	return &SlotsResult{
		Date:            date,
		DurationMinutes: sched.DurationMinutes,
		MaxParticipants: sched.MaxCapacity,
		Morning:         morning,
		Afternoon:       afternoon,
		Degraded:        snap.degraded(),
	}, nil
}

type DatesQuery struct {
	ProviderID string
	ServiceID  string
	From       string
	Days       int
	Adults     int
	Children   int
}

// Dates reports which calendar days in the range have at least one bookable slot.
func (s *Service) Dates(ctx context.Context, q DatesQuery) ([]availability.DateAvailability, error) {
	from, ok := availability.NormalizeDate(q.From)
	if !ok {
		return nil, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrInvalidQuery)
	}
	if q.Days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidQuery)
	}

	snap := s.loadSnapshot(ctx, q.ProviderID, q.ServiceID)
	sched := snap.schedule(q.Adults+q.Children, s.granularity)
	return availability.AvailableDates(sched, from, q.Days, s.clock()), nil
}

// Validate checks a submission against fresh backend state without sending it.
func (s *Service) Validate(ctx context.Context, sub Submission) error {
	sub = sub.normalized()
	snap := s.loadSnapshot(ctx, sub.ProviderID, sub.ServiceID)
	if ve := s.validate(sub, snap, s.clock()); !ve.empty() {
		return ve
	}
	return nil
}

// Submit validates a booking and forwards it to the backend. Submissions for the
// same slot are serialized on its canonical date and time, and availability is
// re-checked under the lock.
func (s *Service) Submit(ctx context.Context, sub Submission) (*backend.BookingConfirmation, error) {
	sub = sub.normalized()
	snap := s.loadSnapshot(ctx, sub.ProviderID, sub.ServiceID)
	if ve := s.validate(sub, snap, s.clock()); !ve.empty() {
		s.record(ctx, journal.EventBookingRejected, sub, map[string]any{"errors": ve.Messages})
		return nil, ve
	}

	key := redisclient.SlotKey{ProviderID: sub.ProviderID, Date: sub.Date, Time: sub.Time}
	var confirmation *backend.BookingConfirmation

	err := s.locker.WithSlotLock(ctx, key, func(lockCtx context.Context) error {
		// Re-check inside the critical section: another party may have taken the slot.
		fresh := s.loadSnapshot(lockCtx, sub.ProviderID, sub.ServiceID)
		if !fresh.scheduleLoaded {
			s.logger.Warn("re-checking slot without the public schedule",
				zap.String("provider_id", sub.ProviderID),
				zap.String("date", sub.Date),
				zap.String("time", sub.Time),
			)
		}
		if !slotOpen(sub, fresh, s.granularity, s.clock()) {
			return &ValidationError{Messages: []string{msgSlotTaken}}
		}

		conf, err := s.backend.CreateBooking(lockCtx, sub.request())
		if err != nil {
			return err
		}
		confirmation = conf
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		if ve := AsValidationError(err); ve != nil {
			s.record(ctx, journal.EventBookingRejected, sub, map[string]any{"errors": ve.Messages})
			return nil, ve
		}
		s.record(ctx, journal.EventBookingFailed, sub, map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("forward booking: %w", err)
	}

	s.logger.Info("booking forwarded",
		zap.String("provider_id", sub.ProviderID),
		zap.String("service_id", sub.ServiceID),
		zap.String("date", sub.Date),
		zap.String("time", sub.Time),
		zap.String("booking_id", confirmation.ID),
	)
	s.record(ctx, journal.EventBookingForwarded, sub, map[string]any{"booking_id": confirmation.ID})
	return confirmation, nil
}

// record appends a journal entry. Failures are logged, never returned.
func (s *Service) record(ctx context.Context, eventType journal.EventType, sub Submission, extra map[string]any) {
	payload := map[string]any{
		"adults":   sub.Adults,
		"children": sub.Children,
		"language": sub.Language,
	}
	for k, v := range extra {
		payload[k] = v
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal journal payload", zap.String("event_type", string(eventType)), zap.Error(err))
		data = nil
	}

	ev := journal.Event{
		Type:       eventType,
		ProviderID: sub.ProviderID,
		ServiceID:  sub.ServiceID,
		EventDate:  sub.Date,
		EventTime:  sub.Time,
		Payload:    data,
		CreatedAt:  time.Now(),
	}
	if err := s.journal.Insert(context.WithoutCancel(ctx), ev); err != nil {
		s.logger.Error("insert journal event",
			zap.String("event_type", string(eventType)),
			zap.String("provider_id", sub.ProviderID),
			zap.Error(err),
		)
	}
}
