package booking

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hackgods/tasting-booking-gateway/internal/availability"
	"github.com/hackgods/tasting-booking-gateway/internal/backend"
)

// snapshot is the backend state one request resolves against. A failed fetch
// leaves its part empty and its loaded flag false.
type snapshot struct {
	provider backend.ProviderAvailability
	booked   []availability.BookedSlot
	widget   backend.WidgetData

	providerLoaded bool
	scheduleLoaded bool
	widgetLoaded   bool
}

// loadSnapshot runs the three backend fetches concurrently. Errors are logged
// and swallowed so a transient failure never blocks the booking flow.
func (s *Service) loadSnapshot(ctx context.Context, providerID, serviceID string) snapshot {
	var (
		snap snapshot
		wg   sync.WaitGroup
	)
	log := s.logger.With(zap.String("provider_id", providerID), zap.String("service_id", serviceID))

	wg.Add(3)
	go func() {
		defer wg.Done()
		pa, err := s.backend.ProviderAvailability(ctx, providerID)
		if err != nil {
			log.Warn("provider availability unavailable, continuing without it", zap.Error(err))
			return
		}
		snap.provider = *pa
		snap.providerLoaded = true
	}()
	go func() {
		defer wg.Done()
		booked, err := s.backend.PublicSchedule(ctx, providerID)
		if err != nil {
			log.Warn("public schedule unavailable, continuing without it", zap.Error(err))
			return
		}
		snap.booked = booked
		snap.scheduleLoaded = true
	}()
	go func() {
		defer wg.Done()
		wd, err := s.backend.WidgetData(ctx, serviceID)
		if err != nil {
			log.Warn("widget data unavailable, continuing without it", zap.Error(err))
			return
		}
		snap.widget = *wd
		snap.widgetLoaded = true
	}()
	wg.Wait()

	return snap
}

// degraded reports whether any backend fetch failed, so results were computed
// from partial data.
func (snap snapshot) degraded() bool {
	return !snap.providerLoaded || !snap.scheduleLoaded || !snap.widgetLoaded
}

func (snap snapshot) maxParticipants() int {
	return snap.widget.Service.MaxParticipants()
}

func (snap snapshot) schedule(selected, defaultGranularity int) availability.Schedule {
	granularity := snap.provider.DefaultSlotDuration
	if granularity <= 0 {
		granularity = defaultGranularity
	}
	return availability.Schedule{
		Weekly:               snap.provider.WeeklyAvailability,
		Overrides:            snap.provider.SpecialDateOverrides,
		Booked:               snap.booked,
		DurationMinutes:      snap.widget.Service.DurationMinutes(),
		GranularityMinutes:   granularity,
		MultipleBookings:     snap.provider.MultipleBookingsSameSlot,
		MaxCapacity:          snap.maxParticipants(),
		SelectedParticipants: selected,
	}
}

func (snap snapshot) advancePolicy() availability.AdvancePolicy {
	return availability.ResolveAdvancePolicy(
		snap.widget.Availability.BookingRestrictionTime,
		snap.widget.NotificationPreferences.BookingAdvanceLimit,
	)
}
