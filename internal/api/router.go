package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hackgods/tasting-booking-gateway/internal/availability"
	"github.com/hackgods/tasting-booking-gateway/internal/backend"
	"github.com/hackgods/tasting-booking-gateway/internal/booking"
	"github.com/hackgods/tasting-booking-gateway/internal/journal"
)

type BookingService interface {
	Slots(ctx context.Context, q booking.SlotQuery) (*booking.SlotsResult, error)
	Dates(ctx context.Context, q booking.DatesQuery) ([]availability.DateAvailability, error)
	Validate(ctx context.Context, sub booking.Submission) error
	Submit(ctx context.Context, sub booking.Submission) (*backend.BookingConfirmation, error)
}

type SubmissionLog interface {
	ListRecent(ctx context.Context, providerID string, limit int) ([]journal.Event, error)
}

type RouterConfig struct {
	Service        BookingService
	Submissions    SubmissionLog
	Checks         []DependencyCheck
	Logger         *zap.Logger
	Env            string
	Version        string
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))

	health := NewHealthHandler(cfg.Checks, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/providers/{providerID}", func(r chi.Router) {
		r.Get("/services/{serviceID}/slots", listSlotsHandler(cfg.Service))
		r.Get("/services/{serviceID}/dates", listDatesHandler(cfg.Service))
		if cfg.Submissions != nil {
			r.Get("/submissions", listSubmissionsHandler(cfg.Submissions))
		}
	})

	r.Post("/bookings/validate", validateBookingHandler(cfg.Service))
	r.Post("/bookings", createBookingHandler(cfg.Service))

	return r
}
