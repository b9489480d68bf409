package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/tasting-booking-gateway/internal/availability"
	"github.com/hackgods/tasting-booking-gateway/internal/backend"
	"github.com/hackgods/tasting-booking-gateway/internal/booking"
)

const (
	defaultAdults    = 1
	defaultDateRange = 31
	maxRequestBody   = 64 << 10
)

func listSlotsHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adults, children, ok := partyParams(w, r)
		if !ok {
			return
		}

		res, err := svc.Slots(r.Context(), booking.SlotQuery{
			ProviderID: chi.URLParam(r, "providerID"),
			ServiceID:  chi.URLParam(r, "serviceID"),
			Date:       r.URL.Query().Get("date"),
			Adults:     adults,
			Children:   children,
		})
		if err != nil {
			handleQueryError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, SlotsResponse{
			Date:            res.Date,
			DurationMinutes: res.DurationMinutes,
			MaxParticipants: res.MaxParticipants,
			Morning:         startTimes(res.Morning),
			Afternoon:       startTimes(res.Afternoon),
			Degraded:        res.Degraded,
		})
	}
}

func listDatesHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adults, children, ok := partyParams(w, r)
		if !ok {
			return
		}
		days, err := intParam(r, "days", defaultDateRange)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_days", "days must be an integer")
			return
		}

		from := r.URL.Query().Get("from")
		dates, err := svc.Dates(r.Context(), booking.DatesQuery{
			ProviderID: chi.URLParam(r, "providerID"),
			ServiceID:  chi.URLParam(r, "serviceID"),
			From:       from,
			Days:       days,
			Adults:     adults,
			Children:   children,
		})
		if err != nil {
			handleQueryError(w, err)
			return
		}

		// Dates succeeded, so from is a valid date
		from, _ = availability.NormalizeDate(from)
		writeJSON(w, http.StatusOK, DatesResponse{From: from, Days: len(dates), Dates: dates})
	}
}

func validateBookingHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeBooking(w, r)
		if !ok {
			return
		}

		err := svc.Validate(r.Context(), req.submission())
		if ve := booking.AsValidationError(err); ve != nil {
			writeJSON(w, http.StatusOK, ValidationResponse{Valid: false, Errors: ve.Messages})
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, ValidationResponse{Valid: true, Errors: []string{}})
	}
}

func createBookingHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeBooking(w, r)
		if !ok {
			return
		}

		conf, err := svc.Submit(r.Context(), req.submission())
		if err != nil {
			handleSubmitError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, BookingResponse{ID: conf.ID, Status: conf.Status})
	}
}

func listSubmissionsHandler(log SubmissionLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := intParam(r, "limit", 20)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}

		events, err := log.ListRecent(r.Context(), chi.URLParam(r, "providerID"), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]SubmissionEventResponse, 0, len(events))
		for _, ev := range events {
			resp = append(resp, SubmissionEventResponse{
				ID:        ev.ID,
				Type:      string(ev.Type),
				ServiceID: ev.ServiceID,
				Date:      ev.EventDate,
				Time:      ev.EventTime,
				Payload:   json.RawMessage(ev.Payload),
				CreatedAt: ev.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func decodeBooking(w http.ResponseWriter, r *http.Request) (BookingRequest, bool) {
	var req BookingRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return BookingRequest{}, false
	}
	if req.ProviderID == "" || req.ServiceID == "" {
		writeError(w, http.StatusBadRequest, "missing_ids", "providerId and serviceId are required")
		return BookingRequest{}, false
	}
	return req, true
}

func partyParams(w http.ResponseWriter, r *http.Request) (adults, children int, ok bool) {
	adults, err := intParam(r, "adults", defaultAdults)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_adults", "adults must be an integer")
		return 0, 0, false
	}
	children, err = intParam(r, "children", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_children", "children must be an integer")
		return 0, 0, false
	}
	return adults, children, true
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func startTimes(cs []availability.Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.StartTime)
	}
	return out
}

func handleQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleSubmitError(w http.ResponseWriter, err error) {
	var statusErr *backend.StatusError

	switch {
	case booking.AsValidationError(err) != nil:
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation_failed",
			Errors: booking.AsValidationError(err).Messages,
		})
	case errors.Is(err, booking.ErrSlotBeingBooked):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusConflict:
		writeError(w, http.StatusConflict, "slot_already_booked", statusErr.Message)
	case errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500:
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "booking_rejected",
			Errors: []string{statusErr.Message},
		})
	default:
		writeError(w, http.StatusBadGateway, "backend_unavailable", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
