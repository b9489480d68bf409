package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/tasting-booking-gateway/internal/availability"
	"github.com/hackgods/tasting-booking-gateway/internal/booking"
)

type SlotsResponse struct {
	Date            string   `json:"date"`
	DurationMinutes int      `json:"durationMinutes"`
	MaxParticipants int      `json:"maxParticipants"`
	Morning         []string `json:"morning"`
	Afternoon       []string `json:"afternoon"`
	Degraded        bool     `json:"degraded,omitempty"`
}

type DatesResponse struct {
	From  string                          `json:"from"`
	Days  int                             `json:"days"`
	Dates []availability.DateAvailability `json:"dates"`
}

type BookingRequest struct {
	ServiceID  string `json:"serviceId"`
	ProviderID string `json:"providerId"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
	Language   string `json:"language"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Notes      string `json:"notes,omitempty"`
}

func (r BookingRequest) submission() booking.Submission {
	return booking.Submission{
		ServiceID:  r.ServiceID,
		ProviderID: r.ProviderID,
		Date:       r.Date,
		Time:       r.Time,
		Adults:     r.Adults,
		Children:   r.Children,
		Language:   r.Language,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Notes:      r.Notes,
	}
}

type ValidationResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

type BookingResponse struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

type SubmissionEventResponse struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	ServiceID string          `json:"serviceId"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}
