package availability

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

const (
	// DefaultGranularityMinutes is the step between candidate start times when
	// the provider has not configured one.
	DefaultGranularityMinutes = 30
	// DefaultServiceMinutes is used when a service carries no duration.
	DefaultServiceMinutes = 60
	// DefaultMaxCapacity is the party-size ceiling when numberOfPeople cannot be parsed.
	DefaultMaxCapacity = 10
)

type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type DayAvailability struct {
	IsAvailable bool       `json:"isAvailable"`
	TimeSlots   []TimeSlot `json:"timeSlots"`
}

// WeeklyAvailability maps lower-case weekday names (monday..sunday) to the
// provider's recurring opening windows.
type WeeklyAvailability map[string]DayAvailability

// Day returns the configuration for weekday, matching keys case-insensitively.
func (w WeeklyAvailability) Day(weekday time.Weekday) (DayAvailability, bool) {
	if w == nil {
		return DayAvailability{}, false
	}
	name := strings.ToLower(weekday.String())
	if d, ok := w[name]; ok {
		return d, true
	}
	for k, d := range w {
		if strings.EqualFold(k, name) {
			return d, true
		}
	}
	return DayAvailability{}, false
}

// SpecialDateOverride blocks morning and/or afternoon windows on one calendar date.
// Overrides only ever remove availability.
type SpecialDateOverride struct {
	Date             string `json:"date"`
	Enabled          bool   `json:"enabled"`
	MorningEnabled   bool   `json:"morningEnabled"`
	MorningFrom      string `json:"morningFrom"`
	MorningTo        string `json:"morningTo"`
	AfternoonEnabled bool   `json:"afternoonEnabled"`
	AfternoonFrom    string `json:"afternoonFrom"`
	AfternoonTo      string `json:"afternoonTo"`
}

// BookedSlot is the privacy-minimized public projection of an existing reservation.
type BookedSlot struct {
	EventDate    string `json:"eventDate"`
	EventTime    string `json:"eventTime"`
	EventEndTime string `json:"eventEndTime,omitempty"`
}

// FlexString accepts either a JSON string or a bare JSON number.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(data)
	return nil
}

type ServiceDefinition struct {
	TimeOfServiceInMinutes int        `json:"timeOfServiceInMinutes"`
	NumberOfPeople         FlexString `json:"numberOfPeople"`
	LanguagesOffered       []string   `json:"languagesOffered"`
	PricePerPerson         float64    `json:"pricePerPerson"`
	NumberOfWinesTasted    int        `json:"numberOfWinesTasted"`
}

// DurationMinutes returns the service length, falling back to DefaultServiceMinutes.
func (s ServiceDefinition) DurationMinutes() int {
	if s.TimeOfServiceInMinutes <= 0 {
		return DefaultServiceMinutes
	}
	return s.TimeOfServiceInMinutes
}

func (s ServiceDefinition) MaxParticipants() int {
	return MaxCapacity(string(s.NumberOfPeople))
}

// OffersLanguage reports whether lang is one of the service languages.
// A service that lists no languages accepts any.
func (s ServiceDefinition) OffersLanguage(lang string) bool {
	if len(s.LanguagesOffered) == 0 {
		return true
	}
	for _, l := range s.LanguagesOffered {
		if strings.EqualFold(strings.TrimSpace(l), strings.TrimSpace(lang)) {
			return true
		}
	}
	return false
}

type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
)

// Candidate is a generated start time on one date. It is never persisted.
type Candidate struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Period    Period `json:"period"`
}

// Schedule bundles everything slot resolution needs for one provider and service.
type Schedule struct {
	Weekly    WeeklyAvailability
	Overrides []SpecialDateOverride
	Booked    []BookedSlot

	DurationMinutes    int
	GranularityMinutes int

	// MultipleBookings allows several parties to share overlapping slots up
	// to MaxCapacity participants.
	MultipleBookings     bool
	MaxCapacity          int
	SelectedParticipants int
}
