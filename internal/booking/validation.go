package booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/hackgods/tasting-booking-gateway/internal/availability"
	"github.com/hackgods/tasting-booking-gateway/internal/backend"
)

const (
	msgDateMissing     = "please choose a date"
	msgDateInvalid     = "the selected date is not valid"
	msgDatePast        = "the selected date is in the past"
	msgTimeMissing     = "please choose a time"
	msgTimeInvalid     = "the selected time is not valid"
	msgLanguageMissing = "please choose a language"
	msgSlotTaken       = "the selected time is no longer available"
	msgFirstName       = "first name is required"
	msgLastName        = "last name is required"
	msgEmail           = "a valid email address is required"
	msgPhone           = "phone number is required"
)

// Submission is a customer's booking request as received from the widget.
type Submission struct {
	ServiceID  string
	ProviderID string
	Date       string
	Time       string
	Adults     int
	Children   int
	Language   string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Notes      string
}

// normalized rewrites Date and Time to their canonical YYYY-MM-DD and HH:MM
// spellings. Values that do not parse are left for validate to report.
func (sub Submission) normalized() Submission {
	if d, ok := availability.NormalizeDate(sub.Date); ok {
		sub.Date = d
	}
	if m, ok := availability.ParseClock(sub.Time); ok {
		sub.Time = availability.FormatClock(m)
	}
	return sub
}

func (sub Submission) request() backend.BookingRequest {
	return backend.BookingRequest{
		ServiceID:     sub.ServiceID,
		ProviderID:    sub.ProviderID,
		Date:          sub.Date,
		Time:          sub.Time,
		Adults:        sub.Adults,
		Children:      sub.Children,
		Language:      sub.Language,
		FirstName:     strings.TrimSpace(sub.FirstName),
		LastName:      strings.TrimSpace(sub.LastName),
		Email:         strings.TrimSpace(sub.Email),
		Phone:         strings.TrimSpace(sub.Phone),
		Notes:         strings.TrimSpace(sub.Notes),
		PaymentMethod: backend.PaymentOnSite,
	}
}

// validate collects every problem with sub. Constraints whose backend data
// could not be loaded, or whose date/time cannot be parsed, are skipped.
func (s *Service) validate(sub Submission, snap snapshot, now time.Time) *ValidationError {
	ve := &ValidationError{}
	today := now.Format(availability.DateLayout)

	date, dateOK := "", false
	switch strings.TrimSpace(sub.Date) {
	case "":
		ve.add(msgDateMissing)
	default:
		date, dateOK = availability.NormalizeDate(sub.Date)
		if !dateOK {
			ve.add(msgDateInvalid)
		} else if date < today {
			ve.add(msgDatePast)
			dateOK = false
		}
	}

	timeOK := false
	switch strings.TrimSpace(sub.Time) {
	case "":
		ve.add(msgTimeMissing)
	default:
		if _, ok := availability.ParseClock(sub.Time); !ok {
			ve.add(msgTimeInvalid)
		} else {
			timeOK = true
		}
	}

	if strings.TrimSpace(sub.Language) == "" {
		ve.add(msgLanguageMissing)
	} else if snap.widgetLoaded && !snap.widget.Service.OffersLanguage(sub.Language) {
		ve.add(fmt.Sprintf("language %q is not offered for this service", sub.Language))
	}

	if _, err := availability.NewParty(sub.Adults, sub.Children, snap.maxParticipants()); err != nil {
		ve.add(err.Error())
	}

	if dateOK && timeOK && snap.widgetLoaded {
		if err := availability.ValidateAdvance(date, sub.Time, snap.advancePolicy(), now); err != nil {
			ve.add(err.Error())
		}
	}

	if dateOK && timeOK && !slotOpen(sub, snap, s.granularity, now) {
		ve.add(msgSlotTaken)
	}

	if strings.TrimSpace(sub.FirstName) == "" {
		ve.add(msgFirstName)
	}
	if strings.TrimSpace(sub.LastName) == "" {
		ve.add(msgLastName)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(sub.Email)); err != nil {
		ve.add(msgEmail)
	}
	if strings.TrimSpace(sub.Phone) == "" {
		ve.add(msgPhone)
	}

	return ve
}

// slotOpen reports whether sub's start time is still offered. Without provider
// availability the check cannot be made and passes.
func slotOpen(sub Submission, snap snapshot, granularity int, now time.Time) bool {
	if !snap.providerLoaded {
		return true
	}
	minute, ok := availability.ParseClock(sub.Time)
	if !ok {
		return true
	}
	want := availability.FormatClock(minute)

	sched := snap.schedule(sub.Adults+sub.Children, granularity)
	for _, c := range availability.Resolve(sched, sub.Date, now) {
		if c.StartTime == want {
			return true
		}
	}
	return false
}
