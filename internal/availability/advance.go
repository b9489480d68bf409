package availability

import (
	"fmt"
	"strings"
	"time"
)

// Provider notification preferences for the minimum booking lead time.
const (
	NoticeLastMinute = "last_minute"
	NoticeOneHour    = "1_hour"
	NoticeTwoHours   = "2_hours"
	NoticeDayBefore  = "day_before"
	NoticeOneDay     = "24_hours"
	NoticeTwoDays    = "48_hours"
	NoticeNever      = "never"
)

// Per-service restrictions, which take precedence over the provider preference.
const (
	RestrictionOneDay  = "24h"
	RestrictionTwoDays = "48h"
)

// AdvancePolicy is the resolved minimum lead time for a booking.
type AdvancePolicy struct {
	Name     string
	MinLead  time.Duration
	Disabled bool
}

var noticeLeads = map[string]time.Duration{
	NoticeLastMinute: 5 * time.Minute,
	NoticeOneHour:    time.Hour,
	NoticeTwoHours:   2 * time.Hour,
	NoticeDayBefore:  24 * time.Hour,
	NoticeOneDay:     24 * time.Hour,
	NoticeTwoDays:    48 * time.Hour,
}

// ResolveAdvancePolicy picks the service restriction when set, otherwise the
// provider preference. Unknown preferences fall back to a one-day lead.
func ResolveAdvancePolicy(serviceRestriction, providerPreference string) AdvancePolicy {
	switch strings.TrimSpace(serviceRestriction) {
	case RestrictionOneDay:
		return AdvancePolicy{Name: RestrictionOneDay, MinLead: 24 * time.Hour}
	case RestrictionTwoDays:
		return AdvancePolicy{Name: RestrictionTwoDays, MinLead: 48 * time.Hour}
	}

	pref := strings.TrimSpace(providerPreference)
	if pref == NoticeNever {
		return AdvancePolicy{Name: NoticeNever, Disabled: true}
	}
	if lead, ok := noticeLeads[pref]; ok {
		return AdvancePolicy{Name: pref, MinLead: lead}
	}
	return AdvancePolicy{Name: NoticeDayBefore, MinLead: noticeLeads[NoticeDayBefore]}
}

// LeadTimeError reports a booking placed closer to its start than the policy allows.
type LeadTimeError struct {
	Policy   string
	Required time.Duration
	Actual   time.Duration
}

func (e *LeadTimeError) Error() string {
	return fmt.Sprintf("bookings must be made at least %s in advance", describeLead(e.Required))
}

// ValidateAdvance checks that date+clock lies at least policy.MinLead after now.
// The booking time is read as wall-clock time in now's location and accepts
// every clock spelling ParseClock does. When the date or time cannot be
// parsed the check is skipped and nil is returned.
func ValidateAdvance(date, clock string, policy AdvancePolicy, now time.Time) error {
	if policy.Disabled {
		return nil
	}
	d, ok := NormalizeDate(date)
	if !ok {
		return nil
	}
	minute, ok := ParseClock(clock)
	if !ok {
		return nil
	}
	day, err := time.ParseInLocation(DateLayout, d, now.Location())
	if err != nil {
		return nil
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), minute/60, minute%60, 0, 0, now.Location())

	diff := at.Sub(now)
	if diff < policy.MinLead {
		return &LeadTimeError{Policy: policy.Name, Required: policy.MinLead, Actual: diff}
	}
	return nil
}

func describeLead(d time.Duration) string {
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	case d == time.Hour:
		return "1 hour"
	default:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	}
}
