package availability

import "time"

// MaxDateRange bounds AvailableDates so a single request cannot ask for an unbounded calendar.
const MaxDateRange = 366

type DateAvailability struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

// IsDateAvailable reports whether date has at least one bookable slot: the
// weekday must be open, have configured windows, and survive the filter pipeline.
func IsDateAvailable(s Schedule, date string, now time.Time) bool {
	d, ok := ParseDate(date)
	if !ok {
		return false
	}
	day, ok := s.Weekly.Day(d.Weekday())
	if !ok || !day.IsAvailable || len(day.TimeSlots) == 0 {
		return false
	}
	return len(Resolve(s, date, now)) > 0
}

// AvailableDates evaluates IsDateAvailable for days consecutive dates starting at from.
func AvailableDates(s Schedule, from string, days int, now time.Time) []DateAvailability {
	start, ok := ParseDate(from)
	if !ok || days <= 0 {
		return nil
	}
	if days > MaxDateRange {
		days = MaxDateRange
	}

	out := make([]DateAvailability, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(DateLayout)
		out = append(out, DateAvailability{
			Date:      date,
			Available: IsDateAvailable(s, date, now),
		})
	}
	return out
}
