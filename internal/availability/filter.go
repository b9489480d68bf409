package availability

import "time"

const (
	// bookingBufferMinutes keeps same-day starts at least this far from now.
	bookingBufferMinutes = 5
	// estimatedOccupancyShare approximates the party size of each existing
	// booking as a share of max capacity. The public schedule carries no headcount.
	estimatedOccupancyShare = 0.5
)

type interval struct {
	start, end int
}

func (i interval) overlaps(o interval) bool {
	return i.start < o.end && o.start < i.end
}

// dayContext holds the overrides and bookings that apply to a single date.
type dayContext struct {
	blocked []interval
	booked  []interval
}

// FilterCandidates drops candidates that are in the past, blocked by a special
// date override, or already occupied. It never fails: malformed inputs make the
// affected constraint inapplicable or the candidate unusable.
func FilterCandidates(candidates []Candidate, s Schedule, now time.Time) []Candidate {
	if len(candidates) == 0 {
		return nil
	}
	today, nowMinute := wallClock(now)
	days := make(map[string]*dayContext)

	var out []Candidate
	for _, c := range candidates {
		date, ok := NormalizeDate(c.Date)
		if !ok {
			continue
		}
		start, ok := ParseClock(c.StartTime)
		if !ok {
			continue
		}
		if isPast(date, start, today, nowMinute) {
			continue
		}

		dc, ok := days[date]
		if !ok {
			dc = buildDayContext(date, s)
			days[date] = dc
		}
		if dc.blocks(start) {
			continue
		}
		if dc.occupied(interval{start: start, end: start + s.DurationMinutes}, s) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isPast(date string, start int, today string, nowMinute int) bool {
	switch {
	case date < today:
		return true
	case date == today:
		return start <= nowMinute+bookingBufferMinutes
	default:
		return false
	}
}

func buildDayContext(date string, s Schedule) *dayContext {
	dc := &dayContext{}
	for _, o := range s.Overrides {
		if !o.Enabled {
			continue
		}
		if d, ok := NormalizeDate(o.Date); !ok || d != date {
			continue
		}
		if o.MorningEnabled {
			if iv, ok := window(o.MorningFrom, o.MorningTo); ok {
				dc.blocked = append(dc.blocked, iv)
			}
		}
		if o.AfternoonEnabled {
			if iv, ok := window(o.AfternoonFrom, o.AfternoonTo); ok {
				dc.blocked = append(dc.blocked, iv)
			}
		}
	}

	for _, b := range s.Booked {
		if d, ok := NormalizeDate(b.EventDate); !ok || d != date {
			continue
		}
		start, ok := ParseClock(b.EventTime)
		if !ok {
			continue
		}
		end := start + s.DurationMinutes
		if b.EventEndTime != "" {
			if e, ok := ParseClock(b.EventEndTime); ok && e > start {
				end = e
			}
		}
		dc.booked = append(dc.booked, interval{start: start, end: end})
	}
	return dc
}

func window(from, to string) (interval, bool) {
	f, ok := ParseClock(from)
	if !ok {
		return interval{}, false
	}
	t, ok := ParseClock(to)
	if !ok || t <= f {
		return interval{}, false
	}
	return interval{start: f, end: t}, true
}

// blocks reports whether an override window [from, to) contains start.
func (dc *dayContext) blocks(start int) bool {
	for _, b := range dc.blocked {
		if start >= b.start && start < b.end {
			return true
		}
	}
	return false
}

func (dc *dayContext) occupied(candidate interval, s Schedule) bool {
	overlapping := 0
	for _, b := range dc.booked {
		if candidate.overlaps(b) {
			if !s.MultipleBookings {
				return true
			}
			overlapping++
		}
	}
	if overlapping == 0 {
		return false
	}

	capacity := s.MaxCapacity
	if capacity <= 0 {
		capacity = DefaultMaxCapacity
	}
	estimated := float64(overlapping) * estimatedOccupancyShare * float64(capacity)
	return estimated+float64(s.SelectedParticipants) > float64(capacity)
}

// Resolve runs the generator and the filter pipeline for one date and returns
// the bookable start times. Unknown weekdays and unparseable dates yield nil.
func Resolve(s Schedule, date string, now time.Time) []Candidate {
	d, ok := ParseDate(date)
	if !ok {
		return nil
	}
	day, ok := s.Weekly.Day(d.Weekday())
	if !ok {
		return nil
	}
	normalized := d.Format(DateLayout)
	candidates := GenerateCandidates(normalized, day, s.DurationMinutes, s.GranularityMinutes)
	return FilterCandidates(candidates, s, now)
}
