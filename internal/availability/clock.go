package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout   = "2006-01-02"
	minutesInDay = 24 * 60
	noonMinute   = 12 * 60
)

// ParseClock converts "HH:MM" (optionally "HH:MM:SS") wall-clock time into
// minutes since midnight. "24:00" is accepted as end of day.
func ParseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	if h == 24 && m == 0 {
		return minutesInDay, true
	}
	if h < 0 || h > 23 {
		return 0, false
	}
	return h*60 + m, true
}

func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// NormalizeDate reduces "YYYY-MM-DD" or an ISO-8601 timestamp to its
// calendar-date prefix.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(DateLayout) {
		return "", false
	}
	s = s[:len(DateLayout)]
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", false
	}
	return s, true
}

// ParseDate parses a calendar date as a UTC midnight value.
func ParseDate(s string) (time.Time, bool) {
	d, ok := NormalizeDate(s)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, d)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// wallClock splits now into its provider-local calendar date and minute of day.
func wallClock(now time.Time) (string, int) {
	return now.Format(DateLayout), now.Hour()*60 + now.Minute()
}

func periodOf(minute int) Period {
	if minute < noonMinute {
		return PeriodMorning
	}
	return PeriodAfternoon
}
