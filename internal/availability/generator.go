package availability

import "sort"

// GenerateCandidates expands a day's opening windows into start times on date.
//
// For each window [from, to) a start s is emitted when s+duration <= to, stepping
// by granularity from the window start. Windows too short for one service
// produce nothing. Starts shared by overlapping windows are emitted once and the
// result is ordered by start time.
func GenerateCandidates(date string, day DayAvailability, durationMinutes, granularityMinutes int) []Candidate {
	if !day.IsAvailable || len(day.TimeSlots) == 0 || durationMinutes <= 0 {
		return nil
	}
	if granularityMinutes <= 0 {
		granularityMinutes = DefaultGranularityMinutes
	}

	seen := make(map[int]struct{})
	var starts []int
	for _, w := range day.TimeSlots {
		from, ok := ParseClock(w.StartTime)
		if !ok {
			continue
		}
		to, ok := ParseClock(w.EndTime)
		if !ok || to <= from {
			continue
		}
		if from+durationMinutes > to {
			continue
		}
		for s := from; s+durationMinutes <= to; s += granularityMinutes {
			if s >= minutesInDay {
				break
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			starts = append(starts, s)
		}
	}
	if len(starts) == 0 {
		return nil
	}
	sort.Ints(starts)

	out := make([]Candidate, 0, len(starts))
	for _, s := range starts {
		out = append(out, Candidate{
			Date:      date,
			StartTime: FormatClock(s),
			Period:    periodOf(s),
		})
	}
	return out
}

// SplitByPeriod partitions candidates into morning and afternoon lists for display.
func SplitByPeriod(candidates []Candidate) (morning, afternoon []Candidate) {
	for _, c := range candidates {
		if c.Period == PeriodMorning {
			morning = append(morning, c)
		} else {
			afternoon = append(afternoon, c)
		}
	}
	return morning, afternoon
}
