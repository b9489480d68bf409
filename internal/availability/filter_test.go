package availability

import (
	"testing"
	"time"
)

// 2024-01-01 is a Monday, 2024-01-02 a Tuesday.
var mondayMorning = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func tastingSchedule() Schedule {
	return Schedule{
		Weekly: WeeklyAvailability{
			"monday":  openDay(TimeSlot{"09:00", "12:00"}, TimeSlot{"14:00", "18:00"}),
			"tuesday": openDay(TimeSlot{"09:00", "12:00"}),
			"sunday":  {IsAvailable: false, TimeSlots: []TimeSlot{{"09:00", "12:00"}}},
		},
		DurationMinutes:    60,
		GranularityMinutes: 30,
		MaxCapacity:        10,
	}
}

func TestResolve_OverrideBlocksContainedStarts(t *testing.T) {
	s := tastingSchedule()
	s.Overrides = []SpecialDateOverride{{
		Date:           "2024-01-02",
		Enabled:        true,
		MorningEnabled: true,
		MorningFrom:    "10:00",
		MorningTo:      "11:00",
	}}

	got := starts(Resolve(s, "2024-01-02", mondayMorning))
	want := []string{"09:00", "09:30", "11:00"}
	if !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolve_DisabledOverrideIsIgnored(t *testing.T) {
	s := tastingSchedule()
	s.Overrides = []SpecialDateOverride{{
		Date:           "2024-01-02",
		Enabled:        false,
		MorningEnabled: true,
		MorningFrom:    "09:00",
		MorningTo:      "12:00",
	}}
	if got := Resolve(s, "2024-01-02", mondayMorning); len(got) != 5 {
		t.Fatalf("expected all 5 candidates, got %v", starts(got))
	}
}

func TestResolve_OverrideOnOtherDateIsIgnored(t *testing.T) {
	s := tastingSchedule()
	s.Overrides = []SpecialDateOverride{{
		Date:             "2024-01-09T00:00:00.000Z",
		Enabled:          true,
		AfternoonEnabled: true,
		AfternoonFrom:    "00:00",
		AfternoonTo:      "23:59",
	}}
	if got := Resolve(s, "2024-01-02", mondayMorning); len(got) != 5 {
		t.Fatalf("expected all 5 candidates, got %v", starts(got))
	}
	if got := Resolve(s, "2024-01-09", mondayMorning); len(got) != 0 {
		t.Fatalf("expected the ISO-dated override to block 2024-01-09, got %v", starts(got))
	}
}

func TestResolve_BookingBufferToday(t *testing.T) {
	s := tastingSchedule()
	s.GranularityMinutes = 5
	now := time.Date(2024, 1, 1, 14, 3, 0, 0, time.UTC)

	got := starts(Resolve(s, "2024-01-01", now))
	for _, st := range got {
		if st == "14:05" {
			t.Fatal("14:05 is inside the five minute buffer")
		}
		if st < "14:10" {
			t.Fatalf("unexpected past start %s", st)
		}
	}
	if len(got) == 0 || got[0] != "14:10" {
		t.Fatalf("expected first start 14:10, got %v", got)
	}
}

func TestResolve_FutureDateIgnoresClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	if got := Resolve(tastingSchedule(), "2024-01-02", now); len(got) != 5 {
		t.Fatalf("expected 5 candidates, got %v", starts(got))
	}
}

func TestResolve_PastDateIsEmpty(t *testing.T) {
	now := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	if got := Resolve(tastingSchedule(), "2024-01-02", now); len(got) != 0 {
		t.Fatalf("expected nothing on a past date, got %v", starts(got))
	}
}

func TestResolve_UnavailableWeekdayIsEmpty(t *testing.T) {
	s := tastingSchedule()
	s.Booked = []BookedSlot{{EventDate: "2024-01-07", EventTime: "09:00"}}
	s.Overrides = []SpecialDateOverride{{Date: "2024-01-07", Enabled: true}}
	s.MultipleBookings = true

	for _, date := range []string{"2024-01-07", "2024-01-06"} {
		if got := Resolve(s, date, mondayMorning); len(got) != 0 {
			t.Fatalf("expected nothing on %s, got %v", date, starts(got))
		}
	}
}

func TestResolve_SingleBookingExcludesAnyOverlap(t *testing.T) {
	s := tastingSchedule()
	s.Booked = []BookedSlot{{EventDate: "2024-01-02", EventTime: "10:00"}}

	got := starts(Resolve(s, "2024-01-02", mondayMorning))
	// [10:00,11:00) overlaps starts 09:30, 10:00 and 10:30.
	want := []string{"09:00", "11:00"}
	if !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolve_BookingEndTimeOverridesDuration(t *testing.T) {
	s := tastingSchedule()
	s.Booked = []BookedSlot{{EventDate: "2024-01-02", EventTime: "09:00", EventEndTime: "09:30"}}

	got := starts(Resolve(s, "2024-01-02", mondayMorning))
	want := []string{"09:30", "10:00", "10:30", "11:00"}
	if !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolve_MultipleBookingsCapacityEstimate(t *testing.T) {
	s := tastingSchedule()
	s.MultipleBookings = true
	s.Booked = []BookedSlot{{EventDate: "2024-01-02", EventTime: "10:00"}}

	s.SelectedParticipants = 6
	if got := starts(Resolve(s, "2024-01-02", mondayMorning)); !equalStrings(got, []string{"09:00", "11:00"}) {
		t.Fatalf("expected overlapping starts excluded for 6 people, got %v", got)
	}

	s.SelectedParticipants = 5
	if got := Resolve(s, "2024-01-02", mondayMorning); len(got) != 5 {
		t.Fatalf("expected all starts for 5 people, got %v", starts(got))
	}
}

func TestResolve_MultipleBookingsSumsOverlaps(t *testing.T) {
	s := tastingSchedule()
	s.MultipleBookings = true
	s.SelectedParticipants = 1
	s.Booked = []BookedSlot{
		{EventDate: "2024-01-02", EventTime: "10:00"},
		{EventDate: "2024-01-02", EventTime: "10:00"},
	}
	// Two estimated half-full bookings already fill the capacity of 10.
	got := starts(Resolve(s, "2024-01-02", mondayMorning))
	if !equalStrings(got, []string{"09:00", "11:00"}) {
		t.Fatalf("expected overlapping starts excluded, got %v", got)
	}
}

func TestResolve_MalformedInputsDegradeToEmpty(t *testing.T) {
	s := tastingSchedule()
	if got := Resolve(s, "not-a-date", mondayMorning); got != nil {
		t.Fatalf("expected nil, got %v", starts(got))
	}
	if got := Resolve(Schedule{DurationMinutes: 60}, "2024-01-02", mondayMorning); got != nil {
		t.Fatalf("expected nil without weekly availability, got %v", starts(got))
	}

	s.Booked = []BookedSlot{{EventDate: "garbage", EventTime: "10:00"}, {EventDate: "2024-01-02", EventTime: "??"}}
	if got := Resolve(s, "2024-01-02", mondayMorning); len(got) != 5 {
		t.Fatalf("malformed bookings should be ignored, got %v", starts(got))
	}
}

func TestResolve_IsIdempotent(t *testing.T) {
	s := tastingSchedule()
	s.MultipleBookings = true
	s.SelectedParticipants = 3
	s.Booked = []BookedSlot{{EventDate: "2024-01-01", EventTime: "15:00", EventEndTime: "16:30"}}
	s.Overrides = []SpecialDateOverride{{Date: "2024-01-01", Enabled: true, MorningEnabled: true, MorningFrom: "09:00", MorningTo: "10:00"}}
	now := time.Date(2024, 1, 1, 9, 12, 0, 0, time.UTC)

	first := starts(Resolve(s, "2024-01-01", now))
	second := starts(Resolve(s, "2024-01-01", now))
	if !equalStrings(first, second) {
		t.Fatalf("expected identical results, got %v and %v", first, second)
	}
}

func TestFilterCandidates_StrictWithoutMultipleBookings(t *testing.T) {
	s := tastingSchedule()
	s.GranularityMinutes = 15
	s.Booked = []BookedSlot{
		{EventDate: "2024-01-02", EventTime: "09:45", EventEndTime: "10:15"},
	}
	booked := interval{start: 9*60 + 45, end: 10*60 + 15}

	candidates := GenerateCandidates("2024-01-02", s.Weekly["tuesday"], s.DurationMinutes, s.GranularityMinutes)
	kept := FilterCandidates(candidates, s, mondayMorning)
	for _, c := range kept {
		st, _ := ParseClock(c.StartTime)
		if (interval{start: st, end: st + s.DurationMinutes}).overlaps(booked) {
			t.Fatalf("candidate %s overlaps an existing booking", c.StartTime)
		}
	}
	if len(kept) == 0 {
		t.Fatal("expected some candidates to survive")
	}
}

func TestIsDateAvailable(t *testing.T) {
	s := tastingSchedule()
	if !IsDateAvailable(s, "2024-01-02", mondayMorning) {
		t.Fatal("expected tuesday to be available")
	}
	if IsDateAvailable(s, "2024-01-07", mondayMorning) {
		t.Fatal("expected sunday to be unavailable")
	}
	if IsDateAvailable(s, "2024-01-03", mondayMorning) {
		t.Fatal("expected unconfigured wednesday to be unavailable")
	}

	s.Overrides = []SpecialDateOverride{{
		Date: "2024-01-02", Enabled: true,
		MorningEnabled: true, MorningFrom: "00:00", MorningTo: "12:00",
	}}
	if IsDateAvailable(s, "2024-01-02", mondayMorning) {
		t.Fatal("expected fully overridden tuesday to be unavailable")
	}
}

func TestAvailableDates(t *testing.T) {
	got := AvailableDates(tastingSchedule(), "2024-01-01", 7, mondayMorning)
	if len(got) != 7 {
		t.Fatalf("expected 7 days, got %d", len(got))
	}
	want := map[string]bool{"2024-01-01": true, "2024-01-02": true, "2024-01-08": true}
	for _, d := range got {
		if d.Available != want[d.Date] {
			t.Fatalf("unexpected availability %v for %s", d.Available, d.Date)
		}
	}

	if got := AvailableDates(tastingSchedule(), "2024-01-01", 5000, mondayMorning); len(got) != MaxDateRange {
		t.Fatalf("expected range capped at %d, got %d", MaxDateRange, len(got))
	}
	if got := AvailableDates(tastingSchedule(), "bad", 7, mondayMorning); got != nil {
		t.Fatalf("expected nil for bad start date, got %v", got)
	}
}
