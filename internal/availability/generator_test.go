package availability

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
)

func starts(cs []Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.StartTime)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func openDay(windows ...TimeSlot) DayAvailability {
	return DayAvailability{IsAvailable: true, TimeSlots: windows}
}

func TestGenerateCandidates_MorningWindow(t *testing.T) {
	got := GenerateCandidates("2024-01-02", openDay(TimeSlot{"09:00", "12:00"}), 60, 30)
	want := []string{"09:00", "09:30", "10:00", "10:30", "11:00"}
	if !equalStrings(starts(got), want) {
		t.Fatalf("expected %v, got %v", want, starts(got))
	}
	for _, c := range got {
		if c.Period != PeriodMorning {
			t.Fatalf("expected %s to be morning, got %s", c.StartTime, c.Period)
		}
		if c.Date != "2024-01-02" {
			t.Fatalf("expected date to be carried, got %q", c.Date)
		}
	}
}

func TestGenerateCandidates_LastStartBoundary(t *testing.T) {
	got := starts(GenerateCandidates("2024-01-02", openDay(TimeSlot{"09:00", "12:00"}), 60, 1))
	if got[len(got)-1] != "11:00" {
		t.Fatalf("expected last start 11:00, got %s", got[len(got)-1])
	}
	for _, s := range got {
		if s == "11:01" {
			t.Fatal("11:01 would overrun the window end")
		}
	}
}

func TestGenerateCandidates_WindowShorterThanService(t *testing.T) {
	got := GenerateCandidates("2024-01-02", openDay(TimeSlot{"09:00", "09:45"}), 60, 15)
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %v", starts(got))
	}
}

func TestGenerateCandidates_DefaultGranularity(t *testing.T) {
	got := starts(GenerateCandidates("2024-01-02", openDay(TimeSlot{"14:00", "16:00"}), 60, 0))
	want := []string{"14:00", "14:30", "15:00"}
	if !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGenerateCandidates_UnavailableDay(t *testing.T) {
	day := DayAvailability{IsAvailable: false, TimeSlots: []TimeSlot{{"09:00", "18:00"}}}
	if got := GenerateCandidates("2024-01-02", day, 60, 30); got != nil {
		t.Fatalf("expected nil, got %v", starts(got))
	}
}

func TestGenerateCandidates_OverlappingWindowsAreDeduplicated(t *testing.T) {
	day := openDay(
		TimeSlot{"15:00", "17:00"},
		TimeSlot{"09:00", "11:00"},
		TimeSlot{"10:00", "12:00"},
	)
	got := starts(GenerateCandidates("2024-01-02", day, 60, 30))
	want := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "15:00", "15:30", "16:00"}
	if !equalStrings(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGenerateCandidates_SkipsMalformedWindows(t *testing.T) {
	day := openDay(
		TimeSlot{"nine", "12:00"},
		TimeSlot{"13:00", "12:00"},
		TimeSlot{"14:00", "15:00"},
	)
	got := starts(GenerateCandidates("2024-01-02", day, 60, 30))
	if !equalStrings(got, []string{"14:00"}) {
		t.Fatalf("expected only 14:00, got %v", got)
	}
}

func TestGenerateCandidates_PeriodSplit(t *testing.T) {
	got := GenerateCandidates("2024-01-02", openDay(TimeSlot{"11:00", "13:30"}), 60, 30)
	morning, afternoon := SplitByPeriod(got)
	if !equalStrings(starts(morning), []string{"11:00", "11:30"}) {
		t.Fatalf("unexpected morning %v", starts(morning))
	}
	if !equalStrings(starts(afternoon), []string{"12:00", "12:30"}) {
		t.Fatalf("unexpected afternoon %v", starts(afternoon))
	}
}

func TestGenerateCandidates_StaysInsideWindows(t *testing.T) {
	gofakeit.Seed(7)

	for i := 0; i < 500; i++ {
		from := gofakeit.Number(0, 20*60)
		to := from + gofakeit.Number(0, 6*60)
		if to > minutesInDay {
			to = minutesInDay
		}
		duration := gofakeit.Number(15, 240)
		granularity := gofakeit.Number(5, 90)

		got := GenerateCandidates("2024-01-02", openDay(TimeSlot{FormatClock(from), FormatClock(to)}), duration, granularity)
		for _, c := range got {
			s, ok := ParseClock(c.StartTime)
			if !ok {
				t.Fatalf("unparseable candidate %q", c.StartTime)
			}
			if s < from || s+duration > to {
				t.Fatalf("candidate %s with duration %d escapes window %s-%s",
					c.StartTime, duration, FormatClock(from), FormatClock(to))
			}
		}
		if from+duration <= to && len(got) == 0 {
			t.Fatalf("window %s-%s fits duration %d but produced nothing",
				FormatClock(from), FormatClock(to), duration)
		}
	}
}
