package schedule

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStartEndRoundTrip(t *testing.T) {
	starts := []time.Time{
		date(2025, time.December, 1),
		date(2024, time.February, 28), // leap year boundary
		date(2025, time.December, 31), // year boundary
		date(2023, time.January, 1),
	}
	totals := []int{1, 2, 25, 100}

	for _, start := range starts {
		for _, totalDays := range totals {
			end := EndFromStart(start, totalDays)
			back := StartFromEnd(end, totalDays)
			if !back.Equal(start) {
				t.Errorf("StartFromEnd(EndFromStart(%v, %d)) = %v, want %v", start, totalDays, back, start)
			}
		}
	}
}

func TestEndFromStartScenario(t *testing.T) {
	end := EndFromStart(date(2025, time.December, 1), 25)
	if want := date(2025, time.December, 25); !end.Equal(want) {
		t.Errorf("EndFromStart(2025-12-01, 25) = %v, want %v", end, want)
	}
}

func TestGenerateDefaultThemes(t *testing.T) {
	days, err := Generate(date(2025, time.December, 1), 25, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if got, want := len(days), 25; got != want {
		t.Fatalf("len(days) = %d, want %d", got, want)
	}

	for i, day := range days {
		if got, want := day.DayNumber, i+1; got != want {
			t.Errorf("days[%d].DayNumber = %d, want %d", i, got, want)
		}
		if got, want := day.Date, date(2025, time.December, 1+i); !got.Equal(want) {
			t.Errorf("days[%d].Date = %v, want %v", i, got, want)
		}
		if got, want := day.Theme, DefaultThemes[i%25]; got != want {
			t.Errorf("days[%d].Theme = %q, want %q", i, got, want)
		}
		if got, want := day.ThemeIndex, i%25; got != want {
			t.Errorf("days[%d].ThemeIndex = %d, want %d", i, got, want)
		}
	}
}

func TestGenerateDefaultThemesWrapPast25(t *testing.T) {
	days, err := Generate(date(2025, time.December, 1), 30, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Day 26 wraps back to the first default theme.
	if got, want := days[25].Theme, DefaultThemes[0]; got != want {
		t.Errorf("days[25].Theme = %q, want %q", got, want)
	}
	if got, want := days[25].ThemeIndex, 0; got != want {
		t.Errorf("days[25].ThemeIndex = %d, want %d", got, want)
	}
}

func TestGenerateCustomThemes(t *testing.T) {
	themes := make([]string, 25)
	themes[0] = "A"
	themes[2] = "C"

	days, err := Generate(date(2025, time.December, 1), 25, themes)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Day 2's theme is the empty string, not an error.
	if got, want := days[1].Theme, ""; got != want {
		t.Errorf("days[1].Theme = %q, want %q", got, want)
	}
	if got, want := days[2].Theme, "C"; got != want {
		t.Errorf("days[2].Theme = %q, want %q", got, want)
	}
	if got, want := days[24].ThemeIndex, 24; got != want {
		t.Errorf("days[24].ThemeIndex = %d, want %d", got, want)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	if _, err := Generate(date(2025, time.December, 1), 0, nil); err == nil {
		t.Errorf("Generate with totalDays=0 succeeded, want error")
	}
	if _, err := Generate(date(2025, time.December, 1), -3, nil); err == nil {
		t.Errorf("Generate with totalDays=-3 succeeded, want error")
	}
	if _, err := Generate(date(2025, time.December, 1), 25, []string{"only one"}); err == nil {
		t.Errorf("Generate with short custom theme list succeeded, want error")
	}
}

func TestDayID(t *testing.T) {
	tests := []struct {
		dayNumber int
		totalDays int
		want      string
	}{
		{1, 25, "day01"},
		{25, 25, "day25"},
		{9, 9, "day9"},
		{7, 100, "day007"},
		{100, 100, "day100"},
	}

	for _, tc := range tests {
		if got := DayID(tc.dayNumber, tc.totalDays); got != tc.want {
			t.Errorf("DayID(%d, %d) = %q, want %q", tc.dayNumber, tc.totalDays, got, tc.want)
		}
	}
}

func TestParseDayIDRoundTrip(t *testing.T) {
	for _, totalDays := range []int{1, 9, 25, 100} {
		for n := 1; n <= totalDays; n++ {
			id := DayID(n, totalDays)
			got, err := ParseDayID(id, totalDays)
			if err != nil {
				t.Fatalf("ParseDayID(%q, %d): %v", id, totalDays, err)
			}
			if got != n {
				t.Errorf("ParseDayID(%q, %d) = %d, want %d", id, totalDays, got, n)
			}
		}
	}
}

func TestParseDayIDRejectsMalformed(t *testing.T) {
	for _, id := range []string{"", "01", "day", "day1", "day001", "day26", "dayxx"} {
		if _, err := ParseDayID(id, 25); err == nil {
			t.Errorf("ParseDayID(%q, 25) succeeded, want error", id)
		}
	}
}

func TestDayLabel(t *testing.T) {
	tests := []struct {
		dayNumber int
		totalDays int
		want      string
	}{
		{25, 25, "D-Day"},
		{1, 25, "D-24"},
		{24, 25, "D-1"},
		{1, 1, "D-Day"},
	}

	for _, tc := range tests {
		if got := DayLabel(tc.dayNumber, tc.totalDays); got != tc.want {
			t.Errorf("DayLabel(%d, %d) = %q, want %q", tc.dayNumber, tc.totalDays, got, tc.want)
		}
	}
}

func TestCountdownLabel(t *testing.T) {
	now := date(2025, time.December, 20)

	tests := []struct {
		end  time.Time
		want string
	}{
		{date(2025, time.December, 25), "D-5"},
		{date(2025, time.December, 20), "D-Day"},
		{date(2025, time.December, 19), "Closed"},
	}

	for _, tc := range tests {
		if got := CountdownLabel(tc.end, now); got != tc.want {
			t.Errorf("CountdownLabel(%v, %v) = %q, want %q", tc.end, now, got, tc.want)
		}
	}
}

func TestCountdownLabelDifferentLocations(t *testing.T) {
	// Stored dates come back in UTC; the clock reading may be local.
	est := time.FixedZone("EST", -5*60*60)
	end := date(2025, time.December, 25)

	now := time.Date(2025, time.December, 20, 10, 0, 0, 0, est)
	if got, want := CountdownLabel(end, now), "D-5"; got != want {
		t.Errorf("CountdownLabel(%v, %v) = %q, want %q", end, now, got, want)
	}

	// Late evening EST is already the next calendar date in UTC; the
	// label counts in the end date's location.
	now = time.Date(2025, time.December, 20, 23, 0, 0, 0, est)
	if got, want := CountdownLabel(end, now), "D-4"; got != want {
		t.Errorf("CountdownLabel(%v, %v) = %q, want %q", end, now, got, want)
	}
}

func TestCountdownLabelAcrossSpringForward(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	// 2026-03-08 is a 23-hour day in New York.  The countdown is in
	// calendar days, so the short day must not shave one off.
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, ny)
	end := time.Date(2026, time.March, 11, 0, 0, 0, 0, ny)
	if got, want := CountdownLabel(end, now), "D-10"; got != want {
		t.Errorf("CountdownLabel(%v, %v) = %q, want %q", end, now, got, want)
	}
}

func TestGenerateScenario(t *testing.T) {
	days, err := Generate(date(2025, time.December, 1), 25, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	last := days[24]
	want := Day{
		DayNumber:  25,
		Date:       date(2025, time.December, 25),
		Theme:      DefaultThemes[24],
		ThemeIndex: 24,
	}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Errorf("days[24] diff (-want +got):\n%s", diff)
	}

	if got, want := DayLabel(last.DayNumber, 25), "D-Day"; got != want {
		t.Errorf("DayLabel(25, 25) = %q, want %q", got, want)
	}
	if got, want := DayLabel(days[0].DayNumber, 25), "D-24"; got != want {
		t.Errorf("DayLabel(1, 25) = %q, want %q", got, want)
	}
}
