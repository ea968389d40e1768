// Package schedule derives a project's day schedule from its date
// bounds, total day count, and theme source.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultThemes is the built-in 25-entry theme rotation.  Projects that
// don't customize their themes cycle through this table.
var DefaultThemes = []string{
	"Red",
	"Candlelight",
	"Tree",
	"Snow",
	"Warm drink",
	"Ornament",
	"Lights",
	"Family",
	"Cozy corner",
	"Gift",
	"Star",
	"Sweet treat",
	"Winter walk",
	"Socks",
	"Window",
	"Music",
	"Handwriting",
	"Shadow",
	"Something old",
	"Something new",
	"Together",
	"Morning",
	"Night sky",
	"Favorite place",
	"Celebration",
}

// Day is one generated schedule slot.
type Day struct {
	DayNumber  int
	Date       time.Time
	Theme      string
	ThemeIndex int
}

// EndFromStart derives the project end date from a fixed start date.
// Inverse of StartFromEnd.
func EndFromStart(start time.Time, totalDays int) time.Time {
	return start.AddDate(0, 0, totalDays-1)
}

// StartFromEnd derives the project start date from a fixed end date.
// Inverse of EndFromStart.
func StartFromEnd(end time.Time, totalDays int) time.Time {
	return end.AddDate(0, 0, -(totalDays - 1))
}

// Generate produces the full day schedule for a project starting at
// start.
//
// With customThemes == nil, day i gets DefaultThemes[i%25] and theme
// index i%25.  With custom themes, day i gets customThemes[i] and theme
// index i; empty strings are permitted and render blank.  The custom
// theme list length must equal totalDays.
func Generate(start time.Time, totalDays int, customThemes []string) ([]Day, error) {
	if totalDays <= 0 {
		return nil, fmt.Errorf("total day count must be positive, got %d", totalDays)
	}
	if customThemes != nil && len(customThemes) != totalDays {
		return nil, fmt.Errorf("got %d custom themes, want exactly %d", len(customThemes), totalDays)
	}

	days := make([]Day, 0, totalDays)
	for i := 0; i < totalDays; i++ {
		day := Day{
			DayNumber: i + 1,
			Date:      start.AddDate(0, 0, i),
		}
		if customThemes != nil {
			day.Theme = customThemes[i]
			day.ThemeIndex = i
		} else {
			day.Theme = DefaultThemes[i%len(DefaultThemes)]
			day.ThemeIndex = i % len(DefaultThemes)
		}
		days = append(days, day)
	}

	return days, nil
}

// DayID returns the deterministic document id for a day: "day" plus the
// sequence number zero-padded to the digit width of totalDays.
func DayID(dayNumber, totalDays int) string {
	return fmt.Sprintf("day%0*d", digits(totalDays), dayNumber)
}

// ParseDayID decodes a day document id back to its sequence number.
func ParseDayID(id string, totalDays int) (int, error) {
	num, ok := strings.CutPrefix(id, "day")
	if !ok {
		return 0, fmt.Errorf("day id %q does not start with \"day\"", id)
	}
	if len(num) != digits(totalDays) {
		return 0, fmt.Errorf("day id %q has digit width %d, want %d", id, len(num), digits(totalDays))
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, fmt.Errorf("while parsing day id %q: %w", id, err)
	}
	if n < 1 || n > totalDays {
		return 0, fmt.Errorf("day id %q is out of range 1..%d", id, totalDays)
	}
	return n, nil
}

// DayLabel returns the countdown label for a day card.  The latest day
// is "D-Day"; every other day counts down to it.
func DayLabel(dayNumber, totalDays int) string {
	if dayNumber == totalDays {
		return "D-Day"
	}
	return fmt.Sprintf("D-%d", totalDays-dayNumber)
}

// CountdownLabel returns the project-level countdown to its end date:
// "D-n" before, "D-Day" on it, "Closed" after.  Comparison is by
// calendar date in the end date's location, not instant.
func CountdownLabel(end, now time.Time) string {
	days := daysUntil(now.In(end.Location()), end)
	switch {
	case days > 0:
		return fmt.Sprintf("D-%d", days)
	case days == 0:
		return "D-Day"
	default:
		return "Closed"
	}
}

// daysUntil counts calendar days from one date to another.  Both dates
// are re-anchored to UTC midnight so the subtraction always sees
// uniform 24-hour days, regardless of DST transitions in the span.
func daysUntil(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f) / (24 * time.Hour))
}

func digits(n int) int {
	return len(strconv.Itoa(n))
}
