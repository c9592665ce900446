package event

import (
	"strconv"
	"strings"
	"time"
)

// Location is the time zone court calendars are published in.
var Location = loadLocation("America/New_York")

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HearingTime combines the raw day, month, time and am/pm fields into an
// absolute time. Calendars omit the year: a month six or more months behind
// now is assumed to belong to next year.
// Returns time.Time{} (zero value) if the fields cannot be parsed.
func (e *Event) HearingTime(now time.Time) time.Time {
	if e.Month == "" || e.Day == "" || e.Time == "" || e.AmPm == "" {
		return time.Time{}
	}

	month, err := time.Parse("Jan", titleCase(e.Month))
	if err != nil {
		return time.Time{}
	}

	year := now.Year()
	if int(month.Month()) <= int(now.Month())-6 {
		year++
	}

	clock, err := time.Parse("3:04PM", e.Time+strings.ToUpper(e.AmPm))
	if err != nil {
		return time.Time{}
	}

	day, err := strconv.Atoi(e.Day)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}
	}

	loc := now.Location()
	t := time.Date(year, month.Month(), day, clock.Hour(), clock.Minute(), 0, 0, loc)
	// time.Date normalizes Feb 30 into March; reject instead
	if t.Day() != day {
		return time.Time{}
	}
	return t
}

// IsPast checks if a hearing has already happened.
// Returns false if the date cannot be derived.
func (e *Event) IsPast(now time.Time) bool {
	t := e.HearingTime(now)
	if t.IsZero() {
		return false
	}
	return t.Before(now)
}

// IsWithinDays checks if a hearing is within N days from now.
// Returns true if days <= 0 (feature disabled) or the date is unknown.
func (e *Event) IsWithinDays(now time.Time, days int) bool {
	if days <= 0 {
		return true
	}
	t := e.HearingTime(now)
	if t.IsZero() {
		return true
	}
	return !t.Before(now) && t.Before(now.AddDate(0, 0, days))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}
