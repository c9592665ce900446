package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/codeforbtv/courtbot-vt/internal/event"
)

const monthPattern = `(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)`

var (
	sameMonthRegex  = regexp.MustCompile(`(?i)^` + monthPattern + `\.?\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	crossMonthRegex = regexp.MustCompile(`(?i)^` + monthPattern + `\.?\s+(\d{1,2})\s*-\s*` + monthPattern + `\.?\s+(\d{1,2})$`)
	singleDayRegex  = regexp.MustCompile(`(?i)^` + monthPattern + `\.?\s+(\d{1,2})$`)
	wholeMonthRegex = regexp.MustCompile(`(?i)^` + monthPattern + `$`)
	isoRangeRegex   = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*(?:\.\.|to)\s*(\d{4}-\d{2}-\d{2})$`)
)

// ParseDateRange parses a date range relative to the current time.
func ParseDateRange(input string) (*time.Time, *time.Time, error) {
	return ParseDateRangeAt(input, time.Now().In(event.Location))
}

// ParseDateRangeAt parses a date range string into start and end times.
//
// Supported formats:
//   - "May 4-7" - same month, different days
//   - "May 28 - Jun 3" - different months
//   - "May 4" - a single day
//   - "May" - entire month
//   - "2021-05-04..2021-05-07" or "2021-05-04 to 2021-05-07" - explicit dates
//
// Month-only formats infer the year: a month earlier than now's month is in
// the next year, and a cross-month range whose end month precedes its start
// ends in the following year. Start is at 00:00:00 and end at 23:59:59 in
// now's location.
func ParseDateRangeAt(input string, now time.Time) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}
	loc := now.Location()

	if m := isoRangeRegex.FindStringSubmatch(input); m != nil {
		from, err := time.ParseInLocation("2006-01-02", m[1], loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date %q: %w", m[1], err)
		}
		end, err := time.ParseInLocation("2006-01-02", m[2], loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date %q: %w", m[2], err)
		}
		return bounded(from, endOfDay(end))
	}

	if m := sameMonthRegex.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		day1, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(m[3])
		if err != nil {
			return nil, nil, err
		}
		year := yearForMonth(month, now)
		return bounded(time.Date(year, month, day1, 0, 0, 0, 0, loc),
			endOfDay(time.Date(year, month, day2, 0, 0, 0, 0, loc)))
	}

	if m := crossMonthRegex.FindStringSubmatch(input); m != nil {
		month1, month2 := parseMonth(m[1]), parseMonth(m[3])
		day1, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(m[4])
		if err != nil {
			return nil, nil, err
		}
		year1 := yearForMonth(month1, now)
		year2 := year1
		if month2 < month1 {
			year2++
		}
		return bounded(time.Date(year1, month1, day1, 0, 0, 0, 0, loc),
			endOfDay(time.Date(year2, month2, day2, 0, 0, 0, 0, loc)))
	}

	if m := singleDayRegex.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		day, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		from := time.Date(yearForMonth(month, now), month, day, 0, 0, 0, 0, loc)
		return bounded(from, endOfDay(from))
	}

	if m := wholeMonthRegex.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		year := yearForMonth(month, now)
		from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		// day 0 of the next month is the last day of this one
		return bounded(from, endOfDay(time.Date(year, month+1, 0, 0, 0, 0, 0, loc)))
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use 'May 4-7', 'May 28 - Jun 3', 'May 4', 'May' or '2021-05-04..2021-05-07'")
}

func bounded(from, to time.Time) (*time.Time, *time.Time, error) {
	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &to, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	return day, nil
}

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// parseMonth converts a month name to time.Month
func parseMonth(name string) time.Month {
	return months[strings.ToLower(strings.TrimSpace(name))]
}

// yearForMonth returns now's year, or the next one if month has passed.
func yearForMonth(month time.Month, now time.Time) int {
	if month < now.Month() {
		return now.Year() + 1
	}
	return now.Year()
}
