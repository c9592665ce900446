package parser

import (
	"regexp"
	"strings"
)

var (
	dateRegex = regexp.MustCompile(
		`^(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),\s+([a-zA-Z]{3})\.?\s+([0-9]{1,2})`)
	timeRegex         = regexp.MustCompile(`^([0-9]{1,2}:[0-9]{2})\s+(AM|PM)`)
	courtDetailsRegex = regexp.MustCompile(`^(.*?\S)\s{2,}(\S.*)$`)
	legacyDocketRegex = regexp.MustCompile(`([0-9]{2,4}-[0-9]{1,2}-[0-9]{2})\s+(.*)$`)
	newDocketRegex    = regexp.MustCompile(`\b([0-9]{2}-([A-Z]{2})-[0-9]{5})\b`)
)

// Date is the weekday, day of month and month abbreviation of a calendar date
// line, all lowercase.
type Date struct {
	DayOfWeek string
	Day       string
	Month     string
}

// ParseDate extracts the date from a line such as "Monday,    Mar. 29".
// ok is false when the line does not start with a date.
func ParseDate(line string) (date Date, ok bool) {
	m := dateRegex.FindStringSubmatch(line)
	if m == nil {
		return Date{}, false
	}
	return Date{
		DayOfWeek: strings.ToLower(m[1]),
		Day:       strings.ToLower(m[3]),
		Month:     strings.ToLower(m[2]),
	}, true
}

// ParseTime extracts the time and am/pm marker from a line starting with
// "9:00 AM". Both are empty when the line does not match.
func ParseTime(line string) (clock, amPm string) {
	m := timeRegex.FindStringSubmatch(line)
	if m == nil {
		return "", ""
	}
	return strings.ToLower(m[1]), strings.ToLower(m[2])
}

// ParseCourtDetails splits a line into court room and hearing type at the
// first run of two or more spaces.
func ParseCourtDetails(line string) (courtRoom, hearingType string) {
	m := courtDetailsRegex.FindStringSubmatch(line)
	if m == nil {
		return "", ""
	}
	return strings.ToLower(strings.TrimSpace(m[1])), strings.ToLower(strings.TrimSpace(m[2]))
}

// ParseDocketCategory finds a docket number anywhere in the line.
//
// Legacy dockets ("199-6-19 Ancr/Criminal") return the text following the
// docket as the category. New-scheme dockets ("21-CR-01234") carry no county,
// so the category is the placeholder county code followed by the subdivision
// code, e.g. "xxcr".
func ParseDocketCategory(line string) (docket, category string) {
	if m := legacyDocketRegex.FindStringSubmatch(line); m != nil {
		return strings.ToLower(m[1]), strings.ToLower(strings.TrimSpace(m[2]))
	}
	if m := newDocketRegex.FindStringSubmatch(line); m != nil {
		return strings.ToLower(m[1]), PlaceholderCountyCode + strings.ToLower(m[2])
	}
	return "", ""
}
