package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// PlaceholderCountyCode stands in for the county of new-scheme dockets, which
// do not encode one.
const PlaceholderCountyCode = "xx"

var (
	ErrUnknownCounty      = errors.New("unknown county code")
	ErrUnknownSubdivision = errors.New("unknown subdivision code")
	ErrPlaceholderCounty  = errors.New("docket category has no county")
)

var countyCodes = map[string]string{
	"an": "addison",
	"bn": "bennington",
	"ca": "caledonia",
	"cn": "chittenden",
	"ex": "essex",
	"fr": "franklin",
	"gi": "grand isle",
	"le": "lamoille",
	"oe": "orange",
	"os": "orleans",
	"rd": "rutland",
	"wn": "washington",
	"wm": "windham",
	"wr": "windsor",
}

var subdivisionCodes = map[string]string{
	"c":  "enforcement action",
	"cr": "criminal",
	"cv": "civil",
	"fa": "family",
	"pr": "probate",
	"sc": "small claims",
	"dm": "domestic",
	"cs": "civil suspension",
	"jv": "juvenile",
	"mh": "mental health",
	"cm": "civil miscellaneous",
	"fg": "fish and game",
	"ta": "traffic appeal",
}

// countyNames is sorted longest first so "grand isle" is tried before any
// shorter name it might contain.
var countyNames = func() []string {
	names := make([]string, 0, len(countyCodes))
	for _, name := range countyCodes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}()

// ResolveCountySubdivision maps a docket category such as "ancr/criminal" to
// its county and subdivision names. The first two characters are the county
// code; the rest, up to a "/" or whitespace, is the subdivision code.
//
// An empty code resolves to two empty names. For the placeholder county code
// the subdivision is still resolved and ErrPlaceholderCounty is returned.
func ResolveCountySubdivision(code string) (county, subdivision string, err error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "", "", nil
	}
	if len(code) < 3 {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownCounty, code)
	}

	subdivCode := code[2:]
	if i := strings.IndexFunc(subdivCode, func(r rune) bool {
		return r == '/' || r == ' ' || r == '\t'
	}); i >= 0 {
		subdivCode = subdivCode[:i]
	}

	subdivision, ok := subdivisionCodes[subdivCode]
	if !ok {
		return "", "", fmt.Errorf("%w: %q in %q", ErrUnknownSubdivision, subdivCode, code)
	}

	countyCode := code[:2]
	if countyCode == PlaceholderCountyCode {
		return "", subdivision, ErrPlaceholderCounty
	}
	county, ok = countyCodes[countyCode]
	if !ok {
		return "", "", fmt.Errorf("%w: %q in %q", ErrUnknownCounty, countyCode, code)
	}

	return county, subdivision, nil
}

// CountyFromText returns the first canonical county name contained in text,
// or "" if none is.
func CountyFromText(text string) string {
	text = strings.ToLower(text)
	for _, name := range countyNames {
		if strings.Contains(text, name) {
			return name
		}
	}
	return ""
}
