package parser

import (
	"regexp"
	"strings"

	"github.com/codeforbtv/courtbot-vt/internal/event"
	"github.com/codeforbtv/courtbot-vt/internal/logger"
)

// AddressSeparator divides street from city, state and zip on the address line.
const AddressSeparator = "·"

// Divisions are the court divisions recognized in page titles.
var Divisions = []string{
	"criminal",
	"civil",
	"family",
	"probate",
	"environmental",
}

var (
	titleForRegex = regexp.MustCompile(`(?i)\sfor\s+(.*)$`)
	divisionRegex = regexp.MustCompile(`.*(` + strings.Join(Divisions, "|") + `)`)
	zipRegex      = regexp.MustCompile(`([0-9]{5})(?:-[0-9]{4})?\s*$`)
)

// Page is one court calendar reduced to the regions the parser reads.
type Page struct {
	URL    string
	Title  string   // e.g. "Court Calendar for Lamoille Civil Division"
	Center string   // first centered region, holding the court address
	Blocks []string // fixed-width event blocks
	Text   string   // full body text
}

// PageFromText builds a Page from plain text. The leading paragraph is taken
// as the address block. Text in the narrative layout is left unblocked so
// that NarrativeFormat handles it; anything else is one fixed-width block.
func PageFromText(title, text string) *Page {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	page := &Page{Title: title, Text: text}

	trimmed := strings.TrimLeft(text, "\n")
	if i := strings.Index(trimmed, "\n\n"); i >= 0 {
		page.Center = trimmed[:i]
	} else {
		page.Center = trimmed
	}

	if !hasNarrativeHeaders(text) {
		page.Blocks = []string{text}
	}
	return page
}

// Address is the court location printed at the top of a calendar page
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
}

// ParseAddress reads the address from the centered header of a page:
//
//	Court Calendar for
//	Addison Criminal Division
//	7 Mahady Court · Middlebury, VT 05753
//
// The address line must be the third non-blank line or later and contain the
// separator. Otherwise all fields are empty.
func ParseAddress(center string) Address {
	lines := nonBlankLines(center)
	if len(lines) < 3 {
		return Address{}
	}

	for _, line := range lines[2:] {
		street, cityStateZip, found := strings.Cut(line, AddressSeparator)
		if !found {
			continue
		}
		city, _, _ := strings.Cut(cityStateZip, ",")
		addr := Address{
			Street: strings.ToLower(strings.TrimSpace(street)),
			City:   strings.ToLower(strings.TrimSpace(city)),
		}
		if m := zipRegex.FindStringSubmatch(cityStateZip); m != nil {
			addr.ZipCode = m[1]
		}
		return addr
	}
	return Address{}
}

// ParseDivision derives the court division from a page title such as
// "Court Calendar for Addison Criminal Division". When no known division is
// named, the lowercased text after "for" is returned as is.
func ParseDivision(title string) string {
	rest := title
	if m := titleForRegex.FindStringSubmatch(title); m != nil {
		rest = m[1]
	}
	rest = strings.ToLower(strings.TrimSpace(rest))

	if m := divisionRegex.FindStringSubmatch(rest); m != nil {
		return m[1]
	}
	return rest
}

// Assemble parses every hearing on a page using the Format that matches it
// and merges the page address and division into each record.
//
// Records whose docket carried no county take the county named in the page
// title and stay marked provisional. If the title names no county either,
// the record is skipped with ErrPlaceholderCounty.
func Assemble(page *Page) *Result {
	format := DetectFormat(page)
	parsed := format.Parse(page)

	addr := ParseAddress(page.Center)
	division := ParseDivision(page.Title)
	pageCounty := CountyFromText(page.Title)

	result := &Result{
		Format:  format.Name(),
		Events:  make([]*event.Event, 0, len(parsed.Events)),
		Skipped: parsed.Skipped,
	}

	for _, evt := range parsed.Events {
		if evt.County == "" && evt.Provisional {
			if pageCounty == "" {
				logger.Warn("Dropping hearing without county", logger.Fields{
					"docket": evt.Docket,
					"title":  page.Title,
					"url":    page.URL,
				})
				result.Skipped = append(result.Skipped, &Skipped{Docket: evt.Docket, Err: ErrPlaceholderCounty})
				continue
			}
			evt.County = pageCounty
		}

		evt.Street = addr.Street
		evt.City = addr.City
		evt.ZipCode = addr.ZipCode
		evt.Division = division
		evt.SourceURL = page.URL
		evt.ID = event.GenerateID(evt)
		result.Events = append(result.Events, evt)
	}

	return result
}

func nonBlankLines(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
