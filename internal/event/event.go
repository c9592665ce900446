package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// Event is a single hearing extracted from a court calendar page
type Event struct {
	ID          string    `json:"id"`
	Docket      string    `json:"docket"`
	County      string    `json:"county"`
	Subdivision string    `json:"subdivision"`
	CourtRoom   string    `json:"court_room"`
	HearingType string    `json:"hearing_type"`
	DayOfWeek   string    `json:"day_of_week"`
	Day         string    `json:"day"`
	Month       string    `json:"month"`
	Time        string    `json:"time"`
	AmPm        string    `json:"am_pm"`
	Street      string    `json:"street"`
	City        string    `json:"city"`
	ZipCode     string    `json:"zip_code"`
	Division    string    `json:"division"`
	Category    string    `json:"category,omitempty"`
	Provisional bool      `json:"provisional,omitempty"` // county not read from the docket category
	SourceURL   string    `json:"source_url,omitempty"`
	Date        time.Time `json:"date,omitzero"`
}

// DocumentID is the composite county_division_docket key shared by all
// hearings of one docket in one court.
func (e *Event) DocumentID() string {
	return strings.ReplaceAll(fmt.Sprintf("%s_%s_%s", e.County, e.Division, e.Docket), " ", "_")
}

// GenerateID creates a deterministic ID for a single hearing
func GenerateID(e *Event) string {
	h := sha1.New()
	h.Write([]byte(strings.Join([]string{
		e.DocumentID(), e.Month, e.Day, e.Time, e.AmPm, e.CourtRoom,
	}, "|")))
	return fmt.Sprintf("%x", h.Sum(nil))
}
