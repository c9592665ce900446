// Package filter narrows parsed hearings for display.
//
// Criteria combine with AND; values inside one criterion combine with OR:
//   - Date range (from/to, inclusive) on the hearing's calendar date
//   - Counties and divisions (case-insensitive exact match)
//   - Dockets (case-insensitive exact match)
//   - Court rooms and hearing types (case-insensitive substring match)
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Counties = []string{"lamoille"}
//	f.HearingTypes = []string{"eviction"}
//	filtered := f.Apply(events)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/codeforbtv/courtbot-vt/internal/event"
)

// Filter represents hearing filtering criteria
type Filter struct {
	// Date range filtering. Hearings without a derived date are kept.
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	Counties  []string `json:"counties,omitempty"`
	Divisions []string `json:"divisions,omitempty"`
	Dockets   []string `json:"dockets,omitempty"`

	// Substring matches
	CourtRooms   []string `json:"court_rooms,omitempty"`
	HearingTypes []string `json:"hearing_types,omitempty"`

	// Hide hearings the crawler could not attribute to a county from the docket
	ExcludeProvisional bool `json:"exclude_provisional,omitempty"`
}

// NewFilter creates a new empty filter
func NewFilter() *Filter {
	return &Filter{}
}

// IsEmpty returns true if no filters are active
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Counties) == 0 &&
		len(f.Divisions) == 0 &&
		len(f.Dockets) == 0 &&
		len(f.CourtRooms) == 0 &&
		len(f.HearingTypes) == 0 &&
		!f.ExcludeProvisional
}

// Matches checks if a hearing matches all filter criteria
func (f *Filter) Matches(evt *event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	if !evt.Date.IsZero() {
		if f.DateFrom != nil && evt.Date.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && evt.Date.After(*f.DateTo) {
			return false
		}
	}

	if f.ExcludeProvisional && evt.Provisional {
		return false
	}

	return matchesExact(f.Counties, evt.County) &&
		matchesExact(f.Divisions, evt.Division) &&
		matchesExact(f.Dockets, evt.Docket) &&
		matchesSubstring(f.CourtRooms, evt.CourtRoom) &&
		matchesSubstring(f.HearingTypes, evt.HearingType)
}

func matchesExact(wanted []string, value string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if strings.EqualFold(strings.TrimSpace(w), value) {
			return true
		}
	}
	return false
}

func matchesSubstring(wanted []string, value string) bool {
	if len(wanted) == 0 {
		return true
	}
	value = strings.ToLower(value)
	for _, w := range wanted {
		if strings.Contains(value, strings.ToLower(strings.TrimSpace(w))) {
			return true
		}
	}
	return false
}

// Apply filters a list of hearings and returns only those that match
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	if f.IsEmpty() {
		return events
	}

	filtered := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}

	return filtered
}

// String returns a human-readable description of the filter
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if len(f.Counties) > 0 {
		parts = append(parts, fmt.Sprintf("Counties: %s", strings.Join(f.Counties, ", ")))
	}
	if len(f.Divisions) > 0 {
		parts = append(parts, fmt.Sprintf("Divisions: %s", strings.Join(f.Divisions, ", ")))
	}
	if len(f.Dockets) > 0 {
		parts = append(parts, fmt.Sprintf("Dockets: %s", strings.Join(f.Dockets, ", ")))
	}
	if len(f.CourtRooms) > 0 {
		parts = append(parts, fmt.Sprintf("Court rooms: %s", strings.Join(f.CourtRooms, ", ")))
	}
	if len(f.HearingTypes) > 0 {
		parts = append(parts, fmt.Sprintf("Hearing types: %s", strings.Join(f.HearingTypes, ", ")))
	}
	if f.ExcludeProvisional {
		parts = append(parts, "Docket county only")
	}

	return strings.Join(parts, " | ")
}
