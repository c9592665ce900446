package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/codeforbtv/courtbot-vt/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone     SortOrder = "none"
	SortByDate   SortOrder = "date"
	SortByCounty SortOrder = "county"
	SortByDocket SortOrder = "docket"
)

// ParseSortOrder validates a --sort value.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "", SortNone:
		return SortNone, nil
	case SortByDate, SortByCounty, SortByDocket:
		return o, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'none', 'date', 'county' or 'docket')", s)
	}
}

// sortEvents sorts hearings in place. SortNone keeps calendar page order.
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByCounty:
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].County != events[j].County {
				return events[i].County < events[j].County
			}
			if events[i].Division != events[j].Division {
				return events[i].Division < events[j].Division
			}
			return compareByDate(events[i], events[j])
		})
	case SortByDocket:
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].Docket != events[j].Docket {
				return events[i].Docket < events[j].Docket
			}
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate reports whether hearing i comes before hearing j.
// Undated hearings sort after dated ones.
func compareByDate(i, j *event.Event) bool {
	if !i.Date.IsZero() && !j.Date.IsZero() {
		return i.Date.Before(j.Date)
	}
	if !i.Date.IsZero() {
		return true
	}
	if !j.Date.IsZero() {
		return false
	}
	if i.County != j.County {
		return i.County < j.County
	}
	return i.Docket < j.Docket
}
