package event

import (
	"sort"
	"strings"
)

// Snapshot represents the hearings listed by one crawl
type Snapshot struct {
	Events    map[string]*Event `json:"events"`     // keyed by Event.ID
	Dockets   map[string]int    `json:"dockets"`    // DocumentID → hearing count
	UpdatedAt string            `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Events:  make(map[string]*Event),
		Dockets: make(map[string]int),
	}
}

// DiffResult contains the results of comparing a crawl against a snapshot
type DiffResult struct {
	NewEvents []*Event
	Counties  map[string][]*Event // new hearings grouped by county
}

// Diff compares current hearings against a previous snapshot and returns the
// hearings that were not listed before. An empty county filter or "all"
// matches every county.
func Diff(previous *Snapshot, current []*Event, countyFilter string) *DiffResult {
	result := &DiffResult{
		NewEvents: make([]*Event, 0),
		Counties:  make(map[string][]*Event),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	for _, evt := range current {
		if countyFilter != "" && !strings.EqualFold(countyFilter, "all") {
			if !strings.EqualFold(evt.County, countyFilter) {
				continue
			}
		}

		if _, exists := previous.Events[evt.ID]; exists {
			continue
		}
		result.NewEvents = append(result.NewEvents, evt)
		result.Counties[evt.County] = append(result.Counties[evt.County], evt)
	}

	sort.SliceStable(result.NewEvents, func(i, j int) bool {
		if result.NewEvents[i].County != result.NewEvents[j].County {
			return result.NewEvents[i].County < result.NewEvents[j].County
		}
		return result.NewEvents[i].Docket < result.NewEvents[j].Docket
	})

	for county := range result.Counties {
		group := result.Counties[county]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Docket < group[j].Docket
		})
	}

	return result
}

// CreateSnapshot creates a snapshot from a list of hearings
func CreateSnapshot(events []*Event, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt

	for _, evt := range events {
		snap.Events[evt.ID] = evt
		snap.Dockets[evt.DocumentID()]++
	}

	return snap
}

// GroupByDocument groups hearings by DocumentID, preserving the order in
// which each document was first seen and the order of hearings within it.
func GroupByDocument(events []*Event) ([]string, map[string][]*Event) {
	order := make([]string, 0)
	groups := make(map[string][]*Event)
	for _, evt := range events {
		id := evt.DocumentID()
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], evt)
	}
	return order, groups
}
