package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/codeforbtv/courtbot-vt/internal/calendar"
	"github.com/codeforbtv/courtbot-vt/internal/event"
	"github.com/codeforbtv/courtbot-vt/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
	FormatICS  OutputFormat = "ics"
)

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV, FormatICS:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json', 'csv' or 'ics')", s)
	}
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time                 `json:"checked_at"`
	RunID      string                    `json:"run_id,omitempty"`
	Events     []*event.Event            `json:"events"`
	EventCount int                       `json:"event_count"`
	ByCounty   map[string][]*event.Event `json:"by_county,omitempty"`
	Failed     []string                  `json:"failed_pages,omitempty"`
	OnlyNew    bool                      `json:"only_new,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		return storage.WriteEventsCSV(w, result.Events)
	case FormatICS:
		_, err := io.WriteString(w, calendar.GenerateICS(result.Events, result.CheckedAt))
		return err
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

var tableHeader = []string{"DATE", "TIME", "COUNTY", "DIVISION", "DOCKET", "HEARING", "COURT ROOM"}

func tableRow(evt *event.Event) []string {
	date := fmt.Sprintf("%s %s %s", evt.DayOfWeek, evt.Month, evt.Day)
	if !evt.Date.IsZero() {
		date = evt.Date.Format("Mon Jan 2 2006")
	}
	docket := evt.Docket
	if evt.Provisional {
		docket += "*"
	}
	return []string{
		date,
		strings.TrimSpace(evt.Time + " " + evt.AmPm),
		evt.County,
		evt.Division,
		docket,
		evt.HearingType,
		evt.CourtRoom,
	}
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	label := "hearings"
	if result.OnlyNew {
		label = "new hearings"
	}

	if result.EventCount == 0 {
		fmt.Fprintf(w, "No %s found.\n", label)
		writeFailed(w, result.Failed)
		return nil
	}

	if len(result.ByCounty) > 0 {
		counties := make([]string, 0, len(result.ByCounty))
		for county := range result.ByCounty {
			counties = append(counties, county)
		}
		sort.Strings(counties)

		for _, county := range counties {
			events := result.ByCounty[county]
			if len(events) == 0 {
				continue
			}
			fmt.Fprintf(w, "\n%s (%d %s):\n", county, len(events), label)
			writeTable(w, events, verbose)
		}
		fmt.Fprintf(w, "\nTotal: %d %s across %d counties\n", result.EventCount, label, len(result.ByCounty))
	} else {
		writeTable(w, result.Events, verbose)
		fmt.Fprintf(w, "\nTotal: %d %s\n", result.EventCount, label)
	}

	writeFailed(w, result.Failed)
	return nil
}

func writeFailed(w io.Writer, failed []string) {
	if len(failed) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d calendar pages produced no hearings:\n", len(failed))
	for _, u := range failed {
		fmt.Fprintf(w, "  %s\n", u)
	}
}

// writeTable prints hearings as columns padded to display width.
func writeTable(w io.Writer, events []*event.Event, verbose bool) {
	rows := [][]string{tableHeader}
	for _, evt := range events {
		rows = append(rows, tableRow(evt))
	}

	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > widths[i] {
				widths[i] = width
			}
		}
	}

	for r, row := range rows {
		var sb strings.Builder
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString("  ")
		}
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))

		if verbose && r > 0 {
			evt := events[r-1]
			fmt.Fprintf(w, "    ID: %s\n", evt.ID)
			if evt.Street != "" || evt.City != "" {
				fmt.Fprintf(w, "    Address: %s, %s %s\n", evt.Street, evt.City, evt.ZipCode)
			}
			if evt.SourceURL != "" {
				fmt.Fprintf(w, "    Source: %s\n", evt.SourceURL)
			}
		}
	}
}
