package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/codeforbtv/courtbot-vt/internal/event"
)

// EventsFileName is the per-run flat file of every parsed hearing.
const EventsFileName = "court_events.csv"

// CSVHeader is the column order of court_events.csv.
var CSVHeader = []string{
	"docket", "county", "subdivision", "court_room", "hearing_type",
	"day_of_week", "day", "month", "time", "am_pm",
	"street", "city", "zip_code", "division",
	"category", "provisional", "source_url", "id",
}

func csvRecord(e *event.Event) []string {
	return []string{
		e.Docket, e.County, e.Subdivision, e.CourtRoom, e.HearingType,
		e.DayOfWeek, e.Day, e.Month, e.Time, e.AmPm,
		e.Street, e.City, e.ZipCode, e.Division,
		e.Category, strconv.FormatBool(e.Provisional), e.SourceURL, e.ID,
	}
}

// WriteEventsCSV writes hearings as CSV with a header row.
func WriteEventsCSV(w io.Writer, events []*event.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range events {
		if err := cw.Write(csvRecord(e)); err != nil {
			return fmt.Errorf("writing %s: %w", e.Docket, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVSink writes court_events.csv into a run directory.
type CSVSink struct {
	Dir string
}

func (s *CSVSink) Name() string { return "csv" }

// Path returns the file the sink writes.
func (s *CSVSink) Path() string {
	return filepath.Join(s.Dir, EventsFileName)
}

func (s *CSVSink) Write(ctx context.Context, events []*event.Event) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}

	f, err := os.Create(s.Path())
	if err != nil {
		return fmt.Errorf("creating %s: %w", EventsFileName, err)
	}
	if err := WriteEventsCSV(f, events); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
