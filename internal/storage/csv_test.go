package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteEventsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEventsCSV(&buf, sampleEvents()); err != nil {
		t.Fatalf("WriteEventsCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header and 3 rows, got %d records", len(records))
	}
	if records[0][0] != "docket" || records[0][13] != "division" {
		t.Errorf("unexpected header: %v", records[0])
	}
	for i, rec := range records {
		if len(rec) != len(CSVHeader) {
			t.Errorf("record %d has %d fields, want %d", i, len(rec), len(CSVHeader))
		}
	}
	if records[3][1] != "grand isle" || records[3][15] != "true" {
		t.Errorf("unexpected provisional row: %v", records[3])
	}
}

func TestCSVSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "2021-05-01")
	sink := &CSVSink{Dir: dir}

	if err := sink.Write(context.Background(), sampleEvents()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, EventsFileName))
	if err != nil {
		t.Fatalf("reading %s: %v", EventsFileName, err)
	}
	if !bytes.HasPrefix(data, []byte("docket,county,subdivision,")) {
		t.Errorf("unexpected file start: %q", data[:40])
	}
}
