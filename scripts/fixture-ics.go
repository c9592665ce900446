//go:build ignore

// fixture-ics parses a saved court calendar page and writes its hearings as
// an iCalendar file, for checking the feed in a calendar client.
//
//	go run scripts/fixture-ics.go testdata/fixtures/lamoille_civil.htm
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/codeforbtv/courtbot-vt/internal/calendar"
	"github.com/codeforbtv/courtbot-vt/internal/event"
	"github.com/codeforbtv/courtbot-vt/internal/scraper"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: fixture-ics PAGE.htm")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening page: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	page, err := scraper.ParsePage(f, os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing page: %v\n", err)
		os.Exit(1)
	}

	now := time.Now().In(event.Location)
	report := &scraper.PageReport{URL: os.Args[1]}
	events := scraper.New(scraper.Options{}).AssemblePage(page, now, report)
	if report.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", report.Err)
		os.Exit(1)
	}

	filename := "fixture-hearings.ics"
	if err := os.WriteFile(filename, []byte(calendar.GenerateICS(events, now)), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d hearings to %s\n", len(events), filename)
}
