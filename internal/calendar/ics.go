// Package calendar renders hearings as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/codeforbtv/courtbot-vt/internal/event"
)

// HearingDuration is the block reserved for each hearing; calendars only
// publish start times.
const HearingDuration = time.Hour

const prodID = "-//Code for BTV//courtbot-vt//EN"

// GenerateICS builds one VCALENDAR holding a VEVENT per dated hearing.
// Hearings without a derived date are left out.
func GenerateICS(events []*event.Event, now time.Time) string {
	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")

	for _, evt := range events {
		if evt.Date.IsZero() {
			continue
		}
		writeEvent(&ics, evt, now)
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func writeEvent(ics *strings.Builder, evt *event.Event, now time.Time) {
	id := evt.ID
	if id == "" {
		id = event.GenerateID(evt)
	}

	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, fmt.Sprintf("UID:%s@courtbot-vt", id))
	writeLine(ics, "DTSTAMP:"+formatICSTime(now))
	writeLine(ics, "DTSTART:"+formatICSTime(evt.Date))
	writeLine(ics, "DTEND:"+formatICSTime(evt.Date.Add(HearingDuration)))
	writeLine(ics, "SUMMARY:"+escapeICS(summary(evt)))
	writeLine(ics, "DESCRIPTION:"+escapeICS(description(evt)))
	if loc := location(evt); loc != "" {
		writeLine(ics, "LOCATION:"+escapeICS(loc))
	}
	if evt.SourceURL != "" {
		writeLine(ics, "URL:"+evt.SourceURL)
	}
	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:OPAQUE")
	writeLine(ics, "END:VEVENT")
}

func summary(evt *event.Event) string {
	if evt.HearingType == "" {
		return fmt.Sprintf("Court hearing %s", evt.Docket)
	}
	return fmt.Sprintf("%s - %s", titleWords(evt.HearingType), evt.Docket)
}

func description(evt *event.Event) string {
	lines := []string{
		fmt.Sprintf("Docket: %s", evt.Docket),
		fmt.Sprintf("Court: %s %s division", titleWords(evt.County), evt.Division),
	}
	if evt.CourtRoom != "" {
		lines = append(lines, fmt.Sprintf("Court room: %s", evt.CourtRoom))
	}
	if evt.Provisional {
		lines = append(lines, "County taken from the court calendar, not the docket")
	}
	return strings.Join(lines, "\n")
}

func location(evt *event.Event) string {
	parts := make([]string, 0, 3)
	if evt.Street != "" {
		parts = append(parts, titleWords(evt.Street))
	}
	if evt.City != "" {
		parts = append(parts, titleWords(evt.City))
	}
	if len(parts) == 0 {
		return ""
	}
	loc := strings.Join(parts, ", ") + ", VT"
	if evt.ZipCode != "" {
		loc += " " + evt.ZipCode
	}
	return loc
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// writeLine writes a content line, folding it at 75 octets as RFC 5545
// requires. Folds never split a UTF-8 sequence.
func writeLine(ics *strings.Builder, line string) {
	limit := 75
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		limit = 74
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
