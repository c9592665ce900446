package parser

import (
	"regexp"
	"strings"
)

var (
	casesHeardByRegex  = regexp.MustCompile(`(?i)^cases heard by\s*:?\s*(.*)$`)
	narrativeDateRegex = regexp.MustCompile(
		`(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),\s+([a-zA-Z]{3})\.?\s+([0-9]{1,2})\b`)
	narrativeTimeRegex = regexp.MustCompile(`(?i)^([0-9]{1,2}:[0-9]{2})\s?(am|pm)\b\s*(.*)$`)
)

func hasNarrativeHeaders(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if casesHeardByRegex.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

// NarrativeFormat reads pages written as prose sections, one per judge:
//
//	Cases heard by Judge Samuel Hoar
//	Tuesday, May. 4
//	9:00am Eviction Hearing
//	Doe Properties LLC vs. Roe  73-7-20 Lecv
//
// The date marker applies to every hearing after it in the section. Each
// time line opens a hearing whose type follows the time; the judge stands in
// for the court room, and the first docket in the litigant lines completes
// the hearing. Blank lines do not reset state in this layout because
// litigant paragraphs are separated by them.
type NarrativeFormat struct{}

func (NarrativeFormat) Name() string { return "narrative" }

func (NarrativeFormat) Detect(page *Page) bool {
	return hasNarrativeHeaders(page.Text)
}

func (NarrativeFormat) Parse(page *Page) *Result {
	em := emitter{result: &Result{}}
	var (
		st      hearingState
		judge   string
		section Date
	)

	for _, raw := range strings.Split(page.Text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := casesHeardByRegex.FindStringSubmatch(line); m != nil {
			judge = strings.ToLower(strings.TrimSpace(m[1]))
			section = Date{}
			st.reset()
			em.previous = line
			continue
		}

		if m := narrativeDateRegex.FindStringSubmatch(line); m != nil {
			section = Date{
				DayOfWeek: strings.ToLower(m[1]),
				Day:       m[3],
				Month:     strings.ToLower(m[2]),
			}
		}

		if m := narrativeTimeRegex.FindStringSubmatch(line); m != nil {
			st.reset()
			st.date = section
			st.time = strings.ToLower(m[1])
			st.amPm = strings.ToLower(m[2])
			st.hearingType = strings.ToLower(strings.TrimSpace(m[3]))
			st.courtRoom = judge
		} else if st.hasTime() && st.docket == "" {
			if docket, category := ParseDocketCategory(line); docket != "" {
				st.docket, st.category = docket, category
			}
		}

		if st.complete() {
			em.emit(&st, line)
		}
		em.previous = line
	}

	return em.result
}
