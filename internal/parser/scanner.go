package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codeforbtv/courtbot-vt/internal/event"
	"github.com/codeforbtv/courtbot-vt/internal/logger"
)

// Result holds the hearings parsed from a block or page and the records that
// were dropped along the way.
type Result struct {
	Format  string
	Events  []*event.Event
	Skipped []*Skipped
}

func (r *Result) merge(other *Result) {
	r.Events = append(r.Events, other.Events...)
	r.Skipped = append(r.Skipped, other.Skipped...)
}

// Skipped is a complete hearing that could not be turned into a record,
// together with the line that completed it and the line before.
type Skipped struct {
	Docket   string
	Line     string
	Previous string
	Err      error
}

func (s *Skipped) Error() string {
	return fmt.Sprintf("docket %s: %v", s.Docket, s.Err)
}

func (s *Skipped) Unwrap() error {
	return s.Err
}

// hearingState accumulates the fields of one hearing until all of them
// have been seen.
type hearingState struct {
	date         Date
	time         string
	amPm         string
	courtRoom    string
	hearingType  string
	docket       string
	category     string
	detailsArmed bool
}

func (s *hearingState) reset() {
	*s = hearingState{}
}

func (s *hearingState) hasDate() bool {
	return s.date.DayOfWeek != "" && s.date.Day != "" && s.date.Month != ""
}

func (s *hearingState) hasTime() bool {
	return s.time != "" && s.amPm != ""
}

func (s *hearingState) complete() bool {
	return s.hasDate() && s.hasTime() && s.courtRoom != "" && s.category != "" && s.docket != ""
}

// record copies the accumulated fields into a new, unresolved Event.
func (s *hearingState) record() *event.Event {
	return &event.Event{
		Docket:      s.docket,
		Category:    s.category,
		CourtRoom:   s.courtRoom,
		HearingType: s.hearingType,
		DayOfWeek:   s.date.DayOfWeek,
		Day:         s.date.Day,
		Month:       s.date.Month,
		Time:        s.time,
		AmPm:        s.amPm,
	}
}

// emitter resolves completed hearings into the result it is building.
type emitter struct {
	result   *Result
	previous string
}

// emit turns a complete state into a record and resets the state, whether or
// not the category resolves.
func (em *emitter) emit(state *hearingState, line string) {
	rec := state.record()
	state.reset()

	county, subdivision, err := ResolveCountySubdivision(rec.Category)
	switch {
	case err == nil:
	case errors.Is(err, ErrPlaceholderCounty):
		rec.Provisional = true
	default:
		skip := &Skipped{Docket: rec.Docket, Line: line, Previous: em.previous, Err: err}
		logger.Warn("Dropping hearing with unresolved category", logger.Fields{
			"docket":        rec.Docket,
			"category":      rec.Category,
			"line":          line,
			"previous_line": em.previous,
		})
		em.result.Skipped = append(em.result.Skipped, skip)
		return
	}

	rec.County = county
	rec.Subdivision = subdivision
	em.result.Events = append(em.result.Events, rec)
}

// Scanner walks the lines of a fixed-width event block such as
//
//	Monday,    Mar. 29                               State vs. Woodward, Taylor
//	9:00 AM                                          199-6-19 Ancr/Criminal
//	Superior Court Courtroom 1                       Change of Plea Hearing
//	                                                 Plaintiff, State of Vermont
//
// A date line starts a hearing and discards any partial one. The first time
// line after it arms the scanner to read court room and hearing type from the
// next line that splits into two columns. A docket line may appear anywhere
// once the date is known. As soon as every field is present the hearing is
// emitted and the state cleared. Blank lines clear partial state.
type Scanner struct {
	state hearingState
	em    emitter
}

// NewScanner creates a Scanner with an empty result.
func NewScanner() *Scanner {
	return &Scanner{em: emitter{result: &Result{}}}
}

// Feed processes one line of the block.
func (sc *Scanner) Feed(line string) {
	line = strings.TrimSpace(line)
	defer func() { sc.em.previous = line }()

	st := &sc.state
	if line == "" {
		st.reset()
		return
	}

	if date, ok := ParseDate(line); ok {
		st.reset()
		st.date = date
	}

	if st.hasDate() {
		if !st.hasTime() {
			if clock, amPm := ParseTime(line); clock != "" {
				st.time, st.amPm = clock, amPm
				st.detailsArmed = true
			}
		} else if st.detailsArmed {
			if room, hearing := ParseCourtDetails(line); room != "" {
				st.courtRoom, st.hearingType = room, hearing
				st.detailsArmed = false
			}
		}

		if st.docket == "" {
			if docket, category := ParseDocketCategory(line); docket != "" {
				st.docket, st.category = docket, category
			}
		}
	}

	if st.complete() {
		sc.em.emit(st, line)
	}
}

// Result returns the hearings emitted so far.
func (sc *Scanner) Result() *Result {
	return sc.em.result
}

// ScanBlock parses every hearing in one event block.
func ScanBlock(text string) *Result {
	sc := NewScanner()
	for _, line := range strings.Split(text, "\n") {
		sc.Feed(line)
	}
	return sc.Result()
}
