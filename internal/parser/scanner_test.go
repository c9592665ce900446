package parser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/codeforbtv/courtbot-vt/internal/event"
)

const addisonBlock = `
Date/Time/Place                                  Case Name/Type of Proceeding/Litigants (Attorney)
--------------------------------------------------------------------------------------------------
Monday,    Mar. 29                               State vs. Woodward, Taylor
9:00 AM                                          199-6-19 Ancr/Criminal
Superior Court Courtroom 1                       Change of Plea Hearing
                                                 Plaintiff, State of Vermont  (Peter M. Bevere)
                                                 Defendant, Taylor Woodward  (James Arthur Gratton)
Monday,    Mar. 29                               State vs. Fitzgerald, Erica
9:00 AM                                          289-8-19 Ancr/Criminal
Superior Court Courtroom 1                       Change of Plea Hearing
                                                 Plaintiff, State of Vermont  (Peter M. Bevere)
                                                 Defendant, Erica Fitzgerald  (James Arthur Gratton)
                                                 Victim's Advocate, Deb James (Victim Advocate)
Monday,    Mar. 29                               State vs. Fitzgerald, Erica
9:00 AM                                          43-1-20 Ancr/Criminal
Superior Court Courtroom 1                       Change of Plea Hearing
                                                 Plaintiff, State of Vermont  (Dennis M. Wygmans)
                                                 Defendant, Erica Fitzgerald  (James Arthur Gratton)
`

func addisonHearing(docket string) *event.Event {
	return &event.Event{
		Docket:      docket,
		County:      "addison",
		Subdivision: "criminal",
		Category:    "ancr/criminal",
		CourtRoom:   "superior court courtroom 1",
		HearingType: "change of plea hearing",
		DayOfWeek:   "monday",
		Day:         "29",
		Month:       "mar",
		Time:        "9:00",
		AmPm:        "am",
	}
}

func TestScanBlock(t *testing.T) {
	result := ScanBlock(addisonBlock)

	want := []*event.Event{
		addisonHearing("199-6-19"),
		addisonHearing("289-8-19"),
		addisonHearing("43-1-20"),
	}

	if len(result.Events) != len(want) {
		t.Fatalf("ScanBlock() returned %d events, want %d", len(result.Events), len(want))
	}
	for i := range want {
		if !reflect.DeepEqual(result.Events[i], want[i]) {
			t.Errorf("event %d = %+v, want %+v", i, result.Events[i], want[i])
		}
	}
	if len(result.Skipped) != 0 {
		t.Errorf("expected no skipped records, got %d", len(result.Skipped))
	}
}

func TestScanBlock_Idempotent(t *testing.T) {
	first := ScanBlock(addisonBlock)
	second := ScanBlock(addisonBlock)

	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same block twice produced different results")
	}
}

func TestScanBlock_EdgeCases(t *testing.T) {
	tests := []struct {
		name        string
		block       string
		wantDockets []string
		wantSkipped int
	}{
		{
			name: "missing time line",
			block: `Monday,    Mar. 29                               State vs. Woodward, Taylor
                                                 199-6-19 Ancr/Criminal
Superior Court Courtroom 1                       Change of Plea Hearing`,
		},
		{
			name: "blank line discards partial hearing",
			block: `Monday,    Mar. 29                               State vs. Woodward, Taylor
9:00 AM                                          199-6-19 Ancr/Criminal

Superior Court Courtroom 1                       Change of Plea Hearing`,
		},
		{
			name: "docket line after court room",
			block: `Tuesday,   May   4                               Estate of Michelson vs. Gilmore
9:00 AM
Lamoille Superior Courtroom #1                   Eviction Hearing
                                                 73-7-20 Lecv/Civil`,
			wantDockets: []string{"73-7-20"},
		},
		{
			name: "unknown category is skipped and scanning continues",
			block: `Monday,    Mar. 29                               State vs. Woodward, Taylor
9:00 AM                                          199-6-19 Qqcr/Criminal
Superior Court Courtroom 1                       Change of Plea Hearing
Monday,    Mar. 29                               State vs. Fitzgerald, Erica
9:00 AM                                          289-8-19 Ancr/Criminal
Superior Court Courtroom 1                       Change of Plea Hearing`,
			wantDockets: []string{"289-8-19"},
			wantSkipped: 1,
		},
		{
			name: "new scheme docket is provisional",
			block: `Monday,    Mar. 29                               State vs. Woodward, Taylor
9:00 AM                                          21-CR-01234
Superior Court Courtroom 1                       Arraignment`,
			wantDockets: []string{"21-cr-01234"},
		},
		{
			name: "hearing without docket does not absorb the next one",
			block: `Monday,    Mar. 29                               State vs. Woodward, Taylor
9:00 AM
Superior Court Courtroom 1                       Change of Plea Hearing
Tuesday,   Mar. 30                               State vs. Fitzgerald, Erica
1:30 PM                                          289-8-19 Ancr/Criminal
Superior Court Courtroom 2                       Jury Draw`,
			wantDockets: []string{"289-8-19"},
		},
		{
			name:  "empty block",
			block: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScanBlock(tt.block)

			var dockets []string
			for _, evt := range result.Events {
				dockets = append(dockets, evt.Docket)
			}
			if !reflect.DeepEqual(dockets, tt.wantDockets) {
				t.Errorf("dockets = %v, want %v", dockets, tt.wantDockets)
			}
			if len(result.Skipped) != tt.wantSkipped {
				t.Errorf("skipped = %d, want %d", len(result.Skipped), tt.wantSkipped)
			}
		})
	}
}

func TestScanBlock_SkippedContext(t *testing.T) {
	block := `Monday,    Mar. 29                               State vs. Woodward, Taylor
9:00 AM                                          199-6-19 Qqcr/Criminal
Superior Court Courtroom 1                       Change of Plea Hearing`

	result := ScanBlock(block)
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skipped record, got %d", len(result.Skipped))
	}

	skip := result.Skipped[0]
	if skip.Line != "Superior Court Courtroom 1                       Change of Plea Hearing" {
		t.Errorf("Line = %q", skip.Line)
	}
	if skip.Previous != "9:00 AM                                          199-6-19 Qqcr/Criminal" {
		t.Errorf("Previous = %q", skip.Previous)
	}
	if !errors.Is(skip, ErrUnknownCounty) {
		t.Errorf("expected ErrUnknownCounty, got %v", skip.Err)
	}
}

func TestScanBlock_Provisional(t *testing.T) {
	block := `Monday,    Mar. 29                               State vs. Woodward, Taylor
9:00 AM                                          21-CR-01234
Superior Court Courtroom 1                       Arraignment`

	result := ScanBlock(block)
	if len(result.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(result.Events))
	}
	evt := result.Events[0]
	if !evt.Provisional {
		t.Error("expected new scheme docket to be provisional")
	}
	if evt.County != "" {
		t.Errorf("County = %q, want empty before page assembly", evt.County)
	}
	if evt.Subdivision != "criminal" {
		t.Errorf("Subdivision = %q, want criminal", evt.Subdivision)
	}
}

func TestHearingState_EmitThenReset(t *testing.T) {
	st := hearingState{
		date:        Date{DayOfWeek: "monday", Day: "29", Month: "mar"},
		time:        "9:00",
		amPm:        "am",
		courtRoom:   "courtroom 1",
		hearingType: "arraignment",
		docket:      "199-6-19",
	}
	if st.complete() {
		t.Fatal("state without category should not be complete")
	}

	st.category = "ancr/criminal"
	if !st.complete() {
		t.Fatal("expected state to be complete")
	}

	em := emitter{result: &Result{}}
	em.emit(&st, "line")

	if st != (hearingState{}) {
		t.Errorf("state not reset after emit: %+v", st)
	}
	if len(em.result.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(em.result.Events))
	}

	// an emptied state is never complete, so nothing is emitted twice
	if st.complete() {
		t.Error("reset state should not be complete")
	}
}

func TestHearingState_ResetOnFailedResolve(t *testing.T) {
	st := hearingState{
		date:      Date{DayOfWeek: "monday", Day: "29", Month: "mar"},
		time:      "9:00",
		amPm:      "am",
		courtRoom: "courtroom 1",
		docket:    "199-6-19",
		category:  "zzzz",
	}

	em := emitter{result: &Result{}}
	em.emit(&st, "line")

	if st != (hearingState{}) {
		t.Errorf("state not reset after failed emit: %+v", st)
	}
	if len(em.result.Events) != 0 || len(em.result.Skipped) != 1 {
		t.Errorf("expected 0 events and 1 skipped, got %d and %d", len(em.result.Events), len(em.result.Skipped))
	}
}

func TestScanner_DateLineStartsNewHearing(t *testing.T) {
	sc := NewScanner()
	for _, line := range []string{
		"Monday,    Mar. 29                               State vs. Woodward, Taylor",
		"9:00 AM",
		"Superior Court Courtroom 1                       Change of Plea Hearing",
		"Tuesday,   Mar. 30                               State vs. Fitzgerald, Erica",
		"1:30 PM                                          289-8-19 Ancr/Criminal",
		"Superior Court Courtroom 2                       Jury Draw",
	} {
		sc.Feed(line)
	}

	events := sc.Result().Events
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	got := events[0]
	if got.DayOfWeek != "tuesday" || got.Day != "30" {
		t.Errorf("date = %s %s, want tuesday 30", got.DayOfWeek, got.Day)
	}
	if got.Time != "1:30" || got.AmPm != "pm" {
		t.Errorf("time = %s%s, want 1:30pm", got.Time, got.AmPm)
	}
	if got.CourtRoom != "superior court courtroom 2" {
		t.Errorf("CourtRoom = %q, want %q", got.CourtRoom, "superior court courtroom 2")
	}
	if got.HearingType != "jury draw" {
		t.Errorf("HearingType = %q, want %q", got.HearingType, "jury draw")
	}
}
