package parser

import (
	"errors"
	"testing"
)

const lamoilleCenter = `Court Calendar for
    Lamoille Civil Division
    PO Box 570 · Hyde Park, VT 05655
    (802) 888-3887
`

const lamoilleBlock = `Date/Time/Place                                  Case Name/Type of Proceeding/Litigants (Attorney)
--------------------------------------------------------------------------------------------------
Tuesday,   May   4                               Doe Properties, LLC vs. Roe
9:00 AM                                          73-7-20 Lecv/Civil
Lamoille Superior Courtroom #1                   Eviction Hearing
                                                 Plaintiff(s)
                                                   Doe Properties, LLC  (Jane Doe)
                                                 Defendant(s)
                                                   Richard Roe

Wednesday, May   5                               Doe Properties, LLC vs. Roe
9:00 AM                                          73-7-20 Lecv/Civil
Lamoille Superior Courtroom #1                   Eviction Hearing
                                                 Plaintiff(s)
                                                   Doe Properties, LLC  (Jane Doe)
`

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name   string
		center string
		want   Address
	}{
		{
			name: "addison",
			center: `Court Calendar for
    Addison Criminal Division
    7 Mahady Court · Middlebury, VT 05753
    (802) 388-4237
    `,
			want: Address{Street: "7 mahady court", City: "middlebury", ZipCode: "05753"},
		},
		{
			name:   "lamoille",
			center: lamoilleCenter,
			want:   Address{Street: "po box 570", City: "hyde park", ZipCode: "05655"},
		},
		{
			name:   "too few lines",
			center: "Court Calendar for\nAddison Criminal Division",
		},
		{
			name:   "no separator",
			center: "Court Calendar for\nAddison Criminal Division\n7 Mahady Court, Middlebury, VT 05753",
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAddress(tt.center); got != tt.want {
				t.Errorf("ParseAddress() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseDivision(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Court Calendar for Addison Criminal Division", "criminal"},
		{"Court Calendar for Lamoille Civil Division", "civil"},
		{"Court Calendar for Chittenden Family Division", "family"},
		{"Court Calendar for Environmental Division", "environmental"},
		{"Court Calendar for Judicial Bureau", "judicial bureau"},
		{"Probate", "probate"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := ParseDivision(tt.title); got != tt.want {
				t.Errorf("ParseDivision(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestAssemble(t *testing.T) {
	page := &Page{
		URL:    "https://www.vermontjudiciary.org/courts/court-calendars/lec_cal.htm",
		Title:  "Court Calendar for Lamoille Civil Division",
		Center: lamoilleCenter,
		Blocks: []string{lamoilleBlock},
	}

	result := Assemble(page)

	if result.Format != "preformatted" {
		t.Errorf("Format = %q, want preformatted", result.Format)
	}
	if len(result.Events) != 2 {
		t.Fatalf("Assemble() returned %d events, want 2", len(result.Events))
	}

	days := []string{"4", "5"}
	weekdays := []string{"tuesday", "wednesday"}
	for i, evt := range result.Events {
		if evt.Docket != "73-7-20" {
			t.Errorf("event %d docket = %q", i, evt.Docket)
		}
		if evt.County != "lamoille" || evt.Subdivision != "civil" || evt.Division != "civil" {
			t.Errorf("event %d county/subdivision/division = %q/%q/%q", i, evt.County, evt.Subdivision, evt.Division)
		}
		if evt.CourtRoom != "lamoille superior courtroom #1" || evt.HearingType != "eviction hearing" {
			t.Errorf("event %d court details = %q/%q", i, evt.CourtRoom, evt.HearingType)
		}
		if evt.Day != days[i] || evt.DayOfWeek != weekdays[i] || evt.Month != "may" {
			t.Errorf("event %d date = %s %s %s", i, evt.DayOfWeek, evt.Month, evt.Day)
		}
		if evt.Street != "po box 570" || evt.City != "hyde park" || evt.ZipCode != "05655" {
			t.Errorf("event %d address = %q/%q/%q", i, evt.Street, evt.City, evt.ZipCode)
		}
		if evt.SourceURL != page.URL {
			t.Errorf("event %d source url = %q", i, evt.SourceURL)
		}
		if evt.ID == "" {
			t.Errorf("event %d has no ID", i)
		}
	}
	if result.Events[0].ID == result.Events[1].ID {
		t.Error("hearings on different days should have different IDs")
	}
}

func TestAssemble_MultipleBlocks(t *testing.T) {
	page := &Page{
		Title:  "Court Calendar for Addison Criminal Division",
		Center: "Court Calendar for\nAddison Criminal Division\n7 Mahady Court · Middlebury, VT 05753",
		Blocks: []string{addisonBlock, lamoilleBlock},
	}

	result := Assemble(page)
	if len(result.Events) != 5 {
		t.Fatalf("Assemble() returned %d events, want 5", len(result.Events))
	}

	wantOrder := []string{"199-6-19", "289-8-19", "43-1-20", "73-7-20", "73-7-20"}
	for i, evt := range result.Events {
		if evt.Docket != wantOrder[i] {
			t.Errorf("event %d docket = %q, want %q", i, evt.Docket, wantOrder[i])
		}
		if evt.Street != "7 mahady court" || evt.Division != "criminal" {
			t.Errorf("event %d missing page context: %q %q", i, evt.Street, evt.Division)
		}
	}
}

func TestAssemble_ProvisionalCounty(t *testing.T) {
	block := `Monday,    Mar. 29                               State vs. Woodward, Taylor
9:00 AM                                          21-CR-01234
Superior Court Courtroom 1                       Arraignment`

	t.Run("county from title", func(t *testing.T) {
		result := Assemble(&Page{Title: "Court Calendar for Addison Criminal Division", Blocks: []string{block}})
		if len(result.Events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(result.Events))
		}
		evt := result.Events[0]
		if evt.County != "addison" || !evt.Provisional {
			t.Errorf("county = %q provisional = %v", evt.County, evt.Provisional)
		}
	})

	t.Run("no county anywhere", func(t *testing.T) {
		result := Assemble(&Page{Title: "Court Calendar for Environmental Division", Blocks: []string{block}})
		if len(result.Events) != 0 {
			t.Fatalf("expected 0 events, got %d", len(result.Events))
		}
		if len(result.Skipped) != 1 || !errors.Is(result.Skipped[0], ErrPlaceholderCounty) {
			t.Errorf("expected one ErrPlaceholderCounty skip, got %v", result.Skipped)
		}
	})
}

func TestPageFromText(t *testing.T) {
	text := lamoilleCenter + "\n" + lamoilleBlock
	page := PageFromText("Court Calendar for Lamoille Civil Division", text)

	if len(page.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(page.Blocks))
	}
	if got := ParseAddress(page.Center); got.City != "hyde park" {
		t.Errorf("address city = %q, want hyde park", got.City)
	}

	result := Assemble(page)
	if len(result.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(result.Events))
	}
}
