package scraper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/codeforbtv/courtbot-vt/internal/logger"
	"github.com/codeforbtv/courtbot-vt/internal/metrics"
	"github.com/codeforbtv/courtbot-vt/internal/parser"
)

func TestMain(m *testing.M) {
	logger.SetDefault(logger.New(logger.LevelError, io.Discard))
	os.Exit(m.Run())
}

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(path, fixture, contentType string) {
		body := loadFixture(t, fixture)
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			_, _ = io.WriteString(w, body)
		})
	}
	serve("/court-calendars", "calendar_root.htm", "text/html; charset=utf-8")
	serve("/courts/court-calendars/lamoille_civil.htm", "lamoille_civil.htm", "text/html")
	serve("/courts/court-calendars/washington_criminal.htm", "washington_criminal.htm", "text/html; charset=utf-8")

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testScraper(srv *httptest.Server, concurrency int) *Scraper {
	return New(Options{
		RootURL:     srv.URL + "/court-calendars",
		URLPattern:  regexp.MustCompile("^" + regexp.QuoteMeta(srv.URL) + `/courts/court-calendars/.+\.htm$`),
		Concurrency: concurrency,
		Metrics:     metrics.New(),
		Now: func() time.Time {
			return time.Date(2021, time.April, 20, 12, 0, 0, 0, time.UTC)
		},
	})
}

func TestParsePage_Preformatted(t *testing.T) {
	page, err := ParsePage(strings.NewReader(loadFixture(t, "lamoille_civil.htm")), "https://example.com/lec.htm")
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}

	if page.Title != "Court Calendar for Lamoille Civil Division" {
		t.Errorf("Title = %q", page.Title)
	}
	if len(page.Blocks) != 2 {
		t.Fatalf("expected 2 pre blocks, got %d", len(page.Blocks))
	}
	if !strings.HasPrefix(page.Blocks[0], "Date/Time/Place") {
		t.Errorf("block should start at its header line, got %q", page.Blocks[0][:20])
	}

	lines := make([]string, 0)
	for _, line := range strings.Split(page.Center, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 3 {
		t.Fatalf("center should keep its line breaks, got %q", page.Center)
	}
	if !strings.Contains(lines[2], "·") {
		t.Errorf("third center line should hold the address, got %q", lines[2])
	}
}

func TestParsePage_DecodesDeclaredCharset(t *testing.T) {
	// Raw windows-1252 bytes: 0xB7 is the middle dot separating the address.
	raw := "<html><head><meta http-equiv=\"Content-Type\" content=\"text/html; charset=windows-1252\">" +
		"<title>Court Calendar for Lamoille Civil Division</title></head><body>" +
		"<center>Court Calendar for<br>Lamoille Civil Division<br>PO Box 570 \xb7 Hyde Park, VT 05655<br></center>" +
		"</body></html>"

	page, err := ParsePage(strings.NewReader(raw), "")
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}

	want := parser.Address{Street: "po box 570", City: "hyde park", ZipCode: "05655"}
	if got := parser.ParseAddress(page.Center); got != want {
		t.Errorf("ParseAddress(%q) = %+v, want %+v", page.Center, got, want)
	}
}

func TestParsePage_NormalizesNonBreakingSpaces(t *testing.T) {
	page, err := ParsePage(strings.NewReader(loadFixture(t, "washington_criminal.htm")), "")
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}
	if strings.ContainsRune(page.Text, '\u00a0') {
		t.Error("page text still contains non-breaking spaces")
	}
	if !strings.Contains(page.Text, "John Doe  21-CR-01234") {
		t.Errorf("expected normalized litigant line in text, got %q", page.Text)
	}
	if !strings.Contains(page.Text, "\nCases heard by Judge Samuel Hoar\n") {
		t.Errorf("headings should sit on their own line, got %q", page.Text)
	}
}

func TestExtractURLs(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(loadFixture(t, "calendar_root.htm")))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}

	urls := FilterCalendarURLs(ExtractURLs(doc), regexp.MustCompile(`^/courts/court-calendars/.+\.htm$`))
	want := []string{
		"/courts/court-calendars/lamoille_civil.htm",
		"/courts/court-calendars/washington_criminal.htm",
		"/courts/court-calendars/missing.htm",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls %v, want %v", len(urls), urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestDefaultURLPattern(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.vermontjudiciary.org/courts/court-calendars/lec_cal.htm", true},
		{"https://www.vermontjudiciary.org/courts/court-calendars/", false},
		{"https://www.vermontjudiciary.org/about", false},
		{"http://www.vermontjudiciary.org/courts/court-calendars/lec_cal.htm", false},
	}
	for _, tt := range tests {
		if got := DefaultURLPattern.MatchString(tt.url); got != tt.want {
			t.Errorf("DefaultURLPattern.MatchString(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestFetch_StatusError(t *testing.T) {
	srv := fixtureServer(t)
	s := testScraper(srv, 1)

	if _, err := s.Fetch(context.Background(), srv.URL+"/nope"); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestCrawl(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		srv := fixtureServer(t)
		s := testScraper(srv, concurrency)

		crawl, err := s.Crawl(context.Background())
		if err != nil {
			t.Fatalf("Crawl failed: %v", err)
		}
		if crawl.RunID == "" {
			t.Error("RunID should be set")
		}

		if len(crawl.Pages) != 3 {
			t.Fatalf("expected 3 page reports, got %d", len(crawl.Pages))
		}
		failed := crawl.Failed()
		if len(failed) != 1 || !strings.HasSuffix(failed[0].URL, "missing.htm") {
			t.Errorf("expected only missing.htm to fail, got %v", failed)
		}

		if len(crawl.Events) != 4 {
			t.Fatalf("concurrency %d: expected 4 events, got %d", concurrency, len(crawl.Events))
		}
		wantDockets := []string{"73-7-20", "73-7-20", "21-cr-01234", "199-6-19"}
		for i, want := range wantDockets {
			if crawl.Events[i].Docket != want {
				t.Errorf("concurrency %d: event %d docket = %q, want %q", concurrency, i, crawl.Events[i].Docket, want)
			}
		}

		first := crawl.Events[0]
		if first.County != "lamoille" || first.Division != "civil" || first.City != "hyde park" {
			t.Errorf("unexpected first event: %+v", first)
		}
		if !strings.HasSuffix(first.SourceURL, "lamoille_civil.htm") {
			t.Errorf("SourceURL = %q", first.SourceURL)
		}
		if first.Date.Year() != 2021 || first.Date.Month() != time.May || first.Date.Day() != 4 {
			t.Errorf("Date = %v, want 2021-05-04", first.Date)
		}

		m := s.Metrics()
		if got := testutil.ToFloat64(m.PagesTotal.WithLabelValues(metrics.PageOK)); got != 2 {
			t.Errorf("ok pages = %v, want 2", got)
		}
		if got := testutil.ToFloat64(m.PagesTotal.WithLabelValues(metrics.PageFailed)); got != 1 {
			t.Errorf("failed pages = %v, want 1", got)
		}
		if got := testutil.ToFloat64(m.EventsTotal.WithLabelValues("narrative", "criminal")); got != 2 {
			t.Errorf("narrative criminal events = %v, want 2", got)
		}
	}
}

func TestAssemblePage_NoEvents(t *testing.T) {
	s := New(Options{Metrics: metrics.New()})
	page, err := ParsePage(strings.NewReader("<html><title>Court Calendar for Addison Criminal Division</title><body><pre>nothing</pre></body></html>"), "u")
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}

	report := &PageReport{URL: "u"}
	events := s.AssemblePage(page, time.Now(), report)
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
	if !errors.Is(report.Err, ErrNoEvents) {
		t.Errorf("report.Err = %v, want ErrNoEvents", report.Err)
	}
	if got := testutil.ToFloat64(s.Metrics().PagesTotal.WithLabelValues(metrics.PageEmpty)); got != 1 {
		t.Errorf("empty pages = %v, want 1", got)
	}
}

func TestCrawlURLs_Cancelled(t *testing.T) {
	srv := fixtureServer(t)
	s := testScraper(srv, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.CrawlURLs(ctx, []string{srv.URL + "/courts/court-calendars/lamoille_civil.htm"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
