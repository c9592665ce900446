package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/codeforbtv/courtbot-vt/internal/event"
	"github.com/codeforbtv/courtbot-vt/internal/metrics"
)

const (
	CalendarRootURL = "https://www.vermontjudiciary.org/court-calendars"
	UserAgent       = "courtbot-vt/1.0 (github.com/codeforbtv/courtbot-vt)"
	Timeout         = 30 * time.Second
)

// DefaultURLPattern keeps links to individual court calendar pages.
var DefaultURLPattern = regexp.MustCompile(`^https://www\.vermontjudiciary\.org/courts/court-calendars/.+\.htm$`)

// Options configures a Scraper. Zero values fall back to the package defaults.
type Options struct {
	RootURL     string
	URLPattern  *regexp.Regexp
	UserAgent   string
	Timeout     time.Duration
	Concurrency int
	Metrics     *metrics.Metrics
	Now         func() time.Time
}

// Scraper handles fetching and parsing court calendar pages
type Scraper struct {
	client      *http.Client
	rootURL     string
	urlPattern  *regexp.Regexp
	userAgent   string
	concurrency int
	metrics     *metrics.Metrics
	now         func() time.Time
}

// New creates a new Scraper instance
func New(opts Options) *Scraper {
	s := &Scraper{
		rootURL:     opts.RootURL,
		urlPattern:  opts.URLPattern,
		userAgent:   opts.UserAgent,
		concurrency: opts.Concurrency,
		metrics:     opts.Metrics,
		now:         opts.Now,
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = Timeout
	}
	s.client = &http.Client{Timeout: timeout}

	if s.rootURL == "" {
		s.rootURL = CalendarRootURL
	}
	if s.urlPattern == nil {
		s.urlPattern = DefaultURLPattern
	}
	if s.userAgent == "" {
		s.userAgent = UserAgent
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().In(event.Location) }
	}
	return s
}

// Metrics returns the collectors the scraper records into.
func (s *Scraper) Metrics() *metrics.Metrics {
	return s.metrics
}

// Fetch downloads a page and parses it as HTML, decoding legacy charsets
// declared by the server or the document.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Url = resp.Request.URL
	return doc, nil
}

// DiscoverCalendarURLs collects the calendar page links on the landing page.
func (s *Scraper) DiscoverCalendarURLs(ctx context.Context) ([]string, error) {
	doc, err := s.Fetch(ctx, s.rootURL)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar root %s: %w", s.rootURL, err)
	}
	return FilterCalendarURLs(ExtractURLs(doc), s.urlPattern), nil
}

// ExtractURLs returns the href of every anchor in the document, resolved
// against the document URL when it is known.
func ExtractURLs(doc *goquery.Document) []string {
	urls := make([]string, 0)
	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		if doc.Url != nil {
			if ref, err := url.Parse(href); err == nil {
				href = doc.Url.ResolveReference(ref).String()
			}
		}
		urls = append(urls, href)
	})
	return urls
}

// FilterCalendarURLs keeps the URLs matching pattern, dropping duplicates
// while preserving order.
func FilterCalendarURLs(urls []string, pattern *regexp.Regexp) []string {
	seen := make(map[string]bool)
	filtered := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] || !pattern.MatchString(u) {
			continue
		}
		seen[u] = true
		filtered = append(filtered, u)
	}
	return filtered
}
