package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codeforbtv/courtbot-vt/internal/event"
	"github.com/codeforbtv/courtbot-vt/internal/logger"
	"github.com/codeforbtv/courtbot-vt/internal/metrics"
	"github.com/codeforbtv/courtbot-vt/internal/parser"
)

// ErrNoEvents is reported for a calendar page that parsed to zero hearings.
var ErrNoEvents = errors.New("no events found")

// PageReport describes what happened to one calendar page.
type PageReport struct {
	URL      string
	Title    string
	Format   string
	Events   int
	Skipped  int
	Duration time.Duration
	Err      error
}

// CrawlResult is the output of one crawl.
type CrawlResult struct {
	RunID  string
	Events []*event.Event
	Pages  []*PageReport
}

// Failed returns the pages that produced no hearings.
func (r *CrawlResult) Failed() []*PageReport {
	failed := make([]*PageReport, 0)
	for _, p := range r.Pages {
		if p.Err != nil {
			failed = append(failed, p)
		}
	}
	return failed
}

type pageResult struct {
	report *PageReport
	events []*event.Event
}

// Crawl discovers every calendar page and parses them all.
func (s *Scraper) Crawl(ctx context.Context) (*CrawlResult, error) {
	urls, err := s.DiscoverCalendarURLs(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Discovered calendar pages", logger.Fields{
		"root":  s.rootURL,
		"pages": len(urls),
	})
	return s.CrawlURLs(ctx, urls)
}

// CrawlURLs fetches and parses the given pages with a bounded pool of
// workers. Hearings are concatenated in the order of urls regardless of
// which page finishes first.
func (s *Scraper) CrawlURLs(ctx context.Context, urls []string) (*CrawlResult, error) {
	runID := uuid.NewString()
	now := s.now()
	results := make([]pageResult, len(urls))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.crawlPage(ctx, urls[i], now)
			}
		}()
	}

feed:
	for i := range urls {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("crawl %s interrupted: %w", runID, err)
	}

	crawl := &CrawlResult{
		RunID:  runID,
		Events: make([]*event.Event, 0),
		Pages:  make([]*PageReport, 0, len(urls)),
	}
	for _, r := range results {
		crawl.Pages = append(crawl.Pages, r.report)
		crawl.Events = append(crawl.Events, r.events...)
	}

	if len(crawl.Events) > 0 {
		s.metrics.MarkSuccess(now)
	}
	logger.Info("Crawl finished", logger.Fields{
		"run_id": runID,
		"pages":  len(urls),
		"failed": len(crawl.Failed()),
		"events": len(crawl.Events),
	})
	return crawl, nil
}

func (s *Scraper) crawlPage(ctx context.Context, pageURL string, now time.Time) pageResult {
	report := &PageReport{URL: pageURL}
	start := time.Now()

	doc, err := s.Fetch(ctx, pageURL)
	s.metrics.ObserveFetch(start)
	if err != nil {
		report.Err = err
		report.Duration = time.Since(start)
		s.metrics.PagesTotal.WithLabelValues(metrics.PageFailed).Inc()
		logger.Error("Fetching calendar page failed", logger.Fields{"url": pageURL}, err)
		return pageResult{report: report}
	}

	page := PageFromDocument(doc, pageURL)
	events := s.AssemblePage(page, now, report)
	report.Duration = time.Since(start)
	return pageResult{report: report, events: events}
}

// AssemblePage parses one page, stamps each hearing with its calendar date
// and records the outcome in report and the scraper metrics.
func (s *Scraper) AssemblePage(page *parser.Page, now time.Time, report *PageReport) []*event.Event {
	result := parser.Assemble(page)

	report.Title = page.Title
	report.Format = result.Format
	report.Events = len(result.Events)
	report.Skipped = len(result.Skipped)

	for _, skipped := range result.Skipped {
		s.metrics.SkippedTotal.WithLabelValues(skipReason(skipped.Err)).Inc()
	}

	if len(result.Events) == 0 {
		report.Err = ErrNoEvents
		s.metrics.PagesTotal.WithLabelValues(metrics.PageEmpty).Inc()
		logger.Warn("No events found on calendar page", logger.Fields{
			"url":   page.URL,
			"title": page.Title,
		})
		return nil
	}

	for _, evt := range result.Events {
		evt.Date = evt.HearingTime(now)
		s.metrics.EventsTotal.WithLabelValues(result.Format, evt.Division).Inc()
	}
	s.metrics.PagesTotal.WithLabelValues(metrics.PageOK).Inc()

	logger.Info("Parsed calendar page", logger.Fields{
		"url":     page.URL,
		"format":  result.Format,
		"events":  len(result.Events),
		"skipped": len(result.Skipped),
	})
	return result.Events
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, parser.ErrPlaceholderCounty):
		return "placeholder_county"
	case errors.Is(err, parser.ErrUnknownCounty):
		return "unknown_county"
	case errors.Is(err, parser.ErrUnknownSubdivision):
		return "unknown_subdivision"
	default:
		return "other"
	}
}
