package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/codeforbtv/courtbot-vt/internal/config"
	"github.com/codeforbtv/courtbot-vt/internal/docstore"
	"github.com/codeforbtv/courtbot-vt/internal/event"
	"github.com/codeforbtv/courtbot-vt/internal/filter"
	"github.com/codeforbtv/courtbot-vt/internal/logger"
	"github.com/codeforbtv/courtbot-vt/internal/metrics"
	"github.com/codeforbtv/courtbot-vt/internal/scraper"
	"github.com/codeforbtv/courtbot-vt/internal/storage"
)

// loadConfig reads --config, or the default file when it exists, or falls
// back to built-in defaults. It also configures the default logger.
func (o *options) loadConfig(stderr io.Writer) (*config.Config, error) {
	path := o.configPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath()
	}

	var cfg *config.Config
	if _, err := os.Stat(path); err == nil || explicit {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	} else {
		cfg = config.Default()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("default config: %w", err)
		}
	}

	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, stderr))
	logger.Debug("Loaded configuration", logger.Fields{"config": cfg.String()})

	return cfg, nil
}

// buildFilter turns the filter flags into a filter.Filter.
func (o *options) buildFilter() (*filter.Filter, error) {
	f := filter.NewFilter()
	f.Counties = o.counties
	f.Divisions = o.divisions
	f.Dockets = o.dockets
	f.CourtRooms = o.courtRooms
	f.HearingTypes = o.hearingTypes
	f.ExcludeProvisional = o.excludeProvisional

	if o.dates != "" {
		from, to, err := filter.ParseDateRange(o.dates)
		if err != nil {
			return nil, fmt.Errorf("parsing --dates: %w", err)
		}
		f.DateFrom, f.DateTo = from, to
	}
	return f, nil
}

// present filters and sorts hearings and writes them in the chosen format.
func (o *options) present(w io.Writer, result *OutputResult) error {
	format, err := ParseOutputFormat(o.format)
	if err != nil {
		return err
	}
	order, err := ParseSortOrder(o.sort)
	if err != nil {
		return err
	}
	f, err := o.buildFilter()
	if err != nil {
		return err
	}

	if !f.IsEmpty() {
		logger.Debug("Applying filter", logger.Fields{"filter": f.String()})
		result.Events = f.Apply(result.Events)
		if result.ByCounty != nil {
			result.ByCounty = groupByCounty(result.Events)
		}
	}
	sortEvents(result.Events, order)
	for _, group := range result.ByCounty {
		sortEvents(group, order)
	}
	result.EventCount = len(result.Events)

	return WriteOutput(w, result, format, o.verbose)
}

func groupByCounty(events []*event.Event) map[string][]*event.Event {
	groups := make(map[string][]*event.Event)
	for _, evt := range events {
		groups[evt.County] = append(groups[evt.County], evt)
	}
	return groups
}

func newScraper(cfg *config.Config, m *metrics.Metrics) *scraper.Scraper {
	return scraper.New(scraper.Options{
		RootURL:     cfg.CalendarRootURL,
		URLPattern:  cfg.URLPattern(),
		UserAgent:   cfg.Crawl.UserAgent,
		Timeout:     cfg.Crawl.Timeout,
		Concurrency: cfg.Crawl.Concurrency,
		Metrics:     m,
	})
}

// startMetrics serves the registry when metrics.addr is set. The returned
// function stops the server.
func startMetrics(cfg *config.Config, m *metrics.Metrics) func() {
	if cfg.Metrics.Addr == "" {
		return func() {}
	}
	srv := m.Serve(cfg.Metrics.Addr, func(err error) {
		logger.Error("Metrics server failed", logger.Fields{"addr": cfg.Metrics.Addr}, err)
	})
	logger.Info("Serving metrics", logger.Fields{"addr": cfg.Metrics.Addr})
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// sinkOptions selects which outputs a crawl writes.
type sinkOptions struct {
	csv      bool
	dockets  bool
	docstore bool
}

// openSinks builds the enabled sinks for a run. The returned closer releases
// the document store connection.
func openSinks(ctx context.Context, cfg *config.Config, so sinkOptions, runID string, now time.Time, m *metrics.Metrics) ([]storage.Sink, func(), error) {
	sinks := make([]storage.Sink, 0, 3)
	closer := func() {}
	runDir := cfg.RunDir(now)

	if so.csv {
		sinks = append(sinks, &storage.CSVSink{Dir: runDir})
	}
	if so.dockets {
		sinks = append(sinks, &storage.DocketSink{
			RepoPath: cfg.LocalCalendarRepoPath,
			RunDir:   runDir,
			LinkStub: cfg.GithubLinkStub,
			Org:      cfg.GithubOrganization,
			Repo:     cfg.CalendarRepo,
			Branch:   cfg.GithubBranch,
		})
	}
	if so.docstore && cfg.Docstore.Driver != "" {
		store, err := docstore.Open(ctx, cfg.Docstore.Driver, cfg.Docstore.DSN, cfg.Docstore.Table)
		if err != nil {
			return nil, closer, fmt.Errorf("opening docstore: %w", err)
		}
		store.WithMetrics(m).RunID = runID
		sinks = append(sinks, store)
		closer = func() { store.Close() }
	}
	return sinks, closer, nil
}

// deliver writes events to every sink. A failing sink is logged and does not
// stop the others.
func deliver(ctx context.Context, sinks []storage.Sink, events []*event.Event) error {
	var errs []error
	for _, sink := range sinks {
		if err := sink.Write(ctx, events); err != nil {
			logger.Error("Writing hearings failed", logger.Fields{"sink": sink.Name()}, err)
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		logger.Info("Wrote hearings", logger.Fields{"sink": sink.Name(), "events": len(events)})
	}
	return errors.Join(errs...)
}
