package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeforbtv/courtbot-vt/internal/event"
	"github.com/codeforbtv/courtbot-vt/internal/logger"
	"github.com/codeforbtv/courtbot-vt/internal/metrics"
	"github.com/codeforbtv/courtbot-vt/internal/storage"
)

func newCrawlCmd(opts *options) *cobra.Command {
	var so sinkOptions
	var noSnapshot bool

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl every court calendar and write the parsed hearings",
		Long: `Discover all court calendar pages, parse their hearings and write them to
<repo>/<date>/court_events.csv, to one JSON document per docket under
<repo>/<date>/<county>_<division>/ with event_lookup.csv at the repository
root, and to the document store when one is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd, opts, so, !noSnapshot)
		},
	}

	cmd.Flags().BoolVar(&so.csv, "csv", true, "Write court_events.csv")
	cmd.Flags().BoolVar(&so.dockets, "dockets", true, "Write per-docket JSON documents and event_lookup.csv")
	cmd.Flags().BoolVar(&so.docstore, "docstore", true, "Upsert docket documents into the configured document store")
	cmd.Flags().BoolVar(&noSnapshot, "no-snapshot", false, "Do not replace the snapshot used by check")

	return cmd
}

func runCrawl(cmd *cobra.Command, opts *options, so sinkOptions, saveSnapshot bool) error {
	ctx := cmd.Context()

	cfg, err := opts.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	m := metrics.New()
	stopMetrics := startMetrics(cfg, m)
	defer stopMetrics()

	now := time.Now().In(event.Location)
	crawl, err := newScraper(cfg, m).Crawl(ctx)
	if err != nil {
		return fmt.Errorf("crawling calendars: %w", err)
	}
	if len(crawl.Events) == 0 {
		return errors.New("no hearings parsed from any calendar page")
	}

	sinks, closeSinks, err := openSinks(ctx, cfg, so, crawl.RunID, now, m)
	if err != nil {
		return err
	}
	defer closeSinks()
	sinkErr := deliver(ctx, sinks, crawl.Events)

	if saveSnapshot {
		store, err := storage.New(opts.dataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		if err := store.CreateSnapshotFromEvents(crawl.Events, "all"); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		logger.Debug("Saved snapshot", logger.Fields{"dir": store.Dir()})
	}

	result := &OutputResult{
		CheckedAt: now,
		RunID:     crawl.RunID,
		Events:    crawl.Events,
	}
	for _, page := range crawl.Failed() {
		result.Failed = append(result.Failed, page.URL)
	}

	if err := opts.present(cmd.OutOrStdout(), result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return sinkErr
}
