package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeforbtv/courtbot-vt/internal/event"
	"github.com/codeforbtv/courtbot-vt/internal/logger"
	"github.com/codeforbtv/courtbot-vt/internal/metrics"
	"github.com/codeforbtv/courtbot-vt/internal/storage"
)

func newCheckCmd(opts *options) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report hearings listed since the previous check",
		Long: `Crawl every court calendar and report only the hearings that were not in
the previous snapshot. Exits with status 2 when new hearings are found.

With a single --county the snapshot is kept per county.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh snapshot without showing new hearings")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *options, refresh bool) error {
	ctx := cmd.Context()

	cfg, err := opts.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	county := "all"
	if len(opts.counties) == 1 {
		county = opts.counties[0]
	}

	store, err := storage.New(opts.dataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	m := metrics.New()
	stopMetrics := startMetrics(cfg, m)
	defer stopMetrics()

	now := time.Now().In(event.Location)
	crawl, err := newScraper(cfg, m).Crawl(ctx)
	if err != nil {
		return fmt.Errorf("crawling calendars: %w", err)
	}

	var previous *event.Snapshot
	if !refresh {
		previous, err = store.LoadSnapshot(county)
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		logger.Debug("Loaded previous snapshot", logger.Fields{
			"county": county,
			"events": len(previous.Events),
		})
	}

	diff := event.Diff(previous, crawl.Events, county)

	if err := store.CreateSnapshotFromEvents(crawl.Events, county); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	if refresh {
		fmt.Fprintln(cmd.OutOrStdout(), "Snapshot refreshed successfully.")
		return nil
	}

	result := &OutputResult{
		CheckedAt: now,
		RunID:     crawl.RunID,
		Events:    diff.NewEvents,
		ByCounty:  diff.Counties,
		OnlyNew:   true,
	}
	if err := opts.present(cmd.OutOrStdout(), result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if result.EventCount > 0 {
		return ErrNewHearings
	}
	return nil
}
