package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitNewHearings = 2
)

// ErrNewHearings is returned by check when hearings were added since the
// previous snapshot. Execute maps it to ExitNewHearings.
var ErrNewHearings = errors.New("new hearings found")

// options holds the flags shared by all commands.
type options struct {
	configPath string
	dataDir    string
	verbose    bool
	format     string
	sort       string

	counties           []string
	divisions          []string
	dockets            []string
	courtRooms         []string
	hearingTypes       []string
	dates              string
	excludeProvisional bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "courtbot",
		Short: "Parse Vermont Judiciary court calendars into hearing records",
		Long: `A CLI tool that crawls the Vermont Judiciary court calendar pages and
extracts one record per scheduled hearing: docket, court, date, time,
court room, hearing type and court address.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ~/.courtbot-vt/config.yaml)")
	flags.StringVar(&opts.dataDir, "data-dir", "~/.local/share/courtbot-vt", "Data directory for snapshots")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	flags.StringVar(&opts.format, "format", "text", "Output format: text, json, csv or ics")
	flags.StringVar(&opts.sort, "sort", "none", "Sort hearings by: none, date, county or docket")
	flags.StringSliceVar(&opts.counties, "county", nil, "Only hearings in these counties")
	flags.StringSliceVar(&opts.divisions, "division", nil, "Only hearings in these divisions")
	flags.StringSliceVar(&opts.dockets, "docket", nil, "Only hearings for these dockets")
	flags.StringSliceVar(&opts.courtRooms, "court-room", nil, "Only hearings whose court room contains this text")
	flags.StringSliceVar(&opts.hearingTypes, "hearing-type", nil, "Only hearings whose type contains this text")
	flags.StringVar(&opts.dates, "dates", "", "Only hearings in a date range, e.g. 'May 4-7' or '2021-05-04..2021-05-07'")
	flags.BoolVar(&opts.excludeProvisional, "exclude-provisional", false, "Hide hearings whose county was not read from the docket")

	cmd.AddCommand(
		newCrawlCmd(opts),
		newParseCmd(opts),
		newCheckCmd(opts),
		newConfigCmd(opts),
	)

	return cmd
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case errors.Is(err, ErrNewHearings):
		os.Exit(ExitNewHearings)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
