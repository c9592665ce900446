package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeforbtv/courtbot-vt/internal/event"
	"github.com/codeforbtv/courtbot-vt/internal/logger"
	"github.com/codeforbtv/courtbot-vt/internal/metrics"
	"github.com/codeforbtv/courtbot-vt/internal/parser"
	"github.com/codeforbtv/courtbot-vt/internal/scraper"
)

func newParseCmd(opts *options) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse saved court calendar pages",
		Long: `Parse court calendar pages saved as HTML or plain text and print their
hearings. Plain text files take their title from --title, or from their first
two non-blank lines ("Court Calendar for" and the court name).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, opts, title, args)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Page title for plain text files, e.g. 'Court Calendar for Lamoille Civil Division'")

	return cmd
}

func runParse(cmd *cobra.Command, opts *options, title string, files []string) error {
	if _, err := opts.loadConfig(cmd.ErrOrStderr()); err != nil {
		return err
	}

	now := time.Now().In(event.Location)
	sc := scraper.New(scraper.Options{Metrics: metrics.New()})
	result := &OutputResult{CheckedAt: now, Events: make([]*event.Event, 0)}

	read := 0
	for _, file := range files {
		page, err := loadPage(file, title)
		if err != nil {
			logger.Error("Reading calendar page failed", logger.Fields{"file": file}, err)
			result.Failed = append(result.Failed, file)
			continue
		}
		read++

		report := &scraper.PageReport{URL: file}
		events := sc.AssemblePage(page, now, report)
		if report.Err != nil {
			result.Failed = append(result.Failed, file)
		}
		result.Events = append(result.Events, events...)
	}

	if read == 0 {
		return fmt.Errorf("none of the %d files could be read", len(files))
	}

	return opts.present(cmd.OutOrStdout(), result)
}

// loadPage reads a saved calendar page. HTML is recognized by extension or
// by a leading '<'.
func loadPage(file, title string) (*parser.Page, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file))
	if ext == ".htm" || ext == ".html" || bytes.HasPrefix(bytes.TrimSpace(data), []byte("<")) {
		page, err := scraper.ParsePage(bytes.NewReader(data), file)
		if err != nil {
			return nil, err
		}
		if title != "" {
			page.Title = title
		}
		return page, nil
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if title == "" {
		title = titleFromText(text)
	}
	page := parser.PageFromText(title, text)
	page.URL = file
	return page, nil
}

func titleFromText(text string) string {
	lines := make([]string, 0, 2)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
			if len(lines) == 2 {
				break
			}
		}
	}
	return strings.Join(lines, " ")
}
