package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/codeforbtv/courtbot-vt/internal/event"
	"github.com/codeforbtv/courtbot-vt/internal/logger"
)

// LookupFileName maps each docket to the raw link of its JSON document.
const LookupFileName = "event_lookup.csv"

// segmentReplacer keeps county and division text to a single path element.
var segmentReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_")

// LookupRow is one line of event_lookup.csv.
type LookupRow struct {
	Docket   string
	County   string
	Division string
	Link     string
}

// DocketSink writes one JSON document per docket under
// <RunDir>/<county>_<division>/<docket>.json and rewrites the lookup table
// at the repository root.
type DocketSink struct {
	RepoPath string // local checkout of the calendar repository
	RunDir   string // directory for this run, inside RepoPath
	LinkStub string
	Org      string
	Repo     string
	Branch   string

	rows []LookupRow
}

func (s *DocketSink) Name() string { return "dockets" }

// Rows returns the lookup rows produced by the last Write.
func (s *DocketSink) Rows() []LookupRow {
	return s.rows
}

// Link builds the raw link for a file inside the repository.
func (s *DocketSink) Link(file string) (string, error) {
	rel, err := filepath.Rel(s.RepoPath, file)
	if err != nil {
		return "", fmt.Errorf("locating %s in repository: %w", file, err)
	}
	return strings.TrimRight(s.LinkStub, "/") + "/" +
		path.Join(s.Org, s.Repo, s.Branch, filepath.ToSlash(rel)), nil
}

func (s *DocketSink) Write(ctx context.Context, events []*event.Event) error {
	keys, groups := event.GroupByDocument(events)
	s.rows = make([]LookupRow, 0, len(keys))

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		group := groups[key]
		first := group[0]
		court := segmentReplacer.Replace(first.County + "_" + first.Division)
		courtDir := filepath.Join(s.RunDir, court)
		if err := os.MkdirAll(courtDir, 0755); err != nil {
			return fmt.Errorf("creating court directory: %w", err)
		}

		data, err := json.MarshalIndent(group, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		file := filepath.Join(courtDir, first.Docket+".json")
		if err := os.WriteFile(file, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", key, err)
		}

		link, err := s.Link(file)
		if err != nil {
			return err
		}
		logger.Debug("Wrote docket document", logger.Fields{
			"document": key,
			"hearings": len(group),
		})
		s.rows = append(s.rows, LookupRow{
			Docket:   first.Docket,
			County:   first.County,
			Division: first.Division,
			Link:     link,
		})
	}

	return s.writeLookup()
}

func (s *DocketSink) writeLookup() error {
	f, err := os.Create(filepath.Join(s.RepoPath, LookupFileName))
	if err != nil {
		return fmt.Errorf("creating %s: %w", LookupFileName, err)
	}

	cw := csv.NewWriter(f)
	records := [][]string{{"docket", "county", "division", "link"}}
	for _, row := range s.rows {
		records = append(records, []string{row.Docket, row.County, row.Division, row.Link})
	}
	if err := cw.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", LookupFileName, err)
	}
	return f.Close()
}
