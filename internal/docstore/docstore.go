// Package docstore upserts one JSON document per docket into a SQL table,
// keyed by county_division_docket. SQLite and MySQL are supported.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/codeforbtv/courtbot-vt/internal/event"
	"github.com/codeforbtv/courtbot-vt/internal/logger"
	"github.com/codeforbtv/courtbot-vt/internal/metrics"
)

const DefaultTable = "court_events"

var (
	ErrUnsupportedDriver = errors.New("unsupported docstore driver")
	ErrInvalidTable      = errors.New("invalid docstore table name")
	ErrNotFound          = errors.New("document not found")
)

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type dialect struct {
	create string
	upsert string
}

var dialects = map[string]dialect{
	"sqlite3": {
		create: `CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	county TEXT NOT NULL,
	division TEXT NOT NULL,
	docket TEXT NOT NULL,
	body TEXT NOT NULL,
	hearings INTEGER NOT NULL,
	run_id TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`,
		upsert: `INSERT INTO %s (id, county, division, docket, body, hearings, run_id, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	county = excluded.county,
	division = excluded.division,
	docket = excluded.docket,
	body = excluded.body,
	hearings = excluded.hearings,
	run_id = excluded.run_id,
	updated_at = excluded.updated_at`,
	},
	"mysql": {
		create: `CREATE TABLE IF NOT EXISTS %s (
	id VARCHAR(191) NOT NULL PRIMARY KEY,
	county VARCHAR(64) NOT NULL,
	division VARCHAR(64) NOT NULL,
	docket VARCHAR(64) NOT NULL,
	body LONGTEXT NOT NULL,
	hearings INT NOT NULL,
	run_id CHAR(36) NOT NULL,
	updated_at DATETIME NOT NULL
) DEFAULT CHARSET=utf8mb4`,
		upsert: `INSERT INTO %s (id, county, division, docket, body, hearings, run_id, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
	county = VALUES(county),
	division = VALUES(division),
	docket = VALUES(docket),
	body = VALUES(body),
	hearings = VALUES(hearings),
	run_id = VALUES(run_id),
	updated_at = VALUES(updated_at)`,
	},
}

// Store writes docket documents to a SQL table.
type Store struct {
	db      *sql.DB
	driver  string
	table   string
	dialect dialect
	metrics *metrics.Metrics
	now     func() time.Time

	// RunID tags every row written by this process.
	RunID string
}

// Open connects to the database, checks the connection and creates the
// table when it does not exist.
func Open(ctx context.Context, driver, dsn, table string) (*Store, error) {
	if _, ok := dialects[driver]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", driver, err)
	}

	s, err := New(db, driver, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database handle.
func New(db *sql.DB, driver, table string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRegex.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return &Store{
		db:      db,
		driver:  driver,
		table:   table,
		dialect: d,
		now:     time.Now,
	}, nil
}

// WithMetrics counts upserted documents into m.
func (s *Store) WithMetrics(m *metrics.Metrics) *Store {
	s.metrics = m
	return s
}

// Migrate creates the documents table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(s.dialect.create, s.table)); err != nil {
		return fmt.Errorf("creating table %s: %w", s.table, err)
	}
	return nil
}

func (s *Store) Name() string { return "docstore" }

// Write upserts one document per county_division_docket in a single
// transaction. Each document body is the JSON array of its hearings.
func (s *Store) Write(ctx context.Context, events []*event.Event) error {
	keys, groups := event.GroupByDocument(events)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(s.dialect.upsert, s.table))
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	updatedAt := s.now().UTC()
	for _, key := range keys {
		group := groups[key]
		body, err := json.Marshal(group)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		first := group[0]
		if _, err := stmt.ExecContext(ctx, key, first.County, first.Division, first.Docket,
			string(body), len(group), s.RunID, updatedAt); err != nil {
			return fmt.Errorf("upserting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upserts: %w", err)
	}

	if s.metrics != nil {
		s.metrics.DocumentsTotal.Add(float64(len(keys)))
	}
	logger.Info("Upserted docket documents", logger.Fields{
		"driver":    s.driver,
		"table":     s.table,
		"documents": len(keys),
		"run_id":    s.RunID,
	})
	return nil
}

// Get returns the hearings stored for one document ID.
func (s *Store) Get(ctx context.Context, id string) ([]*event.Event, error) {
	var body string
	query := fmt.Sprintf("SELECT body FROM %s WHERE id = ?", s.table)
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("reading %s: %w", id, err)
	}

	var events []*event.Event
	if err := json.Unmarshal([]byte(body), &events); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", id, err)
	}
	return events, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
