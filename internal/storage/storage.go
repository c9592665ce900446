package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeforbtv/courtbot-vt/internal/event"
)

// Sink receives the hearings of a completed crawl.
type Sink interface {
	Name() string
	Write(ctx context.Context, events []*event.Event) error
}

// Storage handles persistence of hearing snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the directory snapshots are stored in.
func (s *Storage) Dir() string {
	return s.dataDir
}

func (s *Storage) snapshotPath(county string) string {
	if county == "" || strings.EqualFold(county, "all") {
		return filepath.Join(s.dataDir, "snapshot.json")
	}
	name := strings.ReplaceAll(strings.ToLower(county), " ", "_")
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", name))
}

// LoadSnapshot loads a snapshot from disk. A missing file yields an empty
// snapshot.
func (s *Storage) LoadSnapshot(county string) (*event.Snapshot, error) {
	data, err := os.ReadFile(s.snapshotPath(county))
	if err != nil {
		if os.IsNotExist(err) {
			return event.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot event.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Events == nil {
		snapshot.Events = make(map[string]*event.Event)
	}
	if snapshot.Dockets == nil {
		snapshot.Dockets = make(map[string]int)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *event.Snapshot, county string) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(s.snapshotPath(county), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// CreateSnapshotFromEvents creates and saves a snapshot from a list of hearings
func (s *Storage) CreateSnapshotFromEvents(events []*event.Event, county string) error {
	snapshot := event.CreateSnapshot(events, time.Now().UTC().Format(time.RFC3339))
	return s.SaveSnapshot(snapshot, county)
}

// GetEventByID retrieves a hearing by ID from the combined snapshot
func (s *Storage) GetEventByID(eventID string) (*event.Event, error) {
	snapshot, err := s.LoadSnapshot("all")
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	if evt, exists := snapshot.Events[eventID]; exists {
		return evt, nil
	}

	return nil, fmt.Errorf("event not found: %s", eventID)
}
