// Package storage writes parsed hearings to local files.
//
// It keeps the JSON snapshot of the previous crawl used to detect newly
// listed hearings (snapshot.json, or snapshot_<county>.json when a crawl is
// limited to one county), the flat court_events.csv for a run, and the
// per-docket JSON documents published to the court calendar repository
// together with event_lookup.csv, which maps each docket to its raw link.
package storage
