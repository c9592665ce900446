// Package cli implements the courtbot command-line interface.
//
// The cli package provides the Cobra-based commands that crawl the Vermont
// Judiciary court calendars, parse saved calendar pages, report hearings
// added since the previous crawl and manage the configuration file. It wires
// the scraper to the output sinks (events CSV, per-docket JSON documents,
// document store) and formats hearings as text, JSON, CSV or iCalendar.
package cli
