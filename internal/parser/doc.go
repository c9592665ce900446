// Package parser extracts hearing records from Vermont Judiciary court calendar pages.
//
// A calendar page is reduced to a Page: its title, the centered address block,
// the fixed-width event blocks and the full body text. Assemble picks the Format
// matching the page's era, scans its blocks line by line and broadcasts the
// page-level address and division into every record.
//
// The package performs no I/O besides diagnostic logging and holds no mutable
// package state; pages may be parsed concurrently.
package parser
