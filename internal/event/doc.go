// Package event provides the hearing record produced by the calendar parser.
//
// An Event is one scheduled hearing for one docket. Records carry the raw
// lowercase date and time strings exactly as they appear on the calendar page;
// an absolute timestamp is derived separately with an inferred year. Snapshots
// of a crawl are diffed to find hearings that were not listed on the previous run.
package event
