// Package scraper fetches Vermont Judiciary court calendar pages and runs the
// calendar parser over them.
//
// The scraper discovers calendar page URLs from the calendar landing page,
// fetches every page with a bounded pool of workers, converts each HTML page
// into a parser.Page and concatenates the parsed hearings in page order. A
// page that fails to load or yields no hearings is logged and skipped; it never
// stops the crawl.
package scraper
