package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"

	"github.com/codeforbtv/courtbot-vt/internal/parser"
)

// blockElements end a line when a page is flattened to text.
const blockElements = "p, div, li, tr, h1, h2, h3, h4, h5, h6, center, pre, table"

// ParsePage reads an HTML calendar page into a parser.Page. The encoding is
// taken from a byte order mark or <meta> charset; undeclared non-UTF-8
// input is read as windows-1252.
func ParsePage(r io.Reader, pageURL string) (*parser.Page, error) {
	body, err := charset.NewReader(r, "")
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return PageFromDocument(doc, pageURL), nil
}

// PageFromDocument extracts the title, the first centered region, every
// <pre> block and the flattened body text. Text is NFKC-normalized so
// non-breaking spaces line up like ordinary ones.
func PageFromDocument(doc *goquery.Document, pageURL string) *parser.Page {
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockElements).AppendHtml("\n")

	page := &parser.Page{
		URL:    pageURL,
		Title:  strings.TrimSpace(normalize(doc.Find("title").First().Text())),
		Center: strings.TrimSpace(normalize(doc.Find("center").First().Text())),
		Text:   normalize(doc.Find("body").Text()),
		Blocks: make([]string, 0),
	}

	doc.Find("pre").Each(func(i int, sel *goquery.Selection) {
		page.Blocks = append(page.Blocks, strings.Trim(normalize(sel.Text()), "\n"))
	})

	return page
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return norm.NFKC.String(s)
}
