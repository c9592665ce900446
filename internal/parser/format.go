package parser

// Format parses one era of calendar page layout.
type Format interface {
	Name() string
	Detect(page *Page) bool
	Parse(page *Page) *Result
}

// Formats are tried in order by DetectFormat.
var Formats = []Format{
	PreformattedFormat{},
	NarrativeFormat{},
}

// DetectFormat returns the first Format that recognizes the page, falling
// back to PreformattedFormat.
func DetectFormat(page *Page) Format {
	for _, f := range Formats {
		if f.Detect(page) {
			return f
		}
	}
	return PreformattedFormat{}
}

// PreformattedFormat reads pages whose hearings are laid out in fixed-width
// <pre> blocks, typically one block per court room or judge.
type PreformattedFormat struct{}

func (PreformattedFormat) Name() string { return "preformatted" }

func (PreformattedFormat) Detect(page *Page) bool {
	return len(page.Blocks) > 0
}

func (PreformattedFormat) Parse(page *Page) *Result {
	result := &Result{}
	for _, block := range page.Blocks {
		result.merge(ScanBlock(block))
	}
	return result
}
