package commentary

import (
	"regexp"
	"strings"
)

// SectionCount is the number of sections every commentary is split into.
const SectionCount = 3

// Canonical section headers, in narration order.
const (
	KeyPoints      = "Key Points"
	ImpactAnalysis = "Impact Analysis"
	FutureOutlook  = "Future Outlook"
)

// Headers lists the canonical section headers in narration order. Paragraph
// fallback reuses the same titles.
var Headers = [SectionCount]string{KeyPoints, ImpactAnalysis, FutureOutlook}

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Section is one narrated division of a commentary.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Segment splits raw commentary into exactly SectionCount sections.
func Segment(raw string) []Section {
	if bounds, ok := locateHeaders(raw); ok {
		return structuredSections(raw, bounds)
	}
	return paragraphSections(raw)
}

// HasStructuredHeaders reports whether all three headers appear in order.
func HasStructuredHeaders(raw string) bool {
	_, ok := locateHeaders(raw)
	return ok
}

type headerBounds struct {
	start int
	end   int
}

func locateHeaders(raw string) ([SectionCount]headerBounds, bool) {
	var bounds [SectionCount]headerBounds
	from := 0
	for i, header := range Headers {
		idx := indexFold(raw, header, from)
		if idx < 0 {
			return bounds, false
		}
		bounds[i] = headerBounds{start: idx, end: idx + len(header)}
		from = bounds[i].end
	}
	return bounds, true
}

func structuredSections(raw string, bounds [SectionCount]headerBounds) []Section {
	sections := make([]Section, SectionCount)
	for i, b := range bounds {
		stop := len(raw)
		if i+1 < SectionCount {
			stop = bounds[i+1].start
		}
		sections[i] = Section{
			Title:   Headers[i],
			Content: strings.TrimSpace(raw[b.end:stop]),
		}
	}
	if preamble := headerPreamble(raw[:bounds[0].start]); preamble != "" {
		sections[0].Content = joinParagraphs(preamble, sections[0].Content)
	}
	return sections
}

// headerPreamble returns the text ahead of the first header, minus any
// markdown heading or emphasis markers attached to that header.
func headerPreamble(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "#*_ \t\r\n"))
}

func joinParagraphs(a, b string) string {
	if b == "" {
		return a
	}
	return a + "\n\n" + b
}

func paragraphSections(raw string) []Section {
	var paragraphs []string
	for _, part := range paragraphBreak.Split(raw, -1) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	if len(paragraphs) > SectionCount {
		tail := strings.Join(paragraphs[SectionCount-1:], "\n\n")
		paragraphs = append(paragraphs[:SectionCount-1], tail)
	}

	sections := make([]Section, SectionCount)
	for i := range sections {
		sections[i].Title = Headers[i]
		if i < len(paragraphs) {
			sections[i].Content = paragraphs[i]
		}
	}
	return sections
}

// indexFold finds an ASCII needle in s at or after from, ignoring ASCII case.
// Byte offsets into s are preserved, so slicing s with the result is safe.
func indexFold(s, needle string, from int) int {
	n := len(needle)
	for i := from; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], needle) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
