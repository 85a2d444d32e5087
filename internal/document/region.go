package document

import (
	"fmt"
	"strings"
)

// Region is a block of lines delimited by an opening and a closing marker.
// Start and End are the 0-based indices of the marker lines themselves, so the
// region covers the half-open range [Start, End+1).
type Region struct {
	// Ordinal is the 1-based position of the region in file order.
	Ordinal int
	Start   int
	End     int
}

// Inline reports whether both markers sit on the same line.
func (r Region) Inline() bool {
	return r.Start == r.End
}

// Len returns the number of lines the region occupies, markers included.
func (r Region) Len() int {
	return r.End - r.Start + 1
}

// StartLine returns the 1-based line number of the opening marker.
func (r Region) StartLine() int { return r.Start + 1 }

// EndLine returns the 1-based line number of the closing marker.
func (r Region) EndLine() int { return r.End + 1 }

// Interior returns a copy of the lines strictly between the two markers.
func (r Region) Interior(d *Document) []string {
	if r.Inline() {
		return nil
	}
	return d.Slice(r.Start+1, r.End)
}

// MarkerError reports a marker that cannot be paired.
type MarkerError struct {
	Line   int // 1-based
	Text   string
	Reason string
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, strings.TrimSpace(e.Text))
}

// Scan walks the document once and returns every region delimited by the
// open and close markers, in file order. A line holding both markers, open
// first, forms an inline region.
func Scan(d *Document, open, close string) ([]Region, error) {
	var regions []Region
	start := -1

	for i, line := range d.lines {
		oi := strings.Index(line, open)
		ci := strings.LastIndex(line, close)
		hasOpen, hasClose := oi >= 0, ci >= 0

		if start < 0 {
			switch {
			case hasOpen && hasClose && oi < ci:
				regions = append(regions, Region{Ordinal: len(regions) + 1, Start: i, End: i})
			case hasOpen:
				start = i
			case hasClose:
				return nil, &MarkerError{Line: i + 1, Text: line, Reason: "closing marker without opening marker"}
			}
			continue
		}

		switch {
		case hasOpen:
			return nil, &MarkerError{Line: i + 1, Text: line, Reason: fmt.Sprintf("opening marker inside region opened at line %d", start+1)}
		case hasClose:
			regions = append(regions, Region{Ordinal: len(regions) + 1, Start: start, End: i})
			start = -1
		}
	}

	if start >= 0 {
		return nil, &MarkerError{Line: start + 1, Text: d.lines[start], Reason: "opening marker is never closed"}
	}
	return regions, nil
}
