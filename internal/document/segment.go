package document

// SegmentKind tags a Segment.
type SegmentKind int

const (
	// SegmentKeep is a run of lines outside any region.
	SegmentKeep SegmentKind = iota
	// SegmentRegion is a whole region, markers included.
	SegmentRegion
)

// Segment is a contiguous half-open range [Start, End) of document lines.
type Segment struct {
	Kind   SegmentKind
	Start  int
	End    int
	Region *Region
}

// Len returns the number of lines in the segment.
func (s Segment) Len() int {
	return s.End - s.Start
}

// Blank reports whether every line of the segment is empty or whitespace.
func (s Segment) Blank(d *Document) bool {
	for i := s.Start; i < s.End; i++ {
		if !isBlank(d.lines[i]) {
			return false
		}
	}
	return true
}

// Segments covers the document with keep and region segments in file order.
// regions must come from Scan on the same document.
func Segments(d *Document, regions []Region) []Segment {
	segs := make([]Segment, 0, 2*len(regions)+1)
	pos := 0
	for i := range regions {
		r := &regions[i]
		if r.Start > pos {
			segs = append(segs, Segment{Kind: SegmentKeep, Start: pos, End: r.Start})
		}
		segs = append(segs, Segment{Kind: SegmentRegion, Start: r.Start, End: r.End + 1, Region: r})
		pos = r.End + 1
	}
	if pos < len(d.lines) {
		segs = append(segs, Segment{Kind: SegmentKeep, Start: pos, End: len(d.lines)})
	}
	return segs
}

func isBlank(s string) bool {
	for _, c := range s {
		switch c {
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}
