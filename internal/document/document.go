package document

import "strings"

// Document is a text file held in memory as an ordered list of lines. Line
// order is significant and duplicate lines are allowed.
type Document struct {
	lines []string
	eol   string
}

// Parse splits content into lines. A trailing newline is kept as a final
// empty line so that String reproduces the input. Content containing "\r\n"
// is treated as CRLF: every line loses its trailing "\r" and String joins
// with "\r\n", so a file with stray bare "\n" endings comes back uniform.
func Parse(content string) *Document {
	lines := strings.Split(content, "\n")
	if !strings.Contains(content, "\r\n") {
		return &Document{lines: lines, eol: "\n"}
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Document{lines: lines, eol: "\r\n"}
}

// FromLines builds a "\n" Document from a copy of lines.
func FromLines(lines []string) *Document {
	return &Document{lines: copyLines(lines), eol: "\n"}
}

// WithLines builds a Document from a copy of lines that keeps the line ending
// of d.
func (d *Document) WithLines(lines []string) *Document {
	return &Document{lines: copyLines(lines), eol: d.eol}
}

func copyLines(lines []string) []string {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return cp
}

// EOL returns the line ending used by String.
func (d *Document) EOL() string {
	return d.eol
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.lines)
}

// Line returns the line at the 0-based index i.
func (d *Document) Line(i int) string {
	return d.lines[i]
}

// Lines returns a copy of the document lines.
func (d *Document) Lines() []string {
	return copyLines(d.lines)
}

// Slice returns a copy of the lines in the half-open range [start, end).
func (d *Document) Slice(start, end int) []string {
	cp := make([]string, end-start)
	copy(cp, d.lines[start:end])
	return cp
}

// String joins the lines with the document line ending.
func (d *Document) String() string {
	return strings.Join(d.lines, d.eol)
}

// Count returns the number of non-overlapping occurrences of substr across
// the rendered document.
func (d *Document) Count(substr string) int {
	return strings.Count(d.String(), substr)
}
