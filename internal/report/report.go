// Package report prints the per-plan summary shown at the end of a run.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/vk/blockfold/internal/consolidate"
)

// Mode tells how a plan was applied.
type Mode string

const (
	ModeWrite  Mode = "write"
	ModeDryRun Mode = "dry-run"
	ModeCheck  Mode = "check"
)

// Summary is everything the report needs about one applied plan.
type Summary struct {
	Plan   string
	Target string
	Mode   Mode
	Result *consolidate.Result
	// Markers is the opening marker count found in the output.
	Markers  int
	Expected int
	// Warning holds the consistency warning, if any.
	Warning error
	Backup  string
}

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	dim   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true),
		label: r.NewStyle().Width(24).PaddingLeft(2),
		ok:    r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		dim:   r.NewStyle().Faint(true),
	}
}

// Render writes the summary to w. Colors are only used when w is a terminal.
func Render(w io.Writer, s Summary) error {
	st := newStyles(w)
	res := s.Result

	row := func(label, value string) string {
		return st.label.Render(label) + value + "\n"
	}

	out := st.title.Render(fmt.Sprintf("%s → %s", s.Plan, s.Target)) + " " + st.dim.Render("("+string(s.Mode)+")") + "\n"
	out += row("read", fmt.Sprintf("%d lines, %d regions", res.Original.Len(), len(res.Regions)))
	for _, sec := range res.Sections {
		out += row("  "+sec.Label, fmt.Sprintf("%d lines (region %d)", sec.Lines, sec.Ordinal))
	}
	out += row("consolidated block", fmt.Sprintf("%d lines", len(res.Block)))
	out += row("original", fmt.Sprintf("%d lines", res.Original.Len()))
	out += row("new", fmt.Sprintf("%d lines", res.Output.Len()))
	out += row("reduction", fmt.Sprintf("%d lines", res.Original.Len()-res.Output.Len()))

	if s.Mode != ModeCheck {
		status := st.ok.Render(fmt.Sprintf("✓ %d block(s)", s.Markers))
		if s.Warning != nil {
			status = st.warn.Render(fmt.Sprintf("⚠ expected %d block(s), got %d", s.Expected, s.Markers))
		}
		out += row("marker count", status)
	}
	if s.Backup != "" {
		out += row("backup", s.Backup)
	}

	_, err := io.WriteString(w, out)
	return err
}
