package consolidate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/blockfold/internal/config"
	"github.com/vk/blockfold/internal/ctxlog"
	"github.com/vk/blockfold/internal/document"
)

// SectionStat describes one consolidated region.
type SectionStat struct {
	Label   string
	Ordinal int
	// Lines is the number of interior lines carried into the block.
	Lines int
}

// Result is the outcome of a successful Apply.
type Result struct {
	Original *document.Document
	Output   *document.Document
	Regions  []document.Region
	Sections []SectionStat
	// Block is the consolidated region, markers included.
	Block []string
	// Removed counts dropped lines: selected regions with their markers and
	// absorbed blank gaps.
	Removed int
	// Added is len(Block).
	Added int
}

// Apply validates doc against plan and renders the consolidated document.
// On any failed boundary assertion it returns a *BoundaryError and no result.
func Apply(ctx context.Context, plan *config.Plan, doc *document.Document) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Read document.", "path", plan.Target, "lines", doc.Len())

	regions, err := document.Scan(doc, plan.OpenMarker, plan.CloseMarker)
	if err != nil {
		var me *document.MarkerError
		if errors.As(err, &me) {
			return nil, &BoundaryError{Path: plan.Target, Mismatches: []Mismatch{{
				Line:     me.Line,
				Expected: "balanced markers",
				Got:      me.Reason,
			}}}
		}
		return nil, fmt.Errorf("failed to scan regions: %w", err)
	}
	logger.Debug("Scanned regions.", "count", len(regions))

	if ms := assertBoundaries(plan, doc, regions); len(ms) > 0 {
		return nil, &BoundaryError{Path: plan.Target, Mismatches: ms}
	}
	logger.Info("All region boundaries verified.", "regions", len(regions))

	block, stats := buildBlock(plan, doc, regions)
	for _, s := range stats {
		logger.Info("Extracted region.", "label", s.Label, "region", s.Ordinal, "lines", s.Lines)
	}
	logger.Info("Consolidated block built.", "lines", len(block))

	out, removed := rebuild(plan, doc, regions, block)
	res := &Result{
		Original: doc,
		Output:   doc.WithLines(out),
		Regions:  regions,
		Sections: stats,
		Block:    block,
		Removed:  removed,
		Added:    len(block),
	}
	logger.Info("Document rebuilt.",
		"original_lines", doc.Len(),
		"new_lines", res.Output.Len(),
		"reduction", doc.Len()-res.Output.Len(),
	)
	return res, nil
}

// Verify counts opening markers in the rendered output. It returns a
// *ConsistencyWarning when the count differs from what the plan expects.
func Verify(plan *config.Plan, out *document.Document) error {
	got := out.Count(plan.OpenMarker)
	if want := plan.OpenMarkersWanted(); got != want {
		return &ConsistencyWarning{Path: plan.Target, Marker: plan.OpenMarker, Expected: want, Got: got}
	}
	return nil
}

func assertBoundaries(plan *config.Plan, doc *document.Document, regions []document.Region) []Mismatch {
	var ms []Mismatch

	if plan.ExpectRegions > 0 && len(regions) != plan.ExpectRegions {
		ms = append(ms, Mismatch{
			Expected: fmt.Sprintf("%d regions", plan.ExpectRegions),
			Got:      fmt.Sprintf("%d", len(regions)),
		})
	}

	referenced := make(map[int]bool)
	for _, ref := range plan.Refs() {
		referenced[ref.Ordinal] = true
		if ref.Ordinal > len(regions) {
			ms = append(ms, Mismatch{
				Label:    ref.Label,
				Expected: fmt.Sprintf("region %d to exist", ref.Ordinal),
				Got:      fmt.Sprintf("%d regions", len(regions)),
			})
			continue
		}
		r := regions[ref.Ordinal-1]

		if ref.Line > 0 && ref.Line != r.StartLine() {
			ms = append(ms, Mismatch{
				Label:    ref.Label,
				Line:     ref.Line,
				Expected: fmt.Sprintf("%q", plan.OpenMarker),
				Got:      fmt.Sprintf("%s (region opens at line %d)", lineAt(doc, ref.Line), r.StartLine()),
			})
		}
		if ref.EndLine > 0 && ref.EndLine != r.EndLine() {
			ms = append(ms, Mismatch{
				Label:    ref.Label,
				Line:     ref.EndLine,
				Expected: fmt.Sprintf("%q", plan.CloseMarker),
				Got:      fmt.Sprintf("%s (region closes at line %d)", lineAt(doc, ref.EndLine), r.EndLine()),
			})
		}
		if ref.Anchor != "" && !containsAny(r.Interior(doc), ref.Anchor) {
			ms = append(ms, Mismatch{
				Label:    ref.Label,
				Line:     r.StartLine(),
				Expected: fmt.Sprintf("interior containing %q", ref.Anchor),
				Got:      "no match",
			})
		}
	}

	for _, s := range plan.Sections {
		if s.Ordinal <= len(regions) && regions[s.Ordinal-1].Inline() {
			ms = append(ms, Mismatch{
				Label:    s.Label,
				Line:     regions[s.Ordinal-1].StartLine(),
				Expected: "a multi-line region",
				Got:      "both markers on one line",
			})
		}
	}

	for _, r := range regions {
		if !referenced[r.Ordinal] {
			ms = append(ms, Mismatch{
				Line:     r.StartLine(),
				Expected: "every region listed as keep or section",
				Got:      fmt.Sprintf("unlisted region %d", r.Ordinal),
			})
		}
	}
	return ms
}

// buildBlock assembles the consolidated region: opening marker, banner, then
// each section as blank separator, header and interior, then closing marker.
func buildBlock(plan *config.Plan, doc *document.Document, regions []document.Region) ([]string, []SectionStat) {
	block := []string{plan.Indent + plan.OpenMarker}
	block = append(block, plan.Banner...)

	stats := make([]SectionStat, 0, len(plan.Sections))
	for _, s := range plan.Sections {
		interior := regions[s.Ordinal-1].Interior(doc)
		if len(block) > 1 {
			block = append(block, "")
		}
		block = append(block, s.Header)
		block = append(block, interior...)
		stats = append(stats, SectionStat{Label: s.Label, Ordinal: s.Ordinal, Lines: len(interior)})
	}

	block = append(block, plan.Indent+plan.CloseMarker)
	return block, stats
}

// rebuild renders the new line sequence from the document segments. The
// consolidated block takes the place of the selected region that comes last
// in file order.
func rebuild(plan *config.Plan, doc *document.Document, regions []document.Region, block []string) ([]string, int) {
	selected := make(map[int]bool, len(plan.Sections))
	last := 0
	for _, s := range plan.Sections {
		selected[s.Ordinal] = true
		last = max(last, s.Ordinal)
	}
	isSelected := func(seg document.Segment) bool {
		return seg.Kind == document.SegmentRegion && selected[seg.Region.Ordinal]
	}

	segs := document.Segments(doc, regions)
	out := make([]string, 0, doc.Len())
	removed := 0

	for i, seg := range segs {
		switch seg.Kind {
		case document.SegmentRegion:
			if !isSelected(seg) {
				break
			}
			removed += seg.Len()
			if seg.Region.Ordinal == last {
				out = append(out, block...)
			}
			continue
		case document.SegmentKeep:
			between := i > 0 && i < len(segs)-1 && isSelected(segs[i-1]) && isSelected(segs[i+1])
			if between && !plan.PreserveBlankGaps && seg.Blank(doc) {
				removed += seg.Len()
				continue
			}
		}
		out = append(out, doc.Slice(seg.Start, seg.End)...)
	}
	return out, removed
}

func lineAt(doc *document.Document, line int) string {
	if line > doc.Len() {
		return "end of file"
	}
	return fmt.Sprintf("%q", strings.TrimSpace(doc.Line(line-1)))
}

func containsAny(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}
