package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/blockfold/internal/config"
	"github.com/vk/blockfold/internal/ctxlog"
	"github.com/vk/blockfold/internal/schema"
)

// translatePlan converts the decoded HCL schema into the agnostic model,
// evaluating templated attributes along the way.
func (l *Loader) translatePlan(ctx context.Context, path string, s *schema.PlanFile) (*config.Plan, error) {
	target, err := resolveTarget(path, s.Target)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve target %q: %w", s.Target, err)
	}

	p := &config.Plan{
		Name:              strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Source:            path,
		Target:            target,
		OpenMarker:        s.OpenMarker,
		CloseMarker:       s.CloseMarker,
		Indent:            s.Indent,
		ExpectRegions:     s.ExpectRegions,
		ExpectOpenMarkers: s.ExpectOpenMarkers,
		Strict:            s.Strict,
		PreserveBlankGaps: s.PreserveBlankGaps,
	}
	if p.OpenMarker == "" {
		p.OpenMarker = config.DefaultOpenMarker
	}
	if p.CloseMarker == "" {
		p.CloseMarker = config.DefaultCloseMarker
	}

	evalCtx := NewEvalContext(Vars{Indent: p.Indent, OpenMarker: p.OpenMarker, CloseMarker: p.CloseMarker})

	if p.Banner, err = evalStringList(s.Banner, evalCtx); err != nil {
		return nil, fmt.Errorf("banner: %w", err)
	}

	for _, k := range s.Keeps {
		p.Keep = append(p.Keep, &config.RegionRef{
			Label:   k.Label,
			Ordinal: k.Region,
			Line:    k.Line,
			EndLine: k.EndLine,
			Anchor:  k.Anchor,
		})
	}
	for _, sec := range s.Sections {
		header, err := evalString(sec.Header, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("section %q header: %w", sec.Label, err)
		}
		p.Sections = append(p.Sections, &config.Section{
			RegionRef: config.RegionRef{
				Label:   sec.Label,
				Ordinal: sec.Region,
				Line:    sec.Line,
				EndLine: sec.EndLine,
				Anchor:  sec.Anchor,
			},
			Header: header,
		})
		ctxlog.FromContext(ctx).Debug("Translated section.", "label", sec.Label, "region", sec.Region)
	}
	return p, nil
}
