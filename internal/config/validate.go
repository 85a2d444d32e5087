package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the plan for internal consistency. It does not look at the
// target document.
func (p *Plan) Validate() error {
	var errs []string

	if strings.TrimSpace(p.Target) == "" {
		errs = append(errs, "target is required")
	}
	switch {
	case p.OpenMarker == "" || p.CloseMarker == "":
		errs = append(errs, "open_marker and close_marker must not be empty")
	case strings.Contains(p.OpenMarker, p.CloseMarker) || strings.Contains(p.CloseMarker, p.OpenMarker):
		errs = append(errs, fmt.Sprintf("markers %q and %q must not contain each other", p.OpenMarker, p.CloseMarker))
	}
	if len(p.Sections) == 0 {
		errs = append(errs, "at least one section is required")
	}
	if p.ExpectRegions < 0 {
		errs = append(errs, "expect_regions must not be negative")
	}
	if p.ExpectOpenMarkers < 0 {
		errs = append(errs, "expect_open_markers must not be negative")
	}

	ordinals := make(map[int]string)
	labels := make(map[string]struct{})
	for _, ref := range p.Refs() {
		if _, dup := labels[ref.Label]; dup {
			errs = append(errs, fmt.Sprintf("label %q is used more than once", ref.Label))
		}
		labels[ref.Label] = struct{}{}

		if ref.Ordinal <= 0 {
			errs = append(errs, fmt.Sprintf("%s: region must be a positive ordinal", ref))
			continue
		}
		if other, dup := ordinals[ref.Ordinal]; dup {
			errs = append(errs, fmt.Sprintf("%s: region already referenced by %q", ref, other))
		}
		ordinals[ref.Ordinal] = ref.Label

		if ref.Line < 0 || ref.EndLine < 0 {
			errs = append(errs, fmt.Sprintf("%s: line numbers must not be negative", ref))
		}
		if ref.Line > 0 && ref.EndLine > 0 && ref.EndLine < ref.Line {
			errs = append(errs, fmt.Sprintf("%s: end_line %d is before line %d", ref, ref.EndLine, ref.Line))
		}
	}

	if len(errs) > 0 {
		return errors.New("invalid plan:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
