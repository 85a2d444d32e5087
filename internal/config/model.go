package config

import "fmt"

// Default marker tokens used when a plan does not set them.
const (
	DefaultOpenMarker  = "<script>"
	DefaultCloseMarker = "</script>"
)

// Plan is the unified representation of one consolidation job: which file to
// rewrite, how its regions are delimited, and how they are regrouped.
type Plan struct {
	// Name identifies the plan in logs, usually the plan file stem.
	Name string
	// Source is the path of the plan file.
	Source string
	// Target is the absolute path of the document to rewrite.
	Target string

	OpenMarker  string
	CloseMarker string
	// Indent prefixes the opening and closing marker lines of the
	// consolidated region.
	Indent string
	// Banner lines follow the opening marker of the consolidated region.
	Banner []string

	// ExpectRegions is the number of regions the document must contain.
	// Zero disables the check.
	ExpectRegions int
	// ExpectOpenMarkers is the opening marker count expected in the output.
	// Zero means len(Keep)+1.
	ExpectOpenMarkers int
	// Strict turns a failed post-write consistency check into a failure.
	Strict bool
	// PreserveBlankGaps keeps whitespace-only gaps between consolidated
	// regions instead of absorbing them.
	PreserveBlankGaps bool

	// Keep lists regions that stay in place untouched.
	Keep []*RegionRef
	// Sections lists the regions to consolidate, in presentation order.
	Sections []*Section
}

// RegionRef points at a region by ordinal and carries optional boundary
// assertions for it.
type RegionRef struct {
	Label string
	// Ordinal is the 1-based position of the region in file order.
	Ordinal int
	// Line is the expected 1-based line of the opening marker, 0 to skip.
	Line int
	// EndLine is the expected 1-based line of the closing marker, 0 to skip.
	EndLine int
	// Anchor must occur somewhere in the region interior when set.
	Anchor string
}

// Section is a region selected for consolidation.
type Section struct {
	RegionRef
	// Header is the literal line emitted before the region interior.
	Header string
}

// OpenMarkersWanted returns the opening marker count the output must hold.
func (p *Plan) OpenMarkersWanted() int {
	if p.ExpectOpenMarkers > 0 {
		return p.ExpectOpenMarkers
	}
	return len(p.Keep) + 1
}

// Refs returns every region reference, keeps first.
func (p *Plan) Refs() []*RegionRef {
	refs := make([]*RegionRef, 0, len(p.Keep)+len(p.Sections))
	refs = append(refs, p.Keep...)
	for _, s := range p.Sections {
		refs = append(refs, &s.RegionRef)
	}
	return refs
}

func (r *RegionRef) String() string {
	return fmt.Sprintf("%q (region %d)", r.Label, r.Ordinal)
}
