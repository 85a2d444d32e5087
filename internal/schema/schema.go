// Package schema holds the gohcl decoding structs for plan files.
package schema

import "github.com/hashicorp/hcl/v2"

// PlanFile represents the top-level structure of a plan file.
type PlanFile struct {
	Target            string         `hcl:"target"`
	OpenMarker        string         `hcl:"open_marker,optional"`
	CloseMarker       string         `hcl:"close_marker,optional"`
	Indent            string         `hcl:"indent,optional"`
	Banner            hcl.Expression `hcl:"banner,optional"`
	ExpectRegions     int            `hcl:"expect_regions,optional"`
	ExpectOpenMarkers int            `hcl:"expect_open_markers,optional"`
	Strict            bool           `hcl:"strict,optional"`
	PreserveBlankGaps bool           `hcl:"preserve_blank_gaps,optional"`
	Keeps             []*Keep        `hcl:"keep,block"`
	Sections          []*Section     `hcl:"section,block"`
}

// Keep represents a `keep` block: a region left where it is.
type Keep struct {
	Label    string    `hcl:"label,label"`
	Region   int       `hcl:"region"`
	Line     int       `hcl:"line,optional"`
	EndLine  int       `hcl:"end_line,optional"`
	Anchor   string    `hcl:"anchor,optional"`
	DefRange hcl.Range `hcl:",def_range"`
}

// Section represents a `section` block: a region moved into the
// consolidated block under Header. Block order is presentation order.
type Section struct {
	Label    string         `hcl:"label,label"`
	Region   int            `hcl:"region"`
	Line     int            `hcl:"line,optional"`
	EndLine  int            `hcl:"end_line,optional"`
	Anchor   string         `hcl:"anchor,optional"`
	Header   hcl.Expression `hcl:"header"`
	DefRange hcl.Range      `hcl:",def_range"`
}
