// Package yamlplan implements config.Loader for YAML plan files. String
// values support the same ${...} templates as HCL plans.
package yamlplan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/blockfold/internal/config"
	"github.com/vk/blockfold/internal/ctxlog"
	"github.com/vk/blockfold/internal/hcl"
)

type planFile struct {
	Target            string       `yaml:"target"`
	OpenMarker        string       `yaml:"open_marker"`
	CloseMarker       string       `yaml:"close_marker"`
	Indent            string       `yaml:"indent"`
	Banner            []string     `yaml:"banner"`
	ExpectRegions     int          `yaml:"expect_regions"`
	ExpectOpenMarkers int          `yaml:"expect_open_markers"`
	Strict            bool         `yaml:"strict"`
	PreserveBlankGaps bool         `yaml:"preserve_blank_gaps"`
	Keep              []regionFile `yaml:"keep"`
	Sections          []regionFile `yaml:"sections"`
}

type regionFile struct {
	Name    string `yaml:"name"`
	Region  int    `yaml:"region"`
	Line    int    `yaml:"line"`
	EndLine int    `yaml:"end_line"`
	Anchor  string `yaml:"anchor"`
	Header  string `yaml:"header"`
}

// Loader reads YAML plan files.
type Loader struct{}

// NewLoader creates a new YAML plan loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file %s: %w", path, err)
	}

	var pf planFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	plan, err := translate(path, &pf)
	if err != nil {
		return nil, fmt.Errorf("invalid plan file %s: %w", path, err)
	}
	logger.Debug("YAML loading complete.", "path", path, "keep", len(plan.Keep), "sections", len(plan.Sections))
	return plan, nil
}

func translate(path string, pf *planFile) (*config.Plan, error) {
	p := &config.Plan{
		Name:              strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Source:            path,
		Target:            strings.TrimSpace(pf.Target),
		OpenMarker:        pf.OpenMarker,
		CloseMarker:       pf.CloseMarker,
		Indent:            pf.Indent,
		ExpectRegions:     pf.ExpectRegions,
		ExpectOpenMarkers: pf.ExpectOpenMarkers,
		Strict:            pf.Strict,
		PreserveBlankGaps: pf.PreserveBlankGaps,
	}
	if p.OpenMarker == "" {
		p.OpenMarker = config.DefaultOpenMarker
	}
	if p.CloseMarker == "" {
		p.CloseMarker = config.DefaultCloseMarker
	}
	if p.Target != "" && !filepath.IsAbs(p.Target) {
		abs, err := filepath.Abs(filepath.Join(filepath.Dir(path), p.Target))
		if err != nil {
			return nil, fmt.Errorf("cannot resolve target %q: %w", pf.Target, err)
		}
		p.Target = abs
	}

	vars := hcl.Vars{Indent: p.Indent, OpenMarker: p.OpenMarker, CloseMarker: p.CloseMarker}
	for i, line := range pf.Banner {
		rendered, err := hcl.RenderTemplate(line, vars)
		if err != nil {
			return nil, fmt.Errorf("banner[%d]: %w", i, err)
		}
		p.Banner = append(p.Banner, rendered)
	}

	for _, k := range pf.Keep {
		p.Keep = append(p.Keep, &config.RegionRef{
			Label:   k.Name,
			Ordinal: k.Region,
			Line:    k.Line,
			EndLine: k.EndLine,
			Anchor:  k.Anchor,
		})
	}
	for _, s := range pf.Sections {
		header, err := hcl.RenderTemplate(s.Header, vars)
		if err != nil {
			return nil, fmt.Errorf("section %q header: %w", s.Name, err)
		}
		p.Sections = append(p.Sections, &config.Section{
			RegionRef: config.RegionRef{
				Label:   s.Name,
				Ordinal: s.Region,
				Line:    s.Line,
				EndLine: s.EndLine,
				Anchor:  s.Anchor,
			},
			Header: header,
		})
	}
	return p, nil
}
