package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/blockfold/internal/config"
	"github.com/vk/blockfold/internal/ctxlog"
	"github.com/vk/blockfold/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL plan loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// Load parses and decodes a single HCL plan file.
func (l *Loader) Load(ctx context.Context, path string) (*config.Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root schema.PlanFile
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	if diags := checkRequiredExpressions(&root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	if diags := checkUniqueLabels(&root); diags.HasErrors() {
		return nil, fmt.Errorf("invalid plan file %s: %w", path, diags)
	}

	plan, err := l.translatePlan(ctx, path, &root)
	if err != nil {
		return nil, fmt.Errorf("invalid plan file %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.", "path", path, "keep", len(plan.Keep), "sections", len(plan.Sections))
	return plan, nil
}

// checkRequiredExpressions reports required expression attributes that are
// absent. gohcl never marks hcl.Expression fields as required and hands back
// an empty-range null expression instead.
func checkRequiredExpressions(root *schema.PlanFile) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, s := range root.Sections {
		if !omitted(s.Header) {
			continue
		}
		subject := s.DefRange
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing required argument",
			Detail:   fmt.Sprintf("The argument \"header\" is required in section %q.", s.Label),
			Subject:  &subject,
		})
	}
	return diags
}

// checkUniqueLabels reports every block whose label was already used by an
// earlier keep or section block.
func checkUniqueLabels(root *schema.PlanFile) hcl.Diagnostics {
	var diags hcl.Diagnostics
	seen := make(map[string]hcl.Range)

	check := func(kind, label string, rng hcl.Range) {
		if prev, dup := seen[label]; dup {
			subject := rng
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate region label",
				Detail:   fmt.Sprintf("The %s label %q was already used at %s.", kind, label, prev),
				Subject:  &subject,
			})
			return
		}
		seen[label] = rng
	}
	for _, k := range root.Keeps {
		check("keep", k.Label, k.DefRange)
	}
	for _, s := range root.Sections {
		check("section", s.Label, s.DefRange)
	}
	return diags
}

// resolveTarget makes a relative target path relative to the plan file.
func resolveTarget(planPath, target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" || filepath.IsAbs(target) {
		return target, nil
	}
	return filepath.Abs(filepath.Join(filepath.Dir(planPath), target))
}
