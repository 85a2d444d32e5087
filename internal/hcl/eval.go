package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Vars are the variables visible to templated plan attributes.
type Vars struct {
	Indent      string
	OpenMarker  string
	CloseMarker string
}

// NewEvalContext builds the evaluation context for templated attributes.
func NewEvalContext(v Vars) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"indent":       cty.StringVal(v.Indent),
			"open_marker":  cty.StringVal(v.OpenMarker),
			"close_marker": cty.StringVal(v.CloseMarker),
		},
		Functions: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"format":    stdlib.FormatFunc,
			"join":      stdlib.JoinFunc,
			"trimspace": stdlib.TrimSpaceFunc,
		},
	}
}

// RenderTemplate evaluates src as an HCL string template, so "${indent}" and
// function calls work outside HCL files too.
func RenderTemplate(src string, v Vars) (string, error) {
	expr, diags := hclsyntax.ParseTemplate([]byte(src), "<template>", hcl.InitialPos)
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to parse template %q: %w", src, diags)
	}
	return evalString(expr, NewEvalContext(v))
}

// evalString evaluates expr and converts the result to a Go string.
func evalString(expr hcl.Expression, evalCtx *hcl.EvalContext) (string, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() {
		return "", fmt.Errorf("value must not be null")
	}
	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot convert %s to string: %w", val.Type().FriendlyName(), err)
	}
	var out string
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return "", err
	}
	return out, nil
}

// omitted reports whether expr stands for an attribute missing from the
// file. gohcl decodes those to a null expression with an empty source range.
func omitted(expr hcl.Expression) bool {
	return expr == nil || expr.Range().Empty()
}

// evalStringList evaluates expr as a list of strings. An omitted attribute
// yields an empty list.
func evalStringList(expr hcl.Expression, evalCtx *hcl.EvalContext) ([]string, error) {
	if omitted(expr) {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, fmt.Errorf("value must not be null")
	}
	converted, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s to list of string: %w", val.Type().FriendlyName(), err)
	}
	var out []string
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, err
	}
	return out, nil
}
