// Package hcl provides the HCL implementation of config.Loader. It parses
// plan files, evaluates the templated attributes (banner, section headers)
// against a go-cty evaluation context and translates the result into the
// format-agnostic config.Plan.
package hcl
