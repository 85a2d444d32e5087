// Package config defines the format-agnostic plan model, along with the
// Loader interface for reading plans from various file formats.
//
// The `config.Plan` is the single source of truth for the `consolidate`
// package. Concrete loaders, such as for HCL and YAML, are provided in
// separate packages.
package config
