package config

import "context"

// Loader is the interface for a format-specific plan loader.
type Loader interface {
	// Load reads the plan file at path and translates it into the
	// format-agnostic model. Relative target paths are resolved against the
	// directory holding the plan file.
	Load(ctx context.Context, path string) (*Plan, error)

	// Extensions lists the file extensions, dot included, the loader handles.
	Extensions() []string
}
