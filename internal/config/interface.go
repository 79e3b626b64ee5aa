package config

import (
	"context"
)

// Loader is the interface for a format-specific recipe loader.
type Loader interface {
	// Load reads recipe files from the given paths, translates them into the
	// format-agnostic model and validates the result.
	Load(ctx context.Context, paths ...string) (*Recipe, error)
}

// ManifestLoader is the interface for decoding a package manifest shipped
// inside a cached package directory.
type ManifestLoader interface {
	// LoadManifest decodes a manifest from its raw bytes. The filename is
	// only used for diagnostics.
	LoadManifest(ctx context.Context, src []byte, filename string) (*PackageManifest, error)
}
