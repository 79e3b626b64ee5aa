package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/specialistvlad/vkrecipe/internal/config"
	"github.com/specialistvlad/vkrecipe/internal/ctxlog"
)

// ManifestFile is the name of the optional manifest inside a package directory.
const ManifestFile = "package.hcl"

// Provider gives the resolver access to available packages.
type Provider interface {
	// Versions returns the available versions of a package. It returns an
	// error wrapping ErrNotFound when the package is unknown.
	Versions(ctx context.Context, name string) ([]string, error)
	// Manifest returns the manifest of one package version.
	Manifest(ctx context.Context, name, version string) (*config.PackageManifest, error)
	// Root returns the package directory, relative to the provider's filesystem.
	Root(name, version string) string
}

// CacheProvider serves packages from a local cache directory.
type CacheProvider struct {
	fs        billy.Filesystem
	manifests config.ManifestLoader
}

var _ Provider = (*CacheProvider)(nil)

// NewCacheProvider creates a provider over the given cache filesystem.
func NewCacheProvider(fs billy.Filesystem, manifests config.ManifestLoader) *CacheProvider {
	return &CacheProvider{fs: fs, manifests: manifests}
}

// Filesystem returns the cache filesystem, which the staging stage reads from.
func (c *CacheProvider) Filesystem() billy.Filesystem {
	return c.fs
}

// Versions lists the version directories of a package.
func (c *CacheProvider) Versions(ctx context.Context, name string) ([]string, error) {
	entries, err := c.fs.ReadDir(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to list versions of %s: %w", name, err)
	}

	var versions []string
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: %s has no versions in the cache", ErrNotFound, name)
	}

	sort.Strings(versions)
	ctxlog.FromContext(ctx).Debug("Listed cached versions.", "package", name, "versions", versions)
	return versions, nil
}

// Manifest reads `package.hcl` from the package directory. Directories
// without a manifest get config.DefaultManifest.
func (c *CacheProvider) Manifest(ctx context.Context, name, version string) (*config.PackageManifest, error) {
	p := c.fs.Join(c.Root(name, version), ManifestFile)
	data, err := util.ReadFile(c.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			ctxlog.FromContext(ctx).Debug("Package has no manifest, using defaults.", "package", name, "version", version)
			return config.DefaultManifest(name, version), nil
		}
		return nil, fmt.Errorf("failed to read manifest of %s/%s: %w", name, version, err)
	}

	m, err := c.manifests.LoadManifest(ctx, data, p)
	if err != nil {
		return nil, err
	}
	if m.Name != name {
		return nil, fmt.Errorf("manifest %s declares package %q, expected %q", p, m.Name, name)
	}
	if m.Version == "" {
		m.Version = version
	} else if m.Version != version {
		return nil, fmt.Errorf("manifest %s declares version %q, expected %q", p, m.Version, version)
	}
	return m, nil
}

// Root returns `<name>/<version>`.
func (c *CacheProvider) Root(name, version string) string {
	return c.fs.Join(name, version)
}
