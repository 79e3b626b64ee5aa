package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/specialistvlad/vkrecipe/internal/config"
	"github.com/specialistvlad/vkrecipe/internal/ctxlog"
	"github.com/specialistvlad/vkrecipe/internal/dag"
	"github.com/specialistvlad/vkrecipe/internal/ref"
)

var (
	// ErrNotFound is returned when a package or a matching version is not available.
	ErrNotFound = errors.New("package not found")
	// ErrConflict is returned when two requirements pin different versions of
	// the same package and no override settles it.
	ErrConflict = errors.New("version conflict")
)

// RootID is the graph node representing the recipe itself.
const RootID = "<recipe>"

// Package is one resolved dependency.
type Package struct {
	Name     string
	Version  string
	Root     string
	Manifest *config.PackageManifest
	// Options holds the effective option values: manifest defaults overlaid
	// with the recipe's options.
	Options map[string]bool
	// Direct is true for packages the recipe requires itself.
	Direct bool
	// Overridden is true when the version was forced by an override.
	Overridden bool
	// RequiredBy lists the package names (or RootID) that require this package.
	RequiredBy []string
	// Dependencies lists the package names this package requires.
	Dependencies []string
}

// Reference returns the resolved `name/version` string.
func (p *Package) Reference() string {
	return p.Name + "/" + p.Version
}

// Graph is the result of a resolution run.
type Graph struct {
	Packages map[string]*Package
	// Order lists package names so that every package follows its dependencies.
	Order []string
}

// Get returns the resolved package with the given name.
func (g *Graph) Get(name string) (*Package, bool) {
	p, ok := g.Packages[name]
	return p, ok
}

// Sorted returns the packages in dependency order.
func (g *Graph) Sorted() []*Package {
	out := make([]*Package, 0, len(g.Order))
	for _, name := range g.Order {
		out = append(out, g.Packages[name])
	}
	return out
}

// Resolver resolves recipes against a Provider.
type Resolver struct {
	provider Provider
}

// New creates a resolver backed by the given provider.
func New(provider Provider) *Resolver {
	return &Resolver{provider: provider}
}

type request struct {
	req    *config.Requirement
	source string
}

// Resolve resolves every requirement of the recipe, transitively, and
// applies the recipe's build options to the result.
func (r *Resolver) Resolve(ctx context.Context, recipe *config.Recipe) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving dependencies.", "direct", len(recipe.Requires))

	overrides := make(map[string]*config.Requirement)
	for _, req := range recipe.Requires {
		if req.Override {
			overrides[req.Name()] = req
		}
	}

	graph := dag.New()
	graph.AddNode(RootID)

	packages := make(map[string]*Package)
	firstSource := make(map[string]request)

	queue := make([]request, 0, len(recipe.Requires))
	for _, req := range recipe.Requires {
		queue = append(queue, request{req: req, source: RootID})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		name := cur.req.Name()

		wanted := cur.req.Ref.Version
		ov, overridden := overrides[name]
		if overridden {
			wanted = ov.Ref.Version
		}

		if existing, ok := packages[name]; ok {
			if !wanted.Matches(existing.Version) {
				first := firstSource[name]
				return nil, fmt.Errorf("%w: %s requires %s, but %s requires %s (resolved to %s); declare an override for %q in the recipe",
					ErrConflict, cur.source, cur.req.Ref.String(), first.source, first.req.Ref.String(), existing.Version, name)
			}
			if cur.source == RootID {
				existing.Direct = true
			}
			if err := graph.AddEdge(cur.source, name); err != nil {
				return nil, err
			}
			continue
		}

		version, err := r.pickVersion(ctx, name, wanted)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s (required by %s): %w", cur.req.Ref.String(), cur.source, err)
		}
		manifest, err := r.provider.Manifest(ctx, name, version)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s/%s: %w", name, version, err)
		}

		pkg := &Package{
			Name:       name,
			Version:    version,
			Root:       r.provider.Root(name, version),
			Manifest:   manifest,
			Direct:     cur.source == RootID,
			Overridden: overridden,
		}
		packages[name] = pkg
		firstSource[name] = cur
		logger.Debug("Resolved package.", "package", pkg.Reference(), "required_by", cur.source, "overridden", overridden)

		graph.AddNode(name)
		if err := graph.AddEdge(cur.source, name); err != nil {
			return nil, err
		}

		for _, dep := range manifest.Requires {
			graph.AddNode(dep.Name())
			queue = append(queue, request{req: dep, source: name})
		}
	}

	order, err := graph.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("invalid dependency graph: %w", err)
	}

	result := &Graph{Packages: packages}
	for _, id := range order {
		if id == RootID {
			continue
		}
		pkg := packages[id]
		pkg.RequiredBy, _ = graph.Dependents(id)
		pkg.Dependencies, _ = graph.Dependencies(id)
		result.Order = append(result.Order, id)
	}

	if err := applyOptions(result, recipe.Options); err != nil {
		return nil, err
	}

	logger.Info("Dependencies resolved.", "packages", len(result.Order))
	return result, nil
}

// pickVersion selects the concrete version for a request.
func (r *Resolver) pickVersion(ctx context.Context, name string, wanted ref.Version) (string, error) {
	available, err := r.provider.Versions(ctx, name)
	if err != nil {
		return "", err
	}

	if !wanted.IsRange() {
		for _, v := range available {
			if v == wanted.Raw() {
				return v, nil
			}
		}
		return "", fmt.Errorf("%w: version %s of %s (available: %v)", ErrNotFound, wanted, name, available)
	}

	var candidates semver.Collection
	byVersion := make(map[*semver.Version]string)
	for _, raw := range available {
		sv, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if wanted.Matches(raw) {
			candidates = append(candidates, sv)
			byVersion[sv] = raw
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no version of %s satisfies %s (available: %v)", ErrNotFound, name, wanted, available)
	}
	sort.Sort(candidates)
	return byVersion[candidates[len(candidates)-1]], nil
}
