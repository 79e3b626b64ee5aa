package resolver

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/vkrecipe/internal/config"
)

// applyOptions computes the effective options of every resolved package.
// An option for a package that is not part of the graph, or for a flag the
// package manifest does not declare, is an error rather than being ignored.
func applyOptions(g *Graph, options []*config.BuildOption) error {
	for _, pkg := range g.Packages {
		pkg.Options = make(map[string]bool, len(pkg.Manifest.Options))
		for name, def := range pkg.Manifest.Options {
			pkg.Options[name] = def
		}
	}

	var errs []string
	for _, opt := range options {
		pkg, ok := g.Packages[opt.Package]
		if !ok {
			errs = append(errs, fmt.Sprintf("option %q targets package %q which is not in the dependency graph", opt.Key(), opt.Package))
			continue
		}
		if len(pkg.Manifest.Options) > 0 {
			if _, declared := pkg.Manifest.Options[opt.Flag]; !declared {
				errs = append(errs, fmt.Sprintf("option %q is not declared by %s (declared: %s)",
					opt.Key(), pkg.Reference(), strings.Join(pkg.Manifest.OptionNames(), ", ")))
				continue
			}
		}
		pkg.Options[opt.Flag] = opt.Value
	}

	if len(errs) > 0 {
		return fmt.Errorf("option validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
