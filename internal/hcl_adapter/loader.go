package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/vkrecipe/internal/config"
	"github.com/specialistvlad/vkrecipe/internal/ctxlog"
	"github.com/specialistvlad/vkrecipe/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader and
// config.ManifestLoader interfaces.
type Loader struct{}

// NewLoader creates a new HCL recipe loader.
func NewLoader() *Loader {
	return &Loader{}
}

var (
	_ config.Loader         = (*Loader)(nil)
	_ config.ManifestLoader = (*Loader)(nil)
)

// Load orchestrates the entire HCL recipe loading process. Blocks may be
// spread over several files, but exactly one `recipe` block must exist.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Recipe, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no recipe files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	var merged fileRoot
	var headerFile string

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse recipe file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode recipe file %s: %w", file, diags)
		}

		if len(root.Recipes) > 0 {
			if headerFile != "" || len(root.Recipes) > 1 {
				return nil, fmt.Errorf("exactly one recipe block is allowed, found another in %s", file)
			}
			headerFile = file
		}

		merged.Recipes = append(merged.Recipes, root.Recipes...)
		merged.Requires = append(merged.Requires, root.Requires...)
		merged.Options = append(merged.Options, root.Options...)
		merged.Imports = append(merged.Imports, root.Imports...)
		merged.Patches = append(merged.Patches, root.Patches...)
	}

	if headerFile == "" {
		return nil, fmt.Errorf("no recipe block found in %v", paths)
	}

	recipe, err := l.translateRecipe(ctx, &merged)
	if err != nil {
		return nil, err
	}
	if err := recipe.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.",
		"recipe", recipe.Name,
		"requires", len(recipe.Requires),
		"options", len(recipe.Options),
		"imports", len(recipe.Imports),
		"patches", len(recipe.Patches),
	)
	return recipe, nil
}

// LoadManifest decodes a cached package manifest.
func (l *Loader) LoadManifest(ctx context.Context, src []byte, filename string) (*config.PackageManifest, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse package manifest %s: %w", filename, diags)
	}

	var root manifestRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode package manifest %s: %w", filename, diags)
	}
	if root.Package == nil {
		return nil, fmt.Errorf("package manifest %s has no package block", filename)
	}

	return l.translateManifest(ctx, root.Package)
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found. Unlike module search paths, a configured recipe path that
// does not exist is an error.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing recipe path %s: %w", path, err)
		}

		if info.IsDir() {
			files, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return allFiles, nil
}
