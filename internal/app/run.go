package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/specialistvlad/vkrecipe/internal/ctxlog"
	"github.com/specialistvlad/vkrecipe/internal/generator"
	"github.com/specialistvlad/vkrecipe/internal/patch"
	"github.com/specialistvlad/vkrecipe/internal/resolver"
	"github.com/specialistvlad/vkrecipe/internal/staging"
)

// Result summarizes one configure run.
type Result struct {
	Graph     *resolver.Graph
	Settings  map[string]string
	Staged    *staging.Result
	Patches   []patch.Report
	Generated []string
}

// Run evaluates the recipe once: load, resolve, stage, patch, generate.
// Any failure aborts the run; later stages never see a partial result.
func (a *App) Run(ctx context.Context) (*Result, error) {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.", "recipe", a.config.RecipePath, "dry_run", a.config.DryRun)

	recipe, err := a.loader.Load(ctx, a.config.RecipePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	logger.Info("Recipe loaded.", "name", recipe.Name, "requires", len(recipe.Requires))

	settings, ignored := resolveSettings(recipe.Settings, a.config.Settings)
	if len(ignored) > 0 {
		sort.Strings(ignored)
		logger.Warn("Settings not declared by the recipe are ignored.", "settings", ignored)
	}

	provider := resolver.NewCacheProvider(a.cache, a.loader)
	graph, err := resolver.New(provider).Resolve(ctx, recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies: %w", err)
	}
	for _, pkg := range graph.Sorted() {
		logger.Info("Resolved package.", "package", pkg.Reference(), "direct", pkg.Direct, "overridden", pkg.Overridden)
	}

	staged, err := staging.New(a.cache, a.project, a.config.DryRun).Stage(ctx, recipe.Imports, graph)
	if err != nil {
		return nil, fmt.Errorf("failed to stage files: %w", err)
	}
	logger.Info("Files staged.", "count", len(staged.Files))

	reports, err := patch.New(a.cache, a.project, a.config.DryRun).Apply(ctx, recipe.Patches, staged)
	if err != nil {
		return nil, fmt.Errorf("failed to patch files: %w", err)
	}

	gen := generator.New(a.project, filepath.ToSlash(a.config.OutputFolder), a.config.DryRun)
	written, err := gen.Generate(ctx, generator.Input{
		Recipe:    recipe,
		Graph:     graph,
		Settings:  settings,
		CacheRoot: a.config.CacheDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate build files: %w", err)
	}
	logger.Info("🏁 Configuration finished.", "packages", len(graph.Packages), "generated", len(written))

	return &Result{
		Graph:     graph,
		Settings:  settings,
		Staged:    staged,
		Patches:   reports,
		Generated: written,
	}, nil
}
