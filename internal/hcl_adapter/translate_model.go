// This file contains the logic for translating HCL schema structs into the
// format-agnostic recipe model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/vkrecipe/internal/config"
	"github.com/specialistvlad/vkrecipe/internal/ctxlog"
	"github.com/specialistvlad/vkrecipe/internal/ref"
)

// defaultStagingSrc is the package-relative directory searched by import
// rules that do not name one.
const defaultStagingSrc = "."

// translateRecipe converts the merged HCL blocks into the agnostic model.
func (l *Loader) translateRecipe(ctx context.Context, root *fileRoot) (*config.Recipe, error) {
	header := root.Recipes[0]
	logger := ctxlog.FromContext(ctx).With("recipe", header.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL recipe to internal config model.")

	recipe := &config.Recipe{
		Name:       header.Name,
		Settings:   header.Settings,
		Generators: header.Generators,
	}

	for _, raw := range header.Requires {
		r, err := ref.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("in recipe '%s', requires: %w", header.Name, err)
		}
		recipe.Requires = append(recipe.Requires, &config.Requirement{Ref: *r})
	}
	for _, block := range root.Requires {
		req, err := translateRequire(block)
		if err != nil {
			return nil, err
		}
		recipe.Requires = append(recipe.Requires, req)
	}

	if isExprDefined(ctx, header.DefaultOptions, "default_options") {
		opts, err := optionsFromExpr(header.DefaultOptions)
		if err != nil {
			return nil, fmt.Errorf("in recipe '%s': %w", header.Name, err)
		}
		recipe.Options = append(recipe.Options, opts...)
	}
	for _, block := range root.Options {
		opt, err := translateOption(block)
		if err != nil {
			return nil, err
		}
		recipe.Options = append(recipe.Options, opt)
	}

	for _, block := range root.Imports {
		recipe.Imports = append(recipe.Imports, translateImport(block))
	}
	for _, block := range root.Patches {
		recipe.Patches = append(recipe.Patches, translatePatch(block))
	}

	return recipe, nil
}

// translateRequire converts a `require` block into a Requirement.
func translateRequire(b *RequireBlock) (*config.Requirement, error) {
	if err := ref.ValidateName(b.Name); err != nil {
		return nil, fmt.Errorf("in require '%s': %w", b.Name, err)
	}
	v, err := ref.ParseVersion(b.Version)
	if err != nil {
		return nil, fmt.Errorf("in require '%s': %w", b.Name, err)
	}
	return &config.Requirement{
		Ref:      ref.Reference{Name: b.Name, Version: v},
		Override: boolOr(b.Override, false),
	}, nil
}

// translateOption converts an `option` block into a BuildOption.
func translateOption(b *OptionBlock) (*config.BuildOption, error) {
	val, err := boolFromExpr(b.Value, fmt.Sprintf("option \"%s:%s\"", b.Package, b.Flag))
	if err != nil {
		return nil, err
	}
	return &config.BuildOption{Package: b.Package, Flag: b.Flag, Value: val}, nil
}

// translateImport converts an `import` block into a StagingRule.
func translateImport(b *ImportBlock) *config.StagingRule {
	return &config.StagingRule{
		Name:     b.Name,
		Pattern:  b.Pattern,
		Src:      stringOr(b.Src, defaultStagingSrc),
		Dst:      b.Dst,
		KeepPath: boolOr(b.KeepPath, true),
		From:     stringOr(b.From, ""),
	}
}

// translatePatch converts a `patch` block into a PatchRule.
func translatePatch(b *PatchBlock) *config.PatchRule {
	return &config.PatchRule{
		Name:    b.Name,
		File:    b.File,
		Search:  b.Search,
		Replace: b.Replace,
		Strict:  boolOr(b.Strict, true),
	}
}

// translateManifest converts a cached package manifest into the agnostic
// model, filling in conventional directories the manifest omits.
func (l *Loader) translateManifest(ctx context.Context, b *PackageBlock) (*config.PackageManifest, error) {
	ctxlog.FromContext(ctx).Debug("Translating package manifest.", "package", b.Name)

	if err := ref.ValidateName(b.Name); err != nil {
		return nil, fmt.Errorf("in package '%s': %w", b.Name, err)
	}

	m := config.DefaultManifest(b.Name, stringOr(b.Version, ""))
	m.Description = stringOr(b.Description, "")
	m.Libs = b.Libs
	if b.IncludeDirs != nil {
		m.IncludeDirs = b.IncludeDirs
	}
	if b.LibDirs != nil {
		m.LibDirs = b.LibDirs
	}
	if b.BinDirs != nil {
		m.BinDirs = b.BinDirs
	}

	for _, raw := range b.Requires {
		r, err := ref.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("in package '%s', requires: %w", b.Name, err)
		}
		m.Requires = append(m.Requires, &config.Requirement{Ref: *r})
	}

	for _, opt := range b.Options {
		if _, dup := m.Options[opt.Name]; dup {
			return nil, fmt.Errorf("in package '%s': option '%s' is declared more than once", b.Name, opt.Name)
		}
		m.Options[opt.Name] = opt.Default
	}
	return m, nil
}
