// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the recipe and package manifest types.
//

package config

import (
	"sort"

	"github.com/specialistvlad/vkrecipe/internal/ref"
)

// Recipe is the unified, format-agnostic representation of a project's
// dependency declarations and build-configuration steps.
type Recipe struct {
	Name       string
	Settings   []string
	Generators []string
	Requires   []*Requirement
	Options    []*BuildOption
	Imports    []*StagingRule
	Patches    []*PatchRule
}

// Requirement declares one external native library the build must fetch
// and link.
type Requirement struct {
	Ref ref.Reference
	// Override forces this version of the package across the whole
	// dependency graph, including transitive requirements.
	Override bool
}

// Name is a shorthand for the referenced package name.
func (r *Requirement) Name() string {
	return r.Ref.Name
}

// BuildOption toggles a compile-time feature of a dependency.
type BuildOption struct {
	Package string
	Flag    string
	Value   bool
}

// Key returns the `package:flag` form used in recipes and diagnostics.
func (o *BuildOption) Key() string {
	return o.Package + ":" + o.Flag
}

// StagingRule copies vendor files from a resolved package into the
// project's source tree.
type StagingRule struct {
	Name    string
	Pattern string
	// Src is relative to the package root.
	Src string
	// Dst is relative to the project root.
	Dst      string
	KeepPath bool
	// From restricts the rule to a single package. Empty means every
	// resolved package is searched.
	From string
}

// PatchRule performs a literal substitution in a staged file.
type PatchRule struct {
	Name    string
	File    string
	Search  string
	Replace string
	// Strict turns a missing search string into an error. Non-strict rules
	// only log a warning.
	Strict bool
}

// PackageManifest describes a package stored in the local cache.
type PackageManifest struct {
	Name        string
	Version     string
	Description string
	Requires    []*Requirement
	// Options holds the declared option flags with their default values.
	Options     map[string]bool
	Libs        []string
	IncludeDirs []string
	LibDirs     []string
	BinDirs     []string
}

// DefaultManifest returns the manifest assumed for a package directory that
// ships without one.
func DefaultManifest(name, version string) *PackageManifest {
	return &PackageManifest{
		Name:        name,
		Version:     version,
		Options:     map[string]bool{},
		IncludeDirs: []string{"include"},
		LibDirs:     []string{"lib"},
		BinDirs:     []string{"bin"},
	}
}

// OptionNames returns the declared option names in sorted order.
func (m *PackageManifest) OptionNames() []string {
	names := make([]string, 0, len(m.Options))
	for name := range m.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
