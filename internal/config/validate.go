// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file contains the static integrity checks run on a loaded recipe.
//

package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
	"github.com/specialistvlad/vkrecipe/internal/ref"
)

// Generator names understood by the generator stage.
const (
	GeneratorCMakeDeps = "CMakeDeps"
	GeneratorPkgConfig = "pkg_config"
	GeneratorJSON      = "json"
)

// KnownGenerators lists every accepted generator name.
var KnownGenerators = []string{GeneratorCMakeDeps, GeneratorPkgConfig, GeneratorJSON}

// KnownSettings lists every setting a recipe may declare.
var KnownSettings = []string{"os", "compiler", "build_type", "arch"}

// CompilePattern compiles a staging glob. Matching is performed on
// slash-separated paths relative to the rule's source directory with
// fnmatch semantics: `*` also matches `/`, so `*.so` finds libraries at any
// depth below the source directory.
func CompilePattern(pattern string) (glob.Glob, error) {
	return glob.Compile(pattern)
}

// Validate performs a strict integrity check of the recipe. All problems are
// collected and reported together.
func (r *Recipe) Validate() error {
	var errs []string

	if r.Name == "" {
		errs = append(errs, "recipe name cannot be empty")
	}

	for _, s := range r.Settings {
		if !contains(KnownSettings, s) {
			errs = append(errs, fmt.Sprintf("unknown setting %q (known: %s)", s, strings.Join(KnownSettings, ", ")))
		}
	}
	for _, g := range r.Generators {
		if !contains(KnownGenerators, g) {
			errs = append(errs, fmt.Sprintf("unknown generator %q (known: %s)", g, strings.Join(KnownGenerators, ", ")))
		}
	}

	requires := make(map[string]struct{}, len(r.Requires))
	for _, req := range r.Requires {
		if _, dup := requires[req.Name()]; dup {
			errs = append(errs, fmt.Sprintf("dependency %q is declared more than once", req.Name()))
		}
		requires[req.Name()] = struct{}{}
	}

	options := make(map[string]struct{}, len(r.Options))
	for _, opt := range r.Options {
		if err := ref.ValidateName(opt.Package); err != nil {
			errs = append(errs, fmt.Sprintf("option %q: %v", opt.Key(), err))
		}
		if opt.Flag == "" {
			errs = append(errs, fmt.Sprintf("option for package %q has an empty flag name", opt.Package))
		}
		if _, dup := options[opt.Key()]; dup {
			errs = append(errs, fmt.Sprintf("option %q is set more than once", opt.Key()))
		}
		options[opt.Key()] = struct{}{}
	}

	imports := make(map[string]struct{}, len(r.Imports))
	for _, rule := range r.Imports {
		if _, dup := imports[rule.Name]; dup {
			errs = append(errs, fmt.Sprintf("import %q is declared more than once", rule.Name))
		}
		imports[rule.Name] = struct{}{}
		errs = append(errs, validateStagingRule(rule)...)
	}

	patches := make(map[string]struct{}, len(r.Patches))
	for _, p := range r.Patches {
		if _, dup := patches[p.Name]; dup {
			errs = append(errs, fmt.Sprintf("patch %q is declared more than once", p.Name))
		}
		patches[p.Name] = struct{}{}

		if p.Search == "" {
			errs = append(errs, fmt.Sprintf("patch %q: search string cannot be empty", p.Name))
		}
		if p.Search == p.Replace {
			errs = append(errs, fmt.Sprintf("patch %q: search and replace strings are identical", p.Name))
		}
		if !isRelativeSlashPath(p.File) {
			errs = append(errs, fmt.Sprintf("patch %q: file %q must be a relative path inside the project", p.Name, p.File))
			continue
		}
		if r.StagingRuleFor(p.File) == nil {
			errs = append(errs, fmt.Sprintf("patch %q: file %q is not produced by any import rule", p.Name, p.File))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("recipe validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func validateStagingRule(rule *StagingRule) []string {
	var errs []string
	if rule.Pattern == "" {
		errs = append(errs, fmt.Sprintf("import %q: pattern cannot be empty", rule.Name))
	} else if _, err := CompilePattern(rule.Pattern); err != nil {
		errs = append(errs, fmt.Sprintf("import %q: invalid pattern %q: %v", rule.Name, rule.Pattern, err))
	}
	if rule.Src != "" && !isRelativeSlashPath(rule.Src) {
		errs = append(errs, fmt.Sprintf("import %q: src %q must be relative to the package root", rule.Name, rule.Src))
	}
	if !isRelativeSlashPath(rule.Dst) {
		errs = append(errs, fmt.Sprintf("import %q: dst %q must be a relative path inside the project", rule.Name, rule.Dst))
	}
	if rule.From != "" {
		if err := ref.ValidateName(rule.From); err != nil {
			errs = append(errs, fmt.Sprintf("import %q: from: %v", rule.Name, err))
		}
	}
	return errs
}

// StagingRuleFor returns the first import rule that can produce the given
// project-relative file, or nil when none can.
func (r *Recipe) StagingRuleFor(file string) *StagingRule {
	file = path.Clean(file)
	for _, rule := range r.Imports {
		g, err := CompilePattern(rule.Pattern)
		if err != nil {
			continue
		}
		dst := path.Clean(rule.Dst)

		if !rule.KeepPath {
			if path.Dir(file) != dst {
				continue
			}
			if g.Match(path.Base(file)) || g.Match(lastSegmentPattern(rule.Pattern, path.Base(file))) {
				return rule
			}
			continue
		}

		rel, ok := strings.CutPrefix(file, dst+"/")
		if dst == "." {
			rel, ok = file, true
		}
		if ok && g.Match(rel) {
			return rule
		}
	}
	return nil
}

// lastSegmentPattern handles flattened rules whose pattern reaches into
// subdirectories (`sub/*.h`): the staged file keeps only its base name, so
// the base name is matched against the pattern's directory prefix.
func lastSegmentPattern(pattern, base string) string {
	i := strings.LastIndex(pattern, "/")
	if i < 0 {
		return base
	}
	return pattern[:i+1] + base
}

func isRelativeSlashPath(p string) bool {
	if p == "" || path.IsAbs(p) || strings.Contains(p, `\`) {
		return false
	}
	clean := path.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
