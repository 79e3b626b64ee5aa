package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from a
// recipe file. Unknown blocks and attributes are rejected by the decoder.
type fileRoot struct {
	Recipes  []*RecipeBlock  `hcl:"recipe,block"`
	Requires []*RequireBlock `hcl:"require,block"`
	Options  []*OptionBlock  `hcl:"option,block"`
	Imports  []*ImportBlock  `hcl:"import,block"`
	Patches  []*PatchBlock   `hcl:"patch,block"`
}

// RecipeBlock is the `recipe "<name>" { ... }` header block.
type RecipeBlock struct {
	Name           string         `hcl:"name,label"`
	Settings       []string       `hcl:"settings,optional"`
	Generators     []string       `hcl:"generators,optional"`
	Requires       []string       `hcl:"requires,optional"`
	DefaultOptions hcl.Expression `hcl:"default_options,optional"`
}

// RequireBlock declares a single dependency with its override flag.
type RequireBlock struct {
	Name     string `hcl:"name,label"`
	Version  string `hcl:"version"`
	Override *bool  `hcl:"override,optional"`
}

// OptionBlock is the `option "<package>" "<flag>" { value = ... }` block.
type OptionBlock struct {
	Package string         `hcl:"package,label"`
	Flag    string         `hcl:"flag,label"`
	Value   hcl.Expression `hcl:"value"`
}

// ImportBlock describes a file staging rule.
type ImportBlock struct {
	Name     string  `hcl:"name,label"`
	Pattern  string  `hcl:"pattern"`
	Src      *string `hcl:"src,optional"`
	Dst      string  `hcl:"dst"`
	KeepPath *bool   `hcl:"keep_path,optional"`
	From     *string `hcl:"from,optional"`
}

// PatchBlock describes a literal text substitution in a staged file.
type PatchBlock struct {
	Name    string `hcl:"name,label"`
	File    string `hcl:"file"`
	Search  string `hcl:"search"`
	Replace string `hcl:"replace"`
	Strict  *bool  `hcl:"strict,optional"`
}

// manifestRoot decodes a `package.hcl` file found in the package cache.
type manifestRoot struct {
	Package *PackageBlock `hcl:"package,block"`
}

// PackageBlock is the `package "<name>" { ... }` manifest block.
type PackageBlock struct {
	Name        string            `hcl:"name,label"`
	Version     *string           `hcl:"version,optional"`
	Description *string           `hcl:"description,optional"`
	Requires    []string          `hcl:"requires,optional"`
	Libs        []string          `hcl:"libs,optional"`
	IncludeDirs []string          `hcl:"include_dirs,optional"`
	LibDirs     []string          `hcl:"lib_dirs,optional"`
	BinDirs     []string          `hcl:"bin_dirs,optional"`
	Options     []*ManifestOption `hcl:"option,block"`
}

// ManifestOption declares an option flag and its default value.
type ManifestOption struct {
	Name    string `hcl:"name,label"`
	Default bool   `hcl:"default"`
}
