package generator

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/specialistvlad/vkrecipe/internal/config"
	"github.com/specialistvlad/vkrecipe/internal/ctxlog"
	"github.com/specialistvlad/vkrecipe/internal/resolver"
)

// DefaultOutputFolder is the project-relative folder generated files go to.
const DefaultOutputFolder = "build/generators"

// Input is everything a generator may need.
type Input struct {
	Recipe   *config.Recipe
	Graph    *resolver.Graph
	Settings map[string]string
	// CacheRoot is the absolute location of the package cache on disk, used
	// to turn package-relative directories into paths the build tool can use.
	CacheRoot string
}

// packageDir returns the absolute, slash-separated directory of a package.
func (in Input) packageDir(pkg *resolver.Package) string {
	return filepath.ToSlash(filepath.Join(in.CacheRoot, filepath.FromSlash(pkg.Root)))
}

// File is one rendered output file.
type File struct {
	Name    string
	Content []byte
}

// renderFunc renders all files of one generator.
type renderFunc func(in Input) ([]File, error)

var renderers = map[string]renderFunc{
	config.GeneratorCMakeDeps: renderCMakeDeps,
	config.GeneratorPkgConfig: renderPkgConfig,
	config.GeneratorJSON:      renderLockfile,
}

// Generator writes generated files to an output folder of a filesystem.
type Generator struct {
	out    billy.Filesystem
	folder string
	dryRun bool
}

// New creates a generator writing below folder on out.
func New(out billy.Filesystem, folder string, dryRun bool) *Generator {
	if folder == "" {
		folder = DefaultOutputFolder
	}
	return &Generator{out: out, folder: folder, dryRun: dryRun}
}

// Generate renders every generator the recipe names and writes the result.
// It returns the written paths relative to the output filesystem.
func (g *Generator) Generate(ctx context.Context, in Input) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	var files []File
	for _, name := range in.Recipe.Generators {
		render, ok := renderers[name]
		if !ok {
			return nil, fmt.Errorf("unknown generator %q", name)
		}
		rendered, err := render(in)
		if err != nil {
			return nil, fmt.Errorf("generator %s: %w", name, err)
		}
		logger.Debug("Generator rendered files.", "generator", name, "files", len(rendered))
		files = append(files, rendered...)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		p := path.Join(g.folder, f.Name)
		if !g.dryRun {
			if err := g.out.MkdirAll(path.Dir(p), 0755); err != nil {
				return nil, err
			}
			if err := util.WriteFile(g.out, p, f.Content, 0644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", p, err)
			}
		}
		written = append(written, p)
	}

	sort.Strings(written)
	logger.Info("Generated build files.", "folder", g.folder, "files", len(written), "dry_run", g.dryRun)
	return written, nil
}

// cmakeVar turns a package name into an upper-case CMake variable prefix.
func cmakeVar(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToUpper(r))
		} else {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func sortedOptions(opts map[string]bool) []optionView {
	views := make([]optionView, 0, len(opts))
	for name, v := range opts {
		views = append(views, optionView{Name: name, Var: cmakeVar(name), Value: v})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views
}

type optionView struct {
	Name  string
	Var   string
	Value bool
}
