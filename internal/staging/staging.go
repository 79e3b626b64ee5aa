package staging

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/specialistvlad/vkrecipe/internal/config"
	"github.com/specialistvlad/vkrecipe/internal/ctxlog"
	"github.com/specialistvlad/vkrecipe/internal/fsutil"
	"github.com/specialistvlad/vkrecipe/internal/resolver"
)

// ErrMissingSource is returned when a rule naming a specific file finds
// nothing to copy.
var ErrMissingSource = errors.New("missing source file")

// StagedFile describes one copied file.
type StagedFile struct {
	Rule    string
	Package string
	// Source is relative to the package cache.
	Source string
	// Dest is relative to the project root.
	Dest string
	Size int
}

// Result lists the files produced by a staging run.
type Result struct {
	Files []StagedFile
	index map[string]int
}

// Produced reports whether the project-relative path was written by staging.
func (r *Result) Produced(p string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[path.Clean(p)]
	return ok
}

// Lookup returns the staged file for a project-relative path.
func (r *Result) Lookup(p string) (StagedFile, bool) {
	if r == nil {
		return StagedFile{}, false
	}
	i, ok := r.index[path.Clean(p)]
	if !ok {
		return StagedFile{}, false
	}
	return r.Files[i], true
}

// NewResult builds a result from already staged files.
func NewResult(files ...StagedFile) *Result {
	r := &Result{index: make(map[string]int)}
	for _, f := range files {
		f.Dest = path.Clean(f.Dest)
		r.add(f)
	}
	return r
}

func (r *Result) add(f StagedFile) {
	r.index[f.Dest] = len(r.Files)
	r.Files = append(r.Files, f)
}

// Stager copies files from the package cache to the project.
type Stager struct {
	cache   billy.Filesystem
	project billy.Filesystem
	dryRun  bool
}

// New creates a stager reading from cache and writing to project. In dry-run
// mode the result is computed but nothing is written.
func New(cache, project billy.Filesystem, dryRun bool) *Stager {
	return &Stager{cache: cache, project: project, dryRun: dryRun}
}

// Stage applies every rule, in declaration order, to the resolved packages.
func (s *Stager) Stage(ctx context.Context, rules []*config.StagingRule, graph *resolver.Graph) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	result := NewResult()

	for _, rule := range rules {
		ruleLogger := logger.With("import", rule.Name)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		g, err := config.CompilePattern(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("import '%s': invalid pattern %q: %w", rule.Name, rule.Pattern, err)
		}

		packages, err := sourcesFor(rule, graph)
		if err != nil {
			return nil, err
		}

		matched := 0
		for _, pkg := range packages {
			srcDir := s.cache.Join(pkg.Root, rule.Src)
			files, err := fsutil.ListFiles(s.cache, srcDir)
			if err != nil {
				return nil, fmt.Errorf("import '%s': failed to list %s: %w", rule.Name, srcDir, err)
			}

			for _, rel := range files {
				if !g.Match(rel) {
					continue
				}
				matched++

				dest := path.Join(rule.Dst, path.Base(rel))
				if rule.KeepPath {
					dest = path.Join(rule.Dst, rel)
				}
				src := s.cache.Join(srcDir, rel)

				if prev, dup := result.Lookup(dest); dup {
					if prev.Source != src {
						return nil, fmt.Errorf("import '%s': %s would overwrite %s staged from %s", rule.Name, src, dest, prev.Source)
					}
					ruleLogger.Debug("File already staged by another import.", "dest", dest, "import", prev.Rule)
					continue
				}

				size, err := s.copy(src, dest)
				if err != nil {
					return nil, fmt.Errorf("import '%s': failed to stage %s: %w", rule.Name, src, err)
				}
				result.add(StagedFile{Rule: rule.Name, Package: pkg.Name, Source: src, Dest: dest, Size: size})
				ruleLogger.Debug("Staged file.", "package", pkg.Reference(), "source", src, "dest", dest, "bytes", size)
			}
		}

		if matched == 0 {
			if isLiteral(rule.Pattern) {
				return nil, fmt.Errorf("%w: import '%s' found no %q under %q in %s", ErrMissingSource, rule.Name, rule.Pattern, rule.Src, packageNames(packages))
			}
			ruleLogger.Warn("Import pattern matched no files.", "pattern", rule.Pattern, "src", rule.Src)
		}
	}

	sort.SliceStable(result.Files, func(i, j int) bool { return result.Files[i].Dest < result.Files[j].Dest })
	for i, f := range result.Files {
		result.index[f.Dest] = i
	}

	logger.Info("Staging complete.", "files", len(result.Files), "dry_run", s.dryRun)
	return result, nil
}

func (s *Stager) copy(src, dest string) (int, error) {
	data, err := util.ReadFile(s.cache, src)
	if err != nil {
		return 0, err
	}
	if s.dryRun {
		return len(data), nil
	}
	if err := s.project.MkdirAll(path.Dir(dest), 0755); err != nil {
		return 0, err
	}
	if err := util.WriteFile(s.project, dest, data, 0644); err != nil {
		return 0, err
	}
	return len(data), nil
}

// sourcesFor returns the packages a rule reads from.
func sourcesFor(rule *config.StagingRule, graph *resolver.Graph) ([]*resolver.Package, error) {
	if rule.From == "" {
		return graph.Sorted(), nil
	}
	pkg, ok := graph.Get(rule.From)
	if !ok {
		return nil, fmt.Errorf("import '%s': package %q is not in the dependency graph", rule.Name, rule.From)
	}
	return []*resolver.Package{pkg}, nil
}

func isLiteral(pattern string) bool {
	return !strings.ContainsAny(pattern, "*?[{")
}

func packageNames(pkgs []*resolver.Package) []string {
	names := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		names = append(names, p.Reference())
	}
	return names
}
