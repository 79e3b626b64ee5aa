package patch

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/specialistvlad/vkrecipe/internal/config"
	"github.com/specialistvlad/vkrecipe/internal/ctxlog"
	"github.com/specialistvlad/vkrecipe/internal/staging"
)

// ErrNotStaged is returned when a rule targets a file staging did not produce.
var ErrNotStaged = errors.New("patch target was not produced by staging")

// Report records the outcome of one rule.
type Report struct {
	Rule         string
	File         string
	Outcome      Outcome
	Replacements int
}

// Patcher applies patch rules to staged files in the project tree.
type Patcher struct {
	cache   billy.Filesystem
	project billy.Filesystem
	dryRun  bool
}

// New creates a patcher. In dry-run mode staged content is read from the
// package cache (staging wrote nothing) and results are never written.
func New(cache, project billy.Filesystem, dryRun bool) *Patcher {
	return &Patcher{cache: cache, project: project, dryRun: dryRun}
}

// Apply runs every rule in declaration order. Several rules may target the
// same file; each sees the result of the previous ones.
func (p *Patcher) Apply(ctx context.Context, rules []*config.PatchRule, staged *staging.Result) ([]Report, error) {
	logger := ctxlog.FromContext(ctx)
	contents := make(map[string]string)
	reports := make([]Report, 0, len(rules))

	for _, rule := range rules {
		ruleLogger := logger.With("patch", rule.Name, "file", rule.File)
		file := path.Clean(rule.File)

		src, ok := staged.Lookup(file)
		if !ok {
			return reports, fmt.Errorf("patch '%s': %w: %s", rule.Name, ErrNotStaged, file)
		}

		content, loaded := contents[file]
		if !loaded {
			data, err := p.read(file, src)
			if err != nil {
				return reports, fmt.Errorf("patch '%s': failed to read %s: %w", rule.Name, file, err)
			}
			content = string(data)
		}

		patched, outcome, count, err := Substitute(content, rule.Search, rule.Replace)
		if err != nil {
			if !errors.Is(err, ErrSearchNotFound) || rule.Strict {
				return reports, fmt.Errorf("patch '%s': %w in %s: %q", rule.Name, err, file, rule.Search)
			}
			ruleLogger.Warn("Patch search string not found; file left unchanged.", "search", rule.Search)
			outcome = Warned
		}
		contents[file] = patched

		if outcome == Applied && !p.dryRun {
			if err := util.WriteFile(p.project, file, []byte(patched), 0644); err != nil {
				return reports, fmt.Errorf("patch '%s': failed to write %s: %w", rule.Name, file, err)
			}
		}

		ruleLogger.Debug("Patch evaluated.", "outcome", outcome.String(), "replacements", count)
		reports = append(reports, Report{Rule: rule.Name, File: file, Outcome: outcome, Replacements: count})
	}

	logger.Info("Patching complete.", "rules", len(reports), "dry_run", p.dryRun)
	return reports, nil
}

func (p *Patcher) read(file string, src staging.StagedFile) ([]byte, error) {
	if p.dryRun {
		return util.ReadFile(p.cache, src.Source)
	}
	return util.ReadFile(p.project, file)
}
