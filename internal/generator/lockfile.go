package generator

import (
	"encoding/json"
	"fmt"
)

// LockfileName is the file written by the json generator.
const LockfileName = "vkrecipe.lock.json"

// LockfileVersion is bumped whenever the lockfile schema changes.
const LockfileVersion = 1

// Lockfile is a reproducible snapshot of a resolution run.
type Lockfile struct {
	Version  int               `json:"version"`
	Recipe   string            `json:"recipe"`
	Settings map[string]string `json:"settings,omitempty"`
	Packages []LockedPackage   `json:"packages"`
}

// LockedPackage is one resolved package in the lockfile.
type LockedPackage struct {
	Ref        string          `json:"ref"`
	Name       string          `json:"name"`
	Version    string          `json:"version"`
	Direct     bool            `json:"direct"`
	Override   bool            `json:"override,omitempty"`
	Requires   []string        `json:"requires,omitempty"`
	RequiredBy []string        `json:"required_by"`
	Options    map[string]bool `json:"options,omitempty"`
	Path       string          `json:"path"`
}

// BuildLockfile converts a resolution result into its lockfile form.
func BuildLockfile(in Input) *Lockfile {
	lock := &Lockfile{
		Version:  LockfileVersion,
		Recipe:   in.Recipe.Name,
		Settings: map[string]string{},
	}
	for _, name := range in.Recipe.Settings {
		if v, ok := in.Settings[name]; ok {
			lock.Settings[name] = v
		}
	}
	for _, pkg := range in.Graph.Sorted() {
		lock.Packages = append(lock.Packages, LockedPackage{
			Ref:        pkg.Reference(),
			Name:       pkg.Name,
			Version:    pkg.Version,
			Direct:     pkg.Direct,
			Override:   pkg.Overridden,
			Requires:   pkg.Dependencies,
			RequiredBy: pkg.RequiredBy,
			Options:    pkg.Options,
			Path:       in.packageDir(pkg),
		})
	}
	return lock
}

func renderLockfile(in Input) ([]File, error) {
	data, err := json.MarshalIndent(BuildLockfile(in), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode lockfile: %w", err)
	}
	return []File{{Name: LockfileName, Content: append(data, '\n')}}, nil
}
