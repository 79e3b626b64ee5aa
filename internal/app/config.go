package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/vkrecipe/internal/config"
	"github.com/specialistvlad/vkrecipe/internal/generator"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RecipePath   string // hcl file or directory
	ProjectDir   string
	CacheDir     string
	OutputFolder string            // relative to ProjectDir
	Settings     map[string]string // -s key=value overrides

	LogFormat string
	LogLevel  string
	DryRun    bool
}

// NewConfig validates cfg, fills defaults and makes directories absolute.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.RecipePath == "" {
		return nil, errors.New("RecipePath is a required configuration field and cannot be empty")
	}
	if cfg.CacheDir == "" {
		return nil, errors.New("CacheDir is a required configuration field and cannot be empty")
	}
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}
	if cfg.OutputFolder == "" {
		cfg.OutputFolder = generator.DefaultOutputFolder
	}
	if filepath.IsAbs(cfg.OutputFolder) || strings.HasPrefix(filepath.Clean(cfg.OutputFolder), "..") {
		return nil, fmt.Errorf("output folder %q must be relative to the project directory", cfg.OutputFolder)
	}

	var unknown []string
	for k := range cfg.Settings {
		if !isKnownSetting(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown settings %s, known settings are %s",
			strings.Join(unknown, ", "), strings.Join(config.KnownSettings, ", "))
	}

	for _, dir := range []*string{&cfg.ProjectDir, &cfg.CacheDir} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, err
		}
		*dir = abs
	}

	return &cfg, nil
}

func isKnownSetting(name string) bool {
	for _, s := range config.KnownSettings {
		if s == name {
			return true
		}
	}
	return false
}
