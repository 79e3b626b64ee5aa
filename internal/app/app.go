package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/specialistvlad/vkrecipe/internal/config"
	"github.com/specialistvlad/vkrecipe/internal/ctxlog"
)

// Loader loads recipes and package manifests.
type Loader interface {
	config.Loader
	config.ManifestLoader
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	loader  Loader
	cache   billy.Filesystem
	project billy.Filesystem
}

// NewApp is the constructor for the main application. The package cache and
// the project tree are opened on the local disk.
func NewApp(outW io.Writer, cfg *Config, loader Loader) *App {
	return NewAppWithFS(outW, cfg, loader, osfs.New(cfg.CacheDir), osfs.New(cfg.ProjectDir))
}

// NewAppWithFS is NewApp with explicit cache and project filesystems.
func NewAppWithFS(outW io.Writer, cfg *Config, loader Loader, cache, project billy.Filesystem) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.", "level", cfg.LogLevel, "format", cfg.LogFormat)

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		loader:  loader,
		cache:   cache,
		project: project,
	}
}

// Context returns ctx carrying the app's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
