package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/vkrecipe/internal/app"
	"github.com/specialistvlad/vkrecipe/internal/generator"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// InspectArgs are the arguments of `asset inspect`.
type InspectArgs struct {
	Path  string
	Query string
}

// BakeArgs are the arguments of `asset bake`.
type BakeArgs struct {
	Dir string
}

// Command is the parsed invocation. Exactly one field is set.
type Command struct {
	Configure *app.Config
	Inspect   *InspectArgs
	Bake      *BakeArgs
}

const usageText = `
vkrecipe - resolves native dependencies and prepares a project for building.

Usage:
  vkrecipe configure [options] RECIPE_PATH
  vkrecipe asset inspect [-query JSONPATH] FILE
  vkrecipe asset bake DIR

Commands:
  configure      Resolve the recipe, stage and patch vendor files, write build files.
  asset inspect  Print the header and metadata of a texture or mesh asset.
  asset bake     Convert the .png and .obj files of a directory into .tx and .mesh assets.

Run 'vkrecipe <command> -h' for the options of a command.
`

// Parse processes command-line arguments. It returns the parsed command, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Command, bool, error) {
	slog.Debug("CLI parser started.", "args", args)

	if len(args) == 0 {
		fmt.Fprint(output, usageText)
		return nil, true, nil
	}

	switch args[0] {
	case "-h", "-help", "--help", "help":
		fmt.Fprint(output, usageText)
		return nil, true, nil
	case "configure":
		cfg, exit, err := parseConfigure(args[1:], output)
		if err != nil || exit {
			return nil, exit, err
		}
		return &Command{Configure: cfg}, false, nil
	case "asset":
		sub := ""
		if len(args) > 1 {
			sub = args[1]
		}
		switch sub {
		case "inspect":
			ia, exit, err := parseInspect(args[2:], output)
			if err != nil || exit {
				return nil, exit, err
			}
			return &Command{Inspect: ia}, false, nil
		case "bake":
			ba, exit, err := parseBake(args[2:], output)
			if err != nil || exit {
				return nil, exit, err
			}
			return &Command{Bake: ba}, false, nil
		default:
			return nil, false, usageError("unknown asset command, expected 'vkrecipe asset inspect FILE' or 'vkrecipe asset bake DIR'")
		}
	default:
		return nil, false, usageError("unknown command %q, expected 'configure', 'asset inspect' or 'asset bake'", args[0])
	}
}

func parseConfigure(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("configure", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Usage:
  vkrecipe configure [options] RECIPE_PATH

Arguments:
  RECIPE_PATH
    Path to a single .hcl recipe file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	settings := settingsFlag{}
	recipeFlag := flagSet.String("recipe", "", "Path to the recipe file or directory.")
	rFlag := flagSet.String("r", "", "Path to the recipe file or directory (shorthand).")
	projectFlag := flagSet.String("project", ".", "Project root that files are staged into.")
	cacheFlag := flagSet.String("cache", defaultCacheDir(), "Local package cache laid out as <name>/<version>/.")
	outputFlag := flagSet.String("output-folder", generator.DefaultOutputFolder, "Folder for generated build files, relative to the project.")
	flagSet.Var(settings, "s", "Setting as key=value (os, arch, compiler, build_type). Repeatable.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Resolve and report without writing any file.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *recipeFlag != "" {
		path = *recipeFlag
	} else if *rFlag != "" {
		path = *rFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))
	}

	if path == "" {
		slog.Debug("No recipe path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	cfg, err := app.NewConfig(app.Config{
		RecipePath:   path,
		ProjectDir:   *projectFlag,
		CacheDir:     *cacheFlag,
		OutputFolder: *outputFlag,
		Settings:     settings,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		DryRun:       *dryRunFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

func parseInspect(args []string, output io.Writer) (*InspectArgs, bool, error) {
	flagSet := flag.NewFlagSet("asset inspect", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Usage:
  vkrecipe asset inspect [-query JSONPATH] FILE

Options:
`)
		flagSet.PrintDefaults()
	}
	queryFlag := flagSet.String("query", "", "JSONPath expression selecting part of the metadata, e.g. '$.compression'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() != 1 {
		return nil, false, usageError("asset inspect expects exactly one FILE argument")
	}
	return &InspectArgs{Path: flagSet.Arg(0), Query: *queryFlag}, false, nil
}

func parseBake(args []string, output io.Writer) (*BakeArgs, bool, error) {
	flagSet := flag.NewFlagSet("asset bake", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Usage:
  vkrecipe asset bake DIR

Every .png file in DIR is written as a .tx texture and every .obj file as a
.mesh asset, next to its source. Subdirectories are not visited.
`)
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() != 1 {
		return nil, false, usageError("asset bake expects exactly one DIR argument")
	}
	return &BakeArgs{Dir: flagSet.Arg(0)}, false, nil
}

// defaultCacheDir honours VKRECIPE_HOME and falls back to ~/.vkrecipe/p.
func defaultCacheDir() string {
	if home := os.Getenv("VKRECIPE_HOME"); home != "" {
		return filepath.Join(home, "p")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".vkrecipe", "p")
	}
	return filepath.Join(".vkrecipe", "p")
}

// settingsFlag collects repeated -s key=value flags.
type settingsFlag map[string]string

func (s settingsFlag) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + s[k]
	}
	return strings.Join(parts, ",")
}

func (s settingsFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" || value == "" {
		return fmt.Errorf("setting %q must have the form key=value", v)
	}
	s[key] = value
	return nil
}
