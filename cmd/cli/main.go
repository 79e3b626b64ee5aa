package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/vkrecipe/internal/app"
	"github.com/specialistvlad/vkrecipe/internal/cli"
	"github.com/specialistvlad/vkrecipe/internal/hcl_adapter"
)

// main is the entrypoint for the vkrecipe application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	cmd, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	if cmd.Inspect != nil {
		return app.InspectAsset(outW, cmd.Inspect.Path, cmd.Inspect.Query)
	}
	if cmd.Bake != nil {
		return app.BakeAssets(outW, cmd.Bake.Dir)
	}

	vkApp := app.NewApp(outW, cmd.Configure, hcl_adapter.NewLoader())
	if _, err := vkApp.Run(context.Background()); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}
	return nil
}
