package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/vkrecipe/internal/app"
	"github.com/specialistvlad/vkrecipe/internal/hcl_adapter"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Fixture describes the on-disk state a configure run starts from.
type Fixture struct {
	// Recipe is written to recipe/main.hcl.
	Recipe string
	// Cache maps cache-relative paths (e.g. "sdl/2.0.18/package.hcl") to content.
	Cache map[string]string
	// Project maps project-relative paths to content.
	Project map[string]string

	Settings     map[string]string
	OutputFolder string
	DryRun       bool
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput  string
	Err        error
	Result     *app.Result
	ProjectDir string
	CacheDir   string
}

// RunConfigure provides a standardized harness for running integration tests
// using a default background context.
func RunConfigure(t *testing.T, fx Fixture) *HarnessResult {
	t.Helper()
	return RunConfigureWithContext(context.Background(), t, fx)
}

// RunConfigureWithContext lays out the fixture in a temporary directory and
// runs the configure pipeline once.
func RunConfigureWithContext(ctx context.Context, t *testing.T, fx Fixture) *HarnessResult {
	t.Helper()

	root := t.TempDir()
	recipeDir := filepath.Join(root, "recipe")
	cacheDir := filepath.Join(root, "cache")
	projectDir := filepath.Join(root, "project")
	for _, dir := range []string{recipeDir, cacheDir, projectDir} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}

	writeTree(t, recipeDir, map[string]string{"main.hcl": fx.Recipe})
	writeTree(t, cacheDir, fx.Cache)
	writeTree(t, projectDir, fx.Project)

	return Rerun(ctx, t, &HarnessResult{ProjectDir: projectDir, CacheDir: cacheDir}, fx)
}

// Rerun runs configure again against the directories of a previous result.
// The recipe on disk is replaced by fx.Recipe when it is non-empty.
func Rerun(ctx context.Context, t *testing.T, prev *HarnessResult, fx Fixture) *HarnessResult {
	t.Helper()

	recipeDir := filepath.Join(filepath.Dir(prev.ProjectDir), "recipe")
	if fx.Recipe != "" {
		writeTree(t, recipeDir, map[string]string{"main.hcl": fx.Recipe})
	}

	cfg, err := app.NewConfig(app.Config{
		RecipePath:   recipeDir,
		ProjectDir:   prev.ProjectDir,
		CacheDir:     prev.CacheDir,
		OutputFolder: fx.OutputFolder,
		Settings:     fx.Settings,
		LogLevel:     "debug",
		LogFormat:    "text",
		DryRun:       fx.DryRun,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	testApp := app.NewApp(logBuffer, cfg, hcl_adapter.NewLoader())
	res, runErr := testApp.Run(ctx)

	if os.Getenv("VKRECIPE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput:  logBuffer.String(),
		Err:        runErr,
		Result:     res,
		ProjectDir: prev.ProjectDir,
		CacheDir:   prev.CacheDir,
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}
