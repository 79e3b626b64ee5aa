package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/specialistvlad/vkrecipe/internal/fsutil"
	"github.com/stretchr/testify/require"
)

// ProjectFiles lists every file in the project tree as sorted slash paths.
func ProjectFiles(t *testing.T, result *HarnessResult) []string {
	t.Helper()
	files, err := fsutil.ListFiles(osfs.New(result.ProjectDir), ".")
	require.NoError(t, err)
	return files
}

// ReadProjectFile returns the content of a project-relative file.
func ReadProjectFile(t *testing.T, result *HarnessResult, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(result.ProjectDir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

// AssertResolved checks that a package was resolved to the given version.
func AssertResolved(t *testing.T, result *HarnessResult, name, version string) {
	t.Helper()
	require.NotNil(t, result.Result, "configure run did not produce a result")
	pkg, ok := result.Result.Graph.Get(name)
	require.True(t, ok, "package %q was not resolved", name)
	require.Equal(t, version, pkg.Version, "package %q resolved to the wrong version", name)
}
