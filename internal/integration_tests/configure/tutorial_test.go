package configure

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/specialistvlad/vkrecipe/internal/generator"
	"github.com/specialistvlad/vkrecipe/internal/patch"
	"github.com/specialistvlad/vkrecipe/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigure_Tutorial runs the full pipeline for the tutorial recipe.
func TestConfigure_Tutorial(t *testing.T) {
	t.Parallel()

	// --- Act ---
	result := testutil.RunConfigure(t, testutil.Fixture{
		Recipe:   testutil.TutorialRecipe,
		Cache:    testutil.TutorialCache(),
		Settings: map[string]string{"os": "Linux", "arch": "x86_64", "compiler": "gcc"},
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertResolved(t, result, "sdl", "2.0.18")
	testutil.AssertResolved(t, result, "libiconv", "1.16")
	testutil.AssertResolved(t, result, "imgui", "1.85")

	files := testutil.ProjectFiles(t, result)
	assert.Contains(t, files, "src/bindings/imgui_impl_sdl.cpp")
	assert.Contains(t, files, "src/bindings/imgui_impl_sdl.h")
	assert.Contains(t, files, "src/bindings/imgui_impl_vulkan.cpp")
	assert.Contains(t, files, "src/bindings/imgui_impl_vulkan.h")
	assert.NotContains(t, files, "src/bindings/imgui_impl_dx12.cpp")
	assert.Contains(t, files, "build/generators/sdl-config.cmake")
	assert.Contains(t, files, "build/generators/dependencies.cmake")
	assert.Contains(t, files, "build/generators/libiconv.pc")
	assert.Contains(t, files, "build/generators/"+generator.LockfileName)

	sdlBinding := testutil.ReadProjectFile(t, result, "src/bindings/imgui_impl_sdl.cpp")
	assert.Contains(t, sdlBinding, "SDL_Vulkan_GetDrawableSize(window, &display_w, &display_h);")
	assert.NotContains(t, sdlBinding, "SDL_GL_GetDrawableSize")

	require.Len(t, result.Result.Patches, 1)
	assert.Equal(t, patch.Applied, result.Result.Patches[0].Outcome)

	sdlConfig := testutil.ReadProjectFile(t, result, "build/generators/sdl-config.cmake")
	assert.Contains(t, sdlConfig, "set(SDL_OPTION_OPENGL OFF)")
	assert.Contains(t, sdlConfig, "set(SDL_OPTION_VULKAN ON)")

	var lock generator.Lockfile
	require.NoError(t, json.Unmarshal([]byte(testutil.ReadProjectFile(t, result, "build/generators/"+generator.LockfileName)), &lock))
	assert.Equal(t, "vulkan-tutorial", lock.Recipe)
	assert.Equal(t, map[string]string{"os": "Linux", "arch": "x86_64", "compiler": "gcc", "build_type": "Release"}, lock.Settings)

	seen := map[string]int{}
	for _, p := range lock.Packages {
		seen[p.Name]++
	}
	for name, n := range seen {
		assert.Equal(t, 1, n, "package %s locked more than once", name)
	}
	assert.Len(t, seen, 6)

	assert.Contains(t, result.LogOutput, "Configuration finished.")
}

// TestConfigure_RerunIsIdempotent verifies that a second run leaves every
// staged and patched file byte-identical.
func TestConfigure_RerunIsIdempotent(t *testing.T) {
	t.Parallel()

	fx := testutil.Fixture{Recipe: testutil.TutorialRecipe, Cache: testutil.TutorialCache()}
	first := testutil.RunConfigure(t, fx)
	require.NoError(t, first.Err)

	before := map[string]string{}
	for _, f := range testutil.ProjectFiles(t, first) {
		before[f] = testutil.ReadProjectFile(t, first, f)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	second := testutil.Rerun(ctx, t, first, testutil.Fixture{})
	require.NoError(t, second.Err)

	after := map[string]string{}
	for _, f := range testutil.ProjectFiles(t, second) {
		after[f] = testutil.ReadProjectFile(t, second, f)
	}
	assert.Equal(t, before, after)

	require.Len(t, second.Result.Patches, 1)
	assert.Equal(t, patch.Applied, second.Result.Patches[0].Outcome,
		"staging restores the vendor file, so the patch applies again")
}

// TestConfigure_DryRunWritesNothing checks that a dry run resolves and
// reports without touching the project tree.
func TestConfigure_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	result := testutil.RunConfigure(t, testutil.Fixture{
		Recipe: testutil.TutorialRecipe,
		Cache:  testutil.TutorialCache(),
		DryRun: true,
	})

	require.NoError(t, result.Err)
	assert.Empty(t, testutil.ProjectFiles(t, result))
	assert.NotEmpty(t, result.Result.Staged.Files)
	require.Len(t, result.Result.Patches, 1)
	assert.Equal(t, patch.Applied, result.Result.Patches[0].Outcome)
}

// TestConfigure_CustomOutputFolder checks the -output-folder setting.
func TestConfigure_CustomOutputFolder(t *testing.T) {
	t.Parallel()

	result := testutil.RunConfigure(t, testutil.Fixture{
		Recipe:       testutil.TutorialRecipe,
		Cache:        testutil.TutorialCache(),
		OutputFolder: "cmake/deps",
	})

	require.NoError(t, result.Err)
	for _, f := range result.Result.Generated {
		assert.True(t, strings.HasPrefix(f, "cmake/deps/"), "unexpected output path %s", f)
	}
	assert.Contains(t, testutil.ProjectFiles(t, result), "cmake/deps/dependencies.cmake")
}

// TestConfigure_SharedLibrariesFromPackageRoot stages every shared library
// of every package, wherever it sits below the package root.
func TestConfigure_SharedLibrariesFromPackageRoot(t *testing.T) {
	t.Parallel()

	cache := testutil.TutorialCache()
	cache["sdl/2.0.18/lib/libSDL2.so"] = "ELF sdl"
	cache["lz4/1.9.3/lib/x86_64/liblz4.so"] = "ELF lz4"

	result := testutil.RunConfigure(t, testutil.Fixture{
		Recipe: testutil.TutorialRecipe + `
import "shared-libs" {
  pattern   = "*.so"
  dst       = "lib"
  keep_path = false
}
`,
		Cache:    cache,
		Settings: map[string]string{"os": "Linux", "arch": "x86_64", "compiler": "gcc"},
	})

	require.NoError(t, result.Err)
	files := testutil.ProjectFiles(t, result)
	assert.Contains(t, files, "lib/libSDL2.so")
	assert.Contains(t, files, "lib/liblz4.so")
	assert.Equal(t, "ELF lz4", testutil.ReadProjectFile(t, result, "lib/liblz4.so"))
	assert.Regexp(t, `level=WARN msg="Import pattern matched no files\."[^\n]*import=runtime-dlls`, result.LogOutput)
}
