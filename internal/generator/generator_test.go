package generator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/vkrecipe/internal/config"
	"github.com/specialistvlad/vkrecipe/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput(generators ...string) Input {
	sdl := config.DefaultManifest("sdl", "2.0.18")
	sdl.Libs = []string{"SDL2"}
	sdl.Description = "Simple DirectMedia Layer"
	iconv := config.DefaultManifest("libiconv", "1.16")
	iconv.Libs = []string{"iconv"}

	graph := &resolver.Graph{
		Packages: map[string]*resolver.Package{
			"libiconv": {
				Name: "libiconv", Version: "1.16", Root: "libiconv/1.16", Manifest: iconv,
				RequiredBy: []string{"sdl"}, Options: map[string]bool{},
			},
			"sdl": {
				Name: "sdl", Version: "2.0.18", Root: "sdl/2.0.18", Manifest: sdl, Direct: true,
				RequiredBy: []string{resolver.RootID}, Dependencies: []string{"libiconv"},
				Options: map[string]bool{"opengl": false, "vulkan": true},
			},
		},
		Order: []string{"libiconv", "sdl"},
	}

	return Input{
		Recipe: &config.Recipe{
			Name:       "vulkan-tutorial",
			Settings:   []string{"os", "build_type"},
			Generators: generators,
		},
		Graph:     graph,
		Settings:  map[string]string{"os": "Linux", "build_type": "Release", "arch": "x86_64"},
		CacheRoot: "/opt/cache",
	}
}

func TestGenerate_CMakeDeps(t *testing.T) {
	out := memfs.New()
	written, err := New(out, "", false).Generate(context.Background(), testInput(config.GeneratorCMakeDeps))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"build/generators/dependencies.cmake",
		"build/generators/libiconv-config-version.cmake",
		"build/generators/libiconv-config.cmake",
		"build/generators/sdl-config-version.cmake",
		"build/generators/sdl-config.cmake",
	}, written)

	cfg, err := util.ReadFile(out, "build/generators/sdl-config.cmake")
	require.NoError(t, err)
	text := string(cfg)
	assert.Contains(t, text, "find_dependency(libiconv REQUIRED)")
	assert.Contains(t, text, `set(SDL_VERSION "2.0.18")`)
	assert.Contains(t, text, `set(SDL_INCLUDE_DIRS "/opt/cache/sdl/2.0.18/include")`)
	assert.Contains(t, text, `set(SDL_LIBRARIES "SDL2")`)
	assert.Contains(t, text, "set(SDL_OPTION_OPENGL OFF)")
	assert.Contains(t, text, "set(SDL_OPTION_VULKAN ON)")
	assert.Contains(t, text, `INTERFACE_INCLUDE_DIRECTORIES "${SDL_INCLUDE_DIRS}"`)
	assert.Contains(t, text, `INTERFACE_LINK_LIBRARIES "${SDL_LIBRARIES};libiconv::libiconv"`)

	agg, err := util.ReadFile(out, "build/generators/dependencies.cmake")
	require.NoError(t, err)
	assert.Contains(t, string(agg), "find_package(sdl REQUIRED CONFIG)")
	assert.NotContains(t, string(agg), "find_package(libiconv", "only direct requirements are found explicitly")
	assert.Contains(t, string(agg), `set(VKRECIPE_SETTING_OS "Linux")`)
	assert.NotContains(t, string(agg), "ARCH", "undeclared settings are not recorded")
}

func TestGenerate_PkgConfig(t *testing.T) {
	out := memfs.New()
	_, err := New(out, "gen", false).Generate(context.Background(), testInput(config.GeneratorPkgConfig))
	require.NoError(t, err)

	pc, err := util.ReadFile(out, "gen/sdl.pc")
	require.NoError(t, err)
	expected := `prefix=/opt/cache/sdl/2.0.18

Name: sdl
Description: Simple DirectMedia Layer
Version: 2.0.18
Requires: libiconv
Libs: -L${prefix}/lib -lSDL2
Cflags: -I${prefix}/include
`
	if diff := cmp.Diff(expected, string(pc)); diff != "" {
		t.Errorf("pkg-config mismatch (-want +got):\n%s", diff)
	}

	iconv, err := util.ReadFile(out, "gen/libiconv.pc")
	require.NoError(t, err)
	assert.NotContains(t, string(iconv), "Requires:")
}

func TestGenerate_Lockfile(t *testing.T) {
	out := memfs.New()
	_, err := New(out, "", false).Generate(context.Background(), testInput(config.GeneratorJSON))
	require.NoError(t, err)

	data, err := util.ReadFile(out, "build/generators/"+LockfileName)
	require.NoError(t, err)

	var lock Lockfile
	require.NoError(t, json.Unmarshal(data, &lock))
	assert.Equal(t, LockfileVersion, lock.Version)
	assert.Equal(t, map[string]string{"os": "Linux", "build_type": "Release"}, lock.Settings)
	require.Len(t, lock.Packages, 2)
	assert.Equal(t, "libiconv/1.16", lock.Packages[0].Ref)
	assert.Equal(t, "sdl/2.0.18", lock.Packages[1].Ref)
	assert.Equal(t, "/opt/cache/sdl/2.0.18", lock.Packages[1].Path)
	assert.Equal(t, map[string]bool{"opengl": false, "vulkan": true}, lock.Packages[1].Options)
}

func TestGenerate_IsDeterministic(t *testing.T) {
	gens := []string{config.GeneratorCMakeDeps, config.GeneratorPkgConfig, config.GeneratorJSON}
	a, b := memfs.New(), memfs.New()

	written, err := New(a, "", false).Generate(context.Background(), testInput(gens...))
	require.NoError(t, err)
	_, err = New(b, "", false).Generate(context.Background(), testInput(gens...))
	require.NoError(t, err)

	for _, p := range written {
		da, err := util.ReadFile(a, p)
		require.NoError(t, err)
		db, err := util.ReadFile(b, p)
		require.NoError(t, err)
		assert.Equal(t, string(da), string(db), p)
	}
}

func TestGenerate_DryRunAndUnknown(t *testing.T) {
	out := memfs.New()
	written, err := New(out, "", true).Generate(context.Background(), testInput(config.GeneratorJSON))
	require.NoError(t, err)
	require.Len(t, written, 1)
	_, err = out.Stat(written[0])
	assert.Error(t, err)

	_, err = New(out, "", false).Generate(context.Background(), testInput("premake"))
	require.ErrorContains(t, err, "unknown generator")
}

func TestCMakeVar(t *testing.T) {
	assert.Equal(t, "VULKAN_MEMORY_ALLOCATOR", cmakeVar("vulkan-memory-allocator"))
	assert.Equal(t, "NLOHMANN_JSON", cmakeVar("nlohmann_json"))
}

func TestBuildLockfile_DependencyOrder(t *testing.T) {
	in := testInput(config.GeneratorJSON)
	zlib := config.DefaultManifest("zlib", "1.2.11")
	in.Graph.Packages["zlib"] = &resolver.Package{
		Name: "zlib", Version: "1.2.11", Root: "zlib/1.2.11", Manifest: zlib,
		RequiredBy: []string{"libiconv"}, Options: map[string]bool{},
	}
	in.Graph.Packages["libiconv"].Dependencies = []string{"zlib"}
	in.Graph.Order = []string{"zlib", "libiconv", "sdl"}

	lock := BuildLockfile(in)

	var names []string
	for _, p := range lock.Packages {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"zlib", "libiconv", "sdl"}, names, "dependencies precede their dependents")
}
