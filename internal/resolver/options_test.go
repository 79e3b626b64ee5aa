package resolver

import (
	"testing"

	"github.com/specialistvlad/vkrecipe/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphOf(manifests ...*config.PackageManifest) *Graph {
	g := &Graph{Packages: map[string]*Package{}}
	for _, m := range manifests {
		g.Packages[m.Name] = &Package{Name: m.Name, Version: m.Version, Manifest: m}
		g.Order = append(g.Order, m.Name)
	}
	return g
}

func TestApplyOptions(t *testing.T) {
	sdl := config.DefaultManifest("sdl", "2.0.18")
	sdl.Options = map[string]bool{"opengl": true, "opengles": true, "directx": true}
	glm := config.DefaultManifest("glm", "0.9.9.8")

	g := graphOf(sdl, glm)
	err := applyOptions(g, []*config.BuildOption{
		{Package: "sdl", Flag: "opengl", Value: false},
		{Package: "sdl", Flag: "directx", Value: false},
		{Package: "glm", Flag: "header_only", Value: true},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"opengl": false, "opengles": true, "directx": false}, g.Packages["sdl"].Options)
	assert.Equal(t, map[string]bool{"header_only": true}, g.Packages["glm"].Options, "packages without declared options accept any flag")
	assert.True(t, sdl.Options["opengl"], "manifest defaults are not mutated")
}

func TestApplyOptions_Errors(t *testing.T) {
	sdl := config.DefaultManifest("sdl", "2.0.18")
	sdl.Options = map[string]bool{"opengl": true}

	err := applyOptions(graphOf(sdl), []*config.BuildOption{
		{Package: "sdl2", Flag: "opengl", Value: false},
		{Package: "sdl", Flag: "metal", Value: false},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"sdl2:opengl" targets package "sdl2"`)
	assert.Contains(t, err.Error(), `"sdl:metal" is not declared by sdl/2.0.18`)
}
