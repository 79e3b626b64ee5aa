package testutil

// TutorialRecipe is the recipe of the Vulkan tutorial project: SDL, GLM,
// ImGui and the asset libraries, with ImGui's SDL and Vulkan bindings staged
// into the project and the SDL binding patched for Vulkan surfaces.
const TutorialRecipe = `
recipe "vulkan-tutorial" {
  settings   = ["os", "compiler", "build_type", "arch"]
  generators = ["CMakeDeps", "pkg_config", "json"]
  requires = [
    "sdl/2.0.18",
    "glm/0.9.9.8",
    "imgui/1.85",
    "lz4/1.9.3",
    "nlohmann_json/3.10.4",
  ]

  default_options = {
    "sdl:opengl"  = false
    "sdl:directx" = false
  }
}

require "libiconv" {
  version  = "1.16"
  override = true
}

import "sdl-binding" {
  from      = "imgui"
  pattern   = "imgui_impl_sdl.*"
  src       = "res/bindings"
  dst       = "src/bindings"
  keep_path = false
}

import "vulkan-binding" {
  from      = "imgui"
  pattern   = "imgui_impl_vulkan.*"
  src       = "res/bindings"
  dst       = "src/bindings"
  keep_path = false
}

import "runtime-dlls" {
  pattern = "*.dll"
  src     = "bin"
  dst     = "bin"
}

patch "sdl-drawable-size" {
  file    = "src/bindings/imgui_impl_sdl.cpp"
  search  = "SDL_GL_GetDrawableSize"
  replace = "SDL_Vulkan_GetDrawableSize"
}
`

// SDLBindingSource is the unpatched ImGui SDL binding shipped in the cache.
const SDLBindingSource = `// dear imgui: Platform Backend for SDL2
#include "imgui_impl_sdl.h"

static void ImGui_ImplSDL2_NewFrame(SDL_Window* window)
{
    int display_w, display_h;
    SDL_GL_GetDrawableSize(window, &display_w, &display_h);
}
`

// TutorialCache returns a package cache satisfying TutorialRecipe. sdl asks
// for libiconv 1.15, which the recipe overrides to 1.16.
func TutorialCache() map[string]string {
	return map[string]string{
		"sdl/2.0.18/package.hcl": `
package "sdl" {
  version      = "2.0.18"
  description  = "Simple DirectMedia Layer"
  requires     = ["libiconv/1.15"]
  libs         = ["SDL2", "SDL2main"]
  include_dirs = ["include", "include/SDL2"]

  option "opengl" { default = true }
  option "directx" { default = true }
  option "vulkan" { default = true }
}`,
		"sdl/2.0.18/include/SDL2/SDL.h":   "/* SDL */",
		"libiconv/1.15/package.hcl":       `package "libiconv" { libs = ["iconv"] }`,
		"libiconv/1.16/package.hcl":       `package "libiconv" { libs = ["iconv"] }`,
		"glm/0.9.9.8/include/glm/glm.hpp": "// glm",

		"imgui/1.85/package.hcl":                        `package "imgui" { libs = ["imgui"] }`,
		"imgui/1.85/res/bindings/imgui_impl_sdl.cpp":    SDLBindingSource,
		"imgui/1.85/res/bindings/imgui_impl_sdl.h":      "// sdl backend header",
		"imgui/1.85/res/bindings/imgui_impl_vulkan.cpp": "// vulkan backend",
		"imgui/1.85/res/bindings/imgui_impl_vulkan.h":   "// vulkan backend header",
		"imgui/1.85/res/bindings/imgui_impl_dx12.cpp":   "// dx12 backend",

		"lz4/1.9.3/package.hcl": `package "lz4" { libs = ["lz4"] }`,

		"nlohmann_json/3.10.4/include/nlohmann/json.hpp": "// json",
	}
}
