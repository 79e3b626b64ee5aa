package generator

import (
	"bytes"
	"text/template"

	"github.com/specialistvlad/vkrecipe/internal/resolver"
)

var funcs = template.FuncMap{
	"onoff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
}

var configTmpl = template.Must(template.New("config").Funcs(funcs).Parse(
	`# Generated by vkrecipe for {{.Ref}}. Do not edit.
include(CMakeFindDependencyMacro)
{{range .Deps}}find_dependency({{.}} REQUIRED)
{{end}}
set({{.Var}}_FOUND TRUE)
set({{.Var}}_VERSION "{{.Version}}")
set({{.Var}}_PACKAGE_FOLDER "{{.Dir}}")
set({{.Var}}_INCLUDE_DIRS{{range .IncludeDirs}} "{{.}}"{{end}})
set({{.Var}}_LIB_DIRS{{range .LibDirs}} "{{.}}"{{end}})
set({{.Var}}_LIBRARIES{{range .Libs}} "{{.}}"{{end}})
{{range .Options}}set({{$.Var}}_OPTION_{{.Var}} {{onoff .Value}})
{{end}}
if(NOT TARGET {{.Name}}::{{.Name}})
  add_library({{.Name}}::{{.Name}} INTERFACE IMPORTED)
  set_target_properties({{.Name}}::{{.Name}} PROPERTIES
    INTERFACE_INCLUDE_DIRECTORIES "${ {{- .Var}}_INCLUDE_DIRS}"
    INTERFACE_LINK_DIRECTORIES "${ {{- .Var}}_LIB_DIRS}"
    INTERFACE_LINK_LIBRARIES "${ {{- .Var}}_LIBRARIES}{{range .Deps}};{{.}}::{{.}}{{end}}")
endif()
`))

var versionTmpl = template.Must(template.New("version").Parse(
	`# Generated by vkrecipe for {{.Ref}}. Do not edit.
set(PACKAGE_VERSION "{{.Version}}")

if(PACKAGE_FIND_VERSION AND NOT PACKAGE_FIND_VERSION STREQUAL PACKAGE_VERSION)
  set(PACKAGE_VERSION_COMPATIBLE FALSE)
else()
  set(PACKAGE_VERSION_COMPATIBLE TRUE)
  if(PACKAGE_FIND_VERSION STREQUAL PACKAGE_VERSION)
    set(PACKAGE_VERSION_EXACT TRUE)
  endif()
endif()
`))

var aggregateTmpl = template.Must(template.New("aggregate").Parse(
	`# Generated by vkrecipe for recipe {{.Recipe}}. Do not edit.
list(PREPEND CMAKE_PREFIX_PATH "${CMAKE_CURRENT_LIST_DIR}")
{{range .Settings}}set(VKRECIPE_SETTING_{{.Var}} "{{.Value}}")
{{end}}
{{range .Direct}}find_package({{.}} REQUIRED CONFIG)
{{end}}`))

type cmakePackage struct {
	Name        string
	Ref         string
	Var         string
	Version     string
	Dir         string
	IncludeDirs []string
	LibDirs     []string
	Libs        []string
	Deps        []string
	Options     []optionView
}

type settingView struct {
	Var   string
	Value string
}

func renderCMakeDeps(in Input) ([]File, error) {
	var files []File
	var direct []string

	for _, pkg := range in.Graph.Sorted() {
		view := newCMakePackage(in, pkg)

		var cfg, ver bytes.Buffer
		if err := configTmpl.Execute(&cfg, view); err != nil {
			return nil, err
		}
		if err := versionTmpl.Execute(&ver, view); err != nil {
			return nil, err
		}
		files = append(files,
			File{Name: pkg.Name + "-config.cmake", Content: cfg.Bytes()},
			File{Name: pkg.Name + "-config-version.cmake", Content: ver.Bytes()},
		)
		if pkg.Direct {
			direct = append(direct, pkg.Name)
		}
	}

	var settings []settingView
	for _, name := range in.Recipe.Settings {
		if v, ok := in.Settings[name]; ok {
			settings = append(settings, settingView{Var: cmakeVar(name), Value: v})
		}
	}

	var agg bytes.Buffer
	err := aggregateTmpl.Execute(&agg, struct {
		Recipe   string
		Settings []settingView
		Direct   []string
	}{in.Recipe.Name, settings, direct})
	if err != nil {
		return nil, err
	}
	files = append(files, File{Name: "dependencies.cmake", Content: agg.Bytes()})
	return files, nil
}

func newCMakePackage(in Input, pkg *resolver.Package) cmakePackage {
	dir := in.packageDir(pkg)
	join := func(rel []string) []string {
		out := make([]string, 0, len(rel))
		for _, r := range rel {
			out = append(out, dir+"/"+r)
		}
		return out
	}
	return cmakePackage{
		Name:        pkg.Name,
		Ref:         pkg.Reference(),
		Var:         cmakeVar(pkg.Name),
		Version:     pkg.Version,
		Dir:         dir,
		IncludeDirs: join(pkg.Manifest.IncludeDirs),
		LibDirs:     join(pkg.Manifest.LibDirs),
		Libs:        pkg.Manifest.Libs,
		Deps:        pkg.Dependencies,
		Options:     sortedOptions(pkg.Options),
	}
}
