package generator

import (
	"bytes"
	"strings"
	"text/template"
)

var pcTmpl = template.Must(template.New("pc").Parse(
	`prefix={{.Prefix}}

Name: {{.Name}}
Description: {{.Description}}
Version: {{.Version}}
{{- if .Requires}}
Requires: {{.Requires}}
{{- end}}
Libs:{{range .LibDirs}} -L${prefix}/{{.}}{{end}}{{range .Libs}} -l{{.}}{{end}}
Cflags:{{range .IncludeDirs}} -I${prefix}/{{.}}{{end}}
`))

func renderPkgConfig(in Input) ([]File, error) {
	var files []File
	for _, pkg := range in.Graph.Sorted() {
		desc := pkg.Manifest.Description
		if desc == "" {
			desc = pkg.Name + " (resolved by vkrecipe)"
		}

		var buf bytes.Buffer
		err := pcTmpl.Execute(&buf, struct {
			Prefix      string
			Name        string
			Description string
			Version     string
			Requires    string
			LibDirs     []string
			Libs        []string
			IncludeDirs []string
		}{
			Prefix:      in.packageDir(pkg),
			Name:        pkg.Name,
			Description: desc,
			Version:     pkg.Version,
			Requires:    strings.Join(pkg.Dependencies, " "),
			LibDirs:     pkg.Manifest.LibDirs,
			Libs:        pkg.Manifest.Libs,
			IncludeDirs: pkg.Manifest.IncludeDirs,
		})
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: pkg.Name + ".pc", Content: buf.Bytes()})
	}
	return files, nil
}
