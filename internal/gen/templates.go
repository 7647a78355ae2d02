package gen

import "text/template"

// templateData holds everything the struct template needs for one target.
type templateData struct {
	PackageName string
	TargetName  string
	TypeParams  string
	Imports     []string
	Fields      []fieldData
}

// fieldData is a single emitted struct field.
type fieldData struct {
	Name    string
	Type    string
	Comment string
}

var structTemplate = template.Must(template.New("struct").Parse(`// Code generated by injectgen. DO NOT EDIT.

package {{.PackageName}}
{{- if .Imports}}

import (
{{- range .Imports}}
	"{{.}}"
{{- end}}
)
{{- end}}

type {{.TargetName}}{{.TypeParams}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}{{if .Comment}} // {{.Comment}}{{end}}
{{- end}}
}
`))
