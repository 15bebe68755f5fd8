// Package templates holds the HTML views of the web UI.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

const (
	Index   = "index.html"
	Preview = "preview.html"
)

// Load parses every view.
func Load() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
