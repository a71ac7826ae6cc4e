// Package web embeds the chat page and its assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var templates embed.FS

// Static holds the widget assets under "static/".
//
//go:embed static
var Static embed.FS

// Templates returns the page templates rooted at the templates directory.
func Templates() (fs.FS, error) {
	return fs.Sub(templates, "templates")
}
