// Package assets embeds the pre-authored demo documents the scenario
// scripts reference by URL. Served read-only under /docs/.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed docs
var content embed.FS

// Docs returns the document tree rooted at the docs directory.
func Docs() (fs.FS, error) {
	return fs.Sub(content, "docs")
}
