package http

import (
	"embed"
	"io/fs"
)

// staticFiles stores site assets directly in the binary; the static export reads the same tree.
//
//go:embed static
var staticFiles embed.FS

// StaticAssets возвращает дерево ассетов без префикса static/
func StaticAssets() (fs.FS, error) {
	return fs.Sub(staticFiles, "static")
}
