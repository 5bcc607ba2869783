// Package web embeds the HTML views and the default public assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var Templates embed.FS

//go:embed public
var public embed.FS

// Public returns the embedded public directory, used when no public_dir exists on disk.
func Public() fs.FS {
	sub, err := fs.Sub(public, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
