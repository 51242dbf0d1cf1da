package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html static
var assets embed.FS

// Templates returns the embedded page templates.
func Templates() fs.FS {
	return mustSub("templates")
}

// Static returns the embedded static assets.
func Static() fs.FS {
	return mustSub("static")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(assets, dir)
	if err != nil {
		panic("web: embedded " + dir + " missing: " + err.Error())
	}
	return sub
}
