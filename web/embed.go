// Package web holds the default templates and static assets compiled into
// the binary. Both can be replaced at runtime with --templates-dir and
// --static-dir.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*
var templates embed.FS

//go:embed static/*
var static embed.FS

// Templates returns the embedded template tree rooted at templates/.
func Templates() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the embedded asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
