// Package web holds the views and static assets compiled into the binary.
// They are used whenever viewsDir or publicDir is not set in the config.
package web

import (
	"embed"
	"io/fs"
)

//go:embed views public
var content embed.FS

func Views() fs.FS {
	return mustSub("views")
}

func Public() fs.FS {
	return mustSub("public")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
