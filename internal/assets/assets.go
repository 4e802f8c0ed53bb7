// Package assets embeds the static files served under the static URL prefix and the OpenAPI document.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

//go:embed openapi.yaml
var OpenAPI []byte

// Static returns the static asset tree rooted at its top directory
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
