package generator

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var embeddedTemplates embed.FS

// TemplatesFS returns the built-in Quasar template tree rooted at the
// template keys the generator registers (stores/foo/..., components/foo/...,
// common/..., utils/...).
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
