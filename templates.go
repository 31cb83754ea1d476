package crudgen

import (
	"io/fs"

	"github.com/goliatone/go-crudgen/pkg/generator"
)

// EmbeddedTemplates exposes the built-in Quasar template tree so callers
// can reuse or extend it without importing the generator package directly.
func EmbeddedTemplates() fs.FS {
	return generator.TemplatesFS()
}
