package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Template renders a registered template with the supplied context.
type Template interface {
	Render(data any) (string, error)
}

// TemplateFunc adapts a plain function into a Template. Tests use this to
// build synthetic registries without touching the filesystem.
type TemplateFunc func(data any) (string, error)

// Render implements Template.
func (f TemplateFunc) Render(data any) (string, error) {
	return f(data)
}

// Compiler compiles template files by their path relative to the template
// root. The gotemplate engine satisfies this.
type Compiler interface {
	CompileTemplate(path string) (Template, error)
}

// Registry maps logical template keys (relative paths, possibly containing
// the generic placeholder segment) to compiled templates. Read-only after
// generator construction.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]Template
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{templates: make(map[string]Template)}
}

// Register stores a template under its logical key, replacing any previous
// entry.
func (r *Registry) Register(key string, tpl Template) error {
	if key == "" {
		return fmt.Errorf("registry: template key is required")
	}
	if tpl == nil {
		return fmt.Errorf("registry: template %q is nil", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[key] = tpl
	return nil
}

// Get retrieves a registered template.
func (r *Registry) Get(key string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpl, ok := r.templates[key]
	return tpl, ok
}

// Has reports whether a key is registered.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[key]
	return ok
}

// Keys returns the sorted registered keys.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.templates))
	for key := range r.templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Load compiles and registers every path. Paths that fail to compile are
// skipped: templates are optional extension points and their absence is
// tolerated at registration time.
func (r *Registry) Load(compiler Compiler, paths []string, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	for _, path := range paths {
		tpl, err := compiler.CompileTemplate(path)
		if err != nil {
			log.Debug("template registered but not found", "template", path)
			continue
		}
		_ = r.Register(path, tpl)
	}
}
