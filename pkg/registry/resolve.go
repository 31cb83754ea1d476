package registry

import "fmt"

// GenericKey is the placeholder resource key used by fallback templates.
// Resource-specific overrides live in directories named after the resource
// instead of this placeholder.
const GenericKey = "foo"

// Resolution names the template that should render one logical output
// file. Registered is false when neither the override nor the generic
// fallback exists; the caller decides whether that is a configuration gap
// worth a warning (parameterized patterns) or a silent skip (direct
// names).
type Resolution struct {
	Key        string
	IsOverride bool
	Registered bool
}

// ResolvePattern substitutes the resource key into a parameterized pattern
// and picks between the resource-specific override and the generic
// fallback. The override only wins when the resource key itself differs
// from the placeholder.
func (r *Registry) ResolvePattern(pattern, key string) Resolution {
	candidate := fmt.Sprintf(pattern, key)
	if key != GenericKey && r.Has(candidate) {
		return Resolution{Key: candidate, IsOverride: true, Registered: true}
	}
	generic := fmt.Sprintf(pattern, GenericKey)
	return Resolution{Key: generic, Registered: r.Has(generic)}
}

// Resolve looks up a fixed logical name.
func (r *Registry) Resolve(name string) Resolution {
	return Resolution{Key: name, Registered: r.Has(name)}
}
