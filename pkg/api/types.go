package api

// Package api holds the parsed representation of an API description. The
// hydra and openapi packages both normalize their documents into these
// types so the classifier and generator see a single vocabulary.

// API describes one service entrypoint and the resources it exposes.
type API struct {
	Entrypoint string     `json:"entrypoint"`
	Title      string     `json:"title,omitempty"`
	Resources  []Resource `json:"resources"`
}

// Resource is one entity type exposed by the API, with its declared fields
// split by access and the query parameters advertised for its collection.
type Resource struct {
	Name           string                  `json:"name"`
	Title          string                  `json:"title"`
	URL            string                  `json:"url,omitempty"`
	Deprecated     bool                    `json:"deprecated,omitempty"`
	Fields         []Field                 `json:"fields"`
	ReadableFields []Field                 `json:"readableFields"`
	WritableFields []Field                 `json:"writableFields"`
	Parameters     []Parameter             `json:"parameters,omitempty"`
	HydraContext   map[string]ContextEntry `json:"-"`
}

// Field is one declared property of a resource. Instances are immutable
// once parsed; classification augments them into classify.Field values
// without touching ID or Range.
type Field struct {
	Name           string `json:"name"`
	ID             string `json:"id,omitempty"`
	Range          string `json:"range,omitempty"`
	Type           string `json:"type,omitempty"`
	Reference      bool   `json:"reference,omitempty"`
	Required       bool   `json:"required,omitempty"`
	Deprecated     bool   `json:"deprecated,omitempty"`
	MaxCardinality int    `json:"maxCardinality,omitempty"`
	Description    string `json:"description,omitempty"`
}

// Parameter is one server-advertised query-string filter key. Variable
// keeps the raw bracket syntax (order[name], exists[photo], name[]).
type Parameter struct {
	Variable    string `json:"variable"`
	Name        string `json:"name,omitempty"`
	Range       string `json:"range,omitempty"`
	Type        string `json:"type,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

// ContextEntry carries the supplementary per-field metadata served by the
// resource's JSON-LD context document.
type ContextEntry struct {
	Enum    []any  `json:"enum,omitempty"`
	Type    string `json:"type,omitempty"`
	Default any    `json:"default,omitempty"`
}

// EnumData is the enumerated-value payload attached to classified fields
// and parameters so templates can render select controls.
type EnumData struct {
	Options []any  `json:"options"`
	Type    string `json:"type,omitempty"`
	Default any    `json:"default,omitempty"`
}

// WithoutDeprecated returns a copy of the resource with deprecated fields
// removed from every field list.
func (r Resource) WithoutDeprecated() Resource {
	r.Fields = filterDeprecated(r.Fields)
	r.ReadableFields = filterDeprecated(r.ReadableFields)
	r.WritableFields = filterDeprecated(r.WritableFields)
	return r
}

func filterDeprecated(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Deprecated {
			continue
		}
		out = append(out, f)
	}
	return out
}
