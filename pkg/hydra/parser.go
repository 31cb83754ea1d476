package hydra

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-crudgen/pkg/api"
)

const (
	hydraIRI   = "http://www.w3.org/ns/hydra/core#"
	docLinkRel = hydraIRI + "apiDocumentation"
	owlIRI     = "http://www.w3.org/2002/07/owl#"
	rdfsIRI    = "http://www.w3.org/2000/01/rdf-schema#"
)

// ParseDocumentation fetches the entrypoint, follows its documentation
// link, and converts the ApiDocumentation JSON-LD into the neutral API
// model. Vocabulary keys are matched in prefixed ("hydra:supportedClass"),
// expanded, and bare forms.
func (c *Client) ParseDocumentation(ctx context.Context, entrypoint string) (api.API, error) {
	if !strings.HasSuffix(entrypoint, "/") {
		entrypoint += "/"
	}

	entryBody, headers, err := c.fetchJSONLD(ctx, entrypoint)
	if err != nil {
		return api.API{}, err
	}

	docsURL := documentationLink(headers)
	if docsURL == "" {
		return api.API{}, fmt.Errorf("hydra: entrypoint %q exposes no api documentation link", entrypoint)
	}
	docsURL = resolveURL(entrypoint, docsURL)

	doc, _, err := c.fetchJSONLD(ctx, docsURL)
	if err != nil {
		return api.API{}, err
	}

	title := asString(term(doc, "title"))
	if title == "" {
		title = "API Platform"
	}

	classes := asMaps(term(doc, "supportedClass"))
	entryClass := findEntrypointClass(classes)
	if entryClass == nil {
		return api.API{}, fmt.Errorf("hydra: documentation %q has no entrypoint class", docsURL)
	}

	result := api.API{Entrypoint: strings.TrimSuffix(entrypoint, "/"), Title: title}
	for _, sp := range asMaps(term(entryClass, "supportedProperty")) {
		prop := asMap(term(sp, "property"))
		if prop == nil {
			continue
		}
		name := tail(idOf(prop))
		classIRI := collectionMemberClass(prop)
		class := findClass(classes, classIRI)
		if class == nil {
			continue
		}

		resource := parseClass(class)
		resource.Name = name
		resource.URL = resourceURL(entrypoint, entryBody, name)
		if search := asMap(term(prop, "search")); search != nil {
			resource.Parameters = parseSearch(search, resource.Fields)
		}
		result.Resources = append(result.Resources, resource)
	}
	return result, nil
}

// FetchParameters reads the filter description a collection endpoint
// advertises at request time. Parameter ranges come from the matching
// resource field when one exists.
func (c *Client) FetchParameters(ctx context.Context, resource api.Resource) ([]api.Parameter, error) {
	if resource.URL == "" {
		return nil, nil
	}
	body, _, err := c.fetchJSONLD(ctx, resource.URL)
	if err != nil {
		return nil, fmt.Errorf("hydra: fetch parameters for %q: %w", resource.Name, err)
	}
	search := asMap(term(body, "search"))
	if search == nil {
		return nil, nil
	}
	return parseSearch(search, resource.Fields), nil
}

func parseClass(class map[string]any) api.Resource {
	resource := api.Resource{
		Title:      asString(term(class, "title")),
		Deprecated: asBool(class[owlIRI+"deprecated"]) || asBool(class["owl:deprecated"]),
	}
	if resource.Title == "" {
		resource.Title = tail(idOf(class))
	}

	for _, sp := range asMaps(term(class, "supportedProperty")) {
		prop := asMap(term(sp, "property"))
		if prop == nil {
			continue
		}

		field := api.Field{
			Name:        asString(term(sp, "title")),
			ID:          idOf(prop),
			Range:       rangeIRI(prop),
			Reference:   isLink(prop),
			Required:    asBool(term(sp, "required")),
			Deprecated:  asBool(sp[owlIRI+"deprecated"]) || asBool(sp["owl:deprecated"]),
			Description: asString(term(sp, "description")),
		}
		if field.Name == "" {
			field.Name = tail(field.ID)
		}
		if max, ok := asInt(prop[owlIRI+"maxCardinality"], prop["owl:maxCardinality"]); ok {
			field.MaxCardinality = max
		}
		field.Type = simpleType(field.Range)

		resource.Fields = append(resource.Fields, field)
		if asBool(term(sp, "readable")) {
			resource.ReadableFields = append(resource.ReadableFields, field)
		}
		if asBool(term(sp, "writeable")) || asBool(term(sp, "writable")) {
			resource.WritableFields = append(resource.WritableFields, field)
		}
	}
	return resource
}

func parseSearch(search map[string]any, fields []api.Field) []api.Parameter {
	var parameters []api.Parameter
	for _, mapping := range asMaps(term(search, "mapping")) {
		param := api.Parameter{
			Variable:    asString(term(mapping, "variable")),
			Name:        asString(term(mapping, "property")),
			Required:    asBool(term(mapping, "required")),
			Description: asString(term(mapping, "description")),
		}
		for _, field := range fields {
			if field.Name == param.Name {
				param.Range = field.Range
				param.Type = field.Type
				break
			}
		}
		parameters = append(parameters, param)
	}
	return parameters
}

// documentationLink extracts the ApiDocumentation URL from Link headers.
func documentationLink(headers http.Header) string {
	for _, header := range headers.Values("Link") {
		for _, part := range strings.Split(header, ",") {
			if !strings.Contains(part, docLinkRel) {
				continue
			}
			start := strings.Index(part, "<")
			end := strings.Index(part, ">")
			if start >= 0 && end > start {
				return part[start+1 : end]
			}
		}
	}
	return ""
}

func findEntrypointClass(classes []map[string]any) map[string]any {
	for _, class := range classes {
		if strings.HasSuffix(idOf(class), "Entrypoint") {
			return class
		}
	}
	return nil
}

func findClass(classes []map[string]any, iri string) map[string]any {
	if iri == "" {
		return nil
	}
	for _, class := range classes {
		if idOf(class) == iri {
			return class
		}
	}
	return nil
}

// collectionMemberClass resolves which class the entrypoint property
// serves. Collection-valued properties describe members through an owl
// equivalent-class restriction; single-item properties use the class IRI
// directly.
func collectionMemberClass(prop map[string]any) string {
	for _, entry := range asList(rangeTerm(prop)) {
		m, ok := entry.(map[string]any)
		if !ok {
			if iri, ok := entry.(string); ok && !isHydraCollection(iri) {
				return iri
			}
			continue
		}
		if eq := asMap(m[owlIRI+"equivalentClass"], m["owl:equivalentClass"]); eq != nil {
			if member := asMap(eq[owlIRI+"allValuesFrom"], eq["owl:allValuesFrom"]); member != nil {
				return idOf(member)
			}
		}
		if iri := idOf(m); iri != "" && !isHydraCollection(iri) {
			return iri
		}
	}
	if iri := asString(rangeTerm(prop)); iri != "" && !isHydraCollection(iri) {
		return iri
	}
	return ""
}

func isHydraCollection(iri string) bool {
	return iri == "hydra:Collection" || iri == hydraIRI+"Collection"
}

// rangeIRI picks the property range, preferring an XML Schema datatype
// when the declaration lists several.
func rangeIRI(prop map[string]any) string {
	entries := asList(rangeTerm(prop))
	var first string
	for _, entry := range entries {
		iri := ""
		switch v := entry.(type) {
		case string:
			iri = v
		case map[string]any:
			iri = idOf(v)
		}
		if iri == "" {
			continue
		}
		if strings.HasPrefix(iri, "http://www.w3.org/2001/XMLSchema#") {
			return iri
		}
		if first == "" {
			first = iri
		}
	}
	return first
}

func isLink(prop map[string]any) bool {
	for _, entry := range asList(prop["@type"]) {
		if iri, ok := entry.(string); ok {
			if iri == "hydra:Link" || iri == hydraIRI+"Link" {
				return true
			}
		}
	}
	return false
}

func simpleType(rangeIRI string) string {
	switch rangeIRI {
	case "http://www.w3.org/2001/XMLSchema#integer",
		"http://www.w3.org/2001/XMLSchema#int",
		"http://www.w3.org/2001/XMLSchema#long":
		return "integer"
	case "http://www.w3.org/2001/XMLSchema#decimal",
		"http://www.w3.org/2001/XMLSchema#float",
		"http://www.w3.org/2001/XMLSchema#double":
		return "float"
	case "http://www.w3.org/2001/XMLSchema#boolean":
		return "boolean"
	case "http://www.w3.org/2001/XMLSchema#date":
		return "date"
	case "http://www.w3.org/2001/XMLSchema#time":
		return "time"
	case "http://www.w3.org/2001/XMLSchema#dateTime":
		return "dateTime"
	default:
		return "string"
	}
}

func resourceURL(entrypoint string, entryBody map[string]any, name string) string {
	if raw, ok := entryBody[name].(string); ok && raw != "" {
		return resolveURL(entrypoint, raw)
	}
	return strings.TrimSuffix(entrypoint, "/") + "/" + name
}

func resolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// rangeTerm reads a property's range. API Platform declares ranges with
// the rdfs vocabulary, so those spellings are tried before the hydra ones.
func rangeTerm(prop map[string]any) any {
	for _, candidate := range []string{"rdfs:range", rdfsIRI + "range"} {
		if v, ok := prop[candidate]; ok {
			return v
		}
	}
	return term(prop, "range")
}

// term looks a vocabulary key up in its prefixed, expanded, and bare
// spellings.
func term(m map[string]any, key string) any {
	for _, candidate := range []string{"hydra:" + key, hydraIRI + key, key} {
		if v, ok := m[candidate]; ok {
			return v
		}
	}
	return nil
}

func idOf(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case map[string]any:
		return asString(value["@id"])
	default:
		return ""
	}
}

// tail returns the fragment or last path segment of an IRI.
func tail(iri string) string {
	if idx := strings.LastIndexAny(iri, "/#"); idx >= 0 {
		return iri[idx+1:]
	}
	return iri
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt(candidates ...any) (int, bool) {
	for _, v := range candidates {
		switch value := v.(type) {
		case float64:
			return int(value), true
		case int:
			return value, true
		}
	}
	return 0, false
}

func asList(v any) []any {
	if v == nil {
		return nil
	}
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}

func asMap(candidates ...any) map[string]any {
	for _, v := range candidates {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

func asMaps(v any) []map[string]any {
	list := asList(v)
	maps := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if m, ok := entry.(map[string]any); ok {
			maps = append(maps, m)
		}
	}
	return maps
}
