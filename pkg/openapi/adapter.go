package openapi

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-crudgen/pkg/api"
)

// Parser converts OpenAPI 3 documents into the neutral API model the
// classifier consumes. Schema types and formats are normalized to XML
// Schema datatype IRIs so both document flavors classify identically.
type Parser struct {
	loader *openapi3.Loader
}

// NewParser builds a Parser bound to ctx for reference resolution.
func NewParser(ctx context.Context) *Parser {
	return &Parser{loader: &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}}
}

// Parse fetches and converts the document served at the given location.
// The entrypoint is the API base the generated client will call, not the
// document URL.
func (p *Parser) Parse(ctx context.Context, docURL, entrypoint string) (api.API, error) {
	if err := ctx.Err(); err != nil {
		return api.API{}, err
	}
	parsed, err := url.Parse(docURL)
	if err != nil {
		return api.API{}, fmt.Errorf("openapi: parse document url %q: %w", docURL, err)
	}
	doc, err := p.loader.LoadFromURI(parsed)
	if err != nil {
		return api.API{}, fmt.Errorf("openapi: load document: %w", err)
	}
	return p.convert(doc, entrypoint)
}

// ParseData converts an in-memory document.
func (p *Parser) ParseData(ctx context.Context, data []byte, entrypoint string) (api.API, error) {
	if err := ctx.Err(); err != nil {
		return api.API{}, err
	}
	doc, err := p.loader.LoadFromData(data)
	if err != nil {
		return api.API{}, fmt.Errorf("openapi: load document: %w", err)
	}
	return p.convert(doc, entrypoint)
}

func (p *Parser) convert(doc *openapi3.T, entrypoint string) (api.API, error) {
	entrypoint = strings.TrimSuffix(entrypoint, "/")
	result := api.API{Entrypoint: entrypoint}
	if doc.Info != nil {
		result.Title = doc.Info.Title
	}

	if doc.Paths == nil {
		return result, fmt.Errorf("openapi: document describes no paths")
	}

	paths := make([]string, 0, doc.Paths.Len())
	for path := range doc.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}
		// A resource is a collection path paired with an item path
		// carrying a trailing identifier template.
		if strings.HasSuffix(path, "}") {
			continue
		}
		itemPath := findItemPath(doc, path)
		if itemPath == nil {
			continue
		}

		resource, ok := p.convertResource(entrypoint, path, item, itemPath)
		if !ok {
			continue
		}
		result.Resources = append(result.Resources, resource)
	}
	if len(result.Resources) == 0 {
		return result, fmt.Errorf("openapi: document describes no collection/item path pairs")
	}
	return result, nil
}

func findItemPath(doc *openapi3.T, collectionPath string) *openapi3.PathItem {
	prefix := collectionPath + "/{"
	for path, item := range doc.Paths.Map() {
		if strings.HasPrefix(path, prefix) && strings.HasSuffix(path, "}") && item != nil {
			return item
		}
	}
	return nil
}

func (p *Parser) convertResource(entrypoint, path string, collection, item *openapi3.PathItem) (api.Resource, bool) {
	schemaName, schema := resourceSchema(item)
	if schema == nil {
		schemaName, schema = resourceSchema(collection)
	}
	if schema == nil {
		return api.Resource{}, false
	}

	name := strings.Trim(path[strings.LastIndex(path, "/"):], "/")
	resource := api.Resource{
		Name:       name,
		Title:      schemaName,
		URL:        entrypoint + path,
		Deprecated: collection.Get != nil && collection.Get.Deprecated,
	}

	required := map[string]bool{}
	for _, key := range schema.Required {
		required[key] = true
	}

	for _, propName := range sortedPropertyNames(schema) {
		ref := schema.Properties[propName]
		if ref == nil || ref.Value == nil {
			continue
		}
		field := convertField(entrypoint, propName, ref, required[propName])
		resource.Fields = append(resource.Fields, field)
		if !ref.Value.WriteOnly {
			resource.ReadableFields = append(resource.ReadableFields, field)
		}
		if !ref.Value.ReadOnly {
			resource.WritableFields = append(resource.WritableFields, field)
		}
	}

	if collection.Get != nil {
		resource.Parameters = convertParameters(collection.Get.Parameters, resource.Fields)
	}
	return resource, true
}

// resourceSchema digs the entity schema out of the 200 response of the
// path's GET operation.
func resourceSchema(item *openapi3.PathItem) (string, *openapi3.Schema) {
	if item.Get == nil || item.Get.Responses == nil {
		return "", nil
	}
	for _, status := range []string{"200", "201"} {
		ref := item.Get.Responses.Value(status)
		if ref == nil || ref.Value == nil {
			continue
		}
		for _, mediaType := range []string{"application/json", "application/ld+json"} {
			mt, ok := ref.Value.Content[mediaType]
			if !ok || mt.Schema == nil {
				continue
			}
			return schemaEntity(mt.Schema)
		}
	}
	return "", nil
}

// schemaEntity unwraps array responses down to the referenced entity.
func schemaEntity(ref *openapi3.SchemaRef) (string, *openapi3.Schema) {
	if ref == nil || ref.Value == nil {
		return "", nil
	}
	if ref.Value.Items != nil {
		return schemaEntity(ref.Value.Items)
	}
	return refName(ref.Ref), ref.Value
}

func convertField(entrypoint, name string, ref *openapi3.SchemaRef, required bool) api.Field {
	value := ref.Value
	field := api.Field{
		Name:        name,
		Required:    required,
		Deprecated:  value.Deprecated,
		Description: value.Description,
	}

	if target := referenceTarget(ref); target != "" {
		field.Reference = true
		field.Range = entrypoint + "/" + target
		field.Type = "string"
		if schemaType(value) != "array" {
			field.MaxCardinality = 1
		}
		return field
	}

	field.Range, field.Type = xsdRange(value)
	return field
}

// referenceTarget reports the entity a property points at, either through
// a direct $ref or an array of $refs.
func referenceTarget(ref *openapi3.SchemaRef) string {
	if name := refName(ref.Ref); name != "" {
		return name
	}
	if ref.Value != nil && ref.Value.Items != nil {
		return refName(ref.Value.Items.Ref)
	}
	return ""
}

func refName(ref string) string {
	if ref == "" {
		return ""
	}
	return ref[strings.LastIndex(ref, "/")+1:]
}

const xsd = "http://www.w3.org/2001/XMLSchema#"

func xsdRange(schema *openapi3.Schema) (string, string) {
	switch schemaType(schema) {
	case "integer":
		return xsd + "integer", "integer"
	case "number":
		return xsd + "decimal", "float"
	case "boolean":
		return xsd + "boolean", "boolean"
	case "array":
		// String collections classify as repeatable text inputs, which
		// takes an empty range with a string type.
		if schema.Items != nil && schema.Items.Value != nil && schemaType(schema.Items.Value) == "string" {
			return "", "string"
		}
		return "", "array"
	case "string":
		switch schema.Format {
		case "date":
			return xsd + "date", "date"
		case "time":
			return xsd + "time", "time"
		case "date-time":
			return xsd + "dateTime", "dateTime"
		default:
			return xsd + "string", "string"
		}
	default:
		return xsd + "string", "string"
	}
}

func schemaType(schema *openapi3.Schema) string {
	if schema == nil || schema.Type == nil {
		return ""
	}
	values := schema.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func convertParameters(params openapi3.Parameters, fields []api.Field) []api.Parameter {
	var out []api.Parameter
	for _, ref := range params {
		if ref == nil || ref.Value == nil || ref.Value.In != openapi3.ParameterInQuery {
			continue
		}
		value := ref.Value
		param := api.Parameter{
			Variable:    value.Name,
			Name:        value.Name,
			Required:    value.Required,
			Description: value.Description,
		}
		if value.Schema != nil && value.Schema.Value != nil {
			param.Range, param.Type = xsdRange(value.Schema.Value)
		}
		for _, field := range fields {
			if field.Name == baseName(value.Name) {
				param.Name = field.Name
				if field.Range != "" {
					param.Range = field.Range
					param.Type = field.Type
				}
				break
			}
		}
		out = append(out, param)
	}
	return out
}

// baseName strips filter bracket syntax (order[name], exists[photo],
// name[]) down to the underlying field name.
func baseName(variable string) string {
	if idx := strings.Index(variable, "["); idx >= 0 {
		inner := strings.TrimSuffix(variable[idx+1:], "]")
		if inner != "" {
			return inner
		}
		return variable[:idx]
	}
	return variable
}

func sortedPropertyNames(schema *openapi3.Schema) []string {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
