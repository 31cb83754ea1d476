package generator

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/goliatone/go-crudgen/pkg/api"
	"github.com/goliatone/go-crudgen/pkg/classify"
	"github.com/goliatone/go-crudgen/pkg/params"
)

// Context is the aggregate handed to every template render for one
// resource.
type Context map[string]any

// Input types rendered through the shared date picker component.
var dateTypes = []string{classify.InputTime, classify.InputDate, classify.InputDateTime}

// BuildContext assembles the full render context for one resource:
// classified field lists, reconciled parameters, derived flags, casing
// variants, the label dictionary, and the hashed entrypoint key.
func (g *Generator) BuildContext(a api.API, resource api.Resource) Context {
	formFields := g.classifier.BuildFields(resource.WritableFields)
	attachFieldEnums(formFields, resource.HydraContext)

	fields := g.classifier.BuildFields(resource.ReadableFields)

	parameters := make([]classify.Field, 0, len(resource.Parameters))
	for _, param := range resource.Parameters {
		classified := g.classifier.ClassifyParameter(param)
		attachParameterEnum(&classified, resource.HydraContext)
		parameters = append(parameters, classified)
	}
	parameters = params.Reconcile(parameters, fields)

	labels, _ := g.labelDictionary()

	lc := strings.ToLower(resource.Title)

	ctx := Context{
		"title":             resource.Title,
		"name":              resource.Name,
		"nameUcFirst":       nameUcFirst(resource.Name),
		"lc":                lc,
		"uc":                strings.ToUpper(resource.Title),
		"titleUcFirst":      upperFirst(resource.Title),
		"fields":            fields,
		"formFields":        formFields,
		"parameters":        parameters,
		"dateTypes":         dateTypes,
		"listContainsDate":  containsDate(fields),
		"formContainsDate":  containsDate(formFields),
		"formContainsRef":   containsReference(formFields),
		"formContainsColor": containsColor(formFields),
		"paramsHaveRefs":    containsReference(parameters),
		"hydraPrefix":       g.hydraPrefix,
		"labels":            labels,
		"hashEntry":         HashEntrypoint(a.Entrypoint),
	}
	if theme := g.themeContext(); theme != nil {
		ctx["theme"] = theme
	}
	return ctx
}

// HashEntrypoint derives the stable config-file key for an entrypoint: a
// 32-bit polynomial hash (multiplier 31) over the first UTF-16 unit of
// each code point (the high surrogate for astral characters), absolute
// value. The abs goes through int64 so the minimum int32 cannot overflow.
func HashEntrypoint(entrypoint string) int {
	var h int32
	for _, r := range entrypoint {
		unit := r
		if r > 0xFFFF {
			unit, _ = utf16.EncodeRune(r)
		}
		h = 31*h + int32(unit)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v)
}

func containsDate(fields []classify.Field) bool {
	for _, field := range fields {
		for _, dt := range dateTypes {
			if field.HTMLType == dt {
				return true
			}
		}
	}
	return false
}

func containsReference(fields []classify.Field) bool {
	for _, field := range fields {
		if field.HTMLType == classify.InputText && field.Reference {
			return true
		}
	}
	return false
}

func containsColor(fields []classify.Field) bool {
	for _, field := range fields {
		if field.HTMLType == classify.InputColor {
			return true
		}
	}
	return false
}

func attachFieldEnums(fields []classify.Field, hydraContext map[string]api.ContextEntry) {
	if len(hydraContext) == 0 {
		return
	}
	for i := range fields {
		entry, ok := hydraContext[fields[i].Name]
		if !ok || entry.Enum == nil {
			continue
		}
		fields[i].Enum = &api.EnumData{
			Options: entry.Enum,
			Type:    entry.Type,
			Default: entry.Default,
		}
	}
}

// attachParameterEnum matches on variable prefix rather than equality so
// bracketed filter forms (status[], exists[status]) still pick up the base
// field's enum metadata.
func attachParameterEnum(param *classify.Field, hydraContext map[string]api.ContextEntry) {
	keys := make([]string, 0, len(hydraContext))
	for key := range hydraContext {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !strings.HasPrefix(param.Variable, key) {
			continue
		}
		entry := hydraContext[key]
		if entry.Enum == nil {
			return
		}
		param.Enum = &api.EnumData{
			Options: entry.Enum,
			Type:    entry.Type,
			Default: entry.Default,
		}
		return
	}
}

func (g *Generator) themeContext() map[string]any {
	if g.theme == nil {
		return nil
	}
	return map[string]any{
		"name":    g.theme.Theme,
		"variant": g.theme.Variant,
		"tokens":  g.theme.Tokens,
		"cssVars": g.theme.CSSVars,
	}
}

// nameUcFirst turns a snake_case resource name into spaced words with each
// first letter upper-cased.
func nameUcFirst(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		words[i] = upperFirst(word)
	}
	return strings.Join(words, " ")
}

func upperFirst(word string) string {
	if word == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + word[size:]
}
