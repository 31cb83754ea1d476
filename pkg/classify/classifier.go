package classify

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-crudgen/pkg/api"
)

// Well-known vocabulary URIs recognised by the classifier. API descriptions
// are inconsistent about the URI scheme, so comparisons run through
// normalizeScheme on both sides.
const (
	vocabEmail      = "http://schema.org/email"
	vocabURL        = "http://schema.org/url"
	vocabAccessCode = "http://schema.org/accessCode"
	vocabHTML       = "http://schema.org/HTML"
	vocabColor      = "http://schema.org/color"
	vocabAmount     = "http://schema.org/MonetaryAmount"

	xsdInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDecimal  = "http://www.w3.org/2001/XMLSchema#decimal"
	xsdBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	xsdDate     = "http://www.w3.org/2001/XMLSchema#date"
	xsdTime     = "http://www.w3.org/2001/XMLSchema#time"
	xsdDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
	xsdString   = "http://www.w3.org/2001/XMLSchema#string"

	rdfJSON = "http://www.w3.org/1999/02/22-rdf-syntax-ns#JSON"
)

// The closed set of UI input types a field can classify to.
const (
	InputText     = "text"
	InputTextList = "text[]"
	InputEmail    = "email"
	InputURL      = "url"
	InputPassword = "password"
	InputHTML     = "html"
	InputColor    = "color"
	InputDate     = "date"
	InputTime     = "time"
	InputDateTime = "dateTime"
	InputNumber   = "number"
	InputCheckbox = "checkbox"
	InputObject   = "object"
	InputAmount   = "amountWithCurrency"
	InputOther    = "other"
)

// Storage types produced by StorageType. Deliberately coarser than the
// input classification; generated code targets TypeScript, hence "Date".
const (
	StorageString     = "string"
	StorageStringList = "string[]"
	StorageNumber     = "number"
	StorageBoolean    = "boolean"
	StorageDate       = "Date"
	StorageAny        = "any"
)

// Filter kinds attached to reconciled parameters.
const (
	FilterExists = "exists"
	FilterOrder  = "order"
)

// Input is the UI classification of a single field: which input control to
// render plus control-specific extras.
type Input struct {
	HTMLType        string            `json:"htmlType"`
	Step            string            `json:"step,omitempty"`
	Number          bool              `json:"number,omitempty"`
	ReferencedClass string            `json:"referencedClass,omitempty"`
	Args            map[string]string `json:"args,omitempty"`
}

// Field is a classified field: the raw descriptor augmented with its input
// classification, storage type, and the filter attributes that parameter
// reconciliation attaches.
type Field struct {
	api.Field
	Input
	StorageType string        `json:"storageType,omitempty"`
	Enum        *api.EnumData `json:"enumData,omitempty"`
	Sortable    bool          `json:"sortable,omitempty"`
	Variable    string        `json:"variable,omitempty"`
	FilterType  string        `json:"filterType,omitempty"`
	Multiple    bool          `json:"multiple,omitempty"`
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithReferencePrefix overrides the URI prefix that marks a field as an
// entity reference. Defaults to the entrypoint URL.
func WithReferencePrefix(prefix string) Option {
	return func(c *Classifier) {
		c.refPrefix = normalizeScheme(prefix)
	}
}

// Classifier maps field descriptors to input classifications and storage
// types. Classification is deterministic and total: unknown inputs fall
// through to the text default.
type Classifier struct {
	entrypoint string
	refPrefix  string
}

// New constructs a Classifier for the given API entrypoint. The entrypoint
// participates in classification twice: as the base of the relative color
// alias and as the default entity-reference prefix.
func New(entrypoint string, options ...Option) *Classifier {
	normalized := normalizeScheme(entrypoint)
	if normalized != "" && !strings.HasSuffix(normalized, "/") {
		normalized += "/"
	}
	c := &Classifier{
		entrypoint: normalized,
		refPrefix:  normalized,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Classify resolves the UI input type for a field. Matches are priority
// ordered: well-known vocabulary IDs first, then the range, then the
// entity-reference prefix, then the bare-string array filter shape.
func (c *Classifier) Classify(field api.Field) Input {
	id, args := splitURI(normalizeScheme(field.ID))

	switch id {
	case "":
		// no vocabulary id, fall through to the range switch
	case vocabEmail:
		return Input{HTMLType: InputEmail}
	case vocabURL:
		return Input{HTMLType: InputURL}
	case vocabAccessCode:
		return Input{HTMLType: InputPassword}
	case vocabHTML:
		return Input{HTMLType: InputHTML, Args: args}
	case vocabColor, c.entrypoint + "color":
		return Input{HTMLType: InputColor}
	case xsdDate:
		return Input{HTMLType: InputDate}
	case xsdTime:
		return Input{HTMLType: InputTime}
	case vocabAmount:
		if _, ok := args["currency"]; ok {
			return Input{HTMLType: InputAmount, Step: "0.1", Number: true, Args: args}
		}
	}

	switch normalizeScheme(field.Range) {
	case xsdInteger:
		return Input{HTMLType: InputNumber, Number: true}
	case xsdDecimal:
		return Input{HTMLType: InputNumber, Step: "0.1", Number: true}
	case xsdBoolean:
		return Input{HTMLType: InputCheckbox}
	case xsdDate:
		return Input{HTMLType: InputDate}
	case xsdTime:
		return Input{HTMLType: InputTime}
	case xsdDateTime:
		return Input{HTMLType: InputDateTime}
	case rdfJSON:
		return Input{HTMLType: InputObject}
	}

	// Entity references carry the referenced class IRI either in the
	// vocabulary id or in the range, depending on the document flavor.
	if c.refPrefix != "" {
		if strings.HasPrefix(id, c.refPrefix) {
			return Input{HTMLType: InputText, ReferencedClass: referencedClass(id)}
		}
		if rng := normalizeScheme(field.Range); strings.HasPrefix(rng, c.refPrefix) {
			return Input{HTMLType: InputText, ReferencedClass: referencedClass(rng)}
		}
	}

	if field.Range == "" && field.Type == "string" {
		// Bare free-text array filter: parameters with no matching field.
		return Input{HTMLType: InputTextList}
	}

	return Input{HTMLType: InputText}
}

// StorageType resolves the coarser storage taxonomy used for generated
// type declarations. Kept separate from Classify on purpose: both outputs
// travel with the field.
func (c *Classifier) StorageType(field api.Field) string {
	if field.Reference {
		if field.MaxCardinality == 1 {
			return StorageString
		}
		return StorageStringList
	}

	switch normalizeScheme(field.Range) {
	case xsdInteger, xsdDecimal:
		return StorageNumber
	case xsdBoolean:
		return StorageBoolean
	case xsdDate, xsdDateTime, xsdTime:
		return StorageDate
	case xsdString:
		return StorageString
	}
	return StorageAny
}

// BuildFields classifies every descriptor and sanitizes descriptions for
// interpolation into quoted template placeholders.
func (c *Classifier) BuildFields(fields []api.Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, field := range fields {
		out = append(out, merge(field, c.Classify(field), c.StorageType(field)))
	}
	return out
}

// ClassifyParameter adapts a raw query parameter into a classified field
// carrying its Variable, ready for reconciliation against the resource's
// readable fields.
func (c *Classifier) ClassifyParameter(param api.Parameter) Field {
	descriptor := api.Field{
		Name:        param.Name,
		Range:       param.Range,
		Type:        param.Type,
		Required:    param.Required,
		Description: param.Description,
	}
	merged := merge(descriptor, c.Classify(descriptor), c.StorageType(descriptor))
	merged.Variable = param.Variable
	return merged
}

// merge combines a raw descriptor with its classification results.
// Classification values always take precedence over descriptor values of
// the same name; the descriptor itself is never mutated.
func merge(field api.Field, input Input, storage string) Field {
	field.Description = sanitizeDescription(field.Description)
	return Field{Field: field, Input: input, StorageType: storage}
}

// sanitizeDescription swaps double quotes for single quotes so descriptions
// survive interpolation into quoted placeholder attributes.
func sanitizeDescription(description string) string {
	return strings.ReplaceAll(description, `"`, `'`)
}

func normalizeScheme(uri string) string {
	if rest, ok := strings.CutPrefix(uri, "https://"); ok {
		return "http://" + rest
	}
	return uri
}

// splitURI separates the query-string-encoded arguments some vocabulary
// IDs carry from the base URI.
func splitURI(uri string) (string, map[string]string) {
	base, query, found := strings.Cut(uri, "?")
	if !found || query == "" {
		return base, nil
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return base, nil
	}
	args := make(map[string]string, len(values))
	for key := range values {
		args[key] = values.Get(key)
	}
	return base, args
}

func referencedClass(uri string) string {
	idx := strings.LastIndexAny(uri, "/#")
	if idx < 0 || idx == len(uri)-1 {
		return uri
	}
	return uri[idx+1:]
}
