package classify_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudgen/pkg/api"
	"github.com/goliatone/go-crudgen/pkg/classify"
)

const entrypoint = "https://demo.example.com/"

func TestClassify_VocabularyIDs(t *testing.T) {
	c := classify.New(entrypoint)

	cases := []struct {
		name  string
		field api.Field
		want  classify.Input
	}{
		{
			name:  "email",
			field: api.Field{ID: "http://schema.org/email"},
			want:  classify.Input{HTMLType: classify.InputEmail},
		},
		{
			name:  "url",
			field: api.Field{ID: "https://schema.org/url"},
			want:  classify.Input{HTMLType: classify.InputURL},
		},
		{
			name:  "access code",
			field: api.Field{ID: "https://schema.org/accessCode"},
			want:  classify.Input{HTMLType: classify.InputPassword},
		},
		{
			name:  "html with args",
			field: api.Field{ID: "https://schema.org/HTML?toolbar=full"},
			want: classify.Input{
				HTMLType: classify.InputHTML,
				Args:     map[string]string{"toolbar": "full"},
			},
		},
		{
			name:  "color vocabulary",
			field: api.Field{ID: "https://schema.org/color"},
			want:  classify.Input{HTMLType: classify.InputColor},
		},
		{
			name:  "color entrypoint alias",
			field: api.Field{ID: entrypoint + "color"},
			want:  classify.Input{HTMLType: classify.InputColor},
		},
		{
			name:  "date id",
			field: api.Field{ID: "http://www.w3.org/2001/XMLSchema#date"},
			want:  classify.Input{HTMLType: classify.InputDate},
		},
		{
			name:  "time id",
			field: api.Field{ID: "http://www.w3.org/2001/XMLSchema#time"},
			want:  classify.Input{HTMLType: classify.InputTime},
		},
		{
			name:  "amount with currency",
			field: api.Field{ID: "https://schema.org/MonetaryAmount?currency=EUR"},
			want: classify.Input{
				HTMLType: classify.InputAmount,
				Step:     "0.1",
				Number:   true,
				Args:     map[string]string{"currency": "EUR"},
			},
		},
		{
			name:  "amount without currency falls through",
			field: api.Field{ID: "https://schema.org/MonetaryAmount", Range: "http://www.w3.org/2001/XMLSchema#decimal"},
			want:  classify.Input{HTMLType: classify.InputNumber, Step: "0.1", Number: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.field)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Classify mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify_Ranges(t *testing.T) {
	c := classify.New(entrypoint)

	cases := []struct {
		rng  string
		want classify.Input
	}{
		{"http://www.w3.org/2001/XMLSchema#integer", classify.Input{HTMLType: classify.InputNumber, Number: true}},
		{"http://www.w3.org/2001/XMLSchema#decimal", classify.Input{HTMLType: classify.InputNumber, Step: "0.1", Number: true}},
		{"http://www.w3.org/2001/XMLSchema#boolean", classify.Input{HTMLType: classify.InputCheckbox}},
		{"http://www.w3.org/2001/XMLSchema#date", classify.Input{HTMLType: classify.InputDate}},
		{"http://www.w3.org/2001/XMLSchema#time", classify.Input{HTMLType: classify.InputTime}},
		{"http://www.w3.org/2001/XMLSchema#dateTime", classify.Input{HTMLType: classify.InputDateTime}},
		{"http://www.w3.org/1999/02/22-rdf-syntax-ns#JSON", classify.Input{HTMLType: classify.InputObject}},
	}

	for _, tc := range cases {
		t.Run(tc.rng, func(t *testing.T) {
			got := c.Classify(api.Field{Range: tc.rng})
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Classify mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify_BooleanRangeWinsOverUnknownID(t *testing.T) {
	c := classify.New(entrypoint)
	got := c.Classify(api.Field{
		ID:    "https://example.org/vocab/archived",
		Range: "http://www.w3.org/2001/XMLSchema#boolean",
	})
	if got.HTMLType != classify.InputCheckbox {
		t.Fatalf("want checkbox, got %q", got.HTMLType)
	}
}

func TestClassify_SchemeNormalization(t *testing.T) {
	c := classify.New(entrypoint)
	https := c.Classify(api.Field{ID: "https://schema.org/email"})
	http := c.Classify(api.Field{ID: "http://schema.org/email"})
	if diff := cmp.Diff(https, http); diff != "" {
		t.Errorf("scheme variants classified differently (-https +http):\n%s", diff)
	}
}

func TestClassify_EntityReference(t *testing.T) {
	c := classify.New(entrypoint)
	got := c.Classify(api.Field{ID: entrypoint + "entities/Person"})
	want := classify.Input{HTMLType: classify.InputText, ReferencedClass: "Person"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_EntityReferenceFromRange(t *testing.T) {
	// Parsed documents put the referenced class IRI in the range, with an
	// unrelated vocabulary id on the property itself.
	c := classify.New(entrypoint)
	got := c.Classify(api.Field{
		ID:        "http://schema.org/author",
		Range:     entrypoint + "docs.jsonld#Person",
		Reference: true,
	})
	want := classify.Input{HTMLType: classify.InputText, ReferencedClass: "Person"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_BareStringBecomesTextList(t *testing.T) {
	c := classify.New(entrypoint)
	got := c.Classify(api.Field{Name: "q", Type: "string"})
	if got.HTMLType != classify.InputTextList {
		t.Fatalf("want %q, got %q", classify.InputTextList, got.HTMLType)
	}
}

func TestClassify_DefaultsToText(t *testing.T) {
	c := classify.New(entrypoint)
	got := c.Classify(api.Field{Name: "whatever", Range: "https://example.org/unknown"})
	if got.HTMLType != classify.InputText {
		t.Fatalf("want text, got %q", got.HTMLType)
	}
}

func TestStorageType(t *testing.T) {
	c := classify.New(entrypoint)

	cases := []struct {
		name  string
		field api.Field
		want  string
	}{
		{"single reference", api.Field{Reference: true, MaxCardinality: 1}, classify.StorageString},
		{"unbounded reference", api.Field{Reference: true}, classify.StorageStringList},
		{"multi reference", api.Field{Reference: true, MaxCardinality: 4}, classify.StorageStringList},
		{"integer", api.Field{Range: "http://www.w3.org/2001/XMLSchema#integer"}, classify.StorageNumber},
		{"decimal", api.Field{Range: "https://www.w3.org/2001/XMLSchema#decimal"}, classify.StorageNumber},
		{"boolean", api.Field{Range: "http://www.w3.org/2001/XMLSchema#boolean"}, classify.StorageBoolean},
		{"date", api.Field{Range: "http://www.w3.org/2001/XMLSchema#date"}, classify.StorageDate},
		{"dateTime", api.Field{Range: "http://www.w3.org/2001/XMLSchema#dateTime"}, classify.StorageDate},
		{"time", api.Field{Range: "http://www.w3.org/2001/XMLSchema#time"}, classify.StorageDate},
		{"string", api.Field{Range: "http://www.w3.org/2001/XMLSchema#string"}, classify.StorageString},
		{"unknown", api.Field{Range: "https://example.org/thing"}, classify.StorageAny},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.StorageType(tc.field); got != tc.want {
				t.Errorf("StorageType = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildFields_SanitizesDescriptions(t *testing.T) {
	c := classify.New(entrypoint)
	fields := c.BuildFields([]api.Field{
		{
			Name:        "title",
			Range:       "http://www.w3.org/2001/XMLSchema#string",
			Description: `the "canonical" title`,
		},
	})
	if len(fields) != 1 {
		t.Fatalf("expected one field, got %d", len(fields))
	}
	if got, want := fields[0].Description, "the 'canonical' title"; got != want {
		t.Errorf("description = %q, want %q", got, want)
	}
	if fields[0].HTMLType != classify.InputText {
		t.Errorf("htmlType = %q, want text", fields[0].HTMLType)
	}
	if fields[0].StorageType != classify.StorageString {
		t.Errorf("storageType = %q, want string", fields[0].StorageType)
	}
}

func TestClassifyParameter_CarriesVariable(t *testing.T) {
	c := classify.New(entrypoint)
	got := c.ClassifyParameter(api.Parameter{Variable: "name[]", Type: "string"})
	if got.Variable != "name[]" {
		t.Fatalf("variable = %q", got.Variable)
	}
	if got.HTMLType != classify.InputTextList {
		t.Fatalf("htmlType = %q, want text[]", got.HTMLType)
	}
}
