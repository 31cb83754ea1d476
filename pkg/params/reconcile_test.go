package params_test

import (
	"testing"

	"github.com/goliatone/go-crudgen/pkg/api"
	"github.com/goliatone/go-crudgen/pkg/classify"
	"github.com/goliatone/go-crudgen/pkg/params"
)

func param(variable string) classify.Field {
	return classify.Field{
		Field: api.Field{Type: "string"},
		Input: classify.Input{HTMLType: classify.InputTextList},
		Variable: variable,
	}
}

func field(name, htmlType string) classify.Field {
	return classify.Field{
		Field: api.Field{Name: name},
		Input: classify.Input{HTMLType: htmlType},
	}
}

func variables(list []classify.Field) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		if p.Variable != "" {
			out = append(out, p.Variable)
			continue
		}
		out = append(out, p.Name)
	}
	return out
}

func TestReconcile_ScalarAndArrayPairBecomesMultiple(t *testing.T) {
	got := params.Reconcile([]classify.Field{param("name"), param("name[]")}, nil)

	if len(got) != 1 {
		t.Fatalf("expected one parameter, got %v", variables(got))
	}
	if got[0].Variable != "name" {
		t.Errorf("variable = %q, want name", got[0].Variable)
	}
	if !got[0].Multiple {
		t.Errorf("expected multiple flag on scalar+array pair")
	}
}

func TestReconcile_ArrayOnlyKeptWithoutMultiple(t *testing.T) {
	got := params.Reconcile([]classify.Field{param("name[]")}, nil)

	if len(got) != 1 {
		t.Fatalf("expected one parameter, got %v", variables(got))
	}
	if got[0].Variable != "name[]" {
		t.Errorf("variable = %q, want name[]", got[0].Variable)
	}
	if got[0].Multiple {
		t.Errorf("multiple must stay unset for a lone array parameter")
	}
}

func TestReconcile_TripleOccurrenceNeverMultiple(t *testing.T) {
	got := params.Reconcile(
		[]classify.Field{param("name"), param("name"), param("name[]")},
		nil,
	)
	for _, p := range got {
		if p.Multiple {
			t.Fatalf("multiple set for base key seen three times: %v", variables(got))
		}
	}
}

func TestReconcile_OrderMarksFieldSortableAndDisappears(t *testing.T) {
	fields := []classify.Field{field("createdAt", classify.InputDateTime)}
	got := params.Reconcile([]classify.Field{param("order[createdAt]")}, fields)

	if len(got) != 0 {
		t.Fatalf("order parameter leaked into output: %v", variables(got))
	}
	if !fields[0].Sortable {
		t.Errorf("expected createdAt to be marked sortable")
	}
}

func TestReconcile_OrderBeforeMatchingParameterStillVisible(t *testing.T) {
	// The scalar parameter copies its field after sortability is recorded,
	// regardless of declaration order.
	fields := []classify.Field{field("name", classify.InputText)}
	got := params.Reconcile(
		[]classify.Field{param("name"), param("order[name]")},
		fields,
	)
	if len(got) != 1 {
		t.Fatalf("expected one parameter, got %v", variables(got))
	}
	if !got[0].Sortable {
		t.Errorf("emitted parameter misses the sortable flag")
	}
}

func TestReconcile_ExistsClonesFieldAsPresenceCheck(t *testing.T) {
	fields := []classify.Field{field("photo", classify.InputText)}
	got := params.Reconcile([]classify.Field{param("exists[photo]")}, fields)

	if len(got) != 1 {
		t.Fatalf("expected one parameter, got %v", variables(got))
	}
	p := got[0]
	if p.Variable != "exists[photo]" {
		t.Errorf("variable = %q", p.Variable)
	}
	if p.FilterType != classify.FilterExists {
		t.Errorf("filterType = %q, want exists", p.FilterType)
	}
	if p.HTMLType != classify.InputOther {
		t.Errorf("htmlType = %q, want other", p.HTMLType)
	}
	if fields[0].HTMLType != classify.InputText {
		t.Errorf("source field classification must not change, got %q", fields[0].HTMLType)
	}
}

func TestReconcile_ExistsWithoutFieldKeepsSyntheticName(t *testing.T) {
	got := params.Reconcile([]classify.Field{param("exists[photo]")}, nil)

	if len(got) != 1 {
		t.Fatalf("expected one parameter, got %v", variables(got))
	}
	if got[0].Name != "photo" {
		t.Errorf("name = %q, want photo", got[0].Name)
	}
	if got[0].FilterType != classify.FilterExists {
		t.Errorf("filterType = %q, want exists", got[0].FilterType)
	}
}

func TestReconcile_FieldMatchReusesClassification(t *testing.T) {
	enum := &api.EnumData{Options: []any{"draft", "published"}}
	f := field("status", classify.InputText)
	f.Enum = enum
	fields := []classify.Field{f}

	got := params.Reconcile(
		[]classify.Field{param("status"), param("status[]")},
		fields,
	)
	if len(got) != 1 {
		t.Fatalf("expected one parameter, got %v", variables(got))
	}
	if got[0].Enum != enum {
		t.Errorf("field enum metadata lost in reconciliation")
	}
	if !got[0].Multiple {
		t.Errorf("multiple flag lost when replacing parameter with field")
	}
	if got[0].Variable != "status" {
		t.Errorf("variable = %q, want the query variable kept on the field copy", got[0].Variable)
	}
}

func TestReconcile_UnmatchedParameterGetsLabel(t *testing.T) {
	got := params.Reconcile([]classify.Field{param("q")}, nil)

	if len(got) != 1 {
		t.Fatalf("expected one parameter, got %v", variables(got))
	}
	if got[0].Name != "q" {
		t.Errorf("name = %q, want q", got[0].Name)
	}
}
