package params

import (
	"strings"

	"github.com/goliatone/go-crudgen/pkg/classify"
)

// Package params reconciles the query parameters a collection advertises
// with the resource's classified readable fields, producing the parameter
// list the filter UI renders.

// Reconcile merges server-declared query parameters with classified
// readable fields. It mutates the fields slice in place when an order[...]
// parameter marks a field sortable; callers rely on that side effect
// because the field list and the parameter list share entries.
func Reconcile(parameters, fields []classify.Field) []classify.Field {
	kept := dropDuplicates(parameters)

	// Record sortability before emitting anything so every copy taken from
	// the fields slice already carries the flag.
	for _, param := range kept {
		if indexByName(fields, param.Variable) != -1 {
			continue
		}
		if name, ok := bracketed(param.Variable, "order"); ok {
			if i := indexByName(fields, name); i != -1 {
				fields[i].Sortable = true
			}
		}
	}

	out := make([]classify.Field, 0, len(kept))
	for _, param := range kept {
		if i := indexByName(fields, param.Variable); i != -1 {
			// The parameter names a readable field: reuse its richer
			// classification, keeping the multiplicity computed above.
			// The query variable must survive the swap; filter controls
			// bind on it.
			merged := fields[i]
			merged.Variable = param.Variable
			merged.Multiple = param.Multiple
			out = append(out, merged)
			continue
		}

		if _, ok := bracketed(param.Variable, "order"); ok {
			// Sortability was recorded; the parameter itself is not a
			// filter control.
			continue
		}

		if name, ok := bracketed(param.Variable, "exists"); ok {
			if i := indexByName(fields, name); i != -1 {
				// Existence filters are presence checks, not value
				// filters, whatever the field's real type.
				merged := fields[i]
				merged.Variable = param.Variable
				merged.HTMLType = classify.InputOther
				merged.FilterType = classify.FilterExists
				out = append(out, merged)
				continue
			}
			param.Name = name
			param.FilterType = classify.FilterExists
			out = append(out, param)
			continue
		}

		if param.Name == "" {
			// Renderers always need a human label.
			param.Name = param.Variable
		}
		if !param.Sortable {
			out = append(out, param)
		}
	}
	return out
}

// dropDuplicates applies the base-key frequency rules: an array-form
// parameter survives only when it has no scalar sibling, and a scalar
// parameter whose base key appears exactly twice is flagged multiple.
// Exactly twice, never one or three or more: the counting rule is a
// heuristic inherited from the upstream behavior and kept verbatim.
func dropDuplicates(parameters []classify.Field) []classify.Field {
	counts := make(map[string]int, len(parameters))
	for _, param := range parameters {
		counts[strings.TrimSuffix(param.Variable, "[]")]++
	}

	kept := make([]classify.Field, 0, len(parameters))
	for _, param := range parameters {
		switch {
		case strings.HasPrefix(param.Variable, "exists["),
			strings.HasPrefix(param.Variable, "order["):
			kept = append(kept, param)
		case strings.HasSuffix(param.Variable, "[]"):
			if counts[strings.TrimSuffix(param.Variable, "[]")] == 1 {
				kept = append(kept, param)
			}
		default:
			if counts[param.Variable] == 2 {
				param.Multiple = true
			}
			kept = append(kept, param)
		}
	}
	return kept
}

// bracketed extracts inner from variables shaped like kind[inner].
func bracketed(variable, kind string) (string, bool) {
	rest, ok := strings.CutPrefix(variable, kind+"[")
	if !ok {
		return "", false
	}
	inner, ok := strings.CutSuffix(rest, "]")
	if !ok {
		return "", false
	}
	return inner, true
}

func indexByName(fields []classify.Field, name string) int {
	for i, field := range fields {
		if field.Name == name {
			return i
		}
	}
	return -1
}
