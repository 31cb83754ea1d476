package generator

import (
	"fmt"
	"os"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-crudgen/pkg/classify"
)

// Label is one entry of the common label dictionary. Order matters: the
// generated i18n index lists texts in declaration order.
type Label struct {
	Key  string
	Text string
}

// CommonLabels returns the built-in label dictionary shared by every
// generated resource.
func CommonLabels() []Label {
	return []Label{
		{"submit", "Submit"},
		{"reset", "Reset"},
		{"delete", "Delete"},
		{"confirmDelete", "Are you sure you want to delete this item?"},
		{"noresults", "No results"},
		{"close", "Close"},
		{"cancel", "Cancel"},
		{"updated", "Updated"},
		{"field", "Field"},
		{"value", "Value"},
		{"filters", "Filters"},
		{"filter", "Filter"},
		{"unavail", "Data unavailable"},
		{"loading", "Loading..."},
		{"deleted", "Deleted"},
		{"numValidation", "Please, insert a value bigger than zero!"},
		{"stringValidation", "Please type something"},
		{"required", "Field is required"},
		{"recPerPage", "Records per page:"},
	}
}

// labelPolicy strips markup from user-supplied label overrides before they
// land in generated source.
var labelPolicy = bluemonday.StrictPolicy()

// LoadLabelOverrides reads a YAML mapping of label key to replacement
// text.
func LoadLabelOverrides(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("generator: read label overrides: %w", err)
	}
	overrides := map[string]string{}
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("generator: parse label overrides: %w", err)
	}
	return overrides, nil
}

// labelDictionary resolves the effective labels: built-ins with overrides
// applied, override values sanitized.
func (g *Generator) labelDictionary() (map[string]string, []string) {
	dictionary := make(map[string]string, len(g.labels))
	texts := make([]string, 0, len(g.labels))
	for _, label := range g.labels {
		text := label.Text
		if override, ok := g.labelOverrides[label.Key]; ok {
			text = labelPolicy.Sanitize(override)
		}
		dictionary[label.Key] = text
		texts = append(texts, text)
	}
	return dictionary, texts
}

// contextLabelTexts collects the per-resource label texts: every form and
// list field name, first occurrence wins.
func contextLabelTexts(formFields, fields []classify.Field) []string {
	seen := make(map[string]struct{}, len(formFields)+len(fields))
	var texts []string
	for _, field := range append(append([]classify.Field{}, formFields...), fields...) {
		if _, ok := seen[field.Name]; ok {
			continue
		}
		seen[field.Name] = struct{}{}
		texts = append(texts, field.Name)
	}
	return texts
}
