package hydra

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-crudgen/pkg/api"
)

// FetchContext retrieves the JSON-LD context document published next to a
// resource and extracts the enum metadata it carries per field. The
// generator consumes this through its ContextFetcher seam.
func (c *Client) FetchContext(ctx context.Context, entrypoint string, resource api.Resource) (map[string]api.ContextEntry, error) {
	url := strings.TrimSuffix(entrypoint, "/") + "/contexts/" + resource.Title
	body, _, err := c.fetchJSONLD(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("hydra: fetch context for %q: %w", resource.Title, err)
	}

	raw, ok := body["@context"].(map[string]any)
	if !ok {
		return nil, nil
	}

	entries := make(map[string]api.ContextEntry, len(raw))
	for name, value := range raw {
		detail, ok := value.(map[string]any)
		if !ok {
			continue
		}
		entry := api.ContextEntry{
			Type:    asString(detail["type"]),
			Default: detail["default"],
		}
		if options := asList(detail["enum"]); len(options) > 0 {
			entry.Enum = options
		}
		if entry.Enum == nil && entry.Type == "" && entry.Default == nil {
			continue
		}
		entries[name] = entry
	}
	return entries, nil
}
