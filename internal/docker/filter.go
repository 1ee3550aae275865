package docker

import (
	"strings"

	"github.com/moby/moby/client"

	"github.com/pyaillet/doggy/internal/types"
)

// allowedFilterKeys are the container list filters accepted by the engine.
var allowedFilterKeys = map[string]bool{
	"ancestor": true,
	"before":   true,
	"expose":   true,
	"exited":   true,
	"health":   true,
	"id":       true,
	"is-task":  true,
	"label":    true,
	"name":     true,
	"network":  true,
	"publish":  true,
	"since":    true,
	"status":   true,
	"volume":   true,
}

// ValidateFilter accepts a bare value or key=value with a known key.
func (c *Client) ValidateFilter(text string) bool {
	return validateFilter(text)
}

func validateFilter(text string) bool {
	key, _, ok := strings.Cut(text, "=")
	if !ok {
		return true
	}
	return allowedFilterKeys[strings.TrimSpace(key)]
}

func toFilters(f types.Filter) client.Filters {
	filters := make(client.Filters)
	if f.IsZero() {
		return filters
	}
	return filters.Add(f.Key, f.Value)
}

// resourceFilters passes through the terms image, volume and network
// listings understand and matches anything else by name. Images are
// matched by reference instead of name.
func resourceFilters(f types.Filter, nameKey string) client.Filters {
	filters := make(client.Filters)
	switch {
	case f.IsZero():
	case f.Key == "label" || f.Key == "driver" || f.Key == "id":
		filters.Add(f.Key, f.Value)
	default:
		filters.Add(nameKey, f.Value)
	}
	return filters
}
