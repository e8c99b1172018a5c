// Package market lists the marketplace categories and filters them by a
// search query.
package market

import (
	"strings"

	"github.com/bowerhall/regen/internal/catalog"
)

// NoResultsMessage is shown when a search matches nothing.
const NoResultsMessage = "No matching products found."

// Search returns the categories whose title matches query, plus categories
// trimmed to the items that match. An empty query returns everything.
func Search(categories []catalog.Category, query string) []catalog.Category {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return categories
	}

	var out []catalog.Category
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.Title), q) {
			out = append(out, c)
			continue
		}

		var items []string
		for _, item := range c.Items {
			if strings.Contains(strings.ToLower(item), q) {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			out = append(out, catalog.Category{Title: c.Title, Bin: c.Bin, Items: items})
		}
	}

	return out
}

// Count is the number of items across categories.
func Count(categories []catalog.Category) int {
	n := 0
	for _, c := range categories {
		n += len(c.Items)
	}
	return n
}
