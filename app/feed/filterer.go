package feed

import (
	"fmt"
	"log/slog"
	"strings"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run drops the items excluded by the profile filters, keeping feed order.
func (f *Filterer) Run(items []FeedItem, filters []ProfileFilter) []FeedItem {
	if len(filters) == 0 {
		return items
	}

	kept := make([]FeedItem, 0, len(items))
	for _, item := range items {
		if isFiltered, filterReason := f.applyFilters(item, filters); isFiltered {
			slog.Debug("Feed item filtered", "url", item.URL, "reason", filterReason)
			continue
		}
		kept = append(kept, item)
	}

	return kept
}

func (f *Filterer) applyFilters(item FeedItem, filters []ProfileFilter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(item, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(item FeedItem, field string) string {
	switch field {
	case "title":
		return item.Title
	case "author":
		return item.Author
	case "link":
		return item.URL
	default:
		return ""
	}
}
