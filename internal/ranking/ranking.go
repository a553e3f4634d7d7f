// Package ranking orders classification tags for fast manual selection.
package ranking

import (
	"sort"

	"github.com/splitbridge/backend/internal/session"
)

// Rank orders tags by relevance for a selected category.
//
// Without a selected category (empty id) all tags are sorted by
// descending usage count. With one, tags belonging to the category come
// first, then the rest, each group sorted by descending usage count.
// Ties keep the upstream order.
//
// The input slice is never modified, the caller may keep aliasing it.
func Rank(tags []session.Tag, selectedCategoryID string) []session.Tag {
	ranked := make([]session.Tag, len(tags))
	copy(ranked, tags)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].UsageCount > ranked[j].UsageCount
	})

	if selectedCategoryID == "" {
		return ranked
	}

	// Stable partition: category members first, usage order preserved
	// within both groups.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CategoryID == selectedCategoryID && ranked[j].CategoryID != selectedCategoryID
	})

	return ranked
}
