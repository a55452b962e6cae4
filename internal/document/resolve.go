package document

import (
	"context"
	"fmt"

	"github.com/barjames/funeral-planner/internal/models"
	"github.com/barjames/funeral-planner/internal/service"
)

// ItemStore looks up stored items by id.
type ItemStore interface {
	GetByIDs(ctx context.Context, cat models.Category, ids []string) ([]models.ContentItem, error)
}

// Section is one category's resolved items, in request order.
type Section struct {
	Category models.Category
	Items    []models.ContentItem
}

// Resolve turns a wishlist into sections in canonical category order.
// Unknown categories, malformed ids and ids that no longer exist are
// skipped; repeated ids resolve once. Only non-empty sections are returned.
func Resolve(ctx context.Context, store ItemStore, wishlist models.Wishlist) ([]Section, error) {
	sections := make([]Section, 0, len(wishlist))

	for _, cat := range models.Categories() {
		ids := requestedIDs(wishlist, cat.Key)
		if len(ids) == 0 {
			continue
		}

		found, err := store.GetByIDs(ctx, cat, ids)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve %s: %w", service.ErrStorage, cat.Key, err)
		}

		byID := make(map[string]models.ContentItem, len(found))
		for _, item := range found {
			byID[item.ID] = item
		}

		items := make([]models.ContentItem, 0, len(ids))
		for _, id := range ids {
			if item, ok := byID[id]; ok {
				items = append(items, item)
			}
		}

		if len(items) > 0 {
			sections = append(sections, Section{Category: cat, Items: items})
		}
	}

	return sections, nil
}

// requestedIDs returns the well-formed, distinct ids listed under key.
func requestedIDs(wishlist models.Wishlist, key string) []string {
	var ids []string
	seen := make(map[string]struct{})

	for _, id := range wishlist[key] {
		if !service.ValidID(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}

// CountItems returns the number of items across sections.
func CountItems(sections []Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Items)
	}
	return n
}
