package services

import (
	"strings"

	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
)

// Category is the active/archived partition of the item collection.
// The two categories are mutually exclusive.
type Category string

const (
	CategoryActive   Category = "active"
	CategoryArchived Category = "archived"
)

// Visible reports whether an item passes the category filter and every
// search filter. Name filters match a lowercase substring of the item name;
// tag and location filters match a stored name exactly (terms were already
// lowercased at parse time). Evaluation short-circuits on the first miss.
func Visible(item *models.Item, category Category, filters []Filter) bool {
	visible := (category == CategoryActive && item.IsActive) ||
		(category == CategoryArchived && !item.IsActive)
	if !visible {
		return false
	}

	name := strings.ToLower(item.Name)
	for _, f := range filters {
		switch f.Type {
		case FilterName:
			visible = strings.Contains(name, f.Term)
		case FilterTag:
			visible = item.HasTag(f.Term)
		case FilterLocation:
			visible = item.HasLocation(f.Term)
		}
		if !visible {
			return false
		}
	}
	return true
}

// VisibleItems filters the collection down to the items passing Visible,
// preserving collection order.
func VisibleItems(items []models.Item, category Category, filters []Filter) []models.Item {
	visible := make([]models.Item, 0, len(items))
	for i := range items {
		if Visible(&items[i], category, filters) {
			visible = append(visible, items[i])
		}
	}
	return visible
}
