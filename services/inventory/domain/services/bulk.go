package services

import (
	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
)

// CommonTags returns the tag names present on every selected item, in
// first-encounter order. Tags carried by only part of the selection are
// deliberately omitted: a bulk edit neither uniformly adds nor uniformly
// removes them unless the user puts them back in the edited set.
// An empty selection yields an empty list.
func CommonTags(items []models.Item, selected map[int64]bool) []string {
	return commonNames(items, selected, (*models.Item).TagNames)
}

// CommonLocations is the location counterpart of CommonTags.
func CommonLocations(items []models.Item, selected map[int64]bool) []string {
	return commonNames(items, selected, (*models.Item).LocationNames)
}

func commonNames(items []models.Item, selected map[int64]bool, names func(*models.Item) []string) []string {
	selectedCount := 0
	counts := make(map[string]int)
	var order []string

	for i := range items {
		if !selected[items[i].ID] {
			continue
		}
		selectedCount++
		for _, name := range names(&items[i]) {
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	common := []string{}
	if selectedCount == 0 {
		return common
	}
	for _, name := range order {
		if counts[name] == selectedCount {
			common = append(common, name)
		}
	}
	return common
}

// Delta splits an edited name set against its seed: added holds the names in
// after but not before, deleted the names in before but not after. Both
// preserve input order. An empty delta means the edit dialog was submitted
// unchanged and no write must be issued.
func Delta(before, after []string) (added, deleted []string) {
	added = missingFrom(after, before)
	deleted = missingFrom(before, after)
	return added, deleted
}

// ApplyDelta computes one item's new name set: names in deleted are removed
// (an item that never had them is unaffected), then names in added that the
// item does not already carry are appended. Existing order is preserved.
func ApplyDelta(existing, added, deleted []string) []string {
	result := make([]string, 0, len(existing)+len(added))
	for _, name := range existing {
		if !contains(deleted, name) {
			result = append(result, name)
		}
	}
	for _, name := range added {
		if !contains(existing, name) {
			result = append(result, name)
		}
	}
	return result
}

// missingFrom returns the entries of a that do not occur in b, in a's order.
func missingFrom(a, b []string) []string {
	out := []string{}
	for _, name := range a {
		if !contains(b, name) {
			out = append(out, name)
		}
	}
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
