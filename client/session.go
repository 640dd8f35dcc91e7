package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
	domainsvcs "github.com/lvoinea/stuffkeeper/services/inventory/domain/services"
)

// Backend is the server surface a Session needs. *Client implements it; bulk
// edit tests substitute a fake.
type Backend interface {
	ListItems(ctx context.Context) ([]models.Item, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
	SaveItem(ctx context.Context, id int64, patch models.Patch) (*models.Item, error)
}

// Session is the in-memory state of one user working their inventory: the
// loaded collection, the tag and location vocabularies, the current category
// and parsed search filters, the multi-select set, and the bulk edit engine
// on top of them.
//
// Selection discipline: the selected set only ever references currently
// visible items. Any change that can alter visibility (search text,
// category, a reload) resets the selection, so a bulk edit can never touch
// an item the user cannot see. The set is stored sparsely: only selected ids
// are present, a missing id is unselected, and a reset is simply an empty
// map over the visible collection.
//
// The vocabulary caches are seeded by LoadReferences and kept consistent
// locally: a bulk edit merges each newly introduced name exactly once when
// at least one write carrying it succeeded.
//
// Session is safe for concurrent use.
type Session struct {
	backend Backend

	mu        sync.Mutex
	items     []models.Item
	tags      []models.Tag
	locations []models.Location
	category  domainsvcs.Category
	search    string
	filters   []domainsvcs.Filter
	selection map[int64]bool
	multiEdit bool
	bulkBusy  bool
}

// NewSession returns a Session over the given backend, starting on the
// active category with no filters. Call Load before anything else.
func NewSession(backend Backend) *Session {
	return &Session{
		backend:   backend,
		category:  domainsvcs.CategoryActive,
		selection: make(map[int64]bool),
	}
}

// Load (re)fetches the item collection. Visibility may change arbitrarily,
// so the selection resets.
func (s *Session) Load(ctx context.Context) error {
	items, err := s.backend.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("session: load: %w", err)
	}
	s.mu.Lock()
	s.items = items
	s.selection = make(map[int64]bool)
	s.mu.Unlock()
	return nil
}

// LoadReferences (re)fetches the tag and location vocabularies.
func (s *Session) LoadReferences(ctx context.Context) error {
	tags, err := s.backend.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("session: load tags: %w", err)
	}
	locations, err := s.backend.ListLocations(ctx)
	if err != nil {
		return fmt.Errorf("session: load locations: %w", err)
	}
	s.mu.Lock()
	s.tags = tags
	s.locations = locations
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the loaded collection, unfiltered.
func (s *Session) Items() []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Item(nil), s.items...)
}

// Tags returns a copy of the cached tag vocabulary.
func (s *Session) Tags() []models.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Tag(nil), s.tags...)
}

// Locations returns a copy of the cached location vocabulary.
func (s *Session) Locations() []models.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Location(nil), s.locations...)
}

// SignOut drops all per-user state: the collection, the vocabularies, the
// search, the selection, and the view settings. The Session is back to its
// initial shape and needs a Load before further use.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.tags = nil
	s.locations = nil
	s.category = domainsvcs.CategoryActive
	s.search = ""
	s.filters = nil
	s.selection = make(map[int64]bool)
	s.multiEdit = false
}

// SetSearch replaces the search text, reparsing the filter list and
// resetting the selection.
func (s *Session) SetSearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = text
	s.filters = domainsvcs.ParseSearch(text)
	s.selection = make(map[int64]bool)
}

// Search returns the current raw search text.
func (s *Session) Search() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

// AddFilter prepends a typed clause to the search text, the way clicking a
// tag or location chip narrows the listing. The selection resets.
func (s *Session) AddFilter(t domainsvcs.FilterType, term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clause := string(t) + "." + term
	if s.search != "" {
		clause += "," + s.search
	}
	s.search = clause
	s.filters = domainsvcs.ParseSearch(clause)
	s.selection = make(map[int64]bool)
}

// SetCategory switches between the active and archived views, resetting the
// selection.
func (s *Session) SetCategory(category domainsvcs.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.category == category {
		return
	}
	s.category = category
	s.selection = make(map[int64]bool)
}

// Category returns the current category.
func (s *Session) Category() domainsvcs.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// SetMultiEdit toggles multi-select mode. Leaving the mode clears the
// selection.
func (s *Session) SetMultiEdit(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.multiEdit = on
	if !on {
		s.selection = make(map[int64]bool)
	}
}

// MultiEdit reports whether multi-select mode is on.
func (s *Session) MultiEdit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.multiEdit
}

// VisibleItems returns the items passing the current category and filters,
// in collection order.
func (s *Session) VisibleItems() []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domainsvcs.VisibleItems(s.items, s.category, s.filters)
}

// VisibleStats recomputes the statistics of the visible subset from scratch.
func (s *Session) VisibleStats() domainsvcs.VisibleStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domainsvcs.ComputeVisibleStats(s.items, s.category, s.filters)
}

// Toggle flips one visible item's selection. Toggling an id that is not
// currently visible is a no-op, preserving the selection discipline.
func (s *Session) Toggle(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.visibleID(id) {
		return
	}
	if s.selection[id] {
		delete(s.selection, id)
	} else {
		s.selection[id] = true
	}
}

// SelectAll selects every currently visible item.
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = make(map[int64]bool)
	for i := range s.items {
		if domainsvcs.Visible(&s.items[i], s.category, s.filters) {
			s.selection[s.items[i].ID] = true
		}
	}
}

// ClearSelection empties the selected set.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = make(map[int64]bool)
}

// IsSelected reports whether the item is in the selected set.
func (s *Session) IsSelected(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection[id]
}

// HasSelection reports whether any item is selected.
func (s *Session) HasSelection() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selection) > 0
}

// SelectedIDs returns the selected ids in collection order.
func (s *Session) SelectedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedIDsLocked()
}

func (s *Session) selectedIDsLocked() []int64 {
	ids := make([]int64, 0, len(s.selection))
	for i := range s.items {
		if s.selection[s.items[i].ID] {
			ids = append(ids, s.items[i].ID)
		}
	}
	return ids
}

func (s *Session) visibleID(id int64) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			return domainsvcs.Visible(&s.items[i], s.category, s.filters)
		}
	}
	return false
}

// fold replaces one item in the working collection with its new canonical
// version from the server.
func (s *Session) fold(item *models.Item) {
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = *item
			return
		}
	}
}

// mergeTagNamesLocked adds each name to the tag vocabulary unless it is
// already there. Server-assigned ids arrive on the next LoadReferences.
func (s *Session) mergeTagNamesLocked(names []string) {
	for _, name := range names {
		known := false
		for i := range s.tags {
			if s.tags[i].Name == name {
				known = true
				break
			}
		}
		if !known {
			s.tags = append(s.tags, models.Tag{Name: name})
		}
	}
}

// mergeLocationNamesLocked is the location counterpart of mergeTagNamesLocked.
func (s *Session) mergeLocationNamesLocked(names []string) {
	for _, name := range names {
		known := false
		for i := range s.locations {
			if s.locations[i].Name == name {
				known = true
				break
			}
		}
		if !known {
			s.locations = append(s.locations, models.Location{Name: name})
		}
	}
}
