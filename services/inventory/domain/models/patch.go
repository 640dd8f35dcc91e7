package models

import "time"

// NoDate is the sentinel for clearing a stored date through a Patch.
// A date field pointing at the zero time means "remove the date", while a
// nil pointer means "leave it as is".
var NoDate = time.Time{}

// Patch is a sparse partial update of an Item. Nil fields are left untouched
// by the server; set fields replace the stored value. Tag and location lists
// use pointer-to-slice semantics: a nil pointer means "unchanged", a pointer
// to an empty slice clears the set. Date fields use the NoDate sentinel to
// distinguish clearing from leaving untouched.
type Patch struct {
	Name           *string     `json:"name,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Code           *string     `json:"code,omitempty"`
	Quantity       *int        `json:"quantity,omitempty"`
	Cost           *float64    `json:"cost,omitempty"`
	ExpirationDate *time.Time  `json:"expiration_date,omitempty"`
	RemovalDate    *time.Time  `json:"removal_date,omitempty"`
	IsActive       *bool       `json:"is_active,omitempty"`
	Tags           *[]Tag      `json:"tags,omitempty"`
	Locations      *[]Location `json:"locations,omitempty"`
	Photos         *PhotoSet   `json:"photos,omitempty"`
}

// IsZero reports whether the patch carries no change at all.
func (p Patch) IsZero() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.Code == nil &&
		p.Quantity == nil &&
		p.Cost == nil &&
		p.ExpirationDate == nil &&
		p.RemovalDate == nil &&
		p.IsActive == nil &&
		p.Tags == nil &&
		p.Locations == nil &&
		p.Photos == nil
}

// Diff computes the typed structural difference between two versions of an
// item, producing the minimal Patch that turns before into after. Tag and
// location lists are compared as name sets; order is not significant.
func Diff(before, after *Item) Patch {
	var p Patch

	if before.Name != after.Name {
		p.Name = ref(after.Name)
	}
	if before.Description != after.Description {
		p.Description = ref(after.Description)
	}
	if before.Code != after.Code {
		p.Code = ref(after.Code)
	}
	if before.Quantity != after.Quantity {
		p.Quantity = ref(after.Quantity)
	}
	if before.Cost != after.Cost {
		p.Cost = ref(after.Cost)
	}
	if !equalDate(before.ExpirationDate, after.ExpirationDate) {
		p.ExpirationDate = datePatch(after.ExpirationDate)
	}
	if !equalDate(before.RemovalDate, after.RemovalDate) {
		p.RemovalDate = datePatch(after.RemovalDate)
	}
	if before.IsActive != after.IsActive {
		p.IsActive = ref(after.IsActive)
	}
	if !sameNameSet(before.TagNames(), after.TagNames()) {
		tags := TagsFromNames(after.TagNames())
		p.Tags = &tags
	}
	if !sameNameSet(before.LocationNames(), after.LocationNames()) {
		locations := LocationsFromNames(after.LocationNames())
		p.Locations = &locations
	}
	if !equalPhotos(before.Photos, after.Photos) {
		p.Photos = after.Photos
	}

	return p
}

// Apply returns a copy of the item with the patch applied. It mirrors what
// the server does with a partial update, so the client cache can be kept in
// sync without a reload.
func (p Patch) Apply(item Item) Item {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Code != nil {
		item.Code = *p.Code
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Cost != nil {
		item.Cost = *p.Cost
	}
	if p.ExpirationDate != nil {
		item.ExpirationDate = dateValue(p.ExpirationDate)
	}
	if p.RemovalDate != nil {
		item.RemovalDate = dateValue(p.RemovalDate)
	}
	if p.IsActive != nil {
		item.IsActive = *p.IsActive
	}
	if p.Tags != nil {
		item.Tags = append([]Tag(nil), *p.Tags...)
	}
	if p.Locations != nil {
		item.Locations = append([]Location(nil), *p.Locations...)
	}
	if p.Photos != nil {
		item.Photos = p.Photos
	}
	return item
}

func ref[T any](v T) *T {
	return &v
}

// datePatch converts a desired date value into its Patch representation:
// nil desired dates become the NoDate sentinel so the clear travels.
func datePatch(d *time.Time) *time.Time {
	if d == nil {
		return &NoDate
	}
	return d
}

// dateValue converts a Patch date back into storage form: the NoDate
// sentinel becomes nil.
func dateValue(d *time.Time) *time.Time {
	if d.IsZero() {
		return nil
	}
	return d
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sameNameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, n := range a {
		set[n] = true
	}
	for _, n := range b {
		if !set[n] {
			return false
		}
	}
	return true
}

func equalPhotos(a, b *PhotoSet) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Sources) != len(b.Sources) {
		return false
	}
	for i := range a.Sources {
		if a.Sources[i] != b.Sources[i] {
			return false
		}
	}
	if (a.Selected == nil) != (b.Selected == nil) {
		return false
	}
	if a.Selected != nil && *a.Selected != *b.Selected {
		return false
	}
	return a.Thumbnail == b.Thumbnail
}
