package models

import (
	"strings"
	"time"
)

// Tag is a user-defined label attached to items, unique by name per user.
type Tag struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Location is a user-defined place label attached to items, unique by name per user.
type Location struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// PhotoSet holds the photo source identifiers of an item, the index of the
// photo selected as cover (at most one), and a cached thumbnail payload.
type PhotoSet struct {
	Sources   []string `json:"sources"`
	Selected  *int     `json:"selected,omitempty"`
	Thumbnail string   `json:"thumbnail,omitempty"`
}

// Item is the core aggregate: one inventory record owned by a user.
type Item struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Code           string     `json:"code,omitempty"`
	Quantity       int        `json:"quantity"`
	Cost           float64    `json:"cost"`
	AdditionDate   time.Time  `json:"addition_date"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	RemovalDate    *time.Time `json:"removal_date,omitempty"`
	IsActive       bool       `json:"is_active"`
	Tags           []Tag      `json:"tags"`
	Locations      []Location `json:"locations"`
	Photos         *PhotoSet  `json:"photos,omitempty"`
}

// NewItem constructs an Item with server-side defaults: quantity 1, active,
// addition date set to the current UTC day.
func NewItem(name string) *Item {
	return &Item{
		Name:         name,
		Quantity:     1,
		IsActive:     true,
		AdditionDate: time.Now().UTC().Truncate(24 * time.Hour),
		Tags:         []Tag{},
		Locations:    []Location{},
	}
}

// NormalizeName canonicalizes a free-typed tag or location name:
// surrounding whitespace is stripped and the name is lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HasTag reports whether the item carries a tag with exactly the given name.
func (i *Item) HasTag(name string) bool {
	for _, t := range i.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// HasLocation reports whether the item carries a location with exactly the given name.
func (i *Item) HasLocation(name string) bool {
	for _, l := range i.Locations {
		if l.Name == name {
			return true
		}
	}
	return false
}

// TagNames returns the item's tag names in attachment order.
func (i *Item) TagNames() []string {
	names := make([]string, len(i.Tags))
	for j, t := range i.Tags {
		names[j] = t.Name
	}
	return names
}

// LocationNames returns the item's location names in attachment order.
func (i *Item) LocationNames() []string {
	names := make([]string, len(i.Locations))
	for j, l := range i.Locations {
		names[j] = l.Name
	}
	return names
}

// TagsFromNames builds a name-only tag list in the given order.
func TagsFromNames(names []string) []Tag {
	tags := make([]Tag, len(names))
	for i, n := range names {
		tags[i] = Tag{Name: n}
	}
	return tags
}

// LocationsFromNames builds a name-only location list in the given order.
func LocationsFromNames(names []string) []Location {
	locations := make([]Location, len(names))
	for i, n := range names {
		locations[i] = Location{Name: n}
	}
	return locations
}
