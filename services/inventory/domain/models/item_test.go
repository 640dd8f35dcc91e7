package models

import (
	"reflect"
	"testing"
)

func TestNewItem_Defaults(t *testing.T) {
	item := NewItem("drill")
	if item.Name != "drill" {
		t.Errorf("unexpected name: %q", item.Name)
	}
	if item.Quantity != 1 {
		t.Errorf("default quantity must be 1, got %d", item.Quantity)
	}
	if !item.IsActive {
		t.Error("new items must be active")
	}
	if item.AdditionDate.IsZero() {
		t.Error("addition date must be set")
	}
	if item.Tags == nil || item.Locations == nil {
		t.Error("tag and location sets must be empty slices, not nil")
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tools", "tools"},
		{"  garage  ", "garage"},
		{"Kitchen Shelf", "kitchen shelf"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHasTag_ExactMatch(t *testing.T) {
	item := NewItem("drill")
	item.Tags = TagsFromNames([]string{"tools", "electric"})

	if !item.HasTag("tools") {
		t.Error("expected exact tag match")
	}
	if item.HasTag("tool") {
		t.Error("tag match must not be a substring match")
	}
	if item.HasTag("Tools") {
		t.Error("stored names are already normalized; lookup is exact")
	}
}

func TestHasLocation_ExactMatch(t *testing.T) {
	item := NewItem("drill")
	item.Locations = LocationsFromNames([]string{"garage"})

	if !item.HasLocation("garage") {
		t.Error("expected exact location match")
	}
	if item.HasLocation("gar") {
		t.Error("location match must not be a substring match")
	}
}

func TestNameRoundtrip(t *testing.T) {
	names := []string{"tools", "electric"}
	item := NewItem("drill")
	item.Tags = TagsFromNames(names)
	if got := item.TagNames(); !reflect.DeepEqual(got, names) {
		t.Fatalf("TagNames = %v, want %v", got, names)
	}

	item.Locations = LocationsFromNames([]string{"garage"})
	if got := item.LocationNames(); !reflect.DeepEqual(got, []string{"garage"}) {
		t.Fatalf("LocationNames = %v", got)
	}
}
