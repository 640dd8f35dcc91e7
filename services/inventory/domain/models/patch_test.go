package models

import (
	"reflect"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDiff_IdenticalItems(t *testing.T) {
	a := NewItem("drill")
	b := *a
	p := Diff(a, &b)
	if !p.IsZero() {
		t.Fatalf("expected zero patch, got %+v", p)
	}
}

func TestDiff_ScalarFields(t *testing.T) {
	before := NewItem("drill")
	after := *before
	after.Name = "cordless drill"
	after.Cost = 89.99
	after.Quantity = 2

	p := Diff(before, &after)
	if p.Name == nil || *p.Name != "cordless drill" {
		t.Errorf("name not diffed: %+v", p.Name)
	}
	if p.Cost == nil || *p.Cost != 89.99 {
		t.Errorf("cost not diffed: %+v", p.Cost)
	}
	if p.Quantity == nil || *p.Quantity != 2 {
		t.Errorf("quantity not diffed: %+v", p.Quantity)
	}
	if p.Description != nil || p.Tags != nil || p.Locations != nil {
		t.Errorf("unchanged fields must stay nil: %+v", p)
	}
}

func TestDiff_TagsComparedAsSet(t *testing.T) {
	before := NewItem("drill")
	before.Tags = TagsFromNames([]string{"tools", "electric"})

	after := *before
	after.Tags = TagsFromNames([]string{"electric", "tools"})
	if p := Diff(before, &after); p.Tags != nil {
		t.Fatal("reordering tags must not produce a patch")
	}

	after.Tags = TagsFromNames([]string{"tools"})
	p := Diff(before, &after)
	if p.Tags == nil || len(*p.Tags) != 1 || (*p.Tags)[0].Name != "tools" {
		t.Fatalf("tag removal not diffed: %+v", p.Tags)
	}
}

func TestDiff_ClearTagsTravels(t *testing.T) {
	before := NewItem("drill")
	before.Tags = TagsFromNames([]string{"tools"})
	after := *before
	after.Tags = []Tag{}

	p := Diff(before, &after)
	if p.Tags == nil {
		t.Fatal("clearing the last tag must produce a patch")
	}
	if len(*p.Tags) != 0 {
		t.Fatalf("expected empty tag set, got %v", *p.Tags)
	}
}

func TestDiff_DateCleared(t *testing.T) {
	before := NewItem("drill")
	before.RemovalDate = date(2026, time.March, 1)
	after := *before
	after.RemovalDate = nil

	p := Diff(before, &after)
	if p.RemovalDate == nil {
		t.Fatal("clearing a date must produce a patch")
	}
	if !p.RemovalDate.IsZero() {
		t.Fatalf("cleared date must travel as the zero sentinel, got %v", p.RemovalDate)
	}

	applied := p.Apply(*before)
	if applied.RemovalDate != nil {
		t.Fatalf("apply must clear the date, got %v", applied.RemovalDate)
	}
}

func TestApply_RoundtripsDiff(t *testing.T) {
	before := NewItem("drill")
	before.ID = 7
	before.Tags = TagsFromNames([]string{"tools"})
	before.Locations = LocationsFromNames([]string{"garage"})

	after := *before
	after.Name = "cordless drill"
	after.Cost = 89.99
	after.ExpirationDate = date(2027, time.June, 1)
	after.Tags = TagsFromNames([]string{"tools", "electric"})
	after.Locations = LocationsFromNames([]string{"attic"})

	p := Diff(before, &after)
	got := p.Apply(*before)

	if got.Name != after.Name || got.Cost != after.Cost {
		t.Fatalf("scalars not applied: %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, after.Tags) {
		t.Fatalf("tags = %v, want %v", got.Tags, after.Tags)
	}
	if !reflect.DeepEqual(got.Locations, after.Locations) {
		t.Fatalf("locations = %v, want %v", got.Locations, after.Locations)
	}
	if got.ExpirationDate == nil || !got.ExpirationDate.Equal(*after.ExpirationDate) {
		t.Fatalf("expiration date not applied: %v", got.ExpirationDate)
	}
	if got.ID != before.ID {
		t.Fatal("apply must not touch the id")
	}
}

func TestApply_NilFieldsLeaveItemUntouched(t *testing.T) {
	item := *NewItem("drill")
	item.Cost = 80
	item.Tags = TagsFromNames([]string{"tools"})

	got := Patch{}.Apply(item)
	if !reflect.DeepEqual(got, item) {
		t.Fatalf("empty patch changed the item: %+v vs %+v", got, item)
	}
}

func TestDiff_Photos(t *testing.T) {
	before := NewItem("drill")
	sel := 0
	after := *before
	after.Photos = &PhotoSet{Sources: []string{"p1", "p2"}, Selected: &sel}

	p := Diff(before, &after)
	if p.Photos == nil {
		t.Fatal("photo change must produce a patch")
	}

	same := after
	if p2 := Diff(&after, &same); p2.Photos != nil {
		t.Fatal("identical photo sets must not diff")
	}
}

func TestIsZero(t *testing.T) {
	if !(Patch{}).IsZero() {
		t.Error("empty patch must be zero")
	}
	name := "x"
	if (Patch{Name: &name}).IsZero() {
		t.Error("patch with a field must not be zero")
	}
	tags := []Tag{}
	if (Patch{Tags: &tags}).IsZero() {
		t.Error("patch clearing tags must not be zero")
	}
}
