package services

import (
	"reflect"
	"testing"

	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
)

func TestCommonTags(t *testing.T) {
	items := []models.Item{
		testItem(1, "plates", true, []string{"kitchen", "fragile"}, nil),
		testItem(2, "glasses", true, []string{"kitchen", "fragile", "glass"}, nil),
		testItem(3, "pans", true, []string{"kitchen"}, nil),
	}

	tests := []struct {
		name     string
		selected map[int64]bool
		want     []string
	}{
		{"empty selection", map[int64]bool{}, []string{}},
		{"single item yields its full set", map[int64]bool{1: true}, []string{"kitchen", "fragile"}},
		{"pair keeps shared names only", map[int64]bool{1: true, 2: true}, []string{"kitchen", "fragile"}},
		{"all three intersect to kitchen", map[int64]bool{1: true, 2: true, 3: true}, []string{"kitchen"}},
		{"unselected ids ignored", map[int64]bool{3: true, 99: true}, []string{"kitchen"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommonTags(items, tt.selected)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("CommonTags = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommonLocations(t *testing.T) {
	items := []models.Item{
		testItem(1, "plates", true, nil, []string{"kitchen shelf", "box 3"}),
		testItem(2, "glasses", true, nil, []string{"box 3"}),
	}
	got := CommonLocations(items, map[int64]bool{1: true, 2: true})
	if !reflect.DeepEqual(got, []string{"box 3"}) {
		t.Fatalf("CommonLocations = %v", got)
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		name        string
		before      []string
		after       []string
		wantAdded   []string
		wantDeleted []string
	}{
		{"no change", []string{"a", "b"}, []string{"a", "b"}, []string{}, []string{}},
		{"reorder is no change", []string{"a", "b"}, []string{"b", "a"}, []string{}, []string{}},
		{"pure addition", []string{"a"}, []string{"a", "b"}, []string{"b"}, []string{}},
		{"pure removal", []string{"a", "b"}, []string{"a"}, []string{}, []string{"b"}},
		{"swap", []string{"a"}, []string{"b"}, []string{"b"}, []string{"a"}},
		{"from empty", []string{}, []string{"a"}, []string{"a"}, []string{}},
		{"to empty", []string{"a"}, []string{}, []string{}, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, deleted := Delta(tt.before, tt.after)
			if !reflect.DeepEqual(added, tt.wantAdded) {
				t.Errorf("added = %v, want %v", added, tt.wantAdded)
			}
			if !reflect.DeepEqual(deleted, tt.wantDeleted) {
				t.Errorf("deleted = %v, want %v", deleted, tt.wantDeleted)
			}
		})
	}
}

func TestApplyDelta(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		added    []string
		deleted  []string
		want     []string
	}{
		{"empty delta keeps set", []string{"a", "b"}, nil, nil, []string{"a", "b"}},
		{"add new name", []string{"a"}, []string{"b"}, nil, []string{"a", "b"}},
		{"add existing name is idempotent", []string{"a", "b"}, []string{"b"}, nil, []string{"a", "b"}},
		{"delete absent name is a no-op", []string{"a"}, nil, []string{"z"}, []string{"a"}},
		{"delete then add disjoint names", []string{"a", "b"}, []string{"c"}, []string{"a"}, []string{"b", "c"}},
		{"per-item extras survive", []string{"kitchen", "heirloom"}, []string{"urgent"}, []string{"fragile"}, []string{"kitchen", "heirloom", "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDelta(tt.existing, tt.added, tt.deleted)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ApplyDelta = %v, want %v", got, tt.want)
			}
		})
	}
}

// The canonical bulk edit walkthrough: two items share kitchen and fragile,
// the user removes fragile and adds urgent. Each item keeps its private
// names while the shared delta applies uniformly.
func TestDeltaApply_SharedEditScenario(t *testing.T) {
	plates := []string{"kitchen", "fragile", "heirloom"}
	glasses := []string{"kitchen", "fragile", "glass"}
	seed := []string{"kitchen", "fragile"}
	edited := []string{"kitchen", "urgent"}

	added, deleted := Delta(seed, edited)
	if !reflect.DeepEqual(added, []string{"urgent"}) || !reflect.DeepEqual(deleted, []string{"fragile"}) {
		t.Fatalf("delta wrong: added=%v deleted=%v", added, deleted)
	}

	gotPlates := ApplyDelta(plates, added, deleted)
	if !reflect.DeepEqual(gotPlates, []string{"kitchen", "heirloom", "urgent"}) {
		t.Fatalf("plates = %v", gotPlates)
	}
	gotGlasses := ApplyDelta(glasses, added, deleted)
	if !reflect.DeepEqual(gotGlasses, []string{"kitchen", "glass", "urgent"}) {
		t.Fatalf("glasses = %v", gotGlasses)
	}
}

// Applying the same delta twice lands in the same state.
func TestApplyDelta_Idempotent(t *testing.T) {
	existing := []string{"kitchen", "fragile", "heirloom"}
	added, deleted := Delta([]string{"kitchen", "fragile"}, []string{"kitchen", "urgent"})

	once := ApplyDelta(existing, added, deleted)
	twice := ApplyDelta(once, added, deleted)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("not idempotent: %v then %v", once, twice)
	}
}
