package client

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
)

func TestBulk_CommonTagsSeed(t *testing.T) {
	s, _ := loadedSession(t,
		sessionItem(1, "plates", true, []string{"kitchen", "fragile"}, nil),
		sessionItem(2, "glasses", true, []string{"kitchen", "fragile", "glass"}, nil),
	)
	s.Toggle(1)
	s.Toggle(2)

	seed := s.CommonTags()
	if !reflect.DeepEqual(seed, []string{"kitchen", "fragile"}) {
		t.Fatalf("seed = %v", seed)
	}
}

func TestBulk_UnchangedEditIssuesNoWrites(t *testing.T) {
	s, backend := loadedSession(t,
		sessionItem(1, "plates", true, []string{"kitchen", "fragile"}, nil),
		sessionItem(2, "glasses", true, []string{"kitchen", "fragile"}, nil),
	)
	s.SelectAll()

	result, err := s.ApplyTagEdit(context.Background(), s.CommonTags())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.saveCount() != 0 {
		t.Fatalf("unchanged edit must not write, got %d saves", backend.saveCount())
	}
	if len(result.Saved) != 0 || len(result.Failed) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	// Nothing was written, so the selection survives.
	if !s.HasSelection() {
		t.Fatal("selection must survive a no-op edit")
	}
}

func TestBulk_ReorderedEditIssuesNoWrites(t *testing.T) {
	s, backend := loadedSession(t,
		sessionItem(1, "plates", true, []string{"kitchen", "fragile"}, nil),
	)
	s.SelectAll()

	if _, err := s.ApplyTagEdit(context.Background(), []string{"fragile", "kitchen"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.saveCount() != 0 {
		t.Fatal("reordering the seed must not write")
	}
}

func TestBulk_DeltaAppliedPerItem(t *testing.T) {
	s, backend := loadedSession(t,
		sessionItem(1, "plates", true, []string{"kitchen", "fragile", "heirloom"}, nil),
		sessionItem(2, "glasses", true, []string{"kitchen", "fragile", "glass"}, nil),
	)
	s.SelectAll()

	result, err := s.ApplyTagEdit(context.Background(), []string{"kitchen", "urgent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Saved, []int64{1, 2}) {
		t.Fatalf("saved = %v", result.Saved)
	}

	backend.mu.Lock()
	plates := backend.items[1]
	glasses := backend.items[2]
	backend.mu.Unlock()

	if !reflect.DeepEqual(plates.TagNames(), []string{"kitchen", "heirloom", "urgent"}) {
		t.Fatalf("plates tags = %v", plates.TagNames())
	}
	if !reflect.DeepEqual(glasses.TagNames(), []string{"kitchen", "glass", "urgent"}) {
		t.Fatalf("glasses tags = %v", glasses.TagNames())
	}

	// The canonical responses were folded into the working collection.
	for _, item := range s.Items() {
		switch item.ID {
		case 1:
			if !item.HasTag("urgent") || item.HasTag("fragile") {
				t.Fatalf("session copy of plates stale: %v", item.TagNames())
			}
		case 2:
			if !item.HasTag("glass") || item.HasTag("fragile") {
				t.Fatalf("session copy of glasses stale: %v", item.TagNames())
			}
		}
	}

	if s.HasSelection() {
		t.Fatal("selection must reset after a successful bulk edit")
	}
}

func TestBulk_ItemAlreadyInTargetStateSkipsWrite(t *testing.T) {
	s, backend := loadedSession(t,
		sessionItem(1, "plates", true, []string{"kitchen"}, nil),
		sessionItem(2, "glasses", true, []string{"kitchen", "urgent"}, nil),
	)
	s.SelectAll()

	// Seed is {kitchen}; adding urgent only needs a write on item 1.
	result, err := s.ApplyTagEdit(context.Background(), []string{"kitchen", "urgent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.saveCount() != 1 {
		t.Fatalf("expected exactly 1 write, got %d", backend.saveCount())
	}
	// Both items still count as saved: they both reached the target state.
	if !reflect.DeepEqual(result.Saved, []int64{1, 2}) {
		t.Fatalf("saved = %v", result.Saved)
	}
}

func TestBulk_PartialFailure(t *testing.T) {
	s, backend := loadedSession(t,
		sessionItem(1, "plates", true, []string{"kitchen"}, nil),
		sessionItem(2, "glasses", true, []string{"kitchen"}, nil),
		sessionItem(3, "pans", true, []string{"kitchen"}, nil),
	)
	backend.failIDs[2] = true
	s.SelectAll()

	result, err := s.ApplyTagEdit(context.Background(), []string{"kitchen", "urgent"})
	if err != nil {
		t.Fatalf("the engine itself must not fail: %v", err)
	}
	if !reflect.DeepEqual(result.Saved, []int64{1, 3}) {
		t.Fatalf("saved = %v", result.Saved)
	}
	if len(result.Failed) != 1 || result.Failed[2] == nil {
		t.Fatalf("failed = %v", result.Failed)
	}

	// Successful writes landed despite the failure in the middle.
	backend.mu.Lock()
	plates, glasses, pans := backend.items[1], backend.items[2], backend.items[3]
	backend.mu.Unlock()
	ok1 := plates.HasTag("urgent")
	ok3 := pans.HasTag("urgent")
	stale2 := glasses.HasTag("urgent")
	if !ok1 || !ok3 {
		t.Fatal("successful writes must stick")
	}
	if stale2 {
		t.Fatal("failed item must stay unchanged")
	}

	// The stale session copy of the failed item is not folded.
	for _, item := range s.Items() {
		if item.ID == 2 && item.HasTag("urgent") {
			t.Fatal("failed item must not be folded into the session")
		}
	}
}

func TestBulk_LocationEdit(t *testing.T) {
	s, backend := loadedSession(t,
		sessionItem(1, "plates", true, nil, []string{"box 3", "attic"}),
		sessionItem(2, "glasses", true, nil, []string{"box 3"}),
	)
	s.SelectAll()

	seed := s.CommonLocations()
	if !reflect.DeepEqual(seed, []string{"box 3"}) {
		t.Fatalf("seed = %v", seed)
	}

	result, err := s.ApplyLocationEdit(context.Background(), []string{"garage"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Saved) != 2 {
		t.Fatalf("saved = %v", result.Saved)
	}

	backend.mu.Lock()
	plates, glasses := backend.items[1], backend.items[2]
	backend.mu.Unlock()
	if !reflect.DeepEqual(plates.LocationNames(), []string{"attic", "garage"}) {
		t.Fatalf("plates locations = %v", plates.LocationNames())
	}
	if !reflect.DeepEqual(glasses.LocationNames(), []string{"garage"}) {
		t.Fatalf("glasses locations = %v", glasses.LocationNames())
	}
}

func TestBulk_AddedNamesMergeIntoVocabulary(t *testing.T) {
	s, backend := loadedSession(t,
		sessionItem(1, "plates", true, []string{"kitchen"}, nil),
		sessionItem(2, "glasses", true, []string{"kitchen", "urgent"}, nil),
	)
	backend.tags = []models.Tag{{ID: 10, Name: "kitchen"}, {ID: 11, Name: "urgent"}}
	if err := s.LoadReferences(context.Background()); err != nil {
		t.Fatalf("load references: %v", err)
	}
	s.SelectAll()

	// "urgent" is already in the vocabulary, "winter" is new.
	if _, err := s.ApplyTagEdit(context.Background(), []string{"kitchen", "urgent", "winter"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := map[string]int{}
	for _, tag := range s.Tags() {
		counts[tag.Name]++
	}
	if counts["winter"] != 1 {
		t.Fatalf("new name must enter the vocabulary once, got %d", counts["winter"])
	}
	if counts["urgent"] != 1 {
		t.Fatalf("known name must not duplicate, got %d", counts["urgent"])
	}
	if len(s.Tags()) != 3 {
		t.Fatalf("vocabulary = %v", s.Tags())
	}
}

func TestBulk_FailedEditLeavesVocabularyAlone(t *testing.T) {
	s, backend := loadedSession(t,
		sessionItem(1, "plates", true, []string{"kitchen"}, nil),
	)
	backend.tags = []models.Tag{{ID: 10, Name: "kitchen"}}
	backend.failIDs[1] = true
	if err := s.LoadReferences(context.Background()); err != nil {
		t.Fatalf("load references: %v", err)
	}
	s.SelectAll()

	result, err := s.ApplyTagEdit(context.Background(), []string{"kitchen", "urgent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Saved) != 0 {
		t.Fatalf("saved = %v", result.Saved)
	}
	// No write succeeded, so the new name never enters the vocabulary.
	for _, tag := range s.Tags() {
		if tag.Name == "urgent" {
			t.Fatal("failed edit must not grow the vocabulary")
		}
	}
}

func TestBulk_LocationEditMergesVocabulary(t *testing.T) {
	s, backend := loadedSession(t,
		sessionItem(1, "plates", true, nil, []string{"box 3"}),
	)
	backend.locations = []models.Location{{ID: 20, Name: "box 3"}}
	if err := s.LoadReferences(context.Background()); err != nil {
		t.Fatalf("load references: %v", err)
	}
	s.SelectAll()

	if _, err := s.ApplyLocationEdit(context.Background(), []string{"box 3", "garage"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	locations := s.Locations()
	if len(locations) != 2 || locations[1].Name != "garage" {
		t.Fatalf("vocabulary = %v", locations)
	}
}

func TestBulk_BusyGuard(t *testing.T) {
	s, backend := loadedSession(t,
		sessionItem(1, "plates", true, []string{"kitchen"}, nil),
	)
	backend.block = make(chan struct{})
	s.SelectAll()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.ApplyTagEdit(context.Background(), []string{"kitchen", "urgent"})
	}()

	// Wait until the first edit is holding the busy flag inside SaveItem.
	deadline := time.After(2 * time.Second)
	for {
		s.mu.Lock()
		busy := s.bulkBusy
		s.mu.Unlock()
		if busy {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first bulk edit never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	_, err := s.ApplyTagEdit(context.Background(), []string{"kitchen", "other"})
	if !errors.Is(err, ErrBulkInProgress) {
		t.Fatalf("expected ErrBulkInProgress, got %v", err)
	}

	close(backend.block)
	<-done

	// The engine is reusable once the first edit settles.
	s.SelectAll()
	if _, err := s.ApplyTagEdit(context.Background(), s.CommonTags()); err != nil {
		t.Fatalf("engine must accept edits after completion: %v", err)
	}
}

func TestBulk_EmptySelection(t *testing.T) {
	s, backend := loadedSession(t,
		sessionItem(1, "plates", true, []string{"kitchen"}, nil),
	)

	result, err := s.ApplyTagEdit(context.Background(), []string{"urgent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.saveCount() != 0 || len(result.Saved) != 0 {
		t.Fatalf("empty selection must be a no-op, got %+v", result)
	}
}
