package client

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
	domainsvcs "github.com/lvoinea/stuffkeeper/services/inventory/domain/services"
)

// ErrBulkInProgress is returned when a bulk edit is started while a previous
// one has not finished. The Session allows one in-flight bulk edit at a time.
var ErrBulkInProgress = errors.New("bulk edit already in progress")

// bulkConcurrency bounds the parallel save requests of one bulk edit.
const bulkConcurrency = 8

// BulkResult is the per-item outcome of a bulk edit. Saved holds the ids
// written successfully in collection order; Failed maps each failed id to
// its error. An edit submitted unchanged produces an empty result and no
// requests at all.
type BulkResult struct {
	Saved  []int64
	Failed map[int64]error
}

// CommonTags returns the tag names shared by every selected item, the seed
// shown in the bulk edit dialog.
func (s *Session) CommonTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domainsvcs.CommonTags(s.items, s.selection)
}

// CommonLocations returns the location names shared by every selected item.
func (s *Session) CommonLocations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domainsvcs.CommonLocations(s.items, s.selection)
}

// ApplyTagEdit applies an edited common-tag set to every selected item.
//
// The edit is interpreted as a delta against the common seed: names removed
// from the seed are stripped from each item, names added are attached to
// each item, and per-item tags outside the seed are left alone. Writes fan
// out concurrently and the call returns only after every request has
// settled; successful canonical responses are folded into the working
// collection in one pass. Failures leave the other items' writes untouched
// (best effort). Names the edit introduced are merged into the tag
// vocabulary cache exactly once, and only when at least one write carrying
// them succeeded. The selection resets afterwards when anything was written,
// since the edit may have changed visibility under a tag filter.
func (s *Session) ApplyTagEdit(ctx context.Context, edited []string) (*BulkResult, error) {
	return s.applyEdit(ctx, edited, domainsvcs.CommonTags,
		func(item *models.Item) []string { return item.TagNames() },
		func(names []string) models.Patch {
			tags := models.TagsFromNames(names)
			return models.Patch{Tags: &tags}
		},
		s.mergeTagNamesLocked)
}

// ApplyLocationEdit is the location counterpart of ApplyTagEdit.
func (s *Session) ApplyLocationEdit(ctx context.Context, edited []string) (*BulkResult, error) {
	return s.applyEdit(ctx, edited, domainsvcs.CommonLocations,
		func(item *models.Item) []string { return item.LocationNames() },
		func(names []string) models.Patch {
			locations := models.LocationsFromNames(names)
			return models.Patch{Locations: &locations}
		},
		s.mergeLocationNamesLocked)
}

func (s *Session) applyEdit(
	ctx context.Context,
	edited []string,
	seedFn func([]models.Item, map[int64]bool) []string,
	namesFn func(*models.Item) []string,
	patchFn func([]string) models.Patch,
	mergeFn func([]string),
) (*BulkResult, error) {
	s.mu.Lock()
	if s.bulkBusy {
		s.mu.Unlock()
		return nil, ErrBulkInProgress
	}
	s.bulkBusy = true

	seed := seedFn(s.items, s.selection)
	targetIDs := s.selectedIDsLocked()
	targets := make([]models.Item, 0, len(targetIDs))
	for i := range s.items {
		if s.selection[s.items[i].ID] {
			targets = append(targets, s.items[i])
		}
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.bulkBusy = false
		s.mu.Unlock()
	}()

	result := &BulkResult{Saved: []int64{}, Failed: map[int64]error{}}

	added, deleted := domainsvcs.Delta(seed, edited)
	if len(added) == 0 && len(deleted) == 0 {
		return result, nil
	}

	var (
		resMu sync.Mutex
		saved = make(map[int64]*models.Item, len(targets))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)
	for i := range targets {
		item := targets[i]
		g.Go(func() error {
			next := domainsvcs.ApplyDelta(namesFn(&item), added, deleted)
			patch := patchFn(next)

			after := patch.Apply(item)
			if models.Diff(&item, &after).IsZero() {
				// Already in the target state; count as saved without a write.
				resMu.Lock()
				unchanged := item
				saved[item.ID] = &unchanged
				resMu.Unlock()
				return nil
			}

			updated, err := s.backend.SaveItem(gctx, item.ID, patch)
			resMu.Lock()
			if err != nil {
				result.Failed[item.ID] = err
			} else {
				saved[item.ID] = updated
			}
			resMu.Unlock()
			return nil
		})
	}
	// Writes never report through the group error; all outcomes land in result.
	_ = g.Wait()

	s.mu.Lock()
	for _, id := range targetIDs {
		if item, ok := saved[id]; ok {
			s.fold(item)
			result.Saved = append(result.Saved, id)
		}
	}
	if len(result.Saved) > 0 {
		// Every saved item now carries the added names, so they enter the
		// vocabulary cache; the merge itself deduplicates, making a repeated
		// edit a no-op on the cache.
		mergeFn(added)
		s.selection = make(map[int64]bool)
	}
	s.mu.Unlock()

	return result, nil
}
