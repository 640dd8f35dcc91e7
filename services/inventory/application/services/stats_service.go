package services

import (
	"context"
	"fmt"

	"github.com/lvoinea/stuffkeeper/services/inventory/domain/repositories"
	domainsvcs "github.com/lvoinea/stuffkeeper/services/inventory/domain/services"
)

// StatsService computes the whole-collection inventory report. It reuses the
// ItemService's cached collection read, so a stats request after a listing
// normally costs only the two vocabulary queries.
type StatsService struct {
	items *ItemService
	refs  repositories.ReferenceRepository
}

// NewStatsService returns a StatsService over the given item service and
// reference repository.
func NewStatsService(items *ItemService, refs repositories.ReferenceRepository) *StatsService {
	return &StatsService{items: items, refs: refs}
}

// Report aggregates the user's full collection against their tag and
// location vocabularies. Vocabulary names with no items appear as zero rows.
func (s *StatsService) Report(ctx context.Context, userID int64) (domainsvcs.InventoryReport, error) {
	items, err := s.items.List(ctx, userID)
	if err != nil {
		return domainsvcs.InventoryReport{}, fmt.Errorf("stats items: %w", err)
	}
	tags, err := s.refs.FindTags(ctx, userID)
	if err != nil {
		return domainsvcs.InventoryReport{}, fmt.Errorf("stats tags: %w", err)
	}
	locations, err := s.refs.FindLocations(ctx, userID)
	if err != nil {
		return domainsvcs.InventoryReport{}, fmt.Errorf("stats locations: %w", err)
	}
	return domainsvcs.ComputeInventoryReport(items, tags, locations), nil
}
