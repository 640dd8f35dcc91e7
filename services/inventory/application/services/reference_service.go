package services

import (
	"context"
	"fmt"

	pkgcache "github.com/lvoinea/stuffkeeper/pkg/cache"
	"github.com/lvoinea/stuffkeeper/pkg/logger"
	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
	"github.com/lvoinea/stuffkeeper/services/inventory/domain/repositories"
)

// ReferenceService serves and maintains the user's tag and location
// vocabularies. Renames propagate to every item carrying the name, so the
// cached item collection is invalidated on success.
type ReferenceService struct {
	repo  repositories.ReferenceRepository
	cache *pkgcache.ItemCache
	log   logger.Logger
}

// NewReferenceService returns a ReferenceService over the given repository.
// The cache may be nil.
func NewReferenceService(repo repositories.ReferenceRepository, itemCache *pkgcache.ItemCache, log logger.Logger) *ReferenceService {
	return &ReferenceService{repo: repo, cache: itemCache, log: log}
}

// Tags returns the user's tag vocabulary sorted by name.
func (s *ReferenceService) Tags(ctx context.Context, userID int64) ([]models.Tag, error) {
	tags, err := s.repo.FindTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Locations returns the user's location vocabulary sorted by name.
func (s *ReferenceService) Locations(ctx context.Context, userID int64) ([]models.Location, error) {
	locations, err := s.repo.FindLocations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

// RenameTag renames a tag across the whole inventory. Returns
// ErrNameConflict when the user already owns a tag with the new name.
func (s *ReferenceService) RenameTag(ctx context.Context, userID, tagID int64, name string) (*models.Tag, error) {
	tag, err := s.repo.RenameTag(ctx, userID, tagID, name)
	if err != nil {
		return nil, fmt.Errorf("rename tag: %w", err)
	}
	s.invalidate(ctx, userID)
	return tag, nil
}

// RenameLocation renames a location across the whole inventory. Returns
// ErrNameConflict when the user already owns a location with the new name.
func (s *ReferenceService) RenameLocation(ctx context.Context, userID, locationID int64, name string) (*models.Location, error) {
	location, err := s.repo.RenameLocation(ctx, userID, locationID, name)
	if err != nil {
		return nil, fmt.Errorf("rename location: %w", err)
	}
	s.invalidate(ctx, userID)
	return location, nil
}

func (s *ReferenceService) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.WarnContext(ctx, "item cache invalidation failed", "user_id", userID, "error", err)
	}
}
