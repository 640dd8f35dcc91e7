package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/lvoinea/stuffkeeper/pkg/cache"
	"github.com/lvoinea/stuffkeeper/pkg/logger"
	invdomain "github.com/lvoinea/stuffkeeper/services/inventory/domain"
	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
	"github.com/lvoinea/stuffkeeper/services/inventory/domain/repositories"
)

// ItemService orchestrates item CRUD for one user's inventory.
// Event publishing is handled by the repository layer (outbox pattern).
// Collection reads are served from the Redis read model when available.
type ItemService struct {
	repo  repositories.ItemRepository
	cache *pkgcache.ItemCache
	log   logger.Logger
}

// NewItemService returns an ItemService wired with the given repository and cache.
// The cache may be nil; all reads then go to Postgres.
func NewItemService(repo repositories.ItemRepository, itemCache *pkgcache.ItemCache, log logger.Logger) *ItemService {
	return &ItemService{repo: repo, cache: itemCache, log: log}
}

// Create validates and persists a new item. Tag and location names are
// normalized before storage; the repository resolves them get-or-create.
func (s *ItemService) Create(ctx context.Context, userID int64, item *models.Item) (*models.Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil, fmt.Errorf("%w: name is required", invdomain.ErrInvalidItem)
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if item.AdditionDate.IsZero() {
		item.AdditionDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	item.IsActive = true
	normalizeRefs(item)

	created, err := s.repo.Create(ctx, userID, item)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.invalidate(ctx, userID)
	return created, nil
}

// Get retrieves one item from Postgres.
func (s *ItemService) Get(ctx context.Context, userID, id int64) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// List returns the user's full item collection using a read-through cache:
//  1. Check the Redis read model first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Warm the cache with the Postgres result.
//
// The full collection travels to the client, which filters locally.
func (s *ItemService) List(ctx context.Context, userID int64) ([]models.Item, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "item cache read failed", "user_id", userID, "error", err)
		}
	}

	items, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, items); err != nil {
			s.log.WarnContext(ctx, "item cache warm failed", "user_id", userID, "error", err)
		}
	}
	return items, nil
}

// Save applies a sparse patch to one item and returns the stored result.
// An empty patch short-circuits to a plain read.
func (s *ItemService) Save(ctx context.Context, userID, id int64, patch models.Patch) (*models.Item, error) {
	if patch.IsZero() {
		return s.Get(ctx, userID, id)
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: name is required", invdomain.ErrInvalidItem)
		}
		patch.Name = &trimmed
	}
	normalizePatchRefs(&patch)

	item, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	s.invalidate(ctx, userID)
	return item, nil
}

// Archive moves an item between the active and archived categories.
// Archiving stamps the removal date with the current UTC day; restoring
// clears it.
func (s *ItemService) Archive(ctx context.Context, userID, id int64, active bool) (*models.Item, error) {
	patch := models.Patch{IsActive: &active}
	if active {
		patch.RemovalDate = &models.NoDate
	} else {
		now := time.Now().UTC().Truncate(24 * time.Hour)
		patch.RemovalDate = &now
	}

	item, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		return nil, fmt.Errorf("archive item: %w", err)
	}
	s.invalidate(ctx, userID)
	return item, nil
}

// Delete permanently removes an item. Orphaned tag and location names stay
// in the user's vocabulary.
func (s *ItemService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *ItemService) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.WarnContext(ctx, "item cache invalidation failed", "user_id", userID, "error", err)
	}
}

func normalizeRefs(item *models.Item) {
	for i := range item.Tags {
		item.Tags[i].Name = models.NormalizeName(item.Tags[i].Name)
	}
	for i := range item.Locations {
		item.Locations[i].Name = models.NormalizeName(item.Locations[i].Name)
	}
}

func normalizePatchRefs(patch *models.Patch) {
	if patch.Tags != nil {
		for i := range *patch.Tags {
			(*patch.Tags)[i].Name = models.NormalizeName((*patch.Tags)[i].Name)
		}
	}
	if patch.Locations != nil {
		for i := range *patch.Locations {
			(*patch.Locations)[i].Name = models.NormalizeName((*patch.Locations)[i].Name)
		}
	}
}
