package repositories

import (
	"context"

	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
)

// ItemRepository is the persistence interface for the Item aggregate.
// All operations are scoped to the owning user. The domain layer owns this
// interface; infrastructure implements it.
type ItemRepository interface {
	// Create persists a new item and returns it with the server-assigned id.
	// Tag and location names are resolved get-or-create per user.
	Create(ctx context.Context, userID int64, item *models.Item) (*models.Item, error)

	// GetByID returns one item. Returns ErrItemNotFound when the item does
	// not exist or belongs to another user.
	GetByID(ctx context.Context, userID, id int64) (*models.Item, error)

	// FindByUserID returns the user's full item collection; the client
	// filters locally, so no server-side filtering is applied.
	FindByUserID(ctx context.Context, userID int64) ([]models.Item, error)

	// Update applies a sparse patch to an existing item and returns the
	// canonical stored representation.
	Update(ctx context.Context, userID, id int64, patch models.Patch) (*models.Item, error)

	// Delete permanently removes an item.
	Delete(ctx context.Context, userID, id int64) error
}

// ReferenceRepository is the persistence interface for the user's tag and
// location vocabularies.
type ReferenceRepository interface {
	FindTags(ctx context.Context, userID int64) ([]models.Tag, error)
	FindLocations(ctx context.Context, userID int64) ([]models.Location, error)

	// RenameTag updates a tag's name. Returns ErrTagNotFound for unknown
	// ids and ErrNameConflict when another tag of the user already has
	// the new name.
	RenameTag(ctx context.Context, userID, id int64, name string) (*models.Tag, error)

	// RenameLocation is the location counterpart of RenameTag.
	RenameLocation(ctx context.Context, userID, id int64, name string) (*models.Location, error)
}
