package repositories

import (
	"context"

	"github.com/lvoinea/stuffkeeper/services/user/domain/models"
)

// UserRepository is the persistence interface for user accounts.
// The domain layer owns this interface; infrastructure implements it.
type UserRepository interface {
	// Create persists a new account and returns it with the server-assigned
	// id. Returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns one account. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail returns the account registered under the normalized email.
	// Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateSettings replaces the account's opaque settings blob.
	UpdateSettings(ctx context.Context, id int64, settings string) error
}
