package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lvoinea/stuffkeeper/pkg/database"
	userdomain "github.com/lvoinea/stuffkeeper/services/user/domain"
	"github.com/lvoinea/stuffkeeper/services/user/domain/models"
)

const pgUniqueViolation = "23505"

// UserRepository implements repositories.UserRepository against PostgreSQL.
type UserRepository struct {
	db *database.Database
}

func NewUserRepository(db *database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new account. A unique violation on the email column maps
// to ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	err := r.db.DB().QueryRowContext(ctx, `
		INSERT INTO users (email, hashed_password, settings, is_active, creation_date)
		VALUES ($1, $2, $3, TRUE, NOW())
		RETURNING id, is_active, creation_date`,
		user.Email, user.HashedPassword, user.Settings,
	).Scan(&user.ID, &user.IsActive, &user.CreationDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, userdomain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetByID returns one account by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByEmail returns one account by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, `WHERE email = $1`, models.NormalizeEmail(email))
}

// UpdateSettings replaces the account's settings blob.
func (r *UserRepository) UpdateSettings(ctx context.Context, id int64, settings string) error {
	res, err := r.db.DB().ExecContext(ctx,
		`UPDATE users SET settings = $1 WHERE id = $2`, settings, id)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if affected == 0 {
		return userdomain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User
	err := r.db.DB().QueryRowContext(ctx, `
		SELECT id, email, hashed_password, settings, is_active, creation_date
		FROM users `+where, arg,
	).Scan(&user.ID, &user.Email, &user.HashedPassword, &user.Settings,
		&user.IsActive, &user.CreationDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}
