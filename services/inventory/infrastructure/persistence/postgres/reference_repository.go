package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lvoinea/stuffkeeper/pkg/database"
	invdomain "github.com/lvoinea/stuffkeeper/services/inventory/domain"
	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
)

const pgUniqueViolation = "23505"

// ReferenceRepository implements repositories.ReferenceRepository against
// PostgreSQL. Tags and locations share the same shape, so both sides are
// thin wrappers over the same queries with different table names.
type ReferenceRepository struct {
	db *database.Database
}

func NewReferenceRepository(db *database.Database) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// FindTags returns the user's tag vocabulary sorted by name.
func (r *ReferenceRepository) FindTags(ctx context.Context, userID int64) ([]models.Tag, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT id, name FROM tags WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// FindLocations returns the user's location vocabulary sorted by name.
func (r *ReferenceRepository) FindLocations(ctx context.Context, userID int64) ([]models.Location, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT id, name FROM locations WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	locations := []models.Location{}
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// RenameTag renames one of the user's tags in place. The new name propagates
// to every item carrying the tag through the join table. Returns
// ErrTagNotFound for an unknown tag and ErrNameConflict when the user already
// owns a tag with the new name.
func (r *ReferenceRepository) RenameTag(ctx context.Context, userID, tagID int64, name string) (*models.Tag, error) {
	normalized, err := r.rename(ctx, "tags", userID, tagID, name, invdomain.ErrTagNotFound)
	if err != nil {
		return nil, err
	}
	return &models.Tag{ID: tagID, Name: normalized}, nil
}

// RenameLocation is the location counterpart of RenameTag.
func (r *ReferenceRepository) RenameLocation(ctx context.Context, userID, locationID int64, name string) (*models.Location, error) {
	normalized, err := r.rename(ctx, "locations", userID, locationID, name, invdomain.ErrLocationNotFound)
	if err != nil {
		return nil, err
	}
	return &models.Location{ID: locationID, Name: normalized}, nil
}

func (r *ReferenceRepository) rename(ctx context.Context, table string, userID, id int64, name string, notFound error) (string, error) {
	normalized := models.NormalizeName(name)
	if normalized == "" {
		return "", invdomain.ErrInvalidItem
	}

	// Table name comes from the two call sites above, never from input.
	query := fmt.Sprintf(
		`UPDATE %s SET name = $1 WHERE user_id = $2 AND id = $3 RETURNING id`, table)
	var renamedID int64
	err := r.db.DB().QueryRowContext(ctx, query, normalized, userID, id).Scan(&renamedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", notFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", invdomain.ErrNameConflict
		}
		return "", fmt.Errorf("rename %s: %w", table, err)
	}
	return normalized, nil
}
