package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/lvoinea/stuffkeeper/pkg/database"
	"github.com/lvoinea/stuffkeeper/pkg/events"
	invdomain "github.com/lvoinea/stuffkeeper/services/inventory/domain"
	domainevents "github.com/lvoinea/stuffkeeper/services/inventory/domain/events"
	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
// Item writes publish domain events within the same transaction (outbox
// pattern) when an event bus is attached.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewItemRepository returns an ItemRepository backed by the given connection
// pool and event bus. The bus may be nil in tests.
func NewItemRepository(db *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: db, bus: bus}
}

// Create persists a new item with its tag and location sets and publishes an
// ItemSavedEvent within the same transaction.
func (r *ItemRepository) Create(ctx context.Context, userID int64, item *models.Item) (*models.Item, error) {
	var created *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		photos, err := marshalPhotos(item.Photos)
		if err != nil {
			return err
		}

		var id int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO items (user_id, name, description, code, quantity, cost,
			                   addition_date, expiration_date, is_active, photos)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9)
			RETURNING id`,
			userID, item.Name, item.Description, item.Code, item.Quantity,
			item.Cost, item.AdditionDate, item.ExpirationDate, photos,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}

		if err := r.replaceTags(ctx, tx, userID, id, item.TagNames()); err != nil {
			return err
		}
		if err := r.replaceLocations(ctx, tx, userID, id, item.LocationNames()); err != nil {
			return err
		}

		created, err = r.getInTx(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		return r.publishSaved(tx, userID, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves an item scoped to the given user.
// Returns ErrItemNotFound if not found.
func (r *ItemRepository) GetByID(ctx context.Context, userID, id int64) (*models.Item, error) {
	row := r.db.DB().QueryRowContext(ctx, itemSelect+` WHERE user_id = $1 AND id = $2`, userID, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	if err := r.loadRefs(ctx, r.db.DB(), []*models.Item{item}); err != nil {
		return nil, err
	}
	return item, nil
}

// FindByUserID retrieves the user's full item collection, newest first,
// with tag and location sets attached.
func (r *ItemRepository) FindByUserID(ctx context.Context, userID int64) ([]models.Item, error) {
	rows, err := r.db.DB().QueryContext(ctx, itemSelect+` WHERE user_id = $1 ORDER BY id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var items []models.Item
	var refs []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	for i := range items {
		refs = append(refs, &items[i])
	}
	if err := r.loadRefs(ctx, r.db.DB(), refs); err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a sparse patch to an existing item, replacing the tag and
// location sets only when the patch carries them, and publishes an
// ItemSavedEvent within the same transaction. Returns the stored item.
func (r *ItemRepository) Update(ctx context.Context, userID, id int64, patch models.Patch) (*models.Item, error) {
	var updated *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		current, err := r.getInTx(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		next := patch.Apply(*current)
		photos, err := marshalPhotos(next.Photos)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE items
			SET name = $1, description = $2, code = $3, quantity = $4,
			    cost = $5, expiration_date = $6, removal_date = $7,
			    is_active = $8, photos = $9
			WHERE user_id = $10 AND id = $11`,
			next.Name, next.Description, next.Code, next.Quantity, next.Cost,
			next.ExpirationDate, next.RemovalDate, next.IsActive, photos,
			userID, id,
		)
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}

		if patch.Tags != nil {
			if err := r.replaceTags(ctx, tx, userID, id, next.TagNames()); err != nil {
				return err
			}
		}
		if patch.Locations != nil {
			if err := r.replaceLocations(ctx, tx, userID, id, next.LocationNames()); err != nil {
				return err
			}
		}

		updated, err = r.getInTx(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		return r.publishSaved(tx, userID, updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete permanently removes an item and publishes an ItemDeletedEvent
// within the same transaction. Join rows go with it; orphaned tag and
// location names stay in the user's vocabulary.
func (r *ItemRepository) Delete(ctx context.Context, userID, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM items WHERE user_id = $1 AND id = $2`, userID, id)
		if err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		if affected == 0 {
			return invdomain.ErrItemNotFound
		}
		return r.publishDeleted(tx, userID, id)
	})
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const itemSelect = `
	SELECT id, name, description, code, quantity, cost,
	       addition_date, expiration_date, removal_date, is_active, photos
	FROM items`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var photos []byte
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Code, &item.Quantity,
		&item.Cost, &item.AdditionDate, &item.ExpirationDate,
		&item.RemovalDate, &item.IsActive, &photos,
	)
	if err != nil {
		return nil, err
	}
	if len(photos) > 0 {
		var ps models.PhotoSet
		if err := json.Unmarshal(photos, &ps); err != nil {
			return nil, fmt.Errorf("unmarshal photos: %w", err)
		}
		item.Photos = &ps
	}
	item.Tags = []models.Tag{}
	item.Locations = []models.Location{}
	return &item, nil
}

func (r *ItemRepository) getInTx(ctx context.Context, tx *sql.Tx, userID, id int64) (*models.Item, error) {
	row := tx.QueryRowContext(ctx, itemSelect+` WHERE user_id = $1 AND id = $2`, userID, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	if err := r.loadRefs(ctx, tx, []*models.Item{item}); err != nil {
		return nil, err
	}
	return item, nil
}

// loadRefs attaches tag and location sets to the given items in one query
// per reference kind.
func (r *ItemRepository) loadRefs(ctx context.Context, q querier, items []*models.Item) error {
	if len(items) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Item, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		byID[item.ID] = item
		ids = append(ids, item.ID)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT it.item_id, t.id, t.name
		FROM item_tags it JOIN tags t ON t.id = it.tag_id
		WHERE it.item_id = ANY($1)
		ORDER BY t.name`, ids)
	if err != nil {
		return fmt.Errorf("query item tags: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	for rows.Next() {
		var itemID int64
		var tag models.Tag
		if err := rows.Scan(&itemID, &tag.ID, &tag.Name); err != nil {
			return fmt.Errorf("scan item tag: %w", err)
		}
		byID[itemID].Tags = append(byID[itemID].Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate item tags: %w", err)
	}

	locRows, err := q.QueryContext(ctx, `
		SELECT il.item_id, l.id, l.name
		FROM item_locations il JOIN locations l ON l.id = il.location_id
		WHERE il.item_id = ANY($1)
		ORDER BY l.name`, ids)
	if err != nil {
		return fmt.Errorf("query item locations: %w", err)
	}
	defer locRows.Close() //nolint:errcheck
	for locRows.Next() {
		var itemID int64
		var loc models.Location
		if err := locRows.Scan(&itemID, &loc.ID, &loc.Name); err != nil {
			return fmt.Errorf("scan item location: %w", err)
		}
		byID[itemID].Locations = append(byID[itemID].Locations, loc)
	}
	return locRows.Err()
}

// replaceTags rewrites the item's tag join rows against get-or-created tag
// names. Names must already be normalized by the caller.
func (r *ItemRepository) replaceTags(ctx context.Context, tx *sql.Tx, userID, itemID int64, names []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM item_tags WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("clear item tags: %w", err)
	}
	for _, name := range names {
		var tagID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO tags (user_id, name) VALUES ($1, $2)
			ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, userID, name).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("get or create tag %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_tags (item_id, tag_id) VALUES ($1, $2)`,
			itemID, tagID); err != nil {
			return fmt.Errorf("attach tag %q: %w", name, err)
		}
	}
	return nil
}

// replaceLocations is the location counterpart of replaceTags.
func (r *ItemRepository) replaceLocations(ctx context.Context, tx *sql.Tx, userID, itemID int64, names []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM item_locations WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("clear item locations: %w", err)
	}
	for _, name := range names {
		var locationID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO locations (user_id, name) VALUES ($1, $2)
			ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, userID, name).Scan(&locationID)
		if err != nil {
			return fmt.Errorf("get or create location %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_locations (item_id, location_id) VALUES ($1, $2)`,
			itemID, locationID); err != nil {
			return fmt.Errorf("attach location %q: %w", name, err)
		}
	}
	return nil
}

func (r *ItemRepository) publishSaved(tx *sql.Tx, userID int64, item *models.Item) error {
	if r.bus == nil {
		return nil
	}
	event := domainevents.ItemSavedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     item.ID,
		UserID:     userID,
		Name:       item.Name,
		IsActive:   item.IsActive,
		OccurredAt: time.Now().UTC(),
	}
	return r.publish(tx, domainevents.TopicItemSaved, event, event.EventID)
}

func (r *ItemRepository) publishDeleted(tx *sql.Tx, userID, itemID int64) error {
	if r.bus == nil {
		return nil
	}
	event := domainevents.ItemDeletedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     itemID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
	return r.publish(tx, domainevents.TopicItemDeleted, event, event.EventID)
}

func (r *ItemRepository) publish(tx *sql.Tx, topic string, event any, eventID uuid.UUID) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", eventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(topic, msg)
}

func marshalPhotos(photos *models.PhotoSet) ([]byte, error) {
	if photos == nil {
		return nil, nil
	}
	data, err := json.Marshal(photos)
	if err != nil {
		return nil, fmt.Errorf("marshal photos: %w", err)
	}
	return data, nil
}
