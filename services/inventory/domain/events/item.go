package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics for the inventory bounded context.
const (
	// TopicItemSaved is published after an item is created or updated
	// (including archive/restore flips).
	TopicItemSaved = "inventory.item.saved"

	// TopicItemDeleted is published after an item is permanently removed.
	TopicItemDeleted = "inventory.item.deleted"
)

// ItemSavedEvent is published within the same transaction as an item write.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemSaved).
type ItemSavedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID     int64     `json:"item_id"`
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"is_active"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ItemDeletedEvent is published within the same transaction as an item delete.
type ItemDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     int64     `json:"item_id"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
