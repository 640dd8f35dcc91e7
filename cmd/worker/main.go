package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/lvoinea/stuffkeeper/pkg/app"
	"github.com/lvoinea/stuffkeeper/pkg/cache"
	"github.com/lvoinea/stuffkeeper/pkg/config"
	"github.com/lvoinea/stuffkeeper/pkg/database"
	"github.com/lvoinea/stuffkeeper/pkg/events"
	"github.com/lvoinea/stuffkeeper/pkg/logger"
	"github.com/lvoinea/stuffkeeper/pkg/telemetry"
	inventoryEvents "github.com/lvoinea/stuffkeeper/services/inventory/domain/events"
	"github.com/lvoinea/stuffkeeper/services/inventory/infrastructure/persistence/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Db:        pool,
		Logger:    log,
		EventBus:  eventBus,
		Redis:     redisClient,
		ItemCache: cache.NewItemCache(redisClient),
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	topics := []string{inventoryEvents.TopicItemSaved, inventoryEvents.TopicItemDeleted}

	savedCh, err := a.EventBus.Subscribe(ctx, inventoryEvents.TopicItemSaved, handleItemSaved(a))
	if err != nil {
		return err
	}
	deletedCh, err := a.EventBus.Subscribe(ctx, inventoryEvents.TopicItemDeleted, handleItemDeleted(a))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channels never block.
	for topic, ch := range map[string]<-chan error{
		inventoryEvents.TopicItemSaved:   savedCh,
		inventoryEvents.TopicItemDeleted: deletedCh,
	} {
		go func(topic string, ch <-chan error) {
			for err := range ch {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic, ch)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleItemSaved returns a handler for inventory.item.saved events.
// Handlers must be idempotent — EventBus retries up to 3× on failure.
// Rebuilds the user's Redis collection read model so subsequent listings
// are served from cache.
func handleItemSaved(a *app.Application) func(context.Context, *message.Message) error {
	repo := postgres.NewItemRepository(a.Db, nil)
	return func(ctx context.Context, msg *message.Message) error {
		var evt inventoryEvents.ItemSavedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		return rewarm(ctx, a, repo, evt.UserID, evt.ItemID)
	}
}

// handleItemDeleted returns a handler for inventory.item.deleted events.
func handleItemDeleted(a *app.Application) func(context.Context, *message.Message) error {
	repo := postgres.NewItemRepository(a.Db, nil)
	return func(ctx context.Context, msg *message.Message) error {
		var evt inventoryEvents.ItemDeletedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		return rewarm(ctx, a, repo, evt.UserID, evt.ItemID)
	}
}

// rewarm replaces the user's cached collection with a fresh Postgres read.
// Cache warming is best-effort; failures are logged, not retried, so a Redis
// outage cannot wedge the event stream.
func rewarm(ctx context.Context, a *app.Application, repo *postgres.ItemRepository, userID, itemID int64) error {
	items, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		// Postgres errors are retryable; let the bus redeliver.
		return err
	}
	if err := a.ItemCache.Set(ctx, userID, items); err != nil {
		a.Logger.WarnContext(ctx, "cache rewarm failed",
			"user_id", userID, "item_id", itemID, "error", err)
	} else {
		a.Logger.InfoContext(ctx, "cache rewarmed",
			"user_id", userID, "item_id", itemID, "items", len(items))
	}
	return nil
}
