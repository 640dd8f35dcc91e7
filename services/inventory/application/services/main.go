package services

import (
	"github.com/lvoinea/stuffkeeper/pkg/app"
	"github.com/lvoinea/stuffkeeper/services/inventory/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item      *ItemService
	Reference *ReferenceService
	Stats     *StatsService
}

// New wires all inventory application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	itemRepo := postgres.NewItemRepository(a.Db, a.EventBus)
	refRepo := postgres.NewReferenceRepository(a.Db)

	itemSvc := NewItemService(itemRepo, a.ItemCache, a.Logger)
	return &Services{
		Item:      itemSvc,
		Reference: NewReferenceService(refRepo, a.ItemCache, a.Logger),
		Stats:     NewStatsService(itemSvc, refRepo),
	}
}
