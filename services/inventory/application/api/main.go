package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/lvoinea/stuffkeeper/pkg/app"
	"github.com/lvoinea/stuffkeeper/pkg/auth"
	"github.com/lvoinea/stuffkeeper/services/inventory/application/handlers"
	appsvcs "github.com/lvoinea/stuffkeeper/services/inventory/application/services"
)

// InventoryRoutes registers item, tag, location, and stats endpoints on the
// provided chi router. All routes require an authenticated session.
func InventoryRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(a.SessionStore, a.Logger))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", handlers.NewListItemsHandler(svcs).Execute)
			r.Post("/", handlers.NewPostItemHandler(svcs).Execute)
			r.Get("/{itemID}", handlers.NewGetItemHandler(svcs).Execute)
			r.Patch("/{itemID}", handlers.NewSaveItemHandler(svcs).Execute)
			r.Delete("/{itemID}", handlers.NewDeleteItemHandler(svcs).Execute)
			r.Post("/{itemID}/archive", handlers.NewArchiveItemHandler(svcs).Execute)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", handlers.NewListTagsHandler(svcs).Execute)
			r.Patch("/{tagID}", handlers.NewRenameTagHandler(svcs).Execute)
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", handlers.NewListLocationsHandler(svcs).Execute)
			r.Patch("/{locationID}", handlers.NewRenameLocationHandler(svcs).Execute)
		})

		r.Get("/stats", handlers.NewGetStatsHandler(svcs).Execute)
	})
}
