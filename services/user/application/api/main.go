package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/lvoinea/stuffkeeper/pkg/app"
	"github.com/lvoinea/stuffkeeper/pkg/auth"
	"github.com/lvoinea/stuffkeeper/services/user/application/handlers"
	appsvcs "github.com/lvoinea/stuffkeeper/services/user/application/services"
)

// UserRoutes registers account and session endpoints on the provided chi
// router. Signup and login are public; the rest require a session.
func UserRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)

	r.Post("/users", handlers.NewSignupHandler(svcs).Execute)
	r.Post("/login", handlers.NewLoginHandler(svcs, a.SessionStore, a.Logger).Execute)
	r.Post("/logout", handlers.NewLogoutHandler(a.SessionStore).Execute)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
		r.Get("/users/me", handlers.NewMeHandler(svcs).Execute)
		r.Put("/users/me/settings", handlers.NewSaveSettingsHandler(svcs).Execute)
	})
}
