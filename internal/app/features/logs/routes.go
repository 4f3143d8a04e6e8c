// internal/app/features/logs/routes.go
package logs

import (
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/logs.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
