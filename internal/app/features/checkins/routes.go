// internal/app/features/checkins/routes.go
package checkins

import (
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/groups/{id}/checkins.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
	})
	return r
}
