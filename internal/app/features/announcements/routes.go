// internal/app/features/announcements/routes.go
package announcements

import (
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/groups/{id}/announcement. Members read;
// the service limits writes to the group's coaches.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.Show)
		pr.Put("/", h.Upsert)
		pr.Delete("/", h.Delete)
	})
	return r
}
