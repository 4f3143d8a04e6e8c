// internal/app/features/comments/routes.go
package comments

import (
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/logs/{id}/comments.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandlePost)
	})
	return r
}
