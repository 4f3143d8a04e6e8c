// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/groups. joinLimit throttles code guessing
// per client IP; nil disables it.
func Routes(h *Handler, sm *auth.SessionManager, joinLimit ratelimit.Policy) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.With(ratelimit.ByIP(joinLimit, h.Log)).Post("/join", h.HandleJoin)
		pr.Post("/leave", h.HandleLeave)
		pr.Get("/{id}/members", h.ServeMembers)
	})

	return r
}
