// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/attendance. Role and group checks happen
// in the service so a missing check-in is never confused with a denial.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/{checkinId}", h.ServeSheet)
		pr.Post("/{checkinId}", h.HandleSubmit)
	})
	return r
}
