// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/auth. signupLimit guards account creation
// per client IP; login applies h.Limiter itself so refusals are audited.
func Routes(h *Handler, sm *auth.SessionManager, signupLimit ratelimit.Policy) chi.Router {
	r := chi.NewRouter()

	r.With(ratelimit.ByIP(signupLimit, h.Log)).Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/session", h.ServeSession)
		pr.Put("/profile", h.HandleProfile)
	})

	return r
}
