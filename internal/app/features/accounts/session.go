package accounts

import (
	"errors"
	"net/http"

	"github.com/dalemusser/squadlog/internal/app/service/accountsvc"
	userstore "github.com/dalemusser/squadlog/internal/app/store/users"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/inputval"
	"github.com/dalemusser/squadlog/internal/app/system/ratelimit"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.uber.org/zap"
)

type userResponse struct {
	User models.User `json:"user"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// issue sets a fresh session cookie describing u.
func (h *Handler) issue(w http.ResponseWriter, u models.User) error {
	if err := h.SessionMgr.IssueSession(w, userstore.ActorOf(u).Payload()); err != nil {
		return apperr.Internal(err, "issue session")
	}
	return nil
}

// HandleSignup handles POST /api/auth/signup.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in accountsvc.SignupInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	u, err := h.Accounts.Signup(r.Context(), in)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	h.AuditLog.Signup(r.Context(), r, u.ID, u.Role)

	if err := h.issue(w, u); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusCreated, userResponse{User: u})
}

// HandleLogin handles POST /api/auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Limiter != nil {
		ok, err := h.Limiter.Allow(ctx, "login:"+ratelimit.ClientIP(r))
		if err != nil {
			h.Log.Warn("login rate limiter unavailable", zap.Error(err))
		} else if !ok {
			h.AuditLog.LoginFailedRateLimit(ctx, r)
			w.Header().Set("Retry-After", "60")
			apperr.Write(w, r, h.Log, apperr.RateLimited("Too many login attempts. Please wait before trying again."))
			return
		}
	}

	var in loginInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	u, err := h.Accounts.Login(ctx, in.Email, in.Password)
	switch {
	case errors.Is(err, accountsvc.ErrUnknownEmail):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, in.Email)
	case errors.Is(err, accountsvc.ErrWrongPassword):
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID)
	case err == nil:
		h.AuditLog.LoginSuccess(ctx, r, u.ID)
	}
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	if err := h.issue(w, u); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, userResponse{User: u})
}

// HandleLogout handles POST /api/auth/logout. It succeeds with or without
// a session.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if a, ok := auth.CurrentActor(r); ok {
		h.AuditLog.Logout(r.Context(), r, a.ID)
	}
	h.SessionMgr.ClearSession(w)
	apperr.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ServeSession handles GET /api/auth/session.
func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)
	s, err := h.Accounts.Session(r.Context(), a)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, s)
}

// HandleProfile handles PUT /api/auth/profile and re-issues the session
// so the cookie carries the new display name.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	var in accountsvc.ProfileInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	u, err := h.Accounts.UpdateProfile(r.Context(), a, in)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	if err := h.issue(w, u); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, userResponse{User: u})
}
