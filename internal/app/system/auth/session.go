package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ActorFetcher loads the current persisted state of a user. It returns
// (nil, nil) when the user does not exist.
type ActorFetcher interface {
	FetchActor(ctx context.Context, id primitive.ObjectID) (*Actor, error)
}

// SessionConfig configures cookie transport.
type SessionConfig struct {
	Name   string // cookie name
	Domain string
	Secure bool // set in production
}

// SessionManager moves session tokens in and out of cookies and resolves
// the acting user for each request.
type SessionManager struct {
	tokens  *TokenService
	cfg     SessionConfig
	fetcher ActorFetcher
	log     *zap.Logger
}

// NewSessionManager wires a manager. fetcher may be nil only in tests
// that never resolve actors.
func NewSessionManager(tokens *TokenService, cfg SessionConfig, fetcher ActorFetcher, log *zap.Logger) *SessionManager {
	if cfg.Name == "" {
		cfg.Name = "session"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionManager{tokens: tokens, cfg: cfg, fetcher: fetcher, log: log}
}

func (sm *SessionManager) options(maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		Domain:   sm.cfg.Domain,
		MaxAge:   maxAge,
		Secure:   sm.cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// IssueSession signs p and sets it as the session cookie, replacing any
// previous one.
func (sm *SessionManager) IssueSession(w http.ResponseWriter, p Payload) error {
	token, err := sm.tokens.Issue(p)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(sm.cfg.Name, token, sm.options(int(SessionTTL.Seconds()))))
	return nil
}

// ClearSession expires the session cookie.
func (sm *SessionManager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, sessions.NewCookie(sm.cfg.Name, "", sm.options(-1)))
}

// ResolveActor verifies token and loads the user it names. A bad token or
// a missing user is Unauthenticated; storage failures are Internal.
func (sm *SessionManager) ResolveActor(ctx context.Context, token string) (*Actor, error) {
	p, err := sm.tokens.Verify(token)
	if err != nil {
		return nil, apperr.Unauthenticated("Unauthorized")
	}
	id, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return nil, apperr.Unauthenticated("Unauthorized")
	}
	a, err := sm.fetcher.FetchActor(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "load session user")
	}
	if a == nil {
		return nil, apperr.Unauthenticated("Unauthorized")
	}
	return a, nil
}

// LoadActor resolves the caller and stores it in the request context.
// Requests without a usable session pass through anonymously; a session
// naming a deleted user also clears the cookie.
func (sm *SessionManager) LoadActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sm.cfg.Name)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		a, err := sm.ResolveActor(r.Context(), c.Value)
		switch {
		case err == nil:
			r = WithActor(r, a)
		case apperr.Is(err, apperr.KindUnauthenticated):
			sm.ClearSession(w)
		default:
			apperr.Write(w, r, sm.log, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects anonymous requests with 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentActor(r); !ok {
			apperr.Write(w, r, sm.log, apperr.Unauthenticated("Unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects anonymous requests with 401 and callers whose
// persisted role is not in allowed with 403.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := CurrentActor(r)
			if !ok {
				apperr.Write(w, r, sm.log, apperr.Unauthenticated("Unauthorized"))
				return
			}
			if _, has := set[strings.ToLower(a.Role)]; !has {
				apperr.Write(w, r, sm.log, apperr.Forbidden("Forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
