package auth

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the caller of one request, resolved from storage. Role and
// GroupIDs are always the persisted values, never the token's.
type Actor struct {
	ID          primitive.ObjectID
	Email       string
	DisplayName string
	Role        string
	GroupIDs    []primitive.ObjectID
}

// HasGroup reports whether the actor belongs to any group.
func (a *Actor) HasGroup() bool {
	return a != nil && len(a.GroupIDs) > 0
}

// InGroup reports whether the actor belongs to g.
func (a *Actor) InGroup(g primitive.ObjectID) bool {
	if a == nil || g.IsZero() {
		return false
	}
	for _, id := range a.GroupIDs {
		if id == g {
			return true
		}
	}
	return false
}

// PrimaryGroupID is the group advertised in the session token: the most
// recently joined one.
func (a *Actor) PrimaryGroupID() string {
	if !a.HasGroup() {
		return ""
	}
	return a.GroupIDs[len(a.GroupIDs)-1].Hex()
}

// Payload builds the token payload describing a.
func (a *Actor) Payload() Payload {
	return Payload{
		UserID:      a.ID.Hex(),
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Role:        a.Role,
		GroupID:     a.PrimaryGroupID(),
	}
}

type ctxKey struct{}

// WithActor returns r carrying a.
func WithActor(r *http.Request, a *Actor) *http.Request {
	return r.WithContext(ContextWithActor(r.Context(), a))
}

// ContextWithActor returns ctx carrying a.
func ContextWithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// CurrentActor returns the actor resolved for r, if any.
func CurrentActor(r *http.Request) (*Actor, bool) {
	a, ok := r.Context().Value(ctxKey{}).(*Actor)
	return a, ok && a != nil
}
