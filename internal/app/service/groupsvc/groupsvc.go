// Package groupsvc creates groups and manages membership.
package groupsvc

import (
	"context"
	"errors"

	"github.com/dalemusser/squadlog/internal/app/policy/grouppolicy"
	groupstore "github.com/dalemusser/squadlog/internal/app/store/groups"
	userstore "github.com/dalemusser/squadlog/internal/app/store/users"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/htmlsanitize"
	"github.com/dalemusser/squadlog/internal/app/system/normalize"
	"github.com/dalemusser/squadlog/internal/app/system/timeouts"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const minNameLength = 2

// Member is one roster row. Credentials never leave the store.
type Member struct {
	ID          primitive.ObjectID `json:"id"`
	DisplayName string             `json:"displayName"`
	Email       string             `json:"email"`
	Role        string             `json:"role"`
}

type Service struct {
	users  *userstore.Store
	groups *groupstore.Store
	log    *zap.Logger
}

func New(users *userstore.Store, groups *groupstore.Store, log *zap.Logger) *Service {
	return &Service{users: users, groups: groups, log: log}
}

// Create makes a group owned by the calling coach and enrolls them. The
// returned user carries the new membership for re-issuing the session.
func (s *Service) Create(ctx context.Context, a *auth.Actor, name string) (models.Group, models.User, error) {
	if a == nil {
		return models.Group{}, models.User{}, apperr.Unauthenticated("Unauthorized")
	}
	if !grouppolicy.CanCreateGroup(a) {
		return models.Group{}, models.User{}, apperr.Forbidden("Only coaches can create groups")
	}
	name = normalize.Name(htmlsanitize.PlainText(name))
	if normalize.Length(name) < minNameLength {
		return models.Group{}, models.User{}, apperr.InvalidInput("Group name must be at least 2 characters")
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "create group")
	defer cancel()

	g, err := s.groups.Create(ctx, name, a.ID)
	if err != nil {
		return models.Group{}, models.User{}, apperr.Internal(err, "create group")
	}
	u, err := s.users.AddGroup(ctx, a.ID, g.ID)
	if err != nil {
		return models.Group{}, models.User{}, apperr.Internal(err, "enroll coach")
	}
	return g, u, nil
}

// Join enrolls the actor in the group whose code matches, ignoring case.
// Joining a group twice is harmless.
func (s *Service) Join(ctx context.Context, a *auth.Actor, code string) (models.Group, models.User, error) {
	if a == nil {
		return models.Group{}, models.User{}, apperr.Unauthenticated("Unauthorized")
	}
	if normalize.Code(code) == "" {
		return models.Group{}, models.User{}, apperr.InvalidInput("Group code is required")
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "join group")
	defer cancel()

	g, err := s.groups.GetByCode(ctx, code)
	if errors.Is(err, groupstore.ErrNotFound) {
		return models.Group{}, models.User{}, apperr.NotFound("Invalid group code")
	}
	if err != nil {
		return models.Group{}, models.User{}, apperr.Internal(err, "find group")
	}
	u, err := s.users.AddGroup(ctx, a.ID, g.ID)
	if err != nil {
		return models.Group{}, models.User{}, apperr.Internal(err, "join group")
	}
	return g, u, nil
}

// Leave removes the actor from group, or from every group when group is
// nil. Leaving a group the actor is not in succeeds.
func (s *Service) Leave(ctx context.Context, a *auth.Actor, group *primitive.ObjectID) (models.User, error) {
	if a == nil {
		return models.User{}, apperr.Unauthenticated("Unauthorized")
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "leave group")
	defer cancel()

	var (
		u   models.User
		err error
	)
	if group == nil {
		u, err = s.users.ClearGroups(ctx, a.ID)
	} else {
		u, err = s.users.RemoveGroup(ctx, a.ID, *group)
	}
	if errors.Is(err, userstore.ErrNotFound) {
		return models.User{}, apperr.Unauthenticated("Unauthorized")
	}
	if err != nil {
		return models.User{}, apperr.Internal(err, "leave group")
	}
	return u, nil
}

// ListMine returns the groups the actor belongs to.
func (s *Service) ListMine(ctx context.Context, a *auth.Actor) ([]models.Group, error) {
	if a == nil {
		return nil, apperr.Unauthenticated("Unauthorized")
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "list groups")
	defer cancel()

	groups, err := s.groups.ListByIDs(ctx, a.GroupIDs)
	if err != nil {
		return nil, apperr.Internal(err, "list groups")
	}
	return groups, nil
}

// ListMembers returns the roster of group sorted by display name. Only
// members may read it.
func (s *Service) ListMembers(ctx context.Context, a *auth.Actor, group primitive.ObjectID) ([]Member, error) {
	if a == nil {
		return nil, apperr.Unauthenticated("Unauthorized")
	}
	if !grouppolicy.CanViewMembers(a, group) {
		return nil, apperr.Forbidden("You are not a member of this group")
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "list members")
	defer cancel()

	users, err := s.users.MembersOf(ctx, group)
	if err != nil {
		return nil, apperr.Internal(err, "list members")
	}
	out := make([]Member, 0, len(users))
	for _, u := range users {
		out = append(out, Member{
			ID:          u.ID,
			DisplayName: userstore.DisplayNameOrEmail(u),
			Email:       u.Email,
			Role:        u.Role,
		})
	}
	return out, nil
}
