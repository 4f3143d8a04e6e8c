// Package accountsvc handles signup, login and profile changes.
package accountsvc

import (
	"context"
	"errors"

	groupstore "github.com/dalemusser/squadlog/internal/app/store/groups"
	userstore "github.com/dalemusser/squadlog/internal/app/store/users"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/htmlsanitize"
	"github.com/dalemusser/squadlog/internal/app/system/inputval"
	"github.com/dalemusser/squadlog/internal/app/system/normalize"
	"github.com/dalemusser/squadlog/internal/app/system/timeouts"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

const badCredentials = "Invalid email or password"

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

// Login failures share one public message; the distinct values let
// callers audit the reason.
var (
	ErrUnknownEmail  = apperr.Unauthenticated(badCredentials)
	ErrWrongPassword = apperr.Unauthenticated(badCredentials)
)

// SignupInput is the body of a signup request.
type SignupInput struct {
	Email       string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password    string `json:"password" validate:"required,min=6,max=72" label:"Password"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=80" label:"Display name"`
	Role        string `json:"role"`
}

// ProfileInput is the body of a profile update.
type ProfileInput struct {
	DisplayName string `json:"displayName" validate:"required,min=2,max=80" label:"Display name"`
}

// Session is the signed-in user's view of themselves.
type Session struct {
	User   models.User    `json:"user"`
	Groups []models.Group `json:"groups"`
}

type Service struct {
	users  *userstore.Store
	groups *groupstore.Store
	log    *zap.Logger
}

func New(users *userstore.Store, groups *groupstore.Store, log *zap.Logger) *Service {
	return &Service{users: users, groups: groups, log: log}
}

// Signup registers a user. Any role other than coach becomes athlete.
func (s *Service) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	in.Email = normalize.Email(in.Email)
	in.DisplayName = htmlsanitize.PlainText(in.DisplayName)
	if err := inputval.Check(in); err != nil {
		return models.User{}, err
	}
	if len(in.Password) > maxPasswordBytes {
		return models.User{}, apperr.InvalidInput("Password is too long.")
	}

	role := models.RoleAthlete
	if normalize.Role(in.Role) == models.RoleCoach {
		role = models.RoleCoach
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), BcryptCost)
	if err != nil {
		return models.User{}, apperr.Internal(err, "hash password")
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "signup")
	defer cancel()

	u, err := s.users.Create(ctx, models.User{
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		Role:         role,
		PasswordHash: string(hash),
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return models.User{}, apperr.Conflict("Email already registered")
	}
	if err != nil {
		return models.User{}, apperr.Internal(err, "create user")
	}
	return u, nil
}

// Login checks credentials and returns the stored user.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		return models.User{}, apperr.InvalidInput("Email and password are required")
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "login")
	defer cancel()

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		return models.User{}, ErrUnknownEmail
	}
	if err != nil {
		return models.User{}, apperr.Internal(err, "load user")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return u, ErrWrongPassword
	}
	return u, nil
}

// Session returns the actor's stored record and current groups.
func (s *Service) Session(ctx context.Context, a *auth.Actor) (Session, error) {
	if a == nil {
		return Session{}, apperr.Unauthenticated("Unauthorized")
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "session")
	defer cancel()

	u, err := s.users.GetByID(ctx, a.ID)
	if errors.Is(err, userstore.ErrNotFound) {
		return Session{}, apperr.Unauthenticated("Unauthorized")
	}
	if err != nil {
		return Session{}, apperr.Internal(err, "load user")
	}
	groups, err := s.groups.ListByIDs(ctx, u.Memberships())
	if err != nil {
		return Session{}, apperr.Internal(err, "load groups")
	}
	u.PasswordHash = ""
	return Session{User: u, Groups: groups}, nil
}

// UpdateProfile sets the display name and marks the profile complete.
func (s *Service) UpdateProfile(ctx context.Context, a *auth.Actor, in ProfileInput) (models.User, error) {
	if a == nil {
		return models.User{}, apperr.Unauthenticated("Unauthorized")
	}
	in.DisplayName = htmlsanitize.PlainText(in.DisplayName)
	if err := inputval.Check(in); err != nil {
		return models.User{}, err
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "update profile")
	defer cancel()

	u, err := s.users.UpdateProfile(ctx, a.ID, in.DisplayName)
	if errors.Is(err, userstore.ErrNotFound) {
		return models.User{}, apperr.Unauthenticated("Unauthorized")
	}
	if err != nil {
		return models.User{}, apperr.Internal(err, "update profile")
	}
	return u, nil
}
