// Package announcementsvc manages the pinned coach message of a group.
package announcementsvc

import (
	"context"
	"errors"

	"github.com/dalemusser/squadlog/internal/app/policy/grouppolicy"
	announcementstore "github.com/dalemusser/squadlog/internal/app/store/announcements"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/htmlsanitize"
	"github.com/dalemusser/squadlog/internal/app/system/normalize"
	"github.com/dalemusser/squadlog/internal/app/system/timeouts"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxTextLength bounds announcement text, counted in runes.
const MaxTextLength = 2000

type Service struct {
	store *announcementstore.Store
	log   *zap.Logger
}

func New(store *announcementstore.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// Get returns group's announcement, or nil when none is pinned.
func (s *Service) Get(ctx context.Context, a *auth.Actor, group primitive.ObjectID) (*models.Announcement, error) {
	if a == nil {
		return nil, apperr.Unauthenticated("Unauthorized")
	}
	if !grouppolicy.CanViewGroup(a, group) {
		return nil, apperr.Forbidden("You are not a member of this group")
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "get announcement")
	defer cancel()

	ann, err := s.store.Get(ctx, group)
	if errors.Is(err, announcementstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err, "get announcement")
	}
	return &ann, nil
}

// Upsert pins text as group's announcement, replacing any previous one.
func (s *Service) Upsert(ctx context.Context, a *auth.Actor, group primitive.ObjectID, text string) (models.Announcement, error) {
	if err := manageGate(a, group); err != nil {
		return models.Announcement{}, err
	}
	text = htmlsanitize.PlainText(text)
	if text == "" {
		return models.Announcement{}, apperr.InvalidInput("Announcement text is required")
	}
	if normalize.Length(text) > MaxTextLength {
		return models.Announcement{}, apperr.InvalidInput("Announcement must be at most 2000 characters")
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "upsert announcement")
	defer cancel()

	ann, err := s.store.Upsert(ctx, group, a.ID, text)
	if err != nil {
		return models.Announcement{}, apperr.Internal(err, "save announcement")
	}
	return ann, nil
}

// Delete unpins group's announcement. Deleting nothing succeeds.
func (s *Service) Delete(ctx context.Context, a *auth.Actor, group primitive.ObjectID) error {
	if err := manageGate(a, group); err != nil {
		return err
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "delete announcement")
	defer cancel()

	if err := s.store.Delete(ctx, group); err != nil {
		return apperr.Internal(err, "delete announcement")
	}
	return nil
}

func manageGate(a *auth.Actor, group primitive.ObjectID) error {
	if a == nil {
		return apperr.Unauthenticated("Unauthorized")
	}
	if !grouppolicy.CanManageGroup(a, group) {
		return apperr.Forbidden("Only coaches of this group can manage announcements")
	}
	return nil
}
