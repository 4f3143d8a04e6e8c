// Package commentsvc serves feedback threads on training logs.
package commentsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/squadlog/internal/app/policy/commentpolicy"
	"github.com/dalemusser/squadlog/internal/app/policy/logpolicy"
	commentstore "github.com/dalemusser/squadlog/internal/app/store/comments"
	logstore "github.com/dalemusser/squadlog/internal/app/store/logs"
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

type Service struct {
	users    *userstore.Store
	logs     *logstore.Store
	comments *commentstore.Store
	log      *zap.Logger
}

func New(users *userstore.Store, logs *logstore.Store, comments *commentstore.Store, log *zap.Logger) *Service {
	return &Service{users: users, logs: logs, comments: comments, log: log}
}

// gate loads the log and decides participation once for the request. A
// log the actor cannot read at all is reported as missing.
func (s *Service) gate(ctx context.Context, a *auth.Actor, logID string) (models.LogEntry, error) {
	if a == nil {
		return models.LogEntry{}, apperr.Unauthenticated("Unauthorized")
	}
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(logID))
	if err != nil {
		return models.LogEntry{}, apperr.NotFound("Log not found")
	}
	l, err := s.logs.GetByID(ctx, oid)
	if errors.Is(err, logstore.ErrNotFound) {
		return models.LogEntry{}, apperr.NotFound("Log not found")
	}
	if err != nil {
		return models.LogEntry{}, apperr.Internal(err, "load log")
	}

	var ownerGroups []primitive.ObjectID
	if l.UserID != a.ID {
		owner, err := s.users.GetByID(ctx, l.UserID)
		switch {
		case err == nil:
			ownerGroups = owner.Memberships()
		case errors.Is(err, userstore.ErrNotFound):
		default:
			return models.LogEntry{}, apperr.Internal(err, "load log owner")
		}
	}

	if !logpolicy.CanRead(a, l, ownerGroups) {
		return models.LogEntry{}, apperr.NotFound("Log not found")
	}
	if !commentpolicy.CanParticipate(a, l, ownerGroups) {
		return models.LogEntry{}, apperr.Forbidden("Only the log owner and their coaches can comment")
	}
	return l, nil
}

// List returns the log's comments oldest first.
func (s *Service) List(ctx context.Context, a *auth.Actor, logID string) ([]models.Comment, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "list comments")
	defer cancel()

	l, err := s.gate(ctx, a, logID)
	if err != nil {
		return nil, err
	}
	out, err := s.comments.ListByLog(ctx, l.ID)
	if err != nil {
		return nil, apperr.Internal(err, "list comments")
	}
	return out, nil
}

// Post adds a comment, snapshotting the author's name and role.
func (s *Service) Post(ctx context.Context, a *auth.Actor, logID, text string) (models.Comment, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "post comment")
	defer cancel()

	l, err := s.gate(ctx, a, logID)
	if err != nil {
		return models.Comment{}, err
	}

	text = htmlsanitize.PlainText(text)
	if text == "" {
		return models.Comment{}, apperr.InvalidInput("Comment text is required")
	}
	if normalize.Length(text) > models.MaxCommentLength {
		return models.Comment{}, apperr.InvalidInput(fmt.Sprintf("Comment must be at most %d characters", models.MaxCommentLength))
	}

	name := a.DisplayName
	if name == "" {
		name = a.Email
	}
	c, err := s.comments.Create(ctx, models.Comment{
		LogID:      l.ID,
		AuthorID:   a.ID,
		AuthorName: name,
		AuthorRole: a.Role,
		Text:       text,
	})
	if err != nil {
		return models.Comment{}, apperr.Internal(err, "create comment")
	}
	return c, nil
}
