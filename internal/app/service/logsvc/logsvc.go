// Package logsvc creates, edits and lists training logs and tags.
package logsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/squadlog/internal/app/policy/logpolicy"
	logstore "github.com/dalemusser/squadlog/internal/app/store/logs"
	tagstore "github.com/dalemusser/squadlog/internal/app/store/tags"
	userstore "github.com/dalemusser/squadlog/internal/app/store/users"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/timeouts"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Tag list sources.
const (
	SourceUsed     = "used"
	SourceRegistry = "registry"
)

// CreateInput is a new log as decoded from JSON. IsGroup and Tags are
// loosely typed and coerced.
type CreateInput struct {
	Emoji     string `json:"emoji"`
	Timestamp string `json:"timestamp"`
	IsGroup   any    `json:"isGroup"`
	Notes     string `json:"notes"`
	Tags      any    `json:"tags"`
}

// UpdateInput is a partial edit. Absent (or null) fields are unchanged.
type UpdateInput struct {
	Emoji     *string `json:"emoji"`
	Timestamp *string `json:"timestamp"`
	IsGroup   any     `json:"isGroup"`
	Notes     *string `json:"notes"`
	Tags      any     `json:"tags"`
}

// ListQuery carries the raw list filters from a request.
type ListQuery struct {
	Tags     []string
	UserID   string
	DateFrom string
	DateTo   string
}

// View is a log as returned to a reader.
type View struct {
	models.LogEntry
	UserName string `json:"userName"`
	IsOwn    bool   `json:"isOwn"`
}

type Service struct {
	users *userstore.Store
	logs  *logstore.Store
	tags  *tagstore.Store
	limit int64
	log   *zap.Logger
}

// New wires the service. limit caps list results; zero lists every
// visible log.
func New(users *userstore.Store, logs *logstore.Store, tags *tagstore.Store, limit int64, log *zap.Logger) *Service {
	return &Service{users: users, logs: logs, tags: tags, limit: limit, log: log}
}

// Create records a log for the actor. Tags are registered before the log
// is written so every referenced tag exists.
func (s *Service) Create(ctx context.Context, a *auth.Actor, in CreateInput) (View, error) {
	if a == nil {
		return View{}, apperr.Unauthenticated("Unauthorized")
	}
	emoji := strings.TrimSpace(in.Emoji)
	if emoji == "" {
		return View{}, apperr.InvalidInput("An emoji is required")
	}
	ts := time.Now().UTC()
	if strings.TrimSpace(in.Timestamp) != "" {
		t, err := parseTimestamp(in.Timestamp, "timestamp")
		if err != nil {
			return View{}, err
		}
		ts = t
	}
	tags := CoerceTags(in.Tags)

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "create log")
	defer cancel()

	if err := s.tags.Ensure(ctx, a.ID, tags); err != nil {
		return View{}, apperr.Internal(err, "register tags")
	}
	e, err := s.logs.Insert(ctx, models.LogEntry{
		UserID:    a.ID,
		Emoji:     emoji,
		Timestamp: ts,
		IsGroup:   CoerceBool(in.IsGroup),
		Notes:     in.Notes,
		Tags:      tags,
	})
	if err != nil {
		return View{}, apperr.Internal(err, "insert log")
	}
	return View{LogEntry: e, UserName: a.DisplayName, IsOwn: true}, nil
}

// Update edits a log the actor owns. A missing log, a malformed id and
// someone else's log all look the same: NotFound.
func (s *Service) Update(ctx context.Context, a *auth.Actor, id string, in UpdateInput) (View, error) {
	if a == nil {
		return View{}, apperr.Unauthenticated("Unauthorized")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return View{}, apperr.NotFound("Log not found")
	}

	var u logstore.Update
	if in.Emoji != nil {
		emoji := strings.TrimSpace(*in.Emoji)
		if emoji == "" {
			return View{}, apperr.InvalidInput("An emoji is required")
		}
		u.Emoji = &emoji
	}
	if in.Timestamp != nil {
		t, err := parseTimestamp(*in.Timestamp, "timestamp")
		if err != nil {
			return View{}, err
		}
		u.Timestamp = &t
	}
	if in.IsGroup != nil {
		b := CoerceBool(in.IsGroup)
		u.IsGroup = &b
	}
	u.Notes = in.Notes
	if in.Tags != nil {
		u.Tags = CoerceTags(in.Tags)
		u.SetTags = true
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "update log")
	defer cancel()

	if u.SetTags {
		// Only register tags once ownership is known; a foreign id must not
		// leave registry entries behind.
		if _, err := s.ownedLog(ctx, oid, a.ID); err != nil {
			return View{}, err
		}
		if err := s.tags.Ensure(ctx, a.ID, u.Tags); err != nil {
			return View{}, apperr.Internal(err, "register tags")
		}
	}

	e, err := s.logs.UpdateOwned(ctx, oid, a.ID, u)
	if errors.Is(err, logstore.ErrNotFound) {
		return View{}, apperr.NotFound("Log not found")
	}
	if err != nil {
		return View{}, apperr.Internal(err, "update log")
	}
	return View{LogEntry: e, UserName: a.DisplayName, IsOwn: true}, nil
}

func (s *Service) ownedLog(ctx context.Context, id, owner primitive.ObjectID) (models.LogEntry, error) {
	e, err := s.logs.GetByID(ctx, id)
	if errors.Is(err, logstore.ErrNotFound) || (err == nil && e.UserID != owner) {
		return models.LogEntry{}, apperr.NotFound("Log not found")
	}
	if err != nil {
		return models.LogEntry{}, apperr.Internal(err, "load log")
	}
	return e, nil
}

// Delete removes a log the actor owns. Anything else, including a
// malformed id, succeeds without touching storage state.
func (s *Service) Delete(ctx context.Context, a *auth.Actor, id string) error {
	if a == nil {
		return apperr.Unauthenticated("Unauthorized")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "delete log")
	defer cancel()

	if _, err := s.logs.DeleteOwned(ctx, oid, a.ID); err != nil {
		return apperr.Internal(err, "delete log")
	}
	return nil
}

// ListVisible returns every log the actor may read, narrowed by q.
func (s *Service) ListVisible(ctx context.Context, a *auth.Actor, q ListQuery) ([]View, error) {
	if a == nil {
		return nil, apperr.Unauthenticated("Unauthorized")
	}

	f := logpolicy.Filters{Tags: q.Tags}
	if oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(q.UserID)); err == nil {
		f.UserID = &oid
	}
	if strings.TrimSpace(q.DateFrom) != "" {
		t, err := parseTimestamp(q.DateFrom, "dateFrom")
		if err != nil {
			return nil, err
		}
		f.DateFrom = &t
	}
	if strings.TrimSpace(q.DateTo) != "" {
		t, err := parseTimestamp(q.DateTo, "dateTo")
		if err != nil {
			return nil, err
		}
		f.DateTo = &t
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "list logs")
	defer cancel()

	var members []primitive.ObjectID
	if a.HasGroup() {
		ids, err := s.users.MemberIDsOf(ctx, a.GroupIDs...)
		if err != nil {
			return nil, apperr.Internal(err, "resolve group members")
		}
		members = ids
	}

	entries, err := s.logs.Find(ctx, logpolicy.VisibleFilter(a, members, f), s.limit)
	if err != nil {
		return nil, apperr.Internal(err, "list logs")
	}

	owners := make([]primitive.ObjectID, 0, len(entries))
	seen := make(map[primitive.ObjectID]bool, len(entries))
	for _, e := range entries {
		if !seen[e.UserID] {
			seen[e.UserID] = true
			owners = append(owners, e.UserID)
		}
	}
	names, err := s.users.NamesByID(ctx, owners)
	if err != nil {
		return nil, apperr.Internal(err, "resolve names")
	}

	out := make([]View, 0, len(entries))
	for _, e := range entries {
		name := names[e.UserID]
		if name == "" {
			name = "Unknown"
		}
		out = append(out, View{LogEntry: e, UserName: name, IsOwn: e.UserID == a.ID})
	}
	return out, nil
}

// ListTags returns the actor's tag names. source is "used" (tags on the
// actor's logs, the default) or "registry" (every registered tag).
func (s *Service) ListTags(ctx context.Context, a *auth.Actor, source string) ([]string, error) {
	if a == nil {
		return nil, apperr.Unauthenticated("Unauthorized")
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "list tags")
	defer cancel()

	var (
		names []string
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "", SourceUsed:
		names, err = s.logs.DistinctTags(ctx, a.ID)
	case SourceRegistry:
		names, err = s.tags.Names(ctx, a.ID)
	default:
		return nil, apperr.InvalidInput(`source must be "used" or "registry"`)
	}
	if err != nil {
		return nil, apperr.Internal(err, "list tags")
	}
	return names, nil
}
