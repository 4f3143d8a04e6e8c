// Package checkinsvc lets coaches schedule check-ins for their groups.
package checkinsvc

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/squadlog/internal/app/policy/grouppolicy"
	"github.com/dalemusser/squadlog/internal/app/service/logsvc"
	checkinstore "github.com/dalemusser/squadlog/internal/app/store/checkins"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/htmlsanitize"
	"github.com/dalemusser/squadlog/internal/app/system/normalize"
	"github.com/dalemusser/squadlog/internal/app/system/timeouts"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxTitleLength bounds check-in titles, counted in runes.
const MaxTitleLength = 200

// CreateInput is the body of a create request. An empty SessionDate
// means today.
type CreateInput struct {
	Title       string `json:"title"`
	SessionDate string `json:"sessionDate"`
}

type Service struct {
	checkins *checkinstore.Store
	log      *zap.Logger
}

func New(checkins *checkinstore.Store, log *zap.Logger) *Service {
	return &Service{checkins: checkins, log: log}
}

func gate(a *auth.Actor, group primitive.ObjectID) error {
	if a == nil {
		return apperr.Unauthenticated("Unauthorized")
	}
	if !grouppolicy.CanManageGroup(a, group) {
		return apperr.Forbidden("Only coaches of this group can manage check-ins")
	}
	return nil
}

// Create schedules a check-in for group.
func (s *Service) Create(ctx context.Context, a *auth.Actor, group primitive.ObjectID, in CreateInput) (models.CheckIn, error) {
	if err := gate(a, group); err != nil {
		return models.CheckIn{}, err
	}

	title := htmlsanitize.PlainText(in.Title)
	if title == "" {
		return models.CheckIn{}, apperr.InvalidInput("Title is required")
	}
	if normalize.Length(title) > MaxTitleLength {
		return models.CheckIn{}, apperr.InvalidInput("Title must be at most 200 characters")
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if strings.TrimSpace(in.SessionDate) != "" {
		t, ok := logsvc.ParseTime(in.SessionDate)
		if !ok {
			return models.CheckIn{}, apperr.InvalidInput("sessionDate must be an RFC 3339 timestamp or YYYY-MM-DD date")
		}
		date = t
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "create check-in")
	defer cancel()

	c, err := s.checkins.Create(ctx, models.CheckIn{
		GroupID:     group,
		CoachID:     a.ID,
		Title:       title,
		SessionDate: date,
	})
	if err != nil {
		return models.CheckIn{}, apperr.Internal(err, "create check-in")
	}
	return c, nil
}

// List returns group's check-ins, latest session first.
func (s *Service) List(ctx context.Context, a *auth.Actor, group primitive.ObjectID) ([]models.CheckIn, error) {
	if err := gate(a, group); err != nil {
		return nil, err
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "list check-ins")
	defer cancel()

	out, err := s.checkins.ListByGroup(ctx, group)
	if err != nil {
		return nil, apperr.Internal(err, "list check-ins")
	}
	return out, nil
}
