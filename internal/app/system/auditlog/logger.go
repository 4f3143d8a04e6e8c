// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/squadlog/internal/app/store/audit"
	"github.com/dalemusser/squadlog/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination modes.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"
	ModeLog = "log"
	ModeOff = "off"
)

// Config selects a destination mode per event category.
type Config struct {
	Auth  string
	Group string
}

// Uniform applies mode to every category. Unknown modes fall back to all.
func Uniform(mode string) Config {
	switch mode {
	case ModeAll, ModeDB, ModeLog, ModeOff:
	default:
		mode = ModeAll
	}
	return Config{Auth: mode, Group: mode}
}

// Logger writes audit events to the audit store and/or zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.GroupID != nil {
		fields = append(fields, zap.String("group_id", event.GroupID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to the mode for its category. A nil Logger
// is a no-op. Store failures are logged and swallowed.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var mode string
	switch event.Category {
	case audit.CategoryAuth:
		mode = l.config.Auth
	case audit.CategoryGroup:
		mode = l.config.Group
	default:
		mode = ModeAll
	}

	switch mode {
	case ModeOff:
		return
	case ModeLog:
		l.logToZap(event)
	case ModeDB:
		l.persist(ctx, event)
	default:
		l.logToZap(event)
		l.persist(ctx, event)
	}
}

func (l *Logger) persist(ctx context.Context, event audit.Event) {
	if l.store == nil {
		return
	}
	if err := l.store.Log(ctx, event); err != nil {
		l.zapLog.Error("failed to store audit event",
			zap.Error(err),
			zap.String("event_type", event.EventType),
		)
	}
}

func requestEvent(r *http.Request, category, eventType string) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
}

// --- Authentication Events ---

func (l *Logger) Signup(ctx context.Context, r *http.Request, userID primitive.ObjectID, role string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventSignup)
	e.ActorID = &userID
	e.Details = map[string]string{"role": role}
	l.Log(ctx, e)
}

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.ActorID = &userID
	l.Log(ctx, e)
}

// LoginFailedUserNotFound records the attempted email; no user id exists.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound)
	e.Success = false
	e.FailureReason = "user not found"
	e.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, e)
}

func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword)
	e.ActorID = &userID
	e.Success = false
	e.FailureReason = "wrong password"
	l.Log(ctx, e)
}

func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit)
	e.Success = false
	e.FailureReason = "rate limit exceeded"
	l.Log(ctx, e)
}

func (l *Logger) Logout(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLogout)
	e.ActorID = &userID
	l.Log(ctx, e)
}

// --- Group Events ---

func (l *Logger) GroupCreated(ctx context.Context, r *http.Request, actorID, groupID primitive.ObjectID, code string) {
	e := requestEvent(r, audit.CategoryGroup, audit.EventGroupCreated)
	e.ActorID = &actorID
	e.GroupID = &groupID
	e.Details = map[string]string{"code": code}
	l.Log(ctx, e)
}

func (l *Logger) GroupJoined(ctx context.Context, r *http.Request, actorID, groupID primitive.ObjectID) {
	e := requestEvent(r, audit.CategoryGroup, audit.EventGroupJoined)
	e.ActorID = &actorID
	e.GroupID = &groupID
	l.Log(ctx, e)
}

// GroupLeft records a leave. A nil groupID means every membership was
// cleared.
func (l *Logger) GroupLeft(ctx context.Context, r *http.Request, actorID primitive.ObjectID, groupID *primitive.ObjectID) {
	e := requestEvent(r, audit.CategoryGroup, audit.EventGroupLeft)
	e.ActorID = &actorID
	e.GroupID = groupID
	if groupID == nil {
		e.Details = map[string]string{"scope": "all"}
	}
	l.Log(ctx, e)
}

func (l *Logger) AttendanceSubmitted(ctx context.Context, r *http.Request, actorID, groupID, checkinID primitive.ObjectID, entries int) {
	e := requestEvent(r, audit.CategoryGroup, audit.EventAttendanceSubmitted)
	e.ActorID = &actorID
	e.GroupID = &groupID
	e.Details = map[string]string{
		"checkin_id": checkinID.Hex(),
		"entries":    strconv.Itoa(entries),
	}
	l.Log(ctx, e)
}
