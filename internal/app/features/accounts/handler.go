// internal/app/features/accounts/handler.go
package accounts

import (
	"github.com/dalemusser/squadlog/internal/app/service/accountsvc"
	"github.com/dalemusser/squadlog/internal/app/system/auditlog"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Handler serves signup, login, logout and the caller's own account.
type Handler struct {
	Accounts   *accountsvc.Service
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Limiter    ratelimit.Policy // login attempts per client IP; nil disables
	Log        *zap.Logger
}

func NewHandler(
	accounts *accountsvc.Service,
	sessionMgr *auth.SessionManager,
	audit *auditlog.Logger,
	limiter ratelimit.Policy,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Accounts:   accounts,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Limiter:    limiter,
		Log:        logger,
	}
}
