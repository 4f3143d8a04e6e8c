// internal/app/features/groups/handler.go
package groups

import (
	"net/http"

	"github.com/dalemusser/squadlog/internal/app/service/groupsvc"
	userstore "github.com/dalemusser/squadlog/internal/app/store/users"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auditlog"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/domain/models"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
// Membership changes re-issue the session so the cookie's group hint
// follows the stored record.
type Handler struct {
	Groups     *groupsvc.Service
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(groups *groupsvc.Service, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:     groups,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Log:        logger,
	}
}

func (h *Handler) reissue(w http.ResponseWriter, u models.User) error {
	if err := h.SessionMgr.IssueSession(w, userstore.ActorOf(u).Payload()); err != nil {
		return apperr.Internal(err, "issue session")
	}
	return nil
}
