// internal/app/features/tags/handler.go
package tags

import (
	"net/http"

	"github.com/dalemusser/squadlog/internal/app/service/logsvc"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Logs *logsvc.Service
	Log  *zap.Logger
}

func NewHandler(logs *logsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Logs: logs, Log: logger}
}

// ServeList handles GET /api/tags?source=used|registry.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	names, err := h.Logs.ListTags(r.Context(), a, r.URL.Query().Get("source"))
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"tags": names})
}
