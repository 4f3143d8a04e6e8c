// internal/app/features/checkins/handler.go
package checkins

import (
	"net/http"

	"github.com/dalemusser/squadlog/internal/app/service/checkinsvc"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/inputval"
	"go.uber.org/zap"
)

type Handler struct {
	CheckIns *checkinsvc.Service
	Log      *zap.Logger
}

func NewHandler(checkins *checkinsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{CheckIns: checkins, Log: logger}
}

// ServeList handles GET /api/groups/{id}/checkins.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)
	group, err := inputval.IDParam(r, "id", "Group")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	list, err := h.CheckIns.List(r.Context(), a, group)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"checkins": list})
}

// HandleCreate handles POST /api/groups/{id}/checkins.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)
	group, err := inputval.IDParam(r, "id", "Group")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	var in checkinsvc.CreateInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	c, err := h.CheckIns.Create(r.Context(), a, group, in)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusCreated, map[string]any{"checkin": c})
}
