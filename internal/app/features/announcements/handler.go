// internal/app/features/announcements/handler.go
package announcements

import (
	"net/http"

	"github.com/dalemusser/squadlog/internal/app/service/announcementsvc"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/inputval"
	"go.uber.org/zap"
)

// Handler serves a group's pinned announcement.
type Handler struct {
	Announcements *announcementsvc.Service
	Log           *zap.Logger
}

func NewHandler(svc *announcementsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Announcements: svc, Log: logger}
}

type upsertInput struct {
	Text string `json:"text"`
}

// Show handles GET /api/groups/{id}/announcement. The body is
// {"announcement": null} when nothing is pinned.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)
	group, err := inputval.IDParam(r, "id", "Group")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ann, err := h.Announcements.Get(r.Context(), a, group)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"announcement": ann})
}

// Upsert handles PUT /api/groups/{id}/announcement.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)
	group, err := inputval.IDParam(r, "id", "Group")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	var in upsertInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ann, err := h.Announcements.Upsert(r.Context(), a, group, in.Text)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"announcement": ann})
}

// Delete handles DELETE /api/groups/{id}/announcement.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)
	group, err := inputval.IDParam(r, "id", "Group")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	if err := h.Announcements.Delete(r.Context(), a, group); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
