package logs

import (
	"net/http"

	"github.com/dalemusser/squadlog/internal/app/service/logsvc"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/inputval"
	"github.com/go-chi/chi/v5"
)

// HandleCreate handles POST /api/logs.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	var in logsvc.CreateInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	v, err := h.Logs.Create(r.Context(), a, in)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusCreated, map[string]any{"log": v})
}

// HandleUpdate handles PUT /api/logs/{id}. Logs the caller does not own
// are reported as missing.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	var in logsvc.UpdateInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	v, err := h.Logs.Update(r.Context(), a, chi.URLParam(r, "id"), in)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"log": v})
}

// HandleDelete handles DELETE /api/logs/{id}. It reports success whether
// or not anything was removed.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	if err := h.Logs.Delete(r.Context(), a, chi.URLParam(r, "id")); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
