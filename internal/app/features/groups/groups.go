package groups

import (
	"net/http"

	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/inputval"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createInput struct {
	Name string `json:"name"`
}

type joinInput struct {
	Code string `json:"code"`
}

type leaveInput struct {
	GroupID string `json:"groupId"`
}

// ServeList handles GET /api/groups: the caller's groups.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)
	groups, err := h.Groups.ListMine(r.Context(), a)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

// HandleCreate handles POST /api/groups.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	var in createInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	g, u, err := h.Groups.Create(r.Context(), a, in.Name)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	h.AuditLog.GroupCreated(r.Context(), r, a.ID, g.ID, g.Code)

	if err := h.reissue(w, u); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusCreated, map[string]any{"group": g})
}

// HandleJoin handles POST /api/groups/join.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	var in joinInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	g, u, err := h.Groups.Join(r.Context(), a, in.Code)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	h.AuditLog.GroupJoined(r.Context(), r, a.ID, g.ID)

	if err := h.reissue(w, u); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"group": g})
}

// HandleLeave handles POST /api/groups/leave. Without a groupId every
// membership is dropped. An empty body means the same.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	var in leaveInput
	if r.ContentLength != 0 {
		if err := inputval.DecodeJSON(w, r, &in); err != nil {
			apperr.Write(w, r, h.Log, err)
			return
		}
	}

	var group *primitive.ObjectID
	if in.GroupID != "" {
		id, err := primitive.ObjectIDFromHex(in.GroupID)
		if err != nil {
			apperr.Write(w, r, h.Log, apperr.InvalidInput("Invalid group id"))
			return
		}
		group = &id
	}

	u, err := h.Groups.Leave(r.Context(), a, group)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	h.AuditLog.GroupLeft(r.Context(), r, a.ID, group)

	if err := h.reissue(w, u); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ServeMembers handles GET /api/groups/{id}/members.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	id, err := inputval.IDParam(r, "id", "Group")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	members, err := h.Groups.ListMembers(r.Context(), a, id)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"members": members})
}
