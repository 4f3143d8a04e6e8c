// internal/app/features/comments/handler.go
package comments

import (
	"net/http"

	"github.com/dalemusser/squadlog/internal/app/service/commentsvc"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/inputval"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the feedback thread attached to one log.
type Handler struct {
	Comments *commentsvc.Service
	Log      *zap.Logger
}

func NewHandler(comments *commentsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Comments: comments, Log: logger}
}

type postInput struct {
	Text string `json:"text"`
}

// ServeList handles GET /api/logs/{id}/comments.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	list, err := h.Comments.List(r.Context(), a, chi.URLParam(r, "id"))
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"comments": list})
}

// HandlePost handles POST /api/logs/{id}/comments.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	var in postInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	c, err := h.Comments.Post(r.Context(), a, chi.URLParam(r, "id"), in.Text)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusCreated, map[string]any{"comment": c})
}
