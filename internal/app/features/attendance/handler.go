// internal/app/features/attendance/handler.go
package attendance

import (
	"net/http"

	"github.com/dalemusser/squadlog/internal/app/service/attendancesvc"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auditlog"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/dalemusser/squadlog/internal/app/system/inputval"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the coach attendance sheet for a check-in.
type Handler struct {
	Attendance *attendancesvc.Service
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(svc *attendancesvc.Service, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Attendance: svc, AuditLog: audit, Log: logger}
}

// submitInput keeps entries untyped; malformed items are dropped one by
// one rather than failing the whole body.
type submitInput struct {
	Entries any `json:"entries"`
}

// ServeSheet handles GET /api/attendance/{checkinId}.
func (h *Handler) ServeSheet(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	view, err := h.Attendance.GetView(r.Context(), a, chi.URLParam(r, "checkinId"))
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, view)
}

// HandleSubmit handles POST /api/attendance/{checkinId}.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	var in submitInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	rec, err := h.Attendance.Submit(r.Context(), a, chi.URLParam(r, "checkinId"), in.Entries)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	h.AuditLog.AttendanceSubmitted(r.Context(), r, a.ID, rec.GroupID, rec.CheckInID, len(rec.Entries))

	apperr.WriteJSON(w, http.StatusOK, map[string]any{"attendance": rec})
}
