package logs

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/squadlog/internal/app/service/logsvc"
	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/auth"
)

// listQuery reads the list filters. Tags may arrive comma separated in
// "tags", as repeated "tag" parameters, or both.
func listQuery(v url.Values) logsvc.ListQuery {
	var tags []string
	for _, raw := range v["tags"] {
		tags = append(tags, strings.Split(raw, ",")...)
	}
	tags = append(tags, v["tag"]...)

	return logsvc.ListQuery{
		Tags:     tags,
		UserID:   v.Get("userId"),
		DateFrom: v.Get("dateFrom"),
		DateTo:   v.Get("dateTo"),
	}
}

// ServeList handles GET /api/logs.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentActor(r)

	views, err := h.Logs.ListVisible(r.Context(), a, listQuery(r.URL.Query()))
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]any{"logs": views})
}
