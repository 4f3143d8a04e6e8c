package apperr

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Error apiError `json:"error"`
}

// Write sends err as a JSON error envelope. Internal failures are logged
// with request context and reach the client only as a generic message.
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	typed := As(err)
	if typed == nil {
		typed = Internal(err, "unexpected error")
	}
	meta := MetadataFor(typed.Kind())

	msg := meta.PublicMessage
	if meta.ShowMessage && typed.Message() != "" {
		msg = typed.Message()
	}

	if typed.Kind() == KindInternal && log != nil {
		log.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	}

	WriteJSON(w, meta.HTTPStatus, envelope{Error: apiError{Code: string(typed.Kind()), Message: msg}})
}

// WriteJSON writes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
