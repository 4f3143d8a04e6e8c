// internal/app/features/logs/handler.go
package logs

import (
	"github.com/dalemusser/squadlog/internal/app/service/logsvc"
	"go.uber.org/zap"
)

// Handler serves training log reads and the owner's mutations.
type Handler struct {
	Logs *logsvc.Service
	Log  *zap.Logger
}

func NewHandler(logs *logsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Logs: logs, Log: logger}
}
