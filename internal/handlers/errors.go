package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/middleware"
	"github.com/dimitrije/maintenance-api/internal/services"
	"github.com/dimitrije/maintenance-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

var kindStatus = map[lifecycle.Kind]int{
	lifecycle.KindNotFound:          http.StatusNotFound,
	lifecycle.KindForbidden:         http.StatusForbidden,
	lifecycle.KindConflict:          http.StatusConflict,
	lifecycle.KindInvalidTransition: http.StatusConflict,
	lifecycle.KindEquipmentTerminal: http.StatusConflict,
	lifecycle.KindInvalidReference:  http.StatusUnprocessableEntity,
}

// respondError writes the response for a failed service call. Unknown errors
// are logged and reported as fallback.
func respondError(c *drift.Context, logger *zap.Logger, err error, fallback string) {
	var lerr *lifecycle.Error
	if errors.As(err, &lerr) {
		status, ok := kindStatus[lerr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		_ = c.JSON(status, dto.ErrorResponse{
			Code:            string(lerr.Kind),
			Message:         lerr.Message,
			Stage:           string(lerr.Stage),
			EquipmentStatus: string(lerr.EquipmentStatus),
		})
		return
	}

	if errors.Is(err, services.ErrInvalidHealth) || errors.Is(err, services.ErrInvalidRole) {
		c.BadRequest(err.Error())
		return
	}

	logger.Error(fallback, zap.Error(err))
	c.InternalServerError(fallback)
}

func currentActor(c *drift.Context) (lifecycle.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.Unauthorized("not authenticated")
	}
	return actor, ok
}

func parseID(c *drift.Context, param, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.BadRequest("invalid " + what + " id")
		return uuid.Nil, false
	}
	return id, true
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
