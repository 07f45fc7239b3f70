package handlers

import (
	"errors"
	"net/http"

	"courtbook/models"
	"courtbook/services/booking"
	"courtbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case booking.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, "not_found", err.Error(), "")
	case errors.Is(err, booking.ErrSlotUnavailable):
		utils.JSONError(c, http.StatusConflict, "slot_unavailable", err.Error(), "")
	case errors.Is(err, booking.ErrCapacityExceeded):
		utils.JSONError(c, http.StatusConflict, "capacity_exceeded", err.Error(), "")
	case errors.Is(err, booking.ErrDuplicateTimeConflict):
		utils.JSONError(c, http.StatusConflict, "duplicate_time", err.Error(), "")
	case booking.IsValidation(err):
		utils.JSONError(c, http.StatusBadRequest, "validation", err.Error(), "")
	case booking.IsAuthorization(err):
		utils.JSONError(c, http.StatusForbidden, "forbidden", err.Error(), "")
	case errors.Is(err, booking.ErrStoreUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "unavailable", booking.ErrStoreUnavailable.Error(), "")
	default:
		getLogger(c).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal", "Internal Server Error", "")
	}
}

// actorFrom returns the caller set by the auth middleware.
func actorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(utils.ContextActorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok && actor.UserID != ""
}

func requireActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := actorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "authentication required", "")
	}
	return actor, ok
}
