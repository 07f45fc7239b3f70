package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"courtbook/models"
	"courtbook/services/booking"
	"courtbook/utils"
)

// ListSlotsHandler serves GET /api/courts/:courtID/slots?date=YYYY-MM-DD.
func ListSlotsHandler(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			utils.JSONError(c, http.StatusBadRequest, "validation", "date query parameter is required", "expected YYYY-MM-DD")
			return
		}
		slots, err := svc.ListSlots(c.Request.Context(), c.Param("courtID"), date)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"slots": slots})
	}
}

func CreateReservationHandler(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := requireActor(c)
		if !ok {
			return
		}
		var req models.CreateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "validation", "invalid input", err.Error())
			return
		}

		reservation, err := svc.Create(c.Request.Context(), actor, req.TimeSlotID)
		if err != nil {
			getLogger(c).Debug("booking rejected",
				zap.String("userID", actor.UserID),
				zap.String("slotID", req.TimeSlotID),
				zap.Error(err))
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, reservation)
	}
}

func CancelReservationHandler(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := requireActor(c)
		if !ok {
			return
		}
		reservation, err := svc.Cancel(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reservation)
	}
}

func GetReservationHandler(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := requireActor(c)
		if !ok {
			return
		}
		reservation, err := svc.Get(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reservation)
	}
}

// ListReservationsHandler returns the caller's reservations, or all of them
// for staff.
func ListReservationsHandler(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := requireActor(c)
		if !ok {
			return
		}
		reservations, err := svc.ListForActor(c.Request.Context(), actor)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservations": reservations})
	}
}
