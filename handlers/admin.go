// File: courtbook/handlers/admin.go
package handlers

import (
	"net/http"

	"courtbook/models"
	"courtbook/services/booking"
	"courtbook/services/facility"
	"courtbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates staff-only operations.
type AdminHandler struct {
	FacilityService facility.FacilityService
	BookingService  booking.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(fs facility.FacilityService, bs booking.BookingService) *AdminHandler {
	return &AdminHandler{
		FacilityService: fs,
		BookingService:  bs,
	}
}

// CreateFacilityHandler configures a new facility.
func (ah *AdminHandler) CreateFacilityHandler(c *gin.Context) {
	var input models.FacilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation", "invalid input", err.Error())
		return
	}
	created, err := ah.FacilityService.CreateFacility(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateFacilityHandler replaces a facility's configuration.
func (ah *AdminHandler) UpdateFacilityHandler(c *gin.Context) {
	var input models.FacilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation", "invalid input", err.Error())
		return
	}
	updated, err := ah.FacilityService.UpdateFacility(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CreateCourtHandler adds a court to a facility.
func (ah *AdminHandler) CreateCourtHandler(c *gin.Context) {
	var input models.CourtInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation", "invalid input", err.Error())
		return
	}
	court, err := ah.FacilityService.CreateCourt(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, court)
}

// DeleteReservationHandler removes a reservation outright.
func (ah *AdminHandler) DeleteReservationHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := ah.BookingService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("reservation hard-deleted", zap.String("reservationID", c.Param("id")), zap.String("staffID", actor.UserID))
	c.Status(http.StatusNoContent)
}
