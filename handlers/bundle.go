// File: courtbook/handlers/bundle.go
package handlers

import (
	"courtbook/services/booking"
	"courtbook/services/facility"
	"courtbook/services/notification"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	AdminHandler *AdminHandler

	// Slot and reservation endpoints
	ListSlotsHandler         gin.HandlerFunc
	CreateReservationHandler gin.HandlerFunc
	CancelReservationHandler gin.HandlerFunc
	GetReservationHandler    gin.HandlerFunc
	ListReservationsHandler  gin.HandlerFunc

	// Facility endpoints
	ListFacilitiesHandler gin.HandlerFunc
	GetFacilityHandler    gin.HandlerFunc

	// Live updates
	StreamCourtHandler    gin.HandlerFunc
	StreamFacilityHandler gin.HandlerFunc
}

func NewHandlerBundle(bs booking.BookingService, fs facility.FacilityService, ns notification.NotificationService) *HandlerBundle {
	return &HandlerBundle{
		AdminHandler: NewAdminHandler(fs, bs),

		ListSlotsHandler:         ListSlotsHandler(bs),
		CreateReservationHandler: CreateReservationHandler(bs),
		CancelReservationHandler: CancelReservationHandler(bs),
		GetReservationHandler:    GetReservationHandler(bs),
		ListReservationsHandler:  ListReservationsHandler(bs),

		ListFacilitiesHandler: ListFacilitiesHandler(fs),
		GetFacilityHandler:    GetFacilityHandler(fs),

		StreamCourtHandler:    StreamCourtHandler(ns),
		StreamFacilityHandler: StreamFacilityHandler(ns),
	}
}
