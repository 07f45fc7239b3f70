package routes

import (
	"net/http"
	"time"

	"courtbook/handlers"
	"courtbook/middleware"
	"courtbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSlotRoutes registers slot listing. Listing is public.
func RegisterSlotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/courts")
	{
		api.GET("/:courtID/slots", hb.ListSlotsHandler)
	}
}

// RegisterReservationRoutes registers booking endpoints.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reservations")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.CreateReservationHandler)
		api.GET("", hb.ListReservationsHandler)
		api.GET("/:id", hb.GetReservationHandler)
		api.DELETE("/:id", hb.CancelReservationHandler)
	}
}

// RegisterStreamRoutes registers the server-sent event subscriptions.
func RegisterStreamRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/stream")
	{
		api.GET("/courts/:courtID/:date", hb.StreamCourtHandler)
		api.GET("/facilities/:facilityID/:date", hb.StreamFacilityHandler)
	}
}

// RegisterFacilityRoutes registers the public facility catalogue.
func RegisterFacilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/facilities")
	{
		api.GET("", hb.ListFacilitiesHandler)
		api.GET("/:id", hb.GetFacilityHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
	})
}

// RegisterMetricsRoute exposes the in-process counter totals.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", func(c *gin.Context) {
		counters, err := utils.MetricsSnapshot(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"counters": counters})
	})
}

// RegisterAdminRoutes sets up endpoints for staff operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.RequireStaff())
		adminGroup.POST("/facilities", hb.AdminHandler.CreateFacilityHandler)
		adminGroup.PUT("/facilities/:id", hb.AdminHandler.UpdateFacilityHandler)
		adminGroup.POST("/facilities/:id/courts", hb.AdminHandler.CreateCourtHandler)
		adminGroup.DELETE("/reservations/:id", hb.AdminHandler.DeleteReservationHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
	RegisterSlotRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterStreamRoutes(r, hb)
	RegisterFacilityRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
