package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courtbook/services/facility"
)

func ListFacilitiesHandler(svc facility.FacilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		facilities, err := svc.ListFacilities(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"facilities": facilities})
	}
}

func GetFacilityHandler(svc facility.FacilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := svc.GetFacility(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}
