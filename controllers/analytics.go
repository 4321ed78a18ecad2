package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ais-booking-backend/storage"
	"ais-booking-backend/utils"
)

// AnalyticsController serves the aggregate booking counts. The numbers are
// recomputed from the store on every call, never cached.
type AnalyticsController struct {
	Store storage.Storage
}

// GetAnalytics returns total/pending/completed booking counts and the total
// client count. Admin only.
func (ac *AnalyticsController) GetAnalytics(c *gin.Context) {
	analytics, err := ac.Store.GetBookingAnalytics()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to fetch analytics")
		return
	}
	c.JSON(http.StatusOK, analytics)
}
