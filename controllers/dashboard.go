package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/now"

	"ais-booking-backend/models"
	"ais-booking-backend/storage"
	"ais-booking-backend/utils"
)

type RecentBooking struct {
	BookingID  string `json:"bookingId"`
	ClientName string `json:"clientName"`
	Service    string `json:"service"`
	Status     string `json:"status"`
	Submitted  string `json:"submitted"` // "Today", "Yesterday", "N days ago"
}

// DashboardController composes the admin overview from the same store reads
// the analytics use.
type DashboardController struct {
	Store storage.Storage
}

// GetDashboardOverview returns bookings-this-month, the per-status breakdown,
// the client total, and the five most recent bookings. Admin only.
func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	monthStart := now.BeginningOfMonth()
	bookingsThisMonth, err := dc.Store.CountBookingsSince(monthStart)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to fetch dashboard data")
		return
	}

	statusCounts, err := dc.Store.CountBookingsByStatus()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to fetch dashboard data")
		return
	}
	breakdown := make(map[string]int64, len(models.AllStatuses()))
	for _, s := range models.AllStatuses() {
		breakdown[s.String()] = statusCounts[s]
	}

	analytics, err := dc.Store.GetBookingAnalytics()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to fetch dashboard data")
		return
	}

	bookings, err := dc.Store.GetAllBookings()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to fetch dashboard data")
		return
	}

	recent := make([]RecentBooking, 0, 5)
	for _, b := range bookings {
		if len(recent) >= 5 {
			break
		}
		recent = append(recent, RecentBooking{
			BookingID:  b.BookingID,
			ClientName: b.Client.FullName,
			Service:    b.Service,
			Status:     b.Status.String(),
			Submitted:  relativeDay(b.CreatedAt),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"bookingsThisMonth": bookingsThisMonth,
		"statusBreakdown":   breakdown,
		"totalClients":      analytics.ActiveClients,
		"recentBookings":    recent,
	})
}

func relativeDay(t time.Time) string {
	daysAgo := int(time.Since(t).Hours() / 24)
	switch daysAgo {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", daysAgo)
	}
}
