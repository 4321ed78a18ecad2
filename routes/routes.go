package routes

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ais-booking-backend/config"
	"ais-booking-backend/controllers"
	"ais-booking-backend/services"
	"ais-booking-backend/session"
	"ais-booking-backend/storage"
)

func allowedOrigins() []string {
	if env := os.Getenv("ALLOWED_ORIGINS"); env != "" {
		return strings.Split(env, ",")
	}
	return []string{"http://localhost:3000"}
}

func SetupRouter(store storage.Storage, sessions *session.Manager, notifier services.Notifier) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authController := &controllers.AuthController{Store: store, Sessions: sessions}
	bookingController := &controllers.BookingController{Store: store, Notifier: notifier}
	clientController := &controllers.ClientController{Store: store}
	analyticsController := &controllers.AnalyticsController{Store: store}
	dashboardController := &controllers.DashboardController{Store: store}

	api := r.Group("/api")
	{
		// Public surface
		api.POST("/bookings", bookingController.CreateBooking)
		api.GET("/bookings/:id", bookingController.GetBooking)
		api.POST("/login", authController.Login)
		api.POST("/logout", authController.Logout)
		api.GET("/auth/check", authController.Check)

		// Administrative surface
		admin := api.Group("")
		admin.Use(sessions.RequireAdmin())
		{
			admin.GET("/bookings", bookingController.GetBookings)
			admin.PATCH("/bookings/:id", bookingController.UpdateBooking)
			admin.DELETE("/bookings/:id", bookingController.DeleteBooking)
			admin.GET("/clients", clientController.GetClients)
			admin.GET("/analytics", analyticsController.GetAnalytics)
			admin.GET("/dashboard", dashboardController.GetDashboardOverview)
		}
	}

	return r
}
