package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_api_bookings_created_total",
		Help: "Total number of bookings created",
	})

	BookingsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_api_bookings_deleted_total",
		Help: "Total number of bookings deleted",
	})

	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_api_notifications_sent_total",
		Help: "Total number of booking notifications delivered",
	})

	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_api_notifications_failed_total",
		Help: "Total number of booking notifications that failed to deliver",
	})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_api_logins_total",
		Help: "Total number of login attempts by result",
	}, []string{"result"})
)
