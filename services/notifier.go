// services/notifier.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"ais-booking-backend/metrics"
	"ais-booking-backend/models"
)

// Notifier tells the operations team about a finalized booking. Delivery is
// best-effort: the booking is already persisted when this runs, and a failure
// here must never surface to the submitting customer.
type Notifier interface {
	BookingCreated(booking *models.Booking, client *models.Client)
}

// TwilioNotifier sends the notification to a fixed operations number via SMS,
// or WhatsApp when the number is in E.164 format.
type TwilioNotifier struct {
	client *twilio.RestClient
	opsTo  string
}

func NewTwilioNotifier() *TwilioNotifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		opsTo: os.Getenv("OPS_PHONE_NUMBER"),
	}
}

func (n *TwilioNotifier) BookingCreated(booking *models.Booking, client *models.Client) {
	message := fmt.Sprintf(
		"New booking %s\nName: %s\nEmail: %s\nPhone: %s\nService: %s\nDate: %s",
		booking.BookingID, client.FullName, client.Email, client.Phone,
		booking.Service, booking.PreferredDate,
	)
	if booking.AdditionalInfo != "" {
		message += "\nInfo: " + booking.AdditionalInfo
	}

	to := n.opsTo
	channel := "sms"
	if strings.HasPrefix(to, "+") {
		to = "whatsapp:" + to
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send booking notification for %s: %v", booking.BookingID, err)
		metrics.NotificationsFailed.Inc()
		return
	}
	if resp.Sid != nil {
		log.Printf("Booking notification sent for %s, SID: %s", booking.BookingID, *resp.Sid)
	} else {
		log.Printf("Booking notification sent for %s, but no SID returned", booking.BookingID)
	}
	metrics.NotificationsSent.Inc()
}

// NoopNotifier stands in when Twilio is not configured and in tests.
type NoopNotifier struct{}

func (NoopNotifier) BookingCreated(booking *models.Booking, client *models.Client) {
	log.Printf("Notifier disabled, skipping notification for booking %s", booking.BookingID)
}
