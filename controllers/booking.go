package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ais-booking-backend/metrics"
	"ais-booking-backend/models"
	"ais-booking-backend/services"
	"ais-booking-backend/storage"
	"ais-booking-backend/utils"
)

// CreateBookingInput is the public submission payload.
type CreateBookingInput struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PreferredDate  string `json:"preferredDate"`
	Service        string `json:"service"`
	AdditionalInfo string `json:"additionalInfo"`
}

func (in *CreateBookingInput) Validate() []utils.FieldError {
	var errs []utils.FieldError
	if strings.TrimSpace(in.FullName) == "" {
		errs = append(errs, utils.FieldError{Field: "fullName", Message: "Full name is required"})
	}
	if !utils.ValidateEmail(in.Email) {
		errs = append(errs, utils.FieldError{Field: "email", Message: "Valid email is required"})
	}
	if !utils.ValidatePhone(in.Phone) {
		errs = append(errs, utils.FieldError{Field: "phone", Message: "Valid phone number is required"})
	}
	if strings.TrimSpace(in.PreferredDate) == "" {
		errs = append(errs, utils.FieldError{Field: "preferredDate", Message: "Preferred date is required"})
	}
	if !models.IsValidService(in.Service) {
		errs = append(errs, utils.FieldError{
			Field:   "service",
			Message: fmt.Sprintf("Service must be one of: %s", strings.Join(models.Services, ", ")),
		})
	}
	return errs
}

// UpdateBookingInput is the admin PATCH payload; nil fields are left alone.
type UpdateBookingInput struct {
	Status     *string `json:"status"`
	AssignedTo *string `json:"assignedTo"`
}

func (in *UpdateBookingInput) Validate() []utils.FieldError {
	var errs []utils.FieldError
	if in.Status != nil && !models.BookingStatus(*in.Status).IsValid() {
		statuses := make([]string, 0, len(models.AllStatuses()))
		for _, s := range models.AllStatuses() {
			statuses = append(statuses, s.String())
		}
		errs = append(errs, utils.FieldError{
			Field:   "status",
			Message: fmt.Sprintf("Status must be one of: %s", strings.Join(statuses, ", ")),
		})
	}
	return errs
}

// BookingController handles the public submission flow and the admin booking
// operations.
type BookingController struct {
	Store    storage.Storage
	Notifier services.Notifier
}

// CreateBooking is the public submission endpoint: validate, resolve or
// create the client by email, persist the booking, then notify operations in
// the background.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "validation_error", "Invalid input: "+err.Error())
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		utils.RespondWithValidationErrors(c, errs)
		return
	}

	client, err := bc.resolveClient(input)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to create booking")
		return
	}

	booking, err := bc.Store.CreateBooking(client.ID, input.Service, input.PreferredDate, input.AdditionalInfo)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to create booking")
		return
	}

	metrics.BookingsCreated.Inc()

	// Fire and forget: the booking stands regardless of delivery.
	go bc.Notifier.BookingCreated(booking, client)

	c.JSON(http.StatusCreated, gin.H{
		"booking": booking,
		"client":  client,
	})
}

// resolveClient looks the client up by email and creates it when absent. Two
// concurrent submissions with the same unseen email can both miss the lookup;
// the storage uniqueness constraint rejects the loser, which then retries the
// lookup instead of surfacing the conflict.
func (bc *BookingController) resolveClient(input CreateBookingInput) (*models.Client, error) {
	client, err := bc.Store.GetClientByEmail(input.Email)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	client, err = bc.Store.CreateClient(input.FullName, input.Email, input.Phone)
	if err == nil {
		return client, nil
	}
	if errors.Is(err, storage.ErrDuplicateEmail) {
		return bc.Store.GetClientByEmail(input.Email)
	}
	return nil, err
}

// GetBooking is public: a customer can look up a booking by its numeric id or
// its BK- public identifier.
func (bc *BookingController) GetBooking(c *gin.Context) {
	param := c.Param("id")

	var booking *models.Booking
	var err error
	if strings.HasPrefix(param, "BK-") {
		booking, err = bc.Store.GetBookingByBookingID(param)
	} else {
		id, parseErr := strconv.ParseUint(param, 10, 64)
		if parseErr != nil {
			utils.RespondWithError(c, http.StatusNotFound, "not_found", "Booking not found")
			return
		}
		booking, err = bc.Store.GetBooking(uint(id))
	}

	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "not_found", "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to fetch booking")
		}
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GetBookings lists all bookings with their clients, newest first. Admin only.
func (bc *BookingController) GetBookings(c *gin.Context) {
	if statusParam := c.Query("status"); statusParam != "" {
		status := models.BookingStatus(statusParam)
		if !status.IsValid() {
			utils.RespondWithValidationErrors(c, []utils.FieldError{
				{Field: "status", Message: "Unknown status filter"},
			})
			return
		}
		bookings, err := bc.Store.GetBookingsByStatus(status)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to fetch bookings")
			return
		}
		c.JSON(http.StatusOK, bookings)
		return
	}

	bookings, err := bc.Store.GetAllBookings()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBooking applies the provided status/assignedTo fields. Admin only.
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "not_found", "Booking not found")
		return
	}

	var input UpdateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "validation_error", "Invalid input: "+err.Error())
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		utils.RespondWithValidationErrors(c, errs)
		return
	}

	update := storage.BookingUpdate{AssignedTo: input.AssignedTo}
	if input.Status != nil {
		status := models.BookingStatus(*input.Status)
		update.Status = &status
	}

	booking, err := bc.Store.UpdateBooking(uint(id), update)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "not_found", "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to update booking")
		}
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DeleteBooking removes a booking. Deleting an already-deleted id is a 404,
// never an error. Admin only.
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "not_found", "Booking not found")
		return
	}

	deleted, err := bc.Store.DeleteBooking(uint(id))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to delete booking")
		return
	}
	if !deleted {
		utils.RespondWithError(c, http.StatusNotFound, "not_found", "Booking not found")
		return
	}

	metrics.BookingsDeleted.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}
