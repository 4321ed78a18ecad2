package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ais-booking-backend/storage"
	"ais-booking-backend/utils"
)

// ClientController exposes the read side of the client registry. Clients are
// only ever created through the booking submission flow.
type ClientController struct {
	Store storage.Storage
}

// GetClients lists all clients, newest first. Admin only.
func (cc *ClientController) GetClients(c *gin.Context) {
	clients, err := cc.Store.GetAllClients()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to fetch clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}
