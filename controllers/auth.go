package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ais-booking-backend/metrics"
	"ais-booking-backend/session"
	"ais-booking-backend/storage"
	"ais-booking-backend/utils"
)

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthController owns login, logout, and the session introspection endpoint.
type AuthController struct {
	Store    storage.Storage
	Sessions *session.Manager
}

// Login validates the credential pair and starts a session. Unknown username
// and wrong password produce the same response so neither can be probed.
func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "validation_error", "Invalid input")
		return
	}
	if input.Username == "" || input.Password == "" {
		utils.RespondWithValidationErrors(c, []utils.FieldError{
			{Field: "username", Message: "Username and password are required"},
		})
		return
	}

	user, err := ac.Store.GetUserByUsername(input.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.Logins.WithLabelValues("failure").Inc()
			utils.RespondWithError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		metrics.Logins.WithLabelValues("failure").Inc()
		utils.RespondWithError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	if _, err := ac.Sessions.Create(c, user.ID); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Login failed")
		return
	}

	metrics.Logins.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// Logout destroys the session unconditionally.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.Sessions.Destroy(c); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Logout failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// Check reports the session state. Callable by anyone.
func (ac *AuthController) Check(c *gin.Context) {
	if s, ok := ac.Sessions.Current(c); ok {
		c.JSON(http.StatusOK, gin.H{
			"isAuthenticated": true,
			"userId":          s.UserID,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"isAuthenticated": false,
		"userId":          nil,
	})
}
