// utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError reports a validation failure on a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RespondWithError writes an error response carrying a stable machine-readable
// code alongside the human-readable message.
func RespondWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":   code,
		"message": message,
	})
}

// RespondWithValidationErrors writes a 400 with the field-level detail.
func RespondWithValidationErrors(c *gin.Context, errs []FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "validation_error",
		"message": "Validation error",
		"errors":  errs,
	})
}
