package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cater-menu-backend/internal/service"
	"cater-menu-backend/pkg/validator"
)

// respondError maps service failures onto the wire taxonomy: field-level
// validation lists, not-found misses and identity conflicts each have their
// own shape and status. Anything unrecognized is a 500 with a generic body.
func respondError(c *gin.Context, err error) {
	if fieldErrors, ok := validator.AsValidationErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "Validation failed",
			"field_errors": fieldErrors,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrMenuNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu not found"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrDuplicateEvent):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindingError answers a failed ShouldBindJSON. Tag-level validation failures
// carry field errors; anything else is a malformed body.
func bindingError(c *gin.Context, err error) {
	if fieldErrors, ok := validator.FromBindingError(err); ok {
		respondError(c, fieldErrors)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}
