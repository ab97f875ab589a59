package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cater-menu-backend/internal/service"
	"cater-menu-backend/pkg/logger"
	"cater-menu-backend/pkg/validator"
)

type MenuHandler struct {
	events    *service.EventService
	validator *validator.MenuValidator
}

func NewMenuHandler(events *service.EventService, v *validator.MenuValidator) *MenuHandler {
	return &MenuHandler{events: events, validator: v}
}

// GetMenu serves the public /:date/:slug route. A malformed request and a
// well-formed miss both end in the same not-found response.
func (h *MenuHandler) GetMenu(c *gin.Context) {
	date := c.Param("date")
	cuisine := c.Param("slug")

	event, err := h.events.Resolve(date, cuisine)
	if err != nil {
		if err != service.ErrMenuNotFound {
			logger.Error(err, "Failed to resolve menu", map[string]interface{}{
				"date": date,
				"slug": cuisine,
			})
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"menu": event})
}

// ListEvents returns the upcoming catalog; ?include=past widens it to
// everything.
func (h *MenuHandler) ListEvents(c *gin.Context) {
	var err error
	var events interface{}

	if c.Query("include") == "past" {
		events, err = h.events.Catalog()
	} else {
		events, err = h.events.ListUpcoming()
	}
	if err != nil {
		logger.Error(err, "Failed to load events", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *MenuHandler) ListPreviousEvents(c *gin.Context) {
	events, err := h.events.ListPast()
	if err != nil {
		logger.Error(err, "Failed to load previous events", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ListCuisines serves the available-cuisine listing with optional search and
// pagination.
func (h *MenuHandler) ListCuisines(c *gin.Context) {
	query, err := h.validator.ValidateSearchQuery(c.Query("q"), c.Query("page"), c.Query("limit"))
	if err != nil {
		respondError(c, err)
		return
	}

	cuisines, pagination, err := h.events.AvailableCuisines(query)
	if err != nil {
		logger.Error(err, "Failed to load available cuisines", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cuisines"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       cuisines,
		"pagination": pagination,
	})
}
