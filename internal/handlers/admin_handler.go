package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cater-menu-backend/internal/models"
	"cater-menu-backend/internal/service"
	"cater-menu-backend/pkg/logger"
)

type AdminHandler struct {
	events *service.EventService
}

func NewAdminHandler(events *service.EventService) *AdminHandler {
	return &AdminHandler{events: events}
}

func (h *AdminHandler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	event, err := h.events.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

func (h *AdminHandler) UpdateEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	event, err := h.events.Update(id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

func (h *AdminHandler) DeleteEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	if err := h.events.Delete(id); err != nil {
		logger.Error(err, "Failed to delete event", map[string]interface{}{"id": id})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

func eventID(c *gin.Context) (uint, bool) {
	idValue, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return 0, false
	}
	return uint(idValue), true
}
