package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cater-menu-backend/internal/models"
	"cater-menu-backend/internal/service"
	"cater-menu-backend/pkg/logger"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		if err != service.ErrInvalidCredentials {
			logger.Warn("Admin login rejected", map[string]interface{}{"error": err.Error()})
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
