package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vibechecc/points-backend/internal/services"
)

// AdminHandler handles administrative HTTP requests
type AdminHandler struct {
	resetService *services.ResetService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(resetService *services.ResetService) *AdminHandler {
	return &AdminHandler{
		resetService: resetService,
	}
}

// ResetUser handles POST /admin/reset/:userId
func (h *AdminHandler) ResetUser(c *gin.Context) {
	userID := c.Param("userId")

	if err := h.resetService.ResetAccount(c, userID); err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Points account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "userId": userID})
}

// ResetSweep handles POST /admin/reset-sweep
func (h *AdminHandler) ResetSweep(c *gin.Context) {
	count, err := h.resetService.RunSweep(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reset sweep failed", "resetCount": count})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "resetCount": count})
}
