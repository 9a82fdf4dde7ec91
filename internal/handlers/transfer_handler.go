package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vibechecc/points-backend/internal/middleware"
	"github.com/vibechecc/points-backend/internal/services"
)

// TransferHandler handles boost and dampen HTTP requests
type TransferHandler struct {
	transferService *services.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *services.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

type transferRequest struct {
	ContentType string `json:"contentType" binding:"required,oneof=vibe rating"`
	ContentID   string `json:"contentId" binding:"required"`
}

// Boost handles POST /points/boost
func (h *TransferHandler) Boost(c *gin.Context) {
	userID := middleware.UserID(c)

	var request transferRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.transferService.Boost(c, userID, request.ContentType, request.ContentID)
	if err != nil {
		h.writeTransferError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Dampen handles POST /points/dampen
func (h *TransferHandler) Dampen(c *gin.Context) {
	userID := middleware.UserID(c)

	var request transferRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.transferService.Dampen(c, userID, request.ContentType, request.ContentID)
	if err != nil {
		h.writeTransferError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCost handles GET /points/cost/:contentType/:contentId
func (h *TransferHandler) GetCost(c *gin.Context) {
	contentType := c.Param("contentType")
	contentID := c.Param("contentId")

	cost, err := h.transferService.GetBoostCost(c, contentType, contentID)
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cost"})
		return
	}

	c.JSON(http.StatusOK, cost)
}

func (h *TransferHandler) writeTransferError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrContentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
	case errors.Is(err, services.ErrSelfAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot act on your own content"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transfer failed"})
	}
}
