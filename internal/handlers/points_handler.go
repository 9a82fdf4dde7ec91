package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vibechecc/points-backend/internal/middleware"
	"github.com/vibechecc/points-backend/internal/services"
)

// PointsHandler handles points-related HTTP requests
type PointsHandler struct {
	pointsService       *services.PointsService
	notificationService *services.NotificationService
}

// NewPointsHandler creates a new PointsHandler
func NewPointsHandler(pointsService *services.PointsService, notificationService *services.NotificationService) *PointsHandler {
	return &PointsHandler{
		pointsService:       pointsService,
		notificationService: notificationService,
	}
}

// GetMe handles GET /points/me
func (h *PointsHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)

	account, err := h.pointsService.GetAccount(c, userID)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Points account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get points account"})
		return
	}

	c.JSON(http.StatusOK, account)
}

// Initialize handles POST /points/initialize
func (h *PointsHandler) Initialize(c *gin.Context) {
	userID := middleware.UserID(c)

	account, err := h.pointsService.InitializeAccount(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize points account"})
		return
	}

	c.JSON(http.StatusOK, account)
}

// AwardPost handles POST /points/award/post
func (h *PointsHandler) AwardPost(c *gin.Context) {
	userID := middleware.UserID(c)

	var request struct {
		ContentID string `json:"contentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.pointsService.AwardForPost(c, userID, request.ContentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to award points"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// AwardReview handles POST /points/award/review
func (h *PointsHandler) AwardReview(c *gin.Context) {
	userID := middleware.UserID(c)

	var request struct {
		ContentID      string `json:"contentId" binding:"required"`
		ContentOwnerID string `json:"contentOwnerId" binding:"required"`
		RatingValue    int    `json:"ratingValue" binding:"required,min=1,max=5"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.pointsService.AwardForReview(c, userID, request.ContentID, request.ContentOwnerID, request.RatingValue)
	if err != nil {
		if errors.Is(err, services.ErrSelfAction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot review your own content"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to award points"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetHistory handles GET /points/history
func (h *PointsHandler) GetHistory(c *gin.Context) {
	userID := middleware.UserID(c)

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	entries, err := h.pointsService.GetHistory(c, userID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get points history"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetDailyHistory handles GET /points/history/daily
func (h *PointsHandler) GetDailyHistory(c *gin.Context) {
	userID := middleware.UserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	history, err := h.pointsService.GetDailyHistory(c, userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get daily history"})
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetNotifications handles GET /points/notifications
func (h *PointsHandler) GetNotifications(c *gin.Context) {
	userID := middleware.UserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	notifications, err := h.notificationService.GetByRecipient(c, userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// GetLeaderboard handles GET /leaderboard
func (h *PointsHandler) GetLeaderboard(c *gin.Context) {
	metric := c.DefaultQuery("metric", "totalPointsEarned")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.pointsService.GetLeaderboard(c, metric, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMetric) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown leaderboard metric"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get leaderboard"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
