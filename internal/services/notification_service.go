package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vibechecc/points-backend/internal/config"
	"github.com/vibechecc/points-backend/internal/models"
	"github.com/vibechecc/points-backend/internal/repositories"
)

// NotificationService records and dispatches outbound notifications.
// Dispatch failure never propagates to the points mutation that caused it.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	followRepo       repositories.FollowRepository
	cfg              *config.Config
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	followRepo repositories.FollowRepository,
	cfg *config.Config,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		followRepo:       followRepo,
		cfg:              cfg,
	}
}

// Dispatch stores a notification for a single recipient.
func (s *NotificationService) Dispatch(ctx context.Context, recipientID, triggerID, notificationType, title, description string, metadata models.NotificationMetadata) error {
	notification := &models.Notification{
		RecipientID: recipientID,
		TriggerID:   triggerID,
		Type:        notificationType,
		Title:       title,
		Description: description,
		Metadata:    metadata,
		DedupeKey:   uuid.NewString(),
		Status:      models.NotificationStatusCreated,
	}
	return s.notificationRepo.Create(ctx, notification)
}

// DispatchAsync fires Dispatch on a background goroutine with its own
// context. Errors are logged and swallowed; the caller's mutation has
// already committed and must not be rolled back.
func (s *NotificationService) DispatchAsync(recipientID, triggerID, notificationType, title, description string, metadata models.NotificationMetadata) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Dispatch(ctx, recipientID, triggerID, notificationType, title, description, metadata); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"recipient": recipientID,
				"type":      notificationType,
			}).Warn("notification dispatch failed")
		}
	}()
}

// FanOutToFollowersAsync notifies the most recent followers of a user about
// new activity. The fan-out is capped; followers beyond the cap are dropped.
func (s *NotificationService) FanOutToFollowersAsync(subjectID, triggerID, notificationType, title, description string, metadata models.NotificationMetadata) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		followers, err := s.followRepo.FindRecentFollowers(ctx, subjectID, s.cfg.Economy.NotificationFanOutLimit)
		if err != nil {
			log.WithError(err).WithField("subject", subjectID).Warn("follower fan-out lookup failed")
			return
		}

		for _, followerID := range followers {
			if followerID == subjectID {
				continue
			}
			if err := s.Dispatch(ctx, followerID, triggerID, notificationType, title, description, metadata); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"recipient": followerID,
					"type":      notificationType,
				}).Warn("fan-out dispatch failed")
			}
		}
	}()
}

// GetByRecipient retrieves a user's notifications with pagination.
func (s *NotificationService) GetByRecipient(ctx context.Context, recipientID string, page, limit int) ([]*models.Notification, error) {
	return s.notificationRepo.FindByRecipient(ctx, recipientID, page, limit)
}
