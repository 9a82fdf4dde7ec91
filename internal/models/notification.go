package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification statuses.
const (
	NotificationStatusCreated = "CREATED"
	NotificationStatusFailed  = "FAILED"
)

// NotificationMetadata is the closed payload attached to a notification.
type NotificationMetadata struct {
	ContentType string `bson:"contentType,omitempty" json:"contentType,omitempty"`
	ContentID   string `bson:"contentId,omitempty" json:"contentId,omitempty"`
	ActorID     string `bson:"actorId,omitempty" json:"actorId,omitempty"`
	Amount      int    `bson:"amount,omitempty" json:"amount,omitempty"`
}

// Notification represents an outbound notification to a user. Dispatch is
// fire-and-forget: failures are logged, never surfaced to the caller.
type Notification struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	RecipientID string               `bson:"recipientId" json:"recipientId"`
	TriggerID   string               `bson:"triggerId" json:"triggerId"` // content or user id that caused it
	Type        string               `bson:"type" json:"type"`           // BOOST_RECEIVED, DAMPEN_RECEIVED, REVIEW_RECEIVED, ...
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Metadata    NotificationMetadata `bson:"metadata" json:"metadata"`
	DedupeKey   string               `bson:"dedupeKey" json:"dedupeKey"`
	Status      string               `bson:"status" json:"status"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}
