package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content types the transfer engine can act on.
const (
	ContentTypeVibe   = "vibe"
	ContentTypeRating = "rating"
)

// Content is the slice of a vibe or rating document the points engine reads
// and patches. The full documents are owned by the CRUD layer; this backend
// only touches the owner and the boost counters.
//
// BoostCount and DampenCount track how many times each action happened and
// move independently of BoostScore; cost calculation uses BoostScore only.
type Content struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ContentID   string             `bson:"contentId" json:"contentId"`
	ContentType string             `bson:"contentType" json:"contentType"`
	OwnerID     string             `bson:"ownerId" json:"ownerId"`
	BoostScore  int                `bson:"boostScore" json:"boostScore"` // net score, signed
	BoostCount  int                `bson:"boostCount" json:"boostCount"`
	DampenCount int                `bson:"dampenCount" json:"dampenCount"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Follow links a follower to a followed user; fan-out reads the most recent
// followers of the notification trigger's subject.
type Follow struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FollowerID string             `bson:"followerId" json:"followerId"`
	FollowedID string             `bson:"followedId" json:"followedId"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
