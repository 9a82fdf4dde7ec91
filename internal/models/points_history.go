package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PointsHistory is the daily rollup of a user's ledger activity, written
// once per account per day by the reset job. (userId, date) is unique.
type PointsHistory struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        string             `bson:"userId" json:"userId"`
	Date          string             `bson:"date" json:"date"` // YYYY-MM-DD of the completed day
	PointsEarned  int                `bson:"pointsEarned" json:"pointsEarned"`
	PointsSpent   int                `bson:"pointsSpent" json:"pointsSpent"`
	NetChange     int                `bson:"netChange" json:"netChange"`
	EndingBalance int                `bson:"endingBalance" json:"endingBalance"`
	ActivityCount int                `bson:"activityCount" json:"activityCount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
