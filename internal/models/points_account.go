package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PointsAccount is a user's points ledger summary. One document per user,
// created lazily on the first qualifying action.
type PointsAccount struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID            string             `bson:"userId" json:"userId"`
	TotalPointsEarned int                `bson:"totalPointsEarned" json:"totalPointsEarned"` // lifetime earnings, never decreases
	CurrentBalance    int                `bson:"currentBalance" json:"currentBalance"`       // spendable balance, never negative
	ProtectedPoints   int                `bson:"protectedPoints" json:"protectedPoints"`     // floor dampening cannot cross
	DailyEarnedPoints int                `bson:"dailyEarnedPoints" json:"dailyEarnedPoints"`
	DailyPostCount    int                `bson:"dailyPostCount" json:"dailyPostCount"`
	DailyReviewCount  int                `bson:"dailyReviewCount" json:"dailyReviewCount"`
	DailyDampenCount  int                `bson:"dailyDampenCount" json:"dailyDampenCount"`
	LastResetDate     string             `bson:"lastResetDate" json:"lastResetDate"`       // YYYY-MM-DD
	LastActivityDate  string             `bson:"lastActivityDate" json:"lastActivityDate"` // YYYY-MM-DD
	Level             int                `bson:"level" json:"level"`
	Multiplier        float64            `bson:"multiplier" json:"multiplier"`
	StreakDays        int                `bson:"streakDays" json:"streakDays"`
	KarmaScore        int                `bson:"karmaScore" json:"karmaScore"` // bounded [-100, 100]
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AccountAgeDays returns how many whole days ago the account was created,
// used for the new-user dampening protection window.
func (a *PointsAccount) AccountAgeDays(now time.Time) int {
	return int(now.Sub(a.CreatedAt).Hours() / 24)
}

// EffectiveBalance is the portion of the balance that dampening can touch.
func (a *PointsAccount) EffectiveBalance() int {
	if a.CurrentBalance <= a.ProtectedPoints {
		return 0
	}
	return a.CurrentBalance - a.ProtectedPoints
}
