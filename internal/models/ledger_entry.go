package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerEntryType classifies the direction of a balance mutation.
type LedgerEntryType string

const (
	LedgerTypeEarned   LedgerEntryType = "earned"
	LedgerTypeSpent    LedgerEntryType = "spent"
	LedgerTypeTransfer LedgerEntryType = "transfer"
)

// LedgerAction names the specific event behind a ledger entry.
type LedgerAction string

const (
	ActionAccountInit    LedgerAction = "account_init"
	ActionPostVibe       LedgerAction = "post_vibe"
	ActionWriteRating    LedgerAction = "write_rating"
	ActionReceiveRating  LedgerAction = "receive_rating"
	ActionLevelUp        LedgerAction = "level_up"
	ActionDailyBonus     LedgerAction = "daily_bonus"
	ActionBoostCost      LedgerAction = "boost_cost"
	ActionTransferBoost  LedgerAction = "transfer_boost"
	ActionReceiveBoost   LedgerAction = "receive_boost"
	ActionDampenCost     LedgerAction = "dampen_cost"
	ActionTransferDampen LedgerAction = "transfer_dampen"
	ActionReceiveDampen  LedgerAction = "receive_dampen"
)

// LedgerMetadata is the closed set of extra fields an entry may carry.
// Each action populates only the fields relevant to it.
type LedgerMetadata struct {
	ContentType    string `bson:"contentType,omitempty" json:"contentType,omitempty"`
	ContentID      string `bson:"contentId,omitempty" json:"contentId,omitempty"`
	LevelsGained   int    `bson:"levelsGained,omitempty" json:"levelsGained,omitempty"`
	NewLevel       int    `bson:"newLevel,omitempty" json:"newLevel,omitempty"`
	StreakDays     int    `bson:"streakDays,omitempty" json:"streakDays,omitempty"`
	CostPaid       int    `bson:"costPaid,omitempty" json:"costPaid,omitempty"`
	PenaltyApplied int    `bson:"penaltyApplied,omitempty" json:"penaltyApplied,omitempty"`
}

// LedgerEntry is an immutable record of one balance-affecting event.
// Every mutation of a PointsAccount writes exactly one entry; transfers
// write one per side.
type LedgerEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       string             `bson:"userId" json:"userId"`
	Type         LedgerEntryType    `bson:"type" json:"type"`
	Action       LedgerAction       `bson:"action" json:"action"`
	TargetID     string             `bson:"targetId,omitempty" json:"targetId,omitempty"`
	FromUserID   string             `bson:"fromUserId,omitempty" json:"fromUserId,omitempty"`
	ToUserID     string             `bson:"toUserId,omitempty" json:"toUserId,omitempty"`
	Amount       int                `bson:"amount" json:"amount"` // signed
	Multiplier   float64            `bson:"multiplier" json:"multiplier"`
	BalanceAfter int                `bson:"balanceAfter" json:"balanceAfter"`
	Metadata     *LedgerMetadata    `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
