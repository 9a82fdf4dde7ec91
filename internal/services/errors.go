package services

import "errors"

// Hard failures surfaced to the caller. Cap and protection outcomes are not
// errors; they come back as structured results so the client can render them.
var (
	ErrAccountNotFound = errors.New("points account not found")
	ErrContentNotFound = errors.New("content not found")
	ErrSelfAction      = errors.New("cannot boost or dampen your own content")
	ErrInvalidMetric   = errors.New("unknown leaderboard metric")
	ErrTransferFailed  = errors.New("transfer failed")
)

// Structured result reason codes.
const (
	ReasonDailyPostCap    = "daily_post_cap_reached"
	ReasonDailyReviewCap  = "daily_review_cap_reached"
	ReasonDailyEarnCap    = "daily_earn_cap_reached"
	ReasonDailyDampenCap  = "daily_dampen_cap_reached"
	ReasonInsufficient    = "insufficient_balance"
	ReasonProtectedTarget = "protected_target"
	ReasonTargetNoPoints  = "target_no_points_available"
)
