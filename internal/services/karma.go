package services

import "github.com/vibechecc/points-backend/internal/models"

// KarmaEvent names a reputation-affecting occurrence.
type KarmaEvent string

const (
	KarmaHelpfulBoost    KarmaEvent = "helpful_boost"
	KarmaExcessiveDampen KarmaEvent = "excessive_dampen"
	KarmaContentBoosted  KarmaEvent = "content_boosted"
	KarmaContentDampened KarmaEvent = "content_dampened"
	KarmaPositiveRating  KarmaEvent = "positive_rating"
	KarmaNegativeRating  KarmaEvent = "negative_rating"
)

const (
	karmaMin = -100
	karmaMax = 100
)

// karmaDeltas are the fixed signed adjustments per event.
var karmaDeltas = map[KarmaEvent]int{
	KarmaHelpfulBoost:    2,
	KarmaExcessiveDampen: -5,
	KarmaContentBoosted:  1,
	KarmaContentDampened: -2,
	KarmaPositiveRating:  1,
	KarmaNegativeRating:  -1,
}

// ApplyKarma mutates the account's karma score for the given event, scaled
// by magnitude (1 for a single occurrence), and clamps the result to
// [-100, 100]. Unknown events are ignored.
func ApplyKarma(account *models.PointsAccount, event KarmaEvent, magnitude int) {
	delta, ok := karmaDeltas[event]
	if !ok {
		return
	}
	if magnitude < 1 {
		magnitude = 1
	}
	score := account.KarmaScore + delta*magnitude
	if score > karmaMax {
		score = karmaMax
	}
	if score < karmaMin {
		score = karmaMin
	}
	account.KarmaScore = score
}
