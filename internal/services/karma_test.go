package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vibechecc/points-backend/internal/models"
)

func TestApplyKarma(t *testing.T) {
	tests := []struct {
		event KarmaEvent
		delta int
	}{
		{KarmaHelpfulBoost, 2},
		{KarmaExcessiveDampen, -5},
		{KarmaContentBoosted, 1},
		{KarmaContentDampened, -2},
		{KarmaPositiveRating, 1},
		{KarmaNegativeRating, -1},
	}

	for _, tc := range tests {
		account := &models.PointsAccount{}
		ApplyKarma(account, tc.event, 1)
		assert.Equal(t, tc.delta, account.KarmaScore, "event=%s", tc.event)
	}
}

func TestApplyKarmaClamps(t *testing.T) {
	account := &models.PointsAccount{KarmaScore: 99}
	ApplyKarma(account, KarmaHelpfulBoost, 1)
	assert.Equal(t, 100, account.KarmaScore)

	account.KarmaScore = -98
	ApplyKarma(account, KarmaExcessiveDampen, 2)
	assert.Equal(t, -100, account.KarmaScore)
}

func TestApplyKarmaUnknownEvent(t *testing.T) {
	account := &models.PointsAccount{KarmaScore: 7}
	ApplyKarma(account, KarmaEvent("tipped"), 1)
	assert.Equal(t, 7, account.KarmaScore)
}

func TestApplyKarmaMagnitudeFloor(t *testing.T) {
	account := &models.PointsAccount{}
	ApplyKarma(account, KarmaPositiveRating, 0)
	assert.Equal(t, 1, account.KarmaScore)
}
