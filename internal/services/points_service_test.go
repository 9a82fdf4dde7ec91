package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibechecc/points-backend/internal/models"
)

func TestInitializeAccountStarterGrant(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	account, err := env.points.InitializeAccount(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, 50, account.CurrentBalance)
	assert.Equal(t, 50, account.TotalPointsEarned)
	assert.Equal(t, 50, account.ProtectedPoints)
	assert.Equal(t, 1, account.Level)
	assert.Equal(t, env.today(), account.LastResetDate)

	inits := env.ledger.byAction("alice", models.ActionAccountInit)
	require.Len(t, inits, 1)
	assert.Equal(t, 50, inits[0].Amount)
	assert.Equal(t, 50, inits[0].BalanceAfter)

	// A second call returns the existing account without another grant.
	again, err := env.points.InitializeAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 50, again.CurrentBalance)
	assert.Len(t, env.ledger.byAction("alice", models.ActionAccountInit), 1)
}

func TestAwardForPost(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, err := env.points.AwardForPost(ctx, "alice", "vibe-1")
	require.NoError(t, err)
	require.True(t, result.Success)

	// Starter total is 50, so the multiplier has already decayed a bit.
	expected := ApplyMultiplier(10, MultiplierForPoints(50))
	assert.Equal(t, expected, result.PointsAwarded)
	assert.Equal(t, 50+expected, result.NewBalance)
	assert.Equal(t, 1, result.StreakDays)

	account := env.mustAccount("alice")
	assert.Equal(t, 1, account.DailyPostCount)
	assert.Equal(t, expected, account.DailyEarnedPoints)
	assert.Equal(t, env.today(), account.LastActivityDate)

	earns := env.ledger.byAction("alice", models.ActionPostVibe)
	require.Len(t, earns, 1)
	assert.Equal(t, expected, earns[0].Amount)
	assert.Equal(t, "vibe-1", earns[0].TargetID)
}

func TestAwardForPostDailyPostCap(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.seedAccount(&models.PointsAccount{
		UserID:            "alice",
		TotalPointsEarned: 200,
		CurrentBalance:    120,
		DailyPostCount:    5,
	})

	result, err := env.points.AwardForPost(ctx, "alice", "vibe-1")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonDailyPostCap, result.Reason)
	assert.Equal(t, 120, result.NewBalance)

	// A refused award changes nothing.
	account := env.mustAccount("alice")
	assert.Equal(t, 120, account.CurrentBalance)
	assert.Equal(t, 5, account.DailyPostCount)
	assert.Empty(t, env.ledger.byAction("alice", models.ActionPostVibe))
}

func TestAwardDailyEarnCap(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.seedAccount(&models.PointsAccount{
		UserID:            "alice",
		TotalPointsEarned: 500,
		CurrentBalance:    300,
		DailyEarnedPoints: 100,
	})

	result, err := env.points.AwardForPost(ctx, "alice", "vibe-1")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonDailyEarnCap, result.Reason)
	assert.Equal(t, 300, env.mustAccount("alice").CurrentBalance)
}

func TestAwardLevelUpCascade(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.seedAccount(&models.PointsAccount{
		UserID:            "alice",
		TotalPointsEarned: 95,
		CurrentBalance:    95,
	})

	earned := ApplyMultiplier(10, MultiplierForPoints(95))
	require.Greater(t, earned, 4, "award must cross the level threshold")

	result, err := env.points.AwardForPost(ctx, "alice", "vibe-1")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 2, result.Level)
	assert.Equal(t, 95+earned+50, result.NewBalance)

	account := env.mustAccount("alice")
	assert.Equal(t, 95+earned+50, account.TotalPointsEarned)
	assert.Equal(t, 25, account.ProtectedPoints)
	assert.InDelta(t, MultiplierForPoints(account.TotalPointsEarned), account.Multiplier, 0.0001)

	levelUps := env.ledger.byAction("alice", models.ActionLevelUp)
	require.Len(t, levelUps, 1)
	assert.Equal(t, 50, levelUps[0].Amount)
	require.NotNil(t, levelUps[0].Metadata)
	assert.Equal(t, 2, levelUps[0].Metadata.NewLevel)
	assert.Equal(t, 1, levelUps[0].Metadata.LevelsGained)
}

func TestStreakContinuesFromYesterday(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.seedAccount(&models.PointsAccount{
		UserID:            "alice",
		TotalPointsEarned: 200,
		CurrentBalance:    150,
		LastActivityDate:  env.yesterday(),
		StreakDays:        3,
	})

	result, err := env.points.AwardForPost(ctx, "alice", "vibe-1")
	require.NoError(t, err)
	assert.Equal(t, 4, result.StreakDays)

	// A second award on the same day does not double-count the streak.
	result, err = env.points.AwardForPost(ctx, "alice", "vibe-2")
	require.NoError(t, err)
	assert.Equal(t, 4, result.StreakDays)
}

func TestStreakRestartsAfterGap(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.seedAccount(&models.PointsAccount{
		UserID:            "alice",
		TotalPointsEarned: 200,
		CurrentBalance:    150,
		LastActivityDate:  "2025-06-11",
		StreakDays:        9,
	})

	result, err := env.points.AwardForPost(ctx, "alice", "vibe-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakDays)
}

func TestAwardForReceivingReviewKarma(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.seedAccount(&models.PointsAccount{
		UserID:            "bob",
		TotalPointsEarned: 200,
		CurrentBalance:    150,
	})

	_, err := env.points.AwardForReceivingReview(ctx, "bob", "vibe-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, env.mustAccount("bob").KarmaScore)

	_, err = env.points.AwardForReceivingReview(ctx, "bob", "vibe-2", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, env.mustAccount("bob").KarmaScore)

	// A middling rating moves nothing.
	_, err = env.points.AwardForReceivingReview(ctx, "bob", "vibe-3", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, env.mustAccount("bob").KarmaScore)
}

func TestGetLeaderboard(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.seedAccount(&models.PointsAccount{UserID: "a", TotalPointsEarned: 100, CurrentBalance: 10})
	env.seedAccount(&models.PointsAccount{UserID: "b", TotalPointsEarned: 300, CurrentBalance: 5})
	env.seedAccount(&models.PointsAccount{UserID: "c", TotalPointsEarned: 200, CurrentBalance: 80})

	entries, err := env.points.GetLeaderboard(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "b", entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 300, entries[0].Value)
	assert.Equal(t, "c", entries[1].UserID)
	assert.Equal(t, "a", entries[2].UserID)

	byBalance, err := env.points.GetLeaderboard(ctx, models.LeaderboardMetricBalance, 2)
	require.NoError(t, err)
	require.Len(t, byBalance, 2)
	assert.Equal(t, "c", byBalance[0].UserID)
	assert.Equal(t, 80, byBalance[0].Value)

	_, err = env.points.GetLeaderboard(ctx, "charisma", 10)
	assert.ErrorIs(t, err, ErrInvalidMetric)
}

func TestGetAccountNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.points.GetAccount(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
