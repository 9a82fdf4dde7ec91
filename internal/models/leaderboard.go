package models

// Leaderboard metrics accepted by GetLeaderboard.
const (
	LeaderboardMetricLifetime = "totalPointsEarned"
	LeaderboardMetricBalance  = "currentBalance"
	LeaderboardMetricLevel    = "level"
	LeaderboardMetricStreak   = "streakDays"
	LeaderboardMetricKarma    = "karmaScore"
)

// LeaderboardEntry is one ranked row of a leaderboard response.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"userId"`
	Level      int    `json:"level"`
	StreakDays int    `json:"streakDays"`
	Value      int    `json:"value"` // the requested metric's value
}
