package services

import "math"

// Level and multiplier are pure functions of lifetime points so they can be
// recomputed from scratch after any mutation.

// LevelForPoints derives the level from lifetime earned points.
// Level 1 starts at 0 and each level spans 100 lifetime points.
func LevelForPoints(totalPointsEarned int) int {
	if totalPointsEarned < 0 {
		return 1
	}
	return totalPointsEarned/100 + 1
}

// MultiplierForPoints derives the earn-rate multiplier from lifetime earned
// points. New accounts earn near 1.0; the rate decays logarithmically toward
// a floor of 0.1 so high-lifetime accounts earn proportionally less.
func MultiplierForPoints(totalPointsEarned int) float64 {
	if totalPointsEarned < 0 {
		totalPointsEarned = 0
	}
	m := 1 / (1 + math.Log10(float64(totalPointsEarned)/100+1))
	if m < 0.1 {
		return 0.1
	}
	return m
}

// ApplyMultiplier computes the points actually awarded for a base amount.
func ApplyMultiplier(basePoints int, multiplier float64) int {
	return int(math.Floor(float64(basePoints) * multiplier))
}
