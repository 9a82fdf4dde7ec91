package services

import (
	"math"

	"github.com/vibechecc/points-backend/internal/config"
	"github.com/vibechecc/points-backend/internal/models"
)

// BoostCost is the dynamic price of the next boost or dampen on a piece of
// content. Cost rises with the distance of the net score from zero, in
// either direction, to discourage runaway amplification.
func BoostCost(cfg *config.EconomyConfig, currentScore int) int {
	distance := math.Abs(float64(currentScore))
	return int(math.Ceil(float64(cfg.BoostBaseCost) * (1 + distance/10)))
}

// TransferShare is the portion of a boost cost credited to the content owner.
func TransferShare(cfg *config.EconomyConfig, cost int) int {
	return int(math.Ceil(float64(cost) * cfg.TransferRatio))
}

// DampenPenalty computes how many points a dampened content's owner loses.
//
// The base penalty is scaled down for low-balance owners, scaled by the
// owner's karma (good karma shields, bad karma amplifies, each factor
// capped), then clamped to the configured maximum and to the owner's
// unprotected balance so the protected floor is never crossed.
func DampenPenalty(cfg *config.EconomyConfig, owner *models.PointsAccount) int {
	effective := owner.EffectiveBalance()
	if effective <= 0 {
		return 0
	}

	balanceMult := float64(effective) / 100
	if balanceMult > 1 {
		balanceMult = 1
	}
	if balanceMult < 0.25 {
		balanceMult = 0.25
	}

	// Good karma shields the owner, at most halving the penalty.
	goodKarma := owner.KarmaScore
	if goodKarma < 0 {
		goodKarma = 0
	}
	if goodKarma > 50 {
		goodKarma = 50
	}
	karmaMult := 1 - float64(goodKarma)/100

	// Bad karma amplifies it, at most doubling.
	badKarma := -owner.KarmaScore
	if badKarma < 0 {
		badKarma = 0
	}
	if badKarma > 100 {
		badKarma = 100
	}
	badKarmaMult := 1 + float64(badKarma)/100

	penalty := int(math.Round(float64(cfg.BaseDampenPenalty) * balanceMult * karmaMult * badKarmaMult))
	if penalty < 1 {
		penalty = 1
	}
	if penalty > cfg.MaxDampenPenalty {
		penalty = cfg.MaxDampenPenalty
	}
	if penalty > effective {
		penalty = effective
	}
	return penalty
}
