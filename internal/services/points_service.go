package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vibechecc/points-backend/internal/config"
	"github.com/vibechecc/points-backend/internal/models"
	"github.com/vibechecc/points-backend/internal/repositories"
)

// AwardResult is the structured outcome of an earning attempt. Cap refusals
// come back with Success false and a reason code, never as an error.
type AwardResult struct {
	Success       bool   `json:"success"`
	Reason        string `json:"reason,omitempty"`
	PointsAwarded int    `json:"pointsAwarded"`
	NewBalance    int    `json:"newBalance"`
	Level         int    `json:"level"`
	LeveledUp     bool   `json:"leveledUp"`
	StreakDays    int    `json:"streakDays"`
}

// awardKind selects which daily counter and cap an earning action uses.
type awardKind int

const (
	awardPost awardKind = iota
	awardReview
	awardReceiveReview
)

// PointsService is the earning engine: it lazily creates accounts, awards
// points for platform activity under the daily caps, tracks streaks, and
// runs the level-up cascade.
type PointsService struct {
	accountRepo repositories.PointsAccountRepository
	ledgerRepo  repositories.LedgerRepository
	historyRepo repositories.PointsHistoryRepository
	reset       *ResetService
	notifier    *NotificationService
	cfg         *config.Config
	locks       *AccountLocks
	now         func() time.Time
}

// NewPointsService creates a new PointsService
func NewPointsService(
	accountRepo repositories.PointsAccountRepository,
	ledgerRepo repositories.LedgerRepository,
	historyRepo repositories.PointsHistoryRepository,
	reset *ResetService,
	notifier *NotificationService,
	cfg *config.Config,
	locks *AccountLocks,
) *PointsService {
	return &PointsService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		historyRepo: historyRepo,
		reset:       reset,
		notifier:    notifier,
		cfg:         cfg,
		locks:       locks,
		now:         time.Now,
	}
}

// GetAccount retrieves a user's points account.
func (s *PointsService) GetAccount(ctx context.Context, userID string) (*models.PointsAccount, error) {
	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	return account, err
}

// InitializeAccount creates the account with the starter grant if it does
// not exist yet, and returns it either way.
func (s *PointsService) InitializeAccount(ctx context.Context, userID string) (*models.PointsAccount, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.ensureAccountLocked(ctx, userID)
}

// ensureAccountLocked loads the account, creating it with the starter grant
// on first use. The caller must hold the account's lock.
func (s *PointsService) ensureAccountLocked(ctx context.Context, userID string) (*models.PointsAccount, error) {
	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	eco := &s.cfg.Economy
	now := s.now()
	starter := eco.StarterBalance
	account = &models.PointsAccount{
		UserID:            userID,
		TotalPointsEarned: starter,
		CurrentBalance:    starter,
		ProtectedPoints:   eco.MinProtectedPoints + eco.NewAccountProtectionBonus,
		LastResetDate:     DateString(now),
		Level:             LevelForPoints(starter),
		Multiplier:        MultiplierForPoints(starter),
		CreatedAt:         now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// Lost a creation race; use the winner's document.
			return s.accountRepo.FindByUserID(ctx, userID)
		}
		return nil, err
	}

	entry := &models.LedgerEntry{
		UserID:       userID,
		Type:         models.LedgerTypeEarned,
		Action:       models.ActionAccountInit,
		Amount:       starter,
		Multiplier:   account.Multiplier,
		BalanceAfter: account.CurrentBalance,
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return account, nil
}

// AwardForPost awards points for publishing a vibe.
func (s *PointsService) AwardForPost(ctx context.Context, userID, contentID string) (*AwardResult, error) {
	return s.award(ctx, userID, models.ActionPostVibe, contentID, s.cfg.Economy.PostPoints, awardPost)
}

// AwardForReview awards points for writing a rating, then schedules a
// fire-and-forget follow-up award for the reviewed content's owner.
// ratingValue is the 1-5 star value of the rating just written.
func (s *PointsService) AwardForReview(ctx context.Context, userID, contentID, contentOwnerID string, ratingValue int) (*AwardResult, error) {
	result, err := s.award(ctx, userID, models.ActionWriteRating, contentID, s.cfg.Economy.ReviewPoints, awardReview)
	if err != nil || !result.Success {
		return result, err
	}

	if contentOwnerID != "" && contentOwnerID != userID {
		// The owner's award must never fail or delay the reviewer's.
		go func() {
			bg, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if _, err := s.AwardForReceivingReview(bg, contentOwnerID, contentID, ratingValue); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"owner":   contentOwnerID,
					"content": contentID,
				}).Warn("receive-review award failed")
			}
		}()
		s.notifier.DispatchAsync(contentOwnerID, contentID, "REVIEW_RECEIVED",
			"Your vibe got a new rating",
			fmt.Sprintf("Someone rated your vibe %d stars", ratingValue),
			models.NotificationMetadata{ContentID: contentID, ActorID: userID})
	}
	return result, nil
}

// AwardForReceivingReview awards points to a content owner whose vibe was
// rated, and adjusts their karma by the rating's tone.
func (s *PointsService) AwardForReceivingReview(ctx context.Context, userID, contentID string, ratingValue int) (*AwardResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	account, err := s.ensureAccountLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.reset.resetIfStaleLocked(ctx, account); err != nil {
		return nil, err
	}

	switch {
	case ratingValue >= 4:
		ApplyKarma(account, KarmaPositiveRating, 1)
	case ratingValue > 0 && ratingValue <= 2:
		ApplyKarma(account, KarmaNegativeRating, 1)
	}

	return s.awardLocked(ctx, account, models.ActionReceiveRating, contentID, s.cfg.Economy.ReceiveReviewPoints, awardReceiveReview)
}

// award is the shared earning path for actions keyed by the caller's own id.
func (s *PointsService) award(ctx context.Context, userID string, action models.LedgerAction, contentID string, basePoints int, kind awardKind) (*AwardResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	account, err := s.ensureAccountLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.reset.resetIfStaleLocked(ctx, account); err != nil {
		return nil, err
	}
	return s.awardLocked(ctx, account, action, contentID, basePoints, kind)
}

// awardLocked performs the cap check, mutation, ledger append, and level-up
// cascade. The caller must hold the account's lock and have run the daily
// reset already.
func (s *PointsService) awardLocked(ctx context.Context, account *models.PointsAccount, action models.LedgerAction, contentID string, basePoints int, kind awardKind) (*AwardResult, error) {
	eco := &s.cfg.Economy

	// Cap checks come before any mutation; a refused call changes nothing.
	if reason := s.capReason(account, kind); reason != "" {
		return &AwardResult{
			Reason:     reason,
			NewBalance: account.CurrentBalance,
			Level:      account.Level,
			StreakDays: account.StreakDays,
		}, nil
	}

	points := ApplyMultiplier(basePoints, account.Multiplier)

	today := DateString(s.now())
	yesterday := previousDate(today)
	switch account.LastActivityDate {
	case today:
		// already active today, streak unchanged
	case yesterday:
		account.StreakDays++
	default:
		account.StreakDays = 1
	}
	account.LastActivityDate = today

	account.CurrentBalance += points
	account.TotalPointsEarned += points
	account.DailyEarnedPoints += points
	switch kind {
	case awardPost:
		account.DailyPostCount++
	case awardReview:
		account.DailyReviewCount++
	}

	earnEntry := &models.LedgerEntry{
		UserID:       account.UserID,
		Type:         models.LedgerTypeEarned,
		Action:       action,
		TargetID:     contentID,
		Amount:       points,
		Multiplier:   account.Multiplier,
		BalanceAfter: account.CurrentBalance,
		Metadata:     &models.LedgerMetadata{ContentID: contentID, StreakDays: account.StreakDays},
	}

	// Level-up cascade: the bonus lands on balance and lifetime, and half
	// of it becomes newly protected points. The level is recomputed once
	// per earning event; a bonus that crosses another threshold pays out
	// on the next event.
	var levelEntry *models.LedgerEntry
	newLevel := LevelForPoints(account.TotalPointsEarned)
	leveledUp := newLevel > account.Level
	if leveledUp {
		gained := newLevel - account.Level
		bonus := eco.LevelUpBonus * gained
		account.CurrentBalance += bonus
		account.TotalPointsEarned += bonus
		account.ProtectedPoints += bonus / 2
		account.Level = newLevel
		levelEntry = &models.LedgerEntry{
			UserID:       account.UserID,
			Type:         models.LedgerTypeEarned,
			Action:       models.ActionLevelUp,
			Amount:       bonus,
			Multiplier:   account.Multiplier,
			BalanceAfter: account.CurrentBalance,
			Metadata:     &models.LedgerMetadata{LevelsGained: gained, NewLevel: newLevel},
		}
	}
	account.Multiplier = MultiplierForPoints(account.TotalPointsEarned)

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Create(ctx, earnEntry); err != nil {
		return nil, err
	}
	if levelEntry != nil {
		if err := s.ledgerRepo.Create(ctx, levelEntry); err != nil {
			return nil, err
		}
	}

	return &AwardResult{
		Success:       true,
		PointsAwarded: points,
		NewBalance:    account.CurrentBalance,
		Level:         account.Level,
		LeveledUp:     leveledUp,
		StreakDays:    account.StreakDays,
	}, nil
}

// capReason returns the refusal reason when a daily cap blocks the action,
// or empty when earning may proceed.
func (s *PointsService) capReason(account *models.PointsAccount, kind awardKind) string {
	eco := &s.cfg.Economy
	switch kind {
	case awardPost:
		if account.DailyPostCount >= eco.DailyPostCap {
			return ReasonDailyPostCap
		}
	case awardReview:
		if account.DailyReviewCount >= eco.DailyReviewCap {
			return ReasonDailyReviewCap
		}
	}
	if account.DailyEarnedPoints >= eco.DailyEarnCap {
		return ReasonDailyEarnCap
	}
	return ""
}

// GetHistory returns a user's ledger entries for the past number of days,
// newest first.
func (s *PointsService) GetHistory(ctx context.Context, userID string, days int) ([]*models.LedgerEntry, error) {
	if days < 1 {
		days = 1
	}
	since := s.now().AddDate(0, 0, -days)
	return s.ledgerRepo.FindByUserID(ctx, userID, since, 200)
}

// GetDailyHistory returns a user's daily rollups, newest first.
func (s *PointsService) GetDailyHistory(ctx context.Context, userID string, limit int) ([]*models.PointsHistory, error) {
	if limit < 1 || limit > 90 {
		limit = 30
	}
	return s.historyRepo.FindByUserID(ctx, userID, limit)
}

// GetLeaderboard returns the top accounts by one of the known metrics.
func (s *PointsService) GetLeaderboard(ctx context.Context, metric string, limit int) ([]*models.LeaderboardEntry, error) {
	switch metric {
	case models.LeaderboardMetricLifetime, models.LeaderboardMetricBalance,
		models.LeaderboardMetricLevel, models.LeaderboardMetricStreak,
		models.LeaderboardMetricKarma:
	case "":
		metric = models.LeaderboardMetricLifetime
	default:
		return nil, ErrInvalidMetric
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	accounts, err := s.accountRepo.FindTop(ctx, metric, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.LeaderboardEntry, 0, len(accounts))
	for i, account := range accounts {
		entries = append(entries, &models.LeaderboardEntry{
			Rank:       i + 1,
			UserID:     account.UserID,
			Level:      account.Level,
			StreakDays: account.StreakDays,
			Value:      metricValue(account, metric),
		})
	}
	return entries, nil
}

func metricValue(account *models.PointsAccount, metric string) int {
	switch metric {
	case models.LeaderboardMetricBalance:
		return account.CurrentBalance
	case models.LeaderboardMetricLevel:
		return account.Level
	case models.LeaderboardMetricStreak:
		return account.StreakDays
	case models.LeaderboardMetricKarma:
		return account.KarmaScore
	default:
		return account.TotalPointsEarned
	}
}
