package services

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vibechecc/points-backend/internal/config"
	"github.com/vibechecc/points-backend/internal/models"
	"github.com/vibechecc/points-backend/internal/repositories"
)

// sweepBatchSize bounds how many stale accounts one sweep pass loads.
const sweepBatchSize = 500

// ResetService owns the once-per-day account rollover: archiving the prior
// day into PointsHistory, breaking or rewarding streaks, and zeroing the
// daily counters. The transition is idempotent per (account, date); the
// lastResetDate stamp is the processed marker.
type ResetService struct {
	accountRepo repositories.PointsAccountRepository
	ledgerRepo  repositories.LedgerRepository
	historyRepo repositories.PointsHistoryRepository
	cfg         *config.Config
	locks       *AccountLocks
	now         func() time.Time
}

// NewResetService creates a new ResetService
func NewResetService(
	accountRepo repositories.PointsAccountRepository,
	ledgerRepo repositories.LedgerRepository,
	historyRepo repositories.PointsHistoryRepository,
	cfg *config.Config,
	locks *AccountLocks,
) *ResetService {
	return &ResetService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		historyRepo: historyRepo,
		cfg:         cfg,
		locks:       locks,
		now:         time.Now,
	}
}

// resetIfStaleLocked rolls the account over to today if its lastResetDate
// is behind. The caller must hold the account's lock. Returns true when a
// rollover happened.
func (s *ResetService) resetIfStaleLocked(ctx context.Context, account *models.PointsAccount) (bool, error) {
	today := DateString(s.now())
	if account.LastResetDate == today {
		return false, nil
	}

	// Archive the prior active day before counters move. Failure here is
	// logged but does not abort the reset; the rollup is recoverable from
	// the ledger and the unique index prevents double writes.
	if err := s.archiveDay(ctx, account); err != nil {
		log.WithError(err).WithField("user", account.UserID).Warn("daily history archive failed")
	}

	yesterday := previousDate(today)

	// A gap of more than one day breaks the streak. The increment for a
	// continuing streak happens on the next earning event, not here.
	if account.LastActivityDate != "" && account.LastActivityDate < yesterday {
		account.StreakDays = 0
	}

	// A continuing streak that has reached a multiple of 7 earns the
	// weekly bonus, scaled by how many full weeks it spans.
	var bonusEntry *models.LedgerEntry
	if account.LastActivityDate == yesterday && account.StreakDays > 0 && account.StreakDays%7 == 0 {
		bonus := s.cfg.Economy.DailyStreakBonus * (account.StreakDays / 7)
		account.CurrentBalance += bonus
		account.TotalPointsEarned += bonus
		account.Level = LevelForPoints(account.TotalPointsEarned)
		account.Multiplier = MultiplierForPoints(account.TotalPointsEarned)
		bonusEntry = &models.LedgerEntry{
			UserID:       account.UserID,
			Type:         models.LedgerTypeEarned,
			Action:       models.ActionDailyBonus,
			Amount:       bonus,
			Multiplier:   account.Multiplier,
			BalanceAfter: account.CurrentBalance,
			Metadata:     &models.LedgerMetadata{StreakDays: account.StreakDays},
		}
	}

	account.DailyEarnedPoints = 0
	account.DailyPostCount = 0
	account.DailyReviewCount = 0
	account.DailyDampenCount = 0
	account.LastResetDate = today

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return false, err
	}
	if bonusEntry != nil {
		if err := s.ledgerRepo.Create(ctx, bonusEntry); err != nil {
			return false, err
		}
	}
	return true, nil
}

// archiveDay writes the PointsHistory rollup for the account's last active
// day. A no-op when that day was already archived.
func (s *ResetService) archiveDay(ctx context.Context, account *models.PointsAccount) error {
	date := account.LastResetDate
	if date == "" || date >= DateString(s.now()) {
		return nil
	}

	exists, err := s.historyRepo.ExistsForDate(ctx, account.UserID, date)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	start, end, ok := dayWindow(date)
	if !ok {
		return nil
	}
	entries, err := s.ledgerRepo.FindByUserIDAndWindow(ctx, account.UserID, start, end)
	if err != nil {
		return err
	}

	var earned, spent int
	for _, e := range entries {
		if e.Amount >= 0 {
			earned += e.Amount
		} else {
			spent += -e.Amount
		}
	}

	history := &models.PointsHistory{
		UserID:        account.UserID,
		Date:          date,
		PointsEarned:  earned,
		PointsSpent:   spent,
		NetChange:     earned - spent,
		EndingBalance: account.CurrentBalance,
		ActivityCount: len(entries),
	}
	err = s.historyRepo.Create(ctx, history)
	if errors.Is(err, repositories.ErrDuplicate) {
		// Lost a race with another reset path; the row exists, which is
		// all the guard requires.
		return nil
	}
	return err
}

// ResetAccount runs the daily rollover for a single account.
func (s *ResetService) ResetAccount(ctx context.Context, userID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	_, err = s.resetIfStaleLocked(ctx, account)
	return err
}

// RunSweep resets every stale account. One account's failure never stops
// the sweep; it is logged and the sweep moves on. Returns how many accounts
// were rolled over.
func (s *ResetService) RunSweep(ctx context.Context) (int, error) {
	today := DateString(s.now())
	resetCount := 0

	for {
		stale, err := s.accountRepo.FindStale(ctx, today, sweepBatchSize)
		if err != nil {
			return resetCount, err
		}
		if len(stale) == 0 {
			return resetCount, nil
		}

		progressed := false
		for _, account := range stale {
			if err := ctx.Err(); err != nil {
				return resetCount, err
			}
			unlock := s.locks.Lock(account.UserID)
			// Re-read under the lock; a lazy inline reset may have won.
			fresh, err := s.accountRepo.FindByUserID(ctx, account.UserID)
			if err != nil {
				unlock()
				log.WithError(err).WithField("user", account.UserID).Error("sweep: account reload failed")
				continue
			}
			did, err := s.resetIfStaleLocked(ctx, fresh)
			unlock()
			if err != nil {
				log.WithError(err).WithField("user", account.UserID).Error("sweep: reset failed")
				continue
			}
			if did {
				resetCount++
			}
			progressed = true
		}

		// If every account in the batch failed we would loop on the same
		// batch forever; bail out instead.
		if !progressed {
			return resetCount, errors.New("daily reset sweep made no progress")
		}
		if len(stale) < sweepBatchSize {
			return resetCount, nil
		}
	}
}
