package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibechecc/points-backend/internal/config"
	"github.com/vibechecc/points-backend/internal/models"
	"github.com/vibechecc/points-backend/internal/repositories"
)

// TransferResult is the structured outcome of a boost or dampen attempt.
// Expected refusals (insufficient balance, protection, caps) come back with
// Success false and a reason code, never as an error.
type TransferResult struct {
	Success           bool   `json:"success"`
	Reason            string `json:"reason,omitempty"`
	NewBalance        int    `json:"newBalance"`
	NewScore          int    `json:"newScore"`
	NextCost          int    `json:"nextCost"`
	PointsTransferred int    `json:"pointsTransferred,omitempty"`
	PenaltyApplied    int    `json:"penaltyApplied,omitempty"`
	Summary           string `json:"summary,omitempty"`
}

// CostInfo quotes the current price of acting on a piece of content.
type CostInfo struct {
	BoostCost    int `json:"boostCost"`
	DampenCost   int `json:"dampenCost"`
	CurrentScore int `json:"currentScore"`
}

// TransferService implements boost and dampen: user-spent actions that move
// a content item's score and transfer or deduct points between the actor
// and the content's owner, under the protection rules.
type TransferService struct {
	accountRepo repositories.PointsAccountRepository
	ledgerRepo  repositories.LedgerRepository
	contentRepo repositories.ContentRepository
	points      *PointsService
	reset       *ResetService
	notifier    *NotificationService
	cfg         *config.Config
	locks       *AccountLocks
	now         func() time.Time
}

// NewTransferService creates a new TransferService
func NewTransferService(
	accountRepo repositories.PointsAccountRepository,
	ledgerRepo repositories.LedgerRepository,
	contentRepo repositories.ContentRepository,
	points *PointsService,
	reset *ResetService,
	notifier *NotificationService,
	cfg *config.Config,
	locks *AccountLocks,
) *TransferService {
	return &TransferService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		contentRepo: contentRepo,
		points:      points,
		reset:       reset,
		notifier:    notifier,
		cfg:         cfg,
		locks:       locks,
		now:         time.Now,
	}
}

// GetBoostCost quotes the next boost/dampen cost for a piece of content.
func (s *TransferService) GetBoostCost(ctx context.Context, contentType, contentID string) (*CostInfo, error) {
	content, err := s.findContent(ctx, contentType, contentID)
	if err != nil {
		return nil, err
	}
	cost := BoostCost(&s.cfg.Economy, content.BoostScore)
	return &CostInfo{
		BoostCost:    cost,
		DampenCost:   cost,
		CurrentScore: content.BoostScore,
	}, nil
}

func (s *TransferService) findContent(ctx context.Context, contentType, contentID string) (*models.Content, error) {
	content, err := s.contentRepo.FindByID(ctx, contentType, contentID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrContentNotFound
	}
	return content, err
}

// Boost spends the actor's points to push a content item's score up by one.
// Half the cost (rounded up) is transferred to the content's owner; both
// sides gain karma.
func (s *TransferService) Boost(ctx context.Context, actorID, contentType, contentID string) (*TransferResult, error) {
	eco := &s.cfg.Economy

	content, err := s.findContent(ctx, contentType, contentID)
	if err != nil {
		return nil, err
	}
	if content.OwnerID == actorID {
		return nil, ErrSelfAction
	}

	unlock := s.locks.LockPair(actorID, content.OwnerID)
	defer unlock()

	actor, owner, err := s.loadPair(ctx, actorID, content.OwnerID)
	if err != nil {
		return nil, err
	}

	cost := BoostCost(eco, content.BoostScore)
	if actor.CurrentBalance < cost {
		return refusal(ReasonInsufficient, actor, content.BoostScore, cost), nil
	}

	share := TransferShare(eco, cost)
	burn := cost - share
	balanceBefore := actor.CurrentBalance

	actor.CurrentBalance -= cost
	owner.CurrentBalance += share
	ApplyKarma(actor, KarmaHelpfulBoost, 1)
	ApplyKarma(owner, KarmaContentBoosted, 1)

	if err := s.commitPair(ctx, actor, owner); err != nil {
		return nil, err
	}
	if err := s.contentRepo.ApplyBoost(ctx, contentType, contentID, 1); err != nil {
		return nil, fmt.Errorf("%w: content patch: %v", ErrTransferFailed, err)
	}

	meta := &models.LedgerMetadata{ContentType: contentType, ContentID: contentID, CostPaid: cost}
	entries := []*models.LedgerEntry{
		{
			UserID:       actorID,
			Type:         models.LedgerTypeSpent,
			Action:       models.ActionBoostCost,
			TargetID:     contentID,
			Amount:       -burn,
			BalanceAfter: balanceBefore - burn,
			Metadata:     meta,
		},
		{
			UserID:       actorID,
			Type:         models.LedgerTypeTransfer,
			Action:       models.ActionTransferBoost,
			TargetID:     contentID,
			FromUserID:   actorID,
			ToUserID:     owner.UserID,
			Amount:       -share,
			BalanceAfter: actor.CurrentBalance,
			Metadata:     meta,
		},
		{
			UserID:       owner.UserID,
			Type:         models.LedgerTypeTransfer,
			Action:       models.ActionReceiveBoost,
			TargetID:     contentID,
			FromUserID:   actorID,
			ToUserID:     owner.UserID,
			Amount:       share,
			BalanceAfter: owner.CurrentBalance,
			Metadata:     meta,
		},
	}
	if err := s.appendEntries(ctx, entries); err != nil {
		return nil, err
	}

	newScore := content.BoostScore + 1
	s.notifier.DispatchAsync(owner.UserID, contentID, "BOOST_RECEIVED",
		"Your content was boosted",
		fmt.Sprintf("A booster sent you %d points", share),
		models.NotificationMetadata{ContentType: contentType, ContentID: contentID, ActorID: actorID, Amount: share})
	s.notifier.FanOutToFollowersAsync(actorID, contentID, "FOLLOWED_USER_BOOSTED",
		"Someone you follow boosted a vibe",
		"Check out the vibe they thought deserved a push",
		models.NotificationMetadata{ContentType: contentType, ContentID: contentID, ActorID: actorID})

	return &TransferResult{
		Success:           true,
		NewBalance:        actor.CurrentBalance,
		NewScore:          newScore,
		NextCost:          BoostCost(eco, newScore),
		PointsTransferred: share,
		Summary:           fmt.Sprintf("Boosted for %d points; %d transferred to the creator", cost, share),
	}, nil
}

// Dampen spends the actor's points to push a content item's score down by
// one and penalizes the owner's unprotected balance. Protected targets are
// rejected outright with nothing charged.
func (s *TransferService) Dampen(ctx context.Context, actorID, contentType, contentID string) (*TransferResult, error) {
	eco := &s.cfg.Economy

	content, err := s.findContent(ctx, contentType, contentID)
	if err != nil {
		return nil, err
	}
	if content.OwnerID == actorID {
		return nil, ErrSelfAction
	}

	unlock := s.locks.LockPair(actorID, content.OwnerID)
	defer unlock()

	actor, owner, err := s.loadPair(ctx, actorID, content.OwnerID)
	if err != nil {
		return nil, err
	}

	cost := BoostCost(eco, content.BoostScore)
	switch {
	case actor.DailyDampenCount >= eco.MaxDampenPerDay:
		return refusal(ReasonDailyDampenCap, actor, content.BoostScore, cost), nil
	case actor.CurrentBalance < cost:
		return refusal(ReasonInsufficient, actor, content.BoostScore, cost), nil
	case owner.EffectiveBalance() == 0:
		return refusal(ReasonTargetNoPoints, actor, content.BoostScore, cost), nil
	case s.isProtected(owner):
		return refusal(ReasonProtectedTarget, actor, content.BoostScore, cost), nil
	}

	penalty := DampenPenalty(eco, owner)

	// The 6th-and-later dampen of the day costs karma; up to that point a
	// dampen earns the same goodwill as a boost.
	excessive := actor.DailyDampenCount >= eco.ExcessiveDampenThreshold

	actor.CurrentBalance -= cost
	actor.DailyDampenCount++
	if excessive {
		ApplyKarma(actor, KarmaExcessiveDampen, 1)
	} else {
		ApplyKarma(actor, KarmaHelpfulBoost, 1)
	}
	owner.CurrentBalance -= penalty
	ApplyKarma(owner, KarmaContentDampened, 1)

	if err := s.commitPair(ctx, actor, owner); err != nil {
		return nil, err
	}
	if err := s.contentRepo.ApplyBoost(ctx, contentType, contentID, -1); err != nil {
		return nil, fmt.Errorf("%w: content patch: %v", ErrTransferFailed, err)
	}

	meta := &models.LedgerMetadata{ContentType: contentType, ContentID: contentID, CostPaid: cost, PenaltyApplied: penalty}
	entries := []*models.LedgerEntry{
		{
			UserID:       actorID,
			Type:         models.LedgerTypeSpent,
			Action:       models.ActionDampenCost,
			TargetID:     contentID,
			Amount:       -cost,
			BalanceAfter: actor.CurrentBalance,
			Metadata:     meta,
		},
		{
			// The actor-side record of the penalty they caused. The cost
			// above is the actor's only balance change; this entry's
			// amount is zero and the metadata carries the penalty.
			UserID:       actorID,
			Type:         models.LedgerTypeTransfer,
			Action:       models.ActionTransferDampen,
			TargetID:     contentID,
			FromUserID:   actorID,
			ToUserID:     owner.UserID,
			Amount:       0,
			BalanceAfter: actor.CurrentBalance,
			Metadata:     meta,
		},
		{
			UserID:       owner.UserID,
			Type:         models.LedgerTypeTransfer,
			Action:       models.ActionReceiveDampen,
			TargetID:     contentID,
			FromUserID:   actorID,
			ToUserID:     owner.UserID,
			Amount:       -penalty,
			BalanceAfter: owner.CurrentBalance,
			Metadata:     meta,
		},
	}
	if err := s.appendEntries(ctx, entries); err != nil {
		return nil, err
	}
	newScore := content.BoostScore - 1
	s.notifier.DispatchAsync(owner.UserID, contentID, "DAMPEN_RECEIVED",
		"Your content was dampened",
		fmt.Sprintf("A dampen cost you %d points", penalty),
		models.NotificationMetadata{ContentType: contentType, ContentID: contentID, ActorID: actorID, Amount: penalty})

	return &TransferResult{
		Success:        true,
		NewBalance:     actor.CurrentBalance,
		NewScore:       newScore,
		NextCost:       BoostCost(eco, newScore),
		PenaltyApplied: penalty,
		Summary:        fmt.Sprintf("Dampened for %d points; the owner lost %d", cost, penalty),
	}, nil
}

// isProtected reports whether the owner is shielded from dampening, either
// by the new-account window or by sitting at the protected floor.
func (s *TransferService) isProtected(owner *models.PointsAccount) bool {
	eco := &s.cfg.Economy
	if owner.AccountAgeDays(s.now()) < eco.NewUserProtectionDays {
		return true
	}
	return owner.CurrentBalance-owner.ProtectedPoints <= eco.MinProtectedPoints
}

// loadPair ensures both accounts exist and are reset for today. The caller
// must hold both locks.
func (s *TransferService) loadPair(ctx context.Context, actorID, ownerID string) (*models.PointsAccount, *models.PointsAccount, error) {
	actor, err := s.points.ensureAccountLocked(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.reset.resetIfStaleLocked(ctx, actor); err != nil {
		return nil, nil, err
	}
	owner, err := s.points.ensureAccountLocked(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.reset.resetIfStaleLocked(ctx, owner); err != nil {
		return nil, nil, err
	}
	return actor, owner, nil
}

func (s *TransferService) commitPair(ctx context.Context, actor, owner *models.PointsAccount) error {
	if err := s.accountRepo.Update(ctx, actor); err != nil {
		return fmt.Errorf("%w: actor update: %v", ErrTransferFailed, err)
	}
	if err := s.accountRepo.Update(ctx, owner); err != nil {
		return fmt.Errorf("%w: owner update: %v", ErrTransferFailed, err)
	}
	return nil
}

func (s *TransferService) appendEntries(ctx context.Context, entries []*models.LedgerEntry) error {
	for _, entry := range entries {
		if err := s.ledgerRepo.Create(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// refusal builds the no-mutation result for an expected rejection.
func refusal(reason string, actor *models.PointsAccount, score, cost int) *TransferResult {
	return &TransferResult{
		Reason:     reason,
		NewBalance: actor.CurrentBalance,
		NewScore:   score,
		NextCost:   cost,
	}
}
