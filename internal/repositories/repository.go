package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/vibechecc/points-backend/internal/models"
)

// ErrDuplicate is returned when a unique-key insert collides, e.g. a second
// PointsHistory row for the same (userId, date).
var ErrDuplicate = errors.New("duplicate document")

// ErrNotFound is returned by Find methods when no document matches, so
// callers don't depend on driver-specific sentinel errors.
var ErrNotFound = errors.New("document not found")

// PointsAccountRepository defines the interface for points account operations
type PointsAccountRepository interface {
	Create(ctx context.Context, account *models.PointsAccount) error
	FindByUserID(ctx context.Context, userID string) (*models.PointsAccount, error)
	Update(ctx context.Context, account *models.PointsAccount) error
	// FindStale returns accounts whose lastResetDate is before today,
	// for the daily reset sweep.
	FindStale(ctx context.Context, today string, limit int) ([]*models.PointsAccount, error)
	// FindTop returns accounts ordered descending by the given metric field.
	FindTop(ctx context.Context, metric string, limit int) ([]*models.PointsAccount, error)
	Count(ctx context.Context) (int64, error)
}

// LedgerRepository defines the interface for ledger entry operations.
// Entries are append-only; there is no update or delete.
type LedgerRepository interface {
	Create(ctx context.Context, entry *models.LedgerEntry) error
	FindByUserID(ctx context.Context, userID string, since time.Time, limit int) ([]*models.LedgerEntry, error)
	FindByUserIDAndWindow(ctx context.Context, userID string, start, end time.Time) ([]*models.LedgerEntry, error)
}

// PointsHistoryRepository defines the interface for daily rollup operations
type PointsHistoryRepository interface {
	// Create inserts a rollup row; returns ErrDuplicate if one already
	// exists for the same user and date.
	Create(ctx context.Context, history *models.PointsHistory) error
	ExistsForDate(ctx context.Context, userID, date string) (bool, error)
	FindByUserID(ctx context.Context, userID string, limit int) ([]*models.PointsHistory, error)
}

// ContentRepository defines the read/patch surface the transfer engine
// needs over vibes and ratings. The CRUD layer owns everything else.
type ContentRepository interface {
	FindByID(ctx context.Context, contentType, contentID string) (*models.Content, error)
	// ApplyBoost shifts boostScore by scoreDelta and bumps the matching
	// action counter (boostCount for +1, dampenCount for -1).
	ApplyBoost(ctx context.Context, contentType, contentID string, scoreDelta int) error
}

// FollowRepository exposes the follower edges used for notification fan-out.
type FollowRepository interface {
	FindRecentFollowers(ctx context.Context, followedID string, limit int) ([]string, error)
}

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByRecipient(ctx context.Context, recipientID string, page, limit int) ([]*models.Notification, error)
	Count(ctx context.Context) (int64, error)
}
