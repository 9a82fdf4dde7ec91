package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vibechecc/points-backend/internal/config"
	"github.com/vibechecc/points-backend/internal/models"
	"github.com/vibechecc/points-backend/internal/repositories"
)

// In-memory repository fakes. They copy documents in and out so a service
// that forgets to call Update does not pass by accident.

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*models.PointsAccount
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*models.PointsAccount)}
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *models.PointsAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.UserID]; ok {
		return repositories.ErrDuplicate
	}
	c := *account
	r.accounts[account.UserID] = &c
	return nil
}

func (r *fakeAccountRepo) FindByUserID(ctx context.Context, userID string) (*models.PointsAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *account
	return &c, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, account *models.PointsAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.UserID]; !ok {
		return repositories.ErrNotFound
	}
	c := *account
	r.accounts[account.UserID] = &c
	return nil
}

func (r *fakeAccountRepo) FindStale(ctx context.Context, today string, limit int) ([]*models.PointsAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stale []*models.PointsAccount
	for _, account := range r.accounts {
		if account.LastResetDate < today {
			c := *account
			stale = append(stale, &c)
		}
		if len(stale) == limit {
			break
		}
	}
	return stale, nil
}

func (r *fakeAccountRepo) FindTop(ctx context.Context, metric string, limit int) ([]*models.PointsAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.PointsAccount
	for _, account := range r.accounts {
		c := *account
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool {
		return metricValue(all[i], metric) > metricValue(all[j], metric)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeAccountRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.accounts)), nil
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []*models.LedgerEntry
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{}
}

func (r *fakeLedgerRepo) Create(ctx context.Context, entry *models.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *entry
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, &c)
	return nil
}

func (r *fakeLedgerRepo) FindByUserID(ctx context.Context, userID string, since time.Time, limit int) ([]*models.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.LedgerEntry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.entries[i]
		if e.UserID == userID && !e.CreatedAt.Before(since) {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) FindByUserIDAndWindow(ctx context.Context, userID string, start, end time.Time) ([]*models.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.LedgerEntry
	for _, e := range r.entries {
		if e.UserID == userID && !e.CreatedAt.Before(start) && e.CreatedAt.Before(end) {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

// byAction returns the entries for a user with the given action, oldest first.
func (r *fakeLedgerRepo) byAction(userID string, action models.LedgerAction) []*models.LedgerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.LedgerEntry
	for _, e := range r.entries {
		if e.UserID == userID && e.Action == action {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}

type fakeHistoryRepo struct {
	mu   sync.Mutex
	rows map[string]*models.PointsHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{rows: make(map[string]*models.PointsHistory)}
}

func historyKey(userID, date string) string { return userID + "|" + date }

func (r *fakeHistoryRepo) Create(ctx context.Context, history *models.PointsHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := historyKey(history.UserID, history.Date)
	if _, ok := r.rows[key]; ok {
		return repositories.ErrDuplicate
	}
	c := *history
	r.rows[key] = &c
	return nil
}

func (r *fakeHistoryRepo) ExistsForDate(ctx context.Context, userID, date string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[historyKey(userID, date)]
	return ok, nil
}

func (r *fakeHistoryRepo) FindByUserID(ctx context.Context, userID string, limit int) ([]*models.PointsHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PointsHistory
	for _, row := range r.rows {
		if row.UserID == userID {
			c := *row
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeContentRepo struct {
	mu       sync.Mutex
	contents map[string]*models.Content
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{contents: make(map[string]*models.Content)}
}

func contentKey(contentType, contentID string) string { return contentType + "|" + contentID }

func (r *fakeContentRepo) put(content *models.Content) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *content
	r.contents[contentKey(content.ContentType, content.ContentID)] = &c
}

func (r *fakeContentRepo) FindByID(ctx context.Context, contentType, contentID string) (*models.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.contents[contentKey(contentType, contentID)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *content
	return &c, nil
}

func (r *fakeContentRepo) ApplyBoost(ctx context.Context, contentType, contentID string, scoreDelta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.contents[contentKey(contentType, contentID)]
	if !ok {
		return repositories.ErrNotFound
	}
	content.BoostScore += scoreDelta
	if scoreDelta > 0 {
		content.BoostCount++
	} else {
		content.DampenCount++
	}
	return nil
}

type fakeFollowRepo struct {
	mu        sync.Mutex
	followers map[string][]string
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{followers: make(map[string][]string)}
}

func (r *fakeFollowRepo) FindRecentFollowers(ctx context.Context, followedID string, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	followers := r.followers[followedID]
	if len(followers) > limit {
		followers = followers[:limit]
	}
	return append([]string(nil), followers...), nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *notification
	r.notifications = append(r.notifications, &c)
	return nil
}

func (r *fakeNotificationRepo) FindByRecipient(ctx context.Context, recipientID string, page, limit int) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			c := *n
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.notifications)), nil
}

// testEnv wires the real services over the fakes with a frozen clock.
type testEnv struct {
	cfg      *config.Config
	now      time.Time
	accounts *fakeAccountRepo
	ledger   *fakeLedgerRepo
	history  *fakeHistoryRepo
	contents *fakeContentRepo
	follows  *fakeFollowRepo
	notifs   *fakeNotificationRepo
	notifier *NotificationService
	reset    *ResetService
	points   *PointsService
	transfer *TransferService
}

func testConfig() *config.Config {
	return &config.Config{
		Economy: config.EconomyConfig{
			PostPoints:                10,
			ReviewPoints:              5,
			ReceiveReviewPoints:       3,
			DailyEarnCap:              100,
			DailyPostCap:              5,
			DailyReviewCap:            10,
			LevelUpBonus:              50,
			DailyStreakBonus:          15,
			StarterBalance:            50,
			NewAccountProtectionBonus: 30,
			BoostBaseCost:             5,
			TransferRatio:             0.5,
			BaseDampenPenalty:         10,
			MaxDampenPenalty:          50,
			MaxDampenPerDay:           10,
			ExcessiveDampenThreshold:  5,
			MinProtectedPoints:        20,
			NewUserProtectionDays:     7,
			NotificationFanOutLimit:   50,
			TransferRateLimit:         1,
			TransferRateBurst:         5,
		},
	}
}

func newTestEnv() *testEnv {
	env := &testEnv{
		cfg:      testConfig(),
		now:      time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		accounts: newFakeAccountRepo(),
		ledger:   newFakeLedgerRepo(),
		history:  newFakeHistoryRepo(),
		contents: newFakeContentRepo(),
		follows:  newFakeFollowRepo(),
		notifs:   newFakeNotificationRepo(),
	}

	locks := NewAccountLocks()
	clock := func() time.Time { return env.now }

	env.notifier = NewNotificationService(env.notifs, env.follows, env.cfg)
	env.reset = NewResetService(env.accounts, env.ledger, env.history, env.cfg, locks)
	env.reset.now = clock
	env.points = NewPointsService(env.accounts, env.ledger, env.history, env.reset, env.notifier, env.cfg, locks)
	env.points.now = clock
	env.transfer = NewTransferService(env.accounts, env.ledger, env.contents, env.points, env.reset, env.notifier, env.cfg, locks)
	env.transfer.now = clock

	return env
}

func (env *testEnv) today() string     { return DateString(env.now) }
func (env *testEnv) yesterday() string { return previousDate(env.today()) }

// seedAccount stores an account with sane defaults for fields the test
// does not care about.
func (env *testEnv) seedAccount(account *models.PointsAccount) *models.PointsAccount {
	if account.LastResetDate == "" {
		account.LastResetDate = env.today()
	}
	if account.Level == 0 {
		account.Level = LevelForPoints(account.TotalPointsEarned)
	}
	if account.Multiplier == 0 {
		account.Multiplier = MultiplierForPoints(account.TotalPointsEarned)
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = env.now.AddDate(0, 0, -30)
	}
	if err := env.accounts.Create(context.Background(), account); err != nil {
		panic(err)
	}
	return account
}

func (env *testEnv) mustAccount(userID string) *models.PointsAccount {
	account, err := env.accounts.FindByUserID(context.Background(), userID)
	if err != nil {
		panic(err)
	}
	return account
}
