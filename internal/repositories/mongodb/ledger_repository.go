package mongodb

import (
	"context"
	"time"

	"github.com/vibechecc/points-backend/internal/models"
	"github.com/vibechecc/points-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure LedgerRepository implements the interface
var _ repositories.LedgerRepository = (*LedgerRepository)(nil)

// LedgerRepository handles MongoDB operations for LedgerEntry
type LedgerRepository struct {
	collection *mongo.Collection
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{
		collection: db.Collection("points_ledger"),
	}
}

// Create appends a new ledger entry. Entries are never updated or deleted.
func (r *LedgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindByUserID retrieves a user's entries since the given time, newest first
func (r *LedgerRepository) FindByUserID(ctx context.Context, userID string, since time.Time, limit int) ([]*models.LedgerEntry, error) {
	filter := bson.M{
		"userId":    userID,
		"createdAt": bson.M{"$gte": since},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

// FindByUserIDAndWindow retrieves a user's entries in [start, end),
// oldest first, for the daily history rollup
func (r *LedgerRepository) FindByUserIDAndWindow(ctx context.Context, userID string, start, end time.Time) ([]*models.LedgerEntry, error) {
	filter := bson.M{
		"userId":    userID,
		"createdAt": bson.M{"$gte": start, "$lt": end},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *LedgerRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.LedgerEntry, error) {
	var entries []*models.LedgerEntry
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.LedgerEntry{}
	}
	return entries, nil
}
