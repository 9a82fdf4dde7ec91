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

// Compile-time check to ensure PointsHistoryRepository implements the interface
var _ repositories.PointsHistoryRepository = (*PointsHistoryRepository)(nil)

// PointsHistoryRepository handles MongoDB operations for PointsHistory.
// The collection carries a unique index on (userId, date) so a day can
// never be archived twice.
type PointsHistoryRepository struct {
	collection *mongo.Collection
}

// NewPointsHistoryRepository creates a new PointsHistoryRepository
func NewPointsHistoryRepository(db *mongo.Database) *PointsHistoryRepository {
	return &PointsHistoryRepository{
		collection: db.Collection("points_history"),
	}
}

// EnsureIndexes creates the unique (userId, date) index
func (r *PointsHistoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts a rollup row; returns ErrDuplicate when the day was
// already archived for this user
func (r *PointsHistoryRepository) Create(ctx context.Context, history *models.PointsHistory) error {
	history.ID = primitive.NewObjectID()
	history.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, history)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// ExistsForDate reports whether a rollup already exists for the user and date
func (r *PointsHistoryRepository) ExistsForDate(ctx context.Context, userID, date string) (bool, error) {
	filter := bson.M{"userId": userID, "date": date}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByUserID retrieves a user's rollups, newest first
func (r *PointsHistoryRepository) FindByUserID(ctx context.Context, userID string, limit int) ([]*models.PointsHistory, error) {
	var history []*models.PointsHistory
	filter := bson.M{"userId": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []*models.PointsHistory{}
	}
	return history, nil
}
