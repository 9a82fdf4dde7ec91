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

// Compile-time check to ensure PointsAccountRepository implements the interface
var _ repositories.PointsAccountRepository = (*PointsAccountRepository)(nil)

// PointsAccountRepository handles MongoDB operations for PointsAccount
type PointsAccountRepository struct {
	collection *mongo.Collection
}

// NewPointsAccountRepository creates a new PointsAccountRepository
func NewPointsAccountRepository(db *mongo.Database) *PointsAccountRepository {
	return &PointsAccountRepository{
		collection: db.Collection("points_accounts"),
	}
}

// Create inserts a new points account
func (r *PointsAccountRepository) Create(ctx context.Context, account *models.PointsAccount) error {
	account.ID = primitive.NewObjectID()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	account.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, account)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// FindByUserID finds an account by its external user identifier
func (r *PointsAccountRepository) FindByUserID(ctx context.Context, userID string) (*models.PointsAccount, error) {
	var account models.PointsAccount
	filter := bson.M{"userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&account)
	if err == mongo.ErrNoDocuments {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Update replaces the stored account document
func (r *PointsAccountRepository) Update(ctx context.Context, account *models.PointsAccount) error {
	account.UpdatedAt = time.Now()
	filter := bson.M{"_id": account.ID}
	update := bson.M{"$set": account}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// FindStale retrieves accounts whose lastResetDate is before today
func (r *PointsAccountRepository) FindStale(ctx context.Context, today string, limit int) ([]*models.PointsAccount, error) {
	var accounts []*models.PointsAccount
	filter := bson.M{"lastResetDate": bson.M{"$lt": today}}
	opts := options.Find().SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*models.PointsAccount{}
	}
	return accounts, nil
}

// FindTop retrieves accounts ordered descending by the given metric field
func (r *PointsAccountRepository) FindTop(ctx context.Context, metric string, limit int) ([]*models.PointsAccount, error) {
	var accounts []*models.PointsAccount
	opts := options.Find().
		SetSort(bson.D{{Key: metric, Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*models.PointsAccount{}
	}
	return accounts, nil
}

// Count returns the number of accounts
func (r *PointsAccountRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
