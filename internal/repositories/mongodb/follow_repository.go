package mongodb

import (
	"context"

	"github.com/vibechecc/points-backend/internal/models"
	"github.com/vibechecc/points-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure FollowRepository implements the interface
var _ repositories.FollowRepository = (*FollowRepository)(nil)

// FollowRepository reads the follows collection owned by the social layer.
type FollowRepository struct {
	collection *mongo.Collection
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(db *mongo.Database) *FollowRepository {
	return &FollowRepository{
		collection: db.Collection("follows"),
	}
}

// FindRecentFollowers returns the follower ids of the most recent followers
// of a user, capped at limit.
func (r *FollowRepository) FindRecentFollowers(ctx context.Context, followedID string, limit int) ([]string, error) {
	filter := bson.M{"followedId": followedID}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var follows []*models.Follow
	if err = cursor.All(ctx, &follows); err != nil {
		return nil, err
	}

	followers := make([]string, 0, len(follows))
	for _, f := range follows {
		followers = append(followers, f.FollowerID)
	}
	return followers, nil
}
