package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/vibechecc/points-backend/internal/models"
	"github.com/vibechecc/points-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure ContentRepository implements the interface
var _ repositories.ContentRepository = (*ContentRepository)(nil)

// ContentRepository reads and patches the vibes and ratings collections.
// Only the boost-related fields are touched here; the CRUD layer owns the
// rest of the documents.
type ContentRepository struct {
	vibes   *mongo.Collection
	ratings *mongo.Collection
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{
		vibes:   db.Collection("vibes"),
		ratings: db.Collection("ratings"),
	}
}

func (r *ContentRepository) collectionFor(contentType string) (*mongo.Collection, error) {
	switch contentType {
	case models.ContentTypeVibe:
		return r.vibes, nil
	case models.ContentTypeRating:
		return r.ratings, nil
	default:
		return nil, fmt.Errorf("unknown content type %q", contentType)
	}
}

// FindByID finds a vibe or rating by its external content identifier
func (r *ContentRepository) FindByID(ctx context.Context, contentType, contentID string) (*models.Content, error) {
	coll, err := r.collectionFor(contentType)
	if err != nil {
		return nil, err
	}
	var content models.Content
	filter := bson.M{"contentId": contentID}
	err = coll.FindOne(ctx, filter).Decode(&content)
	if err == mongo.ErrNoDocuments {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	content.ContentType = contentType
	return &content, nil
}

// ApplyBoost shifts boostScore by scoreDelta and bumps the matching counter
func (r *ContentRepository) ApplyBoost(ctx context.Context, contentType, contentID string, scoreDelta int) error {
	coll, err := r.collectionFor(contentType)
	if err != nil {
		return err
	}
	inc := bson.M{"boostScore": scoreDelta}
	if scoreDelta >= 0 {
		inc["boostCount"] = 1
	} else {
		inc["dampenCount"] = 1
	}
	filter := bson.M{"contentId": contentID}
	update := bson.M{
		"$inc": inc,
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
