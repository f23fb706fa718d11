package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	adCollectionName      = "ads"
	profileCollectionName = "profiles"
	accountCollectionName = "accounts"
)

// AdRepository implements domain.AdRepository on MongoDB. Reads join the
// owner's profile with $lookup.
type AdRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewAdRepository(db *mongo.Database, log *logger.Logger) (*AdRepository, error) {
	collection := db.Collection(adCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for ads collection", zap.Error(err))
	}

	return &AdRepository{collection: collection, logger: log.Named("AdRepository")}, nil
}

var ownerLookup = bson.D{{Key: "$lookup", Value: bson.D{
	{Key: "from", Value: profileCollectionName},
	{Key: "localField", Value: "user_id"},
	{Key: "foreignField", Value: "_id"},
	{Key: "as", Value: "owner"},
}}}

func (r *AdRepository) Insert(ctx context.Context, ad *domain.Ad) error {
	if _, err := r.collection.InsertOne(ctx, toAdDocument(ad)); err != nil {
		r.logger.Error("Failed to insert ad", zap.String("ad_id", ad.ID), zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

func (r *AdRepository) ListActive(ctx context.Context) ([]*domain.Ad, error) {
	return r.aggregate(ctx, bson.M{"is_active": true})
}

func (r *AdRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Ad, error) {
	return r.aggregate(ctx, bson.M{"user_id": ownerID})
}

func (r *AdRepository) FindByID(ctx context.Context, id string) (*domain.Ad, error) {
	ads, err := r.aggregate(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(ads) == 0 {
		return nil, domain.ErrNotFound
	}
	return ads[0], nil
}

func (r *AdRepository) UpdateImages(ctx context.Context, id, ownerID string, images []string) error {
	update := bson.M{"$set": bson.M{"images": images, "updated_at": time.Now().UTC()}}
	return r.updateOwned(ctx, id, ownerID, update)
}

func (r *AdRepository) Update(ctx context.Context, ad *domain.Ad) error {
	update := bson.M{"$set": bson.M{
		"title":       ad.Title,
		"description": ad.Description,
		"price":       ad.Price,
		"category":    string(ad.Category),
		"location":    ad.Location,
		"is_active":   ad.Active,
		"updated_at":  ad.UpdatedAt,
	}}
	return r.updateOwned(ctx, ad.ID, ad.OwnerID, update)
}

// updateOwned applies update only when the ad belongs to ownerID.
func (r *AdRepository) updateOwned(ctx context.Context, id, ownerID string, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "user_id": ownerID}, update)
	if err != nil {
		r.logger.Error("Failed to update ad", zap.String("ad_id", id), zap.Error(err))
		return fmt.Errorf("db update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AdRepository) aggregate(ctx context.Context, match bson.M) ([]*domain.Ad, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		ownerLookup,
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to query ads", zap.Error(err))
		return nil, fmt.Errorf("db aggregate failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*adDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode ads: %w", err)
	}
	return toDomainAds(docs), nil
}
