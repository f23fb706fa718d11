package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type ProfileRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewProfileRepository(db *mongo.Database, log *logger.Logger) *ProfileRepository {
	return &ProfileRepository{collection: db.Collection(profileCollectionName), logger: log.Named("ProfileRepository")}
}

// Upsert writes the editable fields and keeps created_at of an existing row.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	update := bson.M{
		"$set": bson.M{
			"email":      p.Email,
			"phone":      p.Phone,
			"city":       p.City,
			"bio":        p.Bio,
			"avatar_url": p.AvatarURL,
			"updated_at": p.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": p.CreatedAt},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": p.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to upsert profile", zap.String("user_id", p.ID), zap.Error(err))
		return fmt.Errorf("db upsert failed: %w", err)
	}
	return nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	var doc profileDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}
