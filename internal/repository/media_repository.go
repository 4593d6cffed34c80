package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carbon-shredder/internal/models"
)

type MediaRepository struct {
	col *mongo.Collection
}

func NewMediaRepository(db *mongo.Database) *MediaRepository {
	return &MediaRepository{col: db.Collection("media")}
}

func (r *MediaRepository) Save(ctx context.Context, m *models.Media) error {
	m.ID = primitive.NewObjectID()
	m.UploadedAt = time.Now()
	_, err := r.col.InsertOne(ctx, m)
	return err
}

// FindAllNewestFirst — публичный каталог, свежие записи первыми
func (r *MediaRepository) FindAllNewestFirst(ctx context.Context) ([]models.Media, error) {
	cursor, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	// Гарантируем [] вместо null
	res := make([]models.Media, 0)
	if err := cursor.All(ctx, &res); err != nil {
		return nil, err
	}
	return res, nil
}
