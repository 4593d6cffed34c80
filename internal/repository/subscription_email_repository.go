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

type SubscriptionEmailRepository struct {
	col *mongo.Collection
}

func NewSubscriptionEmailRepository(db *mongo.Database) *SubscriptionEmailRepository {
	return &SubscriptionEmailRepository{col: db.Collection("subscription_emails")}
}

func (r *SubscriptionEmailRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *SubscriptionEmailRepository) FindByEmail(ctx context.Context, email string) (*models.SubscriptionEmail, error) {
	var sub models.SubscriptionEmail
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionEmailRepository) Save(ctx context.Context, sub *models.SubscriptionEmail) error {
	sub.ID = primitive.NewObjectID()
	sub.SubscribedAt = time.Now()
	_, err := r.col.InsertOne(ctx, sub)
	return err
}
