package subscriptions

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"resume-matcher/internal/shared/storage/mongodb"
)

// MongoRepo implements Repo on a MongoDB collection keyed by order id.
type MongoRepo struct {
	Coll *mongo.Collection
}

func NewMongoRepo(database *mongo.Database) *MongoRepo {
	return &MongoRepo{Coll: database.Collection(mongodb.CollectionOrders)}
}

func (r *MongoRepo) CreatePending(ctx context.Context, order Order) (string, error) {
	order.Status = StatusPending
	order.CreatedAt = order.CreatedAt.UTC()
	if _, err := r.Coll.InsertOne(ctx, order); err != nil {
		return "", err
	}
	return order.ID, nil
}

func (r *MongoRepo) MarkCompleted(ctx context.Context, id string, completedAt, expiresAt time.Time) error {
	res, err := r.Coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":       StatusCompleted,
		"completed_at": completedAt.UTC(),
		"expires_at":   expiresAt.UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Find(ctx context.Context, id string) (Order, error) {
	var o Order
	if err := r.Coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}
