package users

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resume-matcher/internal/shared/storage/mongodb"
)

// MongoRepo implements Repo on a MongoDB collection keyed by email.
type MongoRepo struct {
	Coll *mongo.Collection
}

func NewMongoRepo(database *mongo.Database) *MongoRepo {
	return &MongoRepo{Coll: database.Collection(mongodb.CollectionUsers)}
}

func (r *MongoRepo) Upsert(ctx context.Context, user User) error {
	update := bson.M{
		"$set": bson.M{
			"name":       user.Name,
			"phone":      user.Phone,
			"updated_at": user.UpdatedAt.UTC(),
		},
		"$setOnInsert": bson.M{
			"created_at": user.CreatedAt.UTC(),
		},
	}
	_, err := r.Coll.UpdateByID(ctx, user.Email, update, options.Update().SetUpsert(true))
	return err
}

func (r *MongoRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := r.Coll.FindOne(ctx, bson.M{"_id": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}
