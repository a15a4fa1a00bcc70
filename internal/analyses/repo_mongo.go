package analyses

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resume-matcher/internal/shared/storage/mongodb"
)

// MongoRepo implements Repo on a MongoDB collection. Scores are BSON doubles.
type MongoRepo struct {
	Coll *mongo.Collection
}

func NewMongoRepo(database *mongo.Database) *MongoRepo {
	return &MongoRepo{Coll: database.Collection(mongodb.CollectionAnalyses)}
}

func (r *MongoRepo) Insert(ctx context.Context, record Record) error {
	record.CreatedAt = record.CreatedAt.UTC()
	_, err := r.Coll.InsertOne(ctx, record)
	return err
}

func (r *MongoRepo) CountByUser(ctx context.Context, kind Kind, email string) (int, error) {
	n, err := r.Coll.CountDocuments(ctx, bson.M{"kind": kind, "email": email})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *MongoRepo) ListRecentByUser(ctx context.Context, kind Kind, email string, limit int) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.Coll.Find(ctx, bson.M{"kind": kind, "email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	records := make([]Record, 0)
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
