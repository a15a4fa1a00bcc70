// Package mongodb connects to MongoDB for the document-store backend.
package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"resume-matcher/internal/shared/telemetry"
)

// Collection names.
const (
	CollectionUsers    = "users"
	CollectionAnalyses = "analyses"
	CollectionOrders   = "subscription_orders"
)

// Connect dials uri, verifies the primary is reachable and returns the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, nil, fmt.Errorf("MONGO_URI is empty")
	}
	if strings.TrimSpace(database) == "" {
		return nil, nil, fmt.Errorf("MONGO_DB is empty")
	}
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(20)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	telemetry.Info("db.init", map[string]any{"backend": "mongo", "database": database})
	return client, client.Database(database), nil
}

// EnsureIndexes creates the indexes the repositories rely on. Existing indexes are
// left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionAnalyses).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bsonD("kind", 1, "email", 1, "created_at", -1),
	})
	if err != nil {
		return fmt.Errorf("analyses index: %w", err)
	}
	_, err = db.Collection(CollectionOrders).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bsonD("email", 1),
	})
	if err != nil {
		return fmt.Errorf("orders index: %w", err)
	}
	return nil
}
