// Package mongo implements the repository interfaces on MongoDB.
package mongo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fieldworks/fieldworks-api/internal/config"
)

// Collection names.
const (
	collProducts      = "products"
	collOrders        = "orders"
	collKnowledgeBase = "knowledge_base"
	collUsers         = "users"
	collReviews       = "reviews"
)

// DB wraps a Mongo client scoped to the application database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	logger zerolog.Logger
}

// Connect establishes and verifies a MongoDB connection.
func Connect(ctx context.Context, cfg config.MongoConfig, logger zerolog.Logger) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info().
		Str("database", cfg.Database).
		Msg("connected to MongoDB")

	return &DB{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// EnsureIndexes creates the indexes the application relies on:
// a unique email index on users and the compound text index spanning
// title/description/content/tags that backs knowledge base search.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	_, err := d.db.Collection(collUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}

	_, err = d.db.Collection(collKnowledgeBase).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "title", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "content", Value: "text"},
			{Key: "tags", Value: "text"},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create knowledge base text index: %w", err)
	}

	return nil
}

// Close disconnects the underlying client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Collection returns a handle to a named collection.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}
