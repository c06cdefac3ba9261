package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tumanina/internal/config"
)

// NewMongo connects to MongoDB, verifies connectivity and returns the configured database.
// The caller owns the client and must Disconnect it.
func NewMongo(ctx context.Context, c config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	if c.URI == "" || c.Database == "" {
		return nil, nil, fmt.Errorf("invalid mongo config: uri and database are required")
	}

	ctx, cancel := context.WithTimeout(ctx, 3*pingTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(c.Database), nil
}
