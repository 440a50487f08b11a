package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"campusconnect/initializers"
)

const (
	UserCollection    = "users"
	PostCollection    = "posts"
	MessageCollection = "messages"
)

// Connect dials MongoDB and returns the application database. The handle is
// passed to the controllers explicitly; there is no package-level client.
func Connect(ctx context.Context, cfg initializers.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	return client.Database(cfg.DBName), nil
}

// Disconnect closes the underlying client with a short grace period.
func Disconnect(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.Client().Disconnect(ctx)
}
