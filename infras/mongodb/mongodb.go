package mongodb

import (
	"context"
	"fmt"
	"time"

	"umrahcrm/config"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const pingTimeout = 10 * time.Second

// New connects to the configured deployment and returns the application database.
func New(config *config.Config) (*mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(config.DB.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())

		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Info().Str("database", config.DB.Mongo.Database).Msg("Connected to MongoDB")

	return client.Database(config.DB.Mongo.Database), nil
}
