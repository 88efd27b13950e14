package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database, usersCollection, sessionsCollection string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := db.Collection(usersCollection)
	sessions := db.Collection(sessionsCollection)

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("unique_email").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_id_index").
				SetUnique(true),
		},
	}

	sessionIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "token", Value: 1}},
			Options: options.Index().
				SetName("unique_token").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_sessions"),
		},
		// TTL index: mongo reaps sessions once expires_at passes.
		// Validation still checks expiry on every use, the sweep is
		// only housekeeping.
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetName("session_expiry_ttl").
				SetExpireAfterSeconds(0),
		},
	}

	if _, err := users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}

	if _, err := sessions.Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return fmt.Errorf("failed to create sessions indexes: %w", err)
	}

	log.Println("Successfully created all indexes")
	return nil
}
