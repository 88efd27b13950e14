package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/adegamar/backend/model"
	"github.com/adegamar/backend/services"
	"github.com/adegamar/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepo struct {
	MongoCollection *mongo.Collection
}

func GetSessionRepo(client *mongo.Client, dbName, collectionName string) *SessionRepo {
	return &SessionRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *SessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("insert", "sessions")
	defer timer.ObserveDuration()

	if session == nil {
		utils.TrackError("database", "nil_session")
		return errors.New("session cannot be nil")
	}

	if session.Token == "" || session.UserID == "" {
		utils.TrackError("database", "invalid_session_data")
		return errors.New("invalid session data: missing required fields")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		utils.TrackError("database", "session_creation_failed")
		return err
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(ctx, session); err != nil {
			utils.TrackError("cache", "session_cache_set_failed")
			log.Printf("Warning: Failed to cache session: %v", err)
		}
	}

	return nil
}

// GetSession looks a session up by token, consulting the cache first
// when one is configured. Returns nil, nil when absent.
func (r *SessionRepo) GetSession(ctx context.Context, token string) (*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	if token == "" {
		utils.TrackError("database", "empty_session_token")
		return nil, errors.New("token cannot be empty")
	}

	if services.GlobalSessionCache != nil {
		if session, err := services.GlobalSessionCache.GetSession(ctx, token); err == nil && session != nil {
			utils.TrackCacheOperation("session", true)
			return session, nil
		}
		utils.TrackCacheOperation("session", false)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var session model.Session
	err := r.MongoCollection.FindOne(ctx, bson.M{"token": token}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "session_fetch_failed")
		return nil, err
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(ctx, &session); err != nil {
			log.Printf("Warning: Failed to cache session: %v", err)
		}
	}

	return &session, nil
}

// RenewSession slides the expiry of a session forward. The renewed
// session is re-cached so the cache TTL tracks the new expiry.
func (r *SessionRepo) RenewSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	if session == nil {
		return errors.New("session cannot be nil")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"expires_at": session.ExpiresAt}}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"token": session.Token}, update)
	if err != nil {
		utils.TrackError("database", "session_renewal_failed")
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("session not found")
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(ctx, session); err != nil {
			log.Printf("Warning: Failed to update session cache: %v", err)
		}
	}

	return nil
}

func (r *SessionRepo) DeleteSession(ctx context.Context, token string) error {
	timer := utils.TrackDBOperation("delete", "sessions")
	defer timer.ObserveDuration()

	if token == "" {
		utils.TrackError("database", "empty_session_token")
		return errors.New("token cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.MongoCollection.DeleteOne(ctx, bson.M{"token": token}); err != nil {
		utils.TrackError("database", "session_deletion_failed")
		return err
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.DeleteSession(ctx, token); err != nil {
			log.Printf("Warning: Failed to delete session from cache: %v", err)
		}
	}

	return nil
}

// DeleteUserSessions removes every session belonging to a user. Used
// when a user is deleted (cascade) and on logout-everywhere.
func (r *SessionRepo) DeleteUserSessions(ctx context.Context, userID string) (int64, error) {
	return r.deleteUserSessions(ctx, userID, "")
}

// DeleteUserSessionsExcept removes a user's sessions except the one
// holding keepToken. Used on password change so the acting session
// survives while every other one is invalidated.
func (r *SessionRepo) DeleteUserSessionsExcept(ctx context.Context, userID, keepToken string) (int64, error) {
	return r.deleteUserSessions(ctx, userID, keepToken)
}

func (r *SessionRepo) deleteUserSessions(ctx context.Context, userID, keepToken string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "sessions")
	defer timer.ObserveDuration()

	if userID == "" {
		return 0, errors.New("userID cannot be empty")
	}

	// Collect tokens first so cached entries can be dropped too.
	victims, err := r.GetUserActiveSessions(ctx, userID)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID}
	if keepToken != "" {
		filter["token"] = bson.M{"$ne": keepToken}
	}

	result, err := r.MongoCollection.DeleteMany(ctx, filter)
	if err != nil {
		utils.TrackError("database", "session_deletion_failed")
		return 0, err
	}

	if services.GlobalSessionCache != nil {
		for _, s := range victims {
			if s.Token == keepToken {
				continue
			}
			if err := services.GlobalSessionCache.DeleteSession(ctx, s.Token); err != nil {
				log.Printf("Warning: Failed to delete session from cache: %v", err)
			}
		}
	}

	return result.DeletedCount, nil
}

func (r *SessionRepo) GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.MongoCollection.Find(ctx,
		bson.M{
			"user_id":    userID,
			"expires_at": bson.M{"$gt": time.Now()},
		}, opts)
	if err != nil {
		utils.TrackError("database", "session_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *SessionRepo) CountActiveSessions(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("count", "sessions")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"expires_at": bson.M{"$gt": time.Now()}}
	if userID != "" {
		filter["user_id"] = userID
	}

	return r.MongoCollection.CountDocuments(ctx, filter)
}
