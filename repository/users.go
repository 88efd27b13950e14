package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/adegamar/backend/model"
	"github.com/adegamar/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func GetUserRepo(client *mongo.Client, dbName, collectionName string) *UserRepo {
	return &UserRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.Email == "" || user.PasswordHash == "" {
		utils.TrackError("database", "invalid_user_data")
		return errors.New("email and password hash required")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.MongoCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.TrackError("database", "duplicate_email")
			return ErrDuplicateEmail
		}
		utils.TrackError("database", "user_creation_failed")
		return errors.New("failed to add user to database")
	}

	return nil
}

// ErrDuplicateEmail is returned when an insert collides with the
// unique email index.
var ErrDuplicateEmail = errors.New("email already registered")

// FindUserByEmail looks a user up by email, lowercased first since
// emails are stored case-insensitively. Returns nil, nil when absent.
func (r *UserRepo) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var user model.User
	filter := bson.D{{Key: "email", Value: strings.ToLower(email)}}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}

	return &user, nil
}

// FindUser looks a user up by ID. Returns nil, nil when absent.
func (r *UserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var user model.User
	filter := bson.D{{Key: "user_id", Value: userID}}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}

	return &user, nil
}

// FindPrimaryUser returns the primary admin, or nil, nil when none
// exists yet (fresh install, before the bootstrap step ran).
func (r *UserRepo) FindPrimaryUser(ctx context.Context) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.D{{Key: "is_primary", Value: true}}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}

	return &user, nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID}
	update := bson.M{"$set": bson.M{"last_login": at}}

	if _, err := r.MongoCollection.UpdateOne(ctx, filter, update); err != nil {
		utils.TrackError("database", "last_login_update_failed")
		return err
	}

	return nil
}

func (r *UserRepo) UpdateUserPassword(ctx context.Context, userID string, hashedPassword string) (int64, error) {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	if hashedPassword == "" {
		utils.TrackError("database", "invalid_password_hash")
		return 0, errors.New("password hash cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID}
	update := bson.M{"$set": bson.M{"password_hash": hashedPassword}}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "password_update_failed")
		return 0, err
	}

	return result.ModifiedCount, nil
}

func (r *UserRepo) DeleteUserByID(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "users")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.D{{Key: "user_id", Value: userID}})
	if err != nil {
		utils.TrackError("database", "user_deletion_failed")
		return 0, err
	}

	return result.DeletedCount, nil
}

func (r *UserRepo) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.TrackError("database", "user_list_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepo) CountUsers(ctx context.Context) (int64, error) {
	timer := utils.TrackDBOperation("count", "users")
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return r.MongoCollection.CountDocuments(ctx, bson.M{})
}
