package helper

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campusconnect/database"
	"campusconnect/models"
)

var ErrUserNotFound = errors.New("user not found")

func GetUserByEmail(db *mongo.Database, email string) (models.User, error) {
	var user models.User
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := db.Collection(database.UserCollection).
		FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func GetUserByID(db *mongo.Database, id primitive.ObjectID) (models.User, error) {
	var user models.User
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := db.Collection(database.UserCollection).
		FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

// GetProfiles resolves a list of user ids into public profiles, dropping any
// id that no longer has a document behind it.
func GetProfiles(db *mongo.Database, ids []primitive.ObjectID) ([]models.PublicProfile, error) {
	if len(ids) == 0 {
		return []models.PublicProfile{}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cursor, err := db.Collection(database.UserCollection).
		Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	profiles := make([]models.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Public())
	}
	return profiles, nil
}
