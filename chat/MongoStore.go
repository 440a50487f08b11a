package chat

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campusconnect/database"
	"campusconnect/models"
)

// MongoStore backs the hub with the shared application database.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) SaveMessage(ctx context.Context, sender, receiver primitive.ObjectID, text string) (models.Message, error) {
	msg := models.Message{
		ID:        primitive.NewObjectID(),
		Sender:    sender,
		Receiver:  receiver,
		Text:      text,
		Timestamp: time.Now(),
	}
	_, err := s.db.Collection(database.MessageCollection).InsertOne(ctx, msg)
	if err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

func (s *MongoStore) ConnectionsOf(ctx context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error) {
	var user models.User
	err := s.db.Collection(database.UserCollection).
		FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return user.Connections, nil
}

func (s *MongoStore) SetPresence(ctx context.Context, id primitive.ObjectID, active bool) error {
	update := bson.M{"$set": bson.M{
		"isActive":   active,
		"lastActive": time.Now(),
	}}
	_, err := s.db.Collection(database.UserCollection).
		UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
