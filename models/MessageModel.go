package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one immutable entry in a two-party conversation.
type Message struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Receiver  primitive.ObjectID `json:"receiver" bson:"receiver"`
	Text      string             `json:"text" bson:"text"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

// InConversation reports whether the message belongs to the conversation
// between a and b, in either direction.
func (m Message) InConversation(a, b primitive.ObjectID) bool {
	return (m.Sender == a && m.Receiver == b) || (m.Sender == b && m.Receiver == a)
}
