package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is an immutable community entry. AuthorName is a snapshot of the
// author's display name at post time and is not kept in sync afterwards.
type Post struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	AuthorID   primitive.ObjectID `json:"authorId" bson:"authorId"`
	AuthorName string             `json:"authorName" bson:"authorName"`
	Content    string             `json:"content" bson:"content"`
	Timestamp  time.Time          `json:"timestamp" bson:"timestamp"`
}

// VisibleTo reports whether the viewer may see the post: the author is the
// viewer or one of the viewer's current connections. Visibility is evaluated
// against the connection set as it stands now, so posts written before a
// connection was accepted become visible once it is.
func (p Post) VisibleTo(viewer User) bool {
	return p.AuthorID == viewer.ID || viewer.HasConnection(p.AuthorID)
}
