package helper

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campusconnect/models"
)

// DirectoryFilter builds the users query for the directory view. It excludes
// the viewer and everyone already linked to them (connected, requested either
// way), then narrows by the optional name substring (case-insensitive),
// school any-of set, and exact role. Empty filters match everything.
func DirectoryFilter(viewer models.User, name string, schools []string, role string) bson.M {
	excluded := make([]primitive.ObjectID, 0,
		1+len(viewer.Connections)+len(viewer.PendingRequests)+len(viewer.SentRequests))
	excluded = append(excluded, viewer.ID)
	excluded = append(excluded, viewer.Connections...)
	excluded = append(excluded, viewer.PendingRequests...)
	excluded = append(excluded, viewer.SentRequests...)

	filter := bson.M{
		"_id": bson.M{"$nin": excluded},
	}
	if name != "" {
		// QuoteMeta keeps the name filter a literal substring match
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}}
	}
	if len(schools) > 0 {
		filter["schools"] = bson.M{"$in": schools}
	}
	if role != "" {
		filter["role"] = role
	}
	return filter
}

// ConversationFilter matches every message exchanged between a and b, in
// either direction.
func ConversationFilter(a, b primitive.ObjectID) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"sender": a, "receiver": b},
			{"sender": b, "receiver": a},
		},
	}
}

// FeedFilter matches posts authored by the viewer or any of their current
// connections.
func FeedFilter(viewer models.User) bson.M {
	authors := make([]primitive.ObjectID, 0, 1+len(viewer.Connections))
	authors = append(authors, viewer.ID)
	authors = append(authors, viewer.Connections...)
	return bson.M{"authorId": bson.M{"$in": authors}}
}
