package helper

import (
	"reflect"
	"testing"

	"github.com/go-playground/assert/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campusconnect/models"
)

func TestDirectoryFilterExcludesLinkedUsers(t *testing.T) {
	viewer := models.NewUser("Alice", "alice@example.com", "hash")
	conn := primitive.NewObjectID()
	pending := primitive.NewObjectID()
	sent := primitive.NewObjectID()
	viewer.Connections = []primitive.ObjectID{conn}
	viewer.PendingRequests = []primitive.ObjectID{pending}
	viewer.SentRequests = []primitive.ObjectID{sent}

	filter := DirectoryFilter(viewer, "", nil, "")

	nin := filter["_id"].(bson.M)["$nin"].([]primitive.ObjectID)
	assert.Equal(t, 4, len(nin))
	for _, id := range []primitive.ObjectID{viewer.ID, conn, pending, sent} {
		found := false
		for _, excluded := range nin {
			if excluded == id {
				found = true
			}
		}
		assert.Equal(t, true, found)
	}

	// empty name/schools/role filters add no clauses
	_, hasName := filter["name"]
	_, hasSchools := filter["schools"]
	_, hasRole := filter["role"]
	assert.Equal(t, false, hasName)
	assert.Equal(t, false, hasSchools)
	assert.Equal(t, false, hasRole)
}

func TestDirectoryFilterClauses(t *testing.T) {
	viewer := models.NewUser("Alice", "alice@example.com", "hash")

	filter := DirectoryFilter(viewer, "bo", []string{"American", "Irvington"}, models.RoleStudent)

	re := filter["name"].(bson.M)["$regex"].(primitive.Regex)
	assert.Equal(t, "bo", re.Pattern)
	assert.Equal(t, "i", re.Options)

	schools := filter["schools"].(bson.M)["$in"].([]string)
	assert.Equal(t, []string{"American", "Irvington"}, schools)
	assert.Equal(t, models.RoleStudent, filter["role"])
}

func TestDirectoryFilterIdempotent(t *testing.T) {
	viewer := models.NewUser("Alice", "alice@example.com", "hash")
	viewer.Connections = []primitive.ObjectID{primitive.NewObjectID()}

	first := DirectoryFilter(viewer, "x", []string{"American"}, models.RoleTeacher)
	second := DirectoryFilter(viewer, "x", []string{"American"}, models.RoleTeacher)
	assert.Equal(t, true, reflect.DeepEqual(first, second))
}

func TestDirectoryFilterQuotesRegexMeta(t *testing.T) {
	viewer := models.NewUser("Alice", "alice@example.com", "hash")

	filter := DirectoryFilter(viewer, "a.b(c", nil, "")
	re := filter["name"].(bson.M)["$regex"].(primitive.Regex)
	assert.Equal(t, `a\.b\(c`, re.Pattern)
}

func TestConversationFilterCoversBothDirections(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	filter := ConversationFilter(a, b)
	or := filter["$or"].([]bson.M)
	assert.Equal(t, 2, len(or))
	assert.Equal(t, a, or[0]["sender"])
	assert.Equal(t, b, or[0]["receiver"])
	assert.Equal(t, b, or[1]["sender"])
	assert.Equal(t, a, or[1]["receiver"])
}

func TestFeedFilterIncludesSelfAndConnections(t *testing.T) {
	viewer := models.NewUser("Dave", "dave@example.com", "hash")
	carol := primitive.NewObjectID()
	viewer.Connections = []primitive.ObjectID{carol}

	filter := FeedFilter(viewer)
	authors := filter["authorId"].(bson.M)["$in"].([]primitive.ObjectID)
	assert.Equal(t, []primitive.ObjectID{viewer.ID, carol}, authors)
}
