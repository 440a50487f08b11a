package helper

import (
	"testing"

	"github.com/go-playground/assert/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campusconnect/models"
)

// applyUpdate mirrors how the engine applies the $addToSet/$pull operators
// used by the connection flow, so the request/accept lifecycle can be walked
// through in memory.
func applyUpdate(u *models.User, update bson.M) {
	if add, ok := update["$addToSet"].(bson.M); ok {
		for field, raw := range add {
			id := raw.(primitive.ObjectID)
			switch field {
			case "connections":
				if !u.HasConnection(id) {
					u.Connections = append(u.Connections, id)
				}
			case "pendingRequests":
				if !u.HasPendingFrom(id) {
					u.PendingRequests = append(u.PendingRequests, id)
				}
			case "sentRequests":
				if !u.HasSentTo(id) {
					u.SentRequests = append(u.SentRequests, id)
				}
			}
		}
	}
	if pull, ok := update["$pull"].(bson.M); ok {
		for field, raw := range pull {
			id := raw.(primitive.ObjectID)
			switch field {
			case "pendingRequests":
				u.PendingRequests = removeID(u.PendingRequests, id)
			case "sentRequests":
				u.SentRequests = removeID(u.SentRequests, id)
			case "connections":
				u.Connections = removeID(u.Connections, id)
			}
		}
	}
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func TestRequestThenAcceptLifecycle(t *testing.T) {
	alice := models.NewUser("Alice", "alice@example.com", "hash")
	alice.Schools = []string{"American"}
	bob := models.NewUser("Bob", "bob@example.com", "hash")

	// alice sends a request to bob
	receiverUpdate, senderUpdate := RequestUpdates(alice.ID, bob.ID)
	applyUpdate(&bob, receiverUpdate)
	applyUpdate(&alice, senderUpdate)

	assert.Equal(t, true, bob.HasPendingFrom(alice.ID))
	assert.Equal(t, true, alice.HasSentTo(bob.ID))
	assert.Equal(t, false, alice.HasConnection(bob.ID))

	// sending twice must not duplicate entries
	applyUpdate(&bob, receiverUpdate)
	applyUpdate(&alice, senderUpdate)
	assert.Equal(t, 1, len(bob.PendingRequests))
	assert.Equal(t, 1, len(alice.SentRequests))

	// bob accepts
	bobUpdate, aliceUpdate := AcceptUpdates(bob.ID, alice.ID)
	applyUpdate(&bob, bobUpdate)
	applyUpdate(&alice, aliceUpdate)

	assert.Equal(t, true, bob.HasConnection(alice.ID))
	assert.Equal(t, true, alice.HasConnection(bob.ID))
	assert.Equal(t, 0, len(bob.PendingRequests))
	assert.Equal(t, 0, len(alice.SentRequests))
}
