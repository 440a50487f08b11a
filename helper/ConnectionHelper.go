package helper

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestUpdates builds the two document updates for a new connection
// request: the receiver gains the sender in pendingRequests, the sender gains
// the receiver in sentRequests. $addToSet keeps a retried request from
// duplicating entries.
func RequestUpdates(sender, receiver primitive.ObjectID) (receiverUpdate, senderUpdate bson.M) {
	receiverUpdate = bson.M{"$addToSet": bson.M{"pendingRequests": sender}}
	senderUpdate = bson.M{"$addToSet": bson.M{"sentRequests": receiver}}
	return receiverUpdate, senderUpdate
}

// AcceptUpdates builds the two document updates that resolve a request: both
// sides gain a mutual connection and the pending/sent entries are removed.
func AcceptUpdates(receiver, requester primitive.ObjectID) (receiverUpdate, requesterUpdate bson.M) {
	receiverUpdate = bson.M{
		"$addToSet": bson.M{"connections": requester},
		"$pull":     bson.M{"pendingRequests": requester},
	}
	requesterUpdate = bson.M{
		"$addToSet": bson.M{"connections": receiver},
		"$pull":     bson.M{"sentRequests": receiver},
	}
	return receiverUpdate, requesterUpdate
}
