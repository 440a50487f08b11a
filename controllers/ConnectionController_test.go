package controllers

import (
	"net/http"
	"testing"

	"github.com/go-playground/assert/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"campusconnect/models"
)

func TestAcceptRequestAbortsWhenRequesterVanished(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted requester does not leave a one-sided connection", func(mt *mtest.T) {
		receiver := models.NewUser("Bob", "bob@example.com", "hash")
		requester := primitive.NewObjectID()

		mt.AddMockResponses(
			// receiver document, request still pending
			mtest.CreateCursorResponse(0, mt.DB.Name()+".users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: receiver.ID},
				{Key: "name", Value: receiver.Name},
				{Key: "email", Value: receiver.Email},
				{Key: "pendingRequests", Value: bson.A{requester}},
			}),
			// receiver update applies
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			// requester document matches nothing: it was deleted
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			// abortTransaction
			mtest.CreateSuccessResponse(),
		)

		ctrl := NewConnectionController(mt.DB, zap.NewNop())
		c, w := newTestContext(http.MethodPost, "/connections/accept/"+requester.Hex(), requester.Hex(), receiver)
		ctrl.AcceptRequest(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
