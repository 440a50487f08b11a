package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"campusconnect/middlewares"
	"campusconnect/models"
)

// newTestContext builds a gin context for a handler test with the
// authenticated user already placed the way RequireAuth would.
func newTestContext(method, path, paramID string, user models.User) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	c.Params = gin.Params{{Key: "user_id", Value: paramID}}
	c.Set(middlewares.UserKey, user)
	return c, w
}

func TestGetConversationRejectsNonConnection(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("forbidden without an accepted connection", func(mt *mtest.T) {
		viewer := models.NewUser("Alice", "alice@example.com", "hash")
		stranger := primitive.NewObjectID()

		// the fresh viewer read comes back with no connections
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: viewer.ID},
			{Key: "name", Value: viewer.Name},
			{Key: "email", Value: viewer.Email},
			{Key: "connections", Value: bson.A{}},
		}))

		ctrl := NewMessageController(mt.DB, nil, zap.NewNop())
		c, w := newTestContext(http.MethodGet, "/messages/"+stranger.Hex(), stranger.Hex(), viewer)
		ctrl.GetConversation(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
