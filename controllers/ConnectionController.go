package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"campusconnect/database"
	"campusconnect/helper"
	"campusconnect/middlewares"
	"campusconnect/models"
)

// ConnectionController owns the connection-request lifecycle. Every mutation
// touches two user documents, so each one runs inside a single multi-document
// transaction: a crash or a concurrent accept can no longer leave a one-sided
// request or connection behind.
type ConnectionController struct {
	db  *mongo.Database
	log *zap.Logger
}

func NewConnectionController(db *mongo.Database, log *zap.Logger) *ConnectionController {
	return &ConnectionController{db: db, log: log}
}

func (cc *ConnectionController) SendRequest(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	target, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if target == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot send a request to yourself"})
		return
	}

	err = cc.inTransaction(func(sc mongo.SessionContext) error {
		users := cc.db.Collection(database.UserCollection)

		var me models.User
		if err := users.FindOne(sc, bson.M{"_id": user.ID}).Decode(&me); err != nil {
			return err
		}
		if me.Linked(target) {
			return errAlreadyLinked
		}

		receiverUpdate, senderUpdate := helper.RequestUpdates(user.ID, target)
		res, err := users.UpdateOne(sc, bson.M{"_id": target}, receiverUpdate)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return errNoSuchUser
		}
		_, err = users.UpdateOne(sc, bson.M{"_id": user.ID}, senderUpdate)
		return err
	})
	cc.respond(c, err, "request sent")
}

func (cc *ConnectionController) AcceptRequest(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	requester, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	err = cc.inTransaction(func(sc mongo.SessionContext) error {
		users := cc.db.Collection(database.UserCollection)

		var me models.User
		if err := users.FindOne(sc, bson.M{"_id": user.ID}).Decode(&me); err != nil {
			return err
		}
		if !me.HasPendingFrom(requester) {
			return errNoSuchRequest
		}

		receiverUpdate, requesterUpdate := helper.AcceptUpdates(user.ID, requester)
		_, err := users.UpdateOne(sc, bson.M{"_id": user.ID}, receiverUpdate)
		if err != nil {
			return err
		}
		// the requester's document may have vanished since the request was
		// made; aborting keeps the receiver from gaining a one-sided
		// connection to a ghost id
		res, err := users.UpdateOne(sc, bson.M{"_id": requester}, requesterUpdate)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return errNoSuchUser
		}
		return nil
	})
	cc.respond(c, err, "request accepted")
}

// DeclineRequest drops a request the current user received without creating
// a connection.
func (cc *ConnectionController) DeclineRequest(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	requester, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	err = cc.inTransaction(func(sc mongo.SessionContext) error {
		users := cc.db.Collection(database.UserCollection)

		res, err := users.UpdateOne(sc, bson.M{"_id": user.ID},
			bson.M{"$pull": bson.M{"pendingRequests": requester}})
		if err != nil {
			return err
		}
		if res.ModifiedCount == 0 {
			return errNoSuchRequest
		}
		_, err = users.UpdateOne(sc, bson.M{"_id": requester},
			bson.M{"$pull": bson.M{"sentRequests": user.ID}})
		return err
	})
	cc.respond(c, err, "request declined")
}

// CancelRequest withdraws a request the current user sent.
func (cc *ConnectionController) CancelRequest(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	target, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	err = cc.inTransaction(func(sc mongo.SessionContext) error {
		users := cc.db.Collection(database.UserCollection)

		res, err := users.UpdateOne(sc, bson.M{"_id": user.ID},
			bson.M{"$pull": bson.M{"sentRequests": target}})
		if err != nil {
			return err
		}
		if res.ModifiedCount == 0 {
			return errNoSuchRequest
		}
		_, err = users.UpdateOne(sc, bson.M{"_id": target},
			bson.M{"$pull": bson.M{"pendingRequests": user.ID}})
		return err
	})
	cc.respond(c, err, "request cancelled")
}

// RemoveConnection severs an accepted connection on both sides.
func (cc *ConnectionController) RemoveConnection(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	other, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	err = cc.inTransaction(func(sc mongo.SessionContext) error {
		users := cc.db.Collection(database.UserCollection)

		res, err := users.UpdateOne(sc, bson.M{"_id": user.ID},
			bson.M{"$pull": bson.M{"connections": other}})
		if err != nil {
			return err
		}
		if res.ModifiedCount == 0 {
			return errNotConnected
		}
		_, err = users.UpdateOne(sc, bson.M{"_id": other},
			bson.M{"$pull": bson.M{"connections": user.ID}})
		return err
	})
	cc.respond(c, err, "connection removed")
}

func (cc *ConnectionController) ListConnections(c *gin.Context) {
	cc.listProfiles(c, func(u models.User) []primitive.ObjectID { return u.Connections })
}

func (cc *ConnectionController) ListPending(c *gin.Context) {
	cc.listProfiles(c, func(u models.User) []primitive.ObjectID { return u.PendingRequests })
}

func (cc *ConnectionController) ListSent(c *gin.Context) {
	cc.listProfiles(c, func(u models.User) []primitive.ObjectID { return u.SentRequests })
}

func (cc *ConnectionController) listProfiles(c *gin.Context, pick func(models.User) []primitive.ObjectID) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	// re-read for a fresh view; the context copy may predate recent accepts
	fresh, err := helper.GetUserByID(cc.db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}
	profiles, err := helper.GetProfiles(cc.db, pick(fresh))
	if err != nil {
		cc.log.Error("resolve profiles failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profiles})
}

func (cc *ConnectionController) inTransaction(fn func(mongo.SessionContext) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sess, err := cc.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (cc *ConnectionController) respond(c *gin.Context, err error, okMsg string) {
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"message": okMsg})
	case errAlreadyLinked:
		c.JSON(http.StatusConflict, gin.H{"error": "a request or connection already exists"})
	case errNoSuchRequest:
		c.JSON(http.StatusBadRequest, gin.H{"error": "no such request"})
	case errNotConnected:
		c.JSON(http.StatusBadRequest, gin.H{"error": "users are not connected"})
	case errNoSuchUser:
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		cc.log.Error("connection update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update connections"})
	}
}
