package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"campusconnect/chat"
	"campusconnect/database"
	"campusconnect/helper"
	"campusconnect/middlewares"
	"campusconnect/models"
)

type MessageController struct {
	db  *mongo.Database
	hub *chat.Server
	log *zap.Logger
}

func NewMessageController(db *mongo.Database, hub *chat.Server, log *zap.Logger) *MessageController {
	return &MessageController{db: db, hub: hub, log: log}
}

// GetConversation returns every message exchanged with an accepted
// connection, oldest first. The query is scoped to the pair; ties on
// timestamp fall back to insertion order via _id.
func (m *MessageController) GetConversation(c *gin.Context) {
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

	fresh, err := helper.GetUserByID(m.db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}
	if !fresh.HasConnection(other) {
		c.JSON(http.StatusForbidden, gin.H{"error": "counterpart is not a connection"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := m.db.Collection(database.MessageCollection).
		Find(ctx, helper.ConversationFilter(user.ID, other), opts)
	if err != nil {
		m.log.Error("conversation query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch messages"})
		return
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": messages})
}

type sendMessageBody struct {
	Text string `json:"text"`
}

// SendMessage appends one immutable message to the conversation with an
// accepted connection, then lets the hub push it to whoever is online.
func (m *MessageController) SendMessage(c *gin.Context) {
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

	var body sendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message text is empty"})
		return
	}

	fresh, err := helper.GetUserByID(m.db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}
	if !fresh.HasConnection(other) {
		c.JSON(http.StatusForbidden, gin.H{"error": "recipient is not a connection"})
		return
	}

	msg := models.Message{
		ID:        primitive.NewObjectID(),
		Sender:    user.ID,
		Receiver:  other,
		Text:      text,
		Timestamp: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := m.db.Collection(database.MessageCollection).InsertOne(ctx, msg); err != nil {
		m.log.Error("insert message failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send message"})
		return
	}

	m.hub.NotifyMessage(msg)
	c.JSON(http.StatusCreated, gin.H{"data": msg})
}
