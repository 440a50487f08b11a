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

	"campusconnect/database"
	"campusconnect/helper"
	"campusconnect/middlewares"
	"campusconnect/models"
)

type PostController struct {
	db  *mongo.Database
	log *zap.Logger
}

func NewPostController(db *mongo.Database, log *zap.Logger) *PostController {
	return &PostController{db: db, log: log}
}

type createPostBody struct {
	Content string `json:"content"`
}

// CreatePost appends one immutable community post. The author's display name
// is read at post time and stored denormalized on the post.
func (p *PostController) CreatePost(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var body createPostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	content := strings.TrimSpace(body.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post content is empty"})
		return
	}

	author, err := helper.GetUserByID(p.db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}

	post := models.Post{
		ID:         primitive.NewObjectID(),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Content:    content,
		Timestamp:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := p.db.Collection(database.PostCollection).InsertOne(ctx, post); err != nil {
		p.log.Error("insert post failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create post"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": post})
}

// GetFeed returns posts authored by the viewer or their current connections,
// newest first. The author set is evaluated per request, so posts written
// before a connection was accepted show up once it is.
func (p *PostController) GetFeed(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	viewer, err := helper.GetUserByID(p.db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := p.db.Collection(database.PostCollection).
		Find(ctx, helper.FeedFilter(viewer), opts)
	if err != nil {
		p.log.Error("feed query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch posts"})
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}
