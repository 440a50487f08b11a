package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"campusconnect/database"
	"campusconnect/helper"
	"campusconnect/middlewares"
	"campusconnect/models"
)

// DirectoryController serves the find-connections view: members not yet
// linked to the viewer, narrowed by name, schools and role. The filtering is
// one indexed query rather than a fetch-everything-then-filter pass.
type DirectoryController struct {
	db  *mongo.Database
	log *zap.Logger
}

func NewDirectoryController(db *mongo.Database, log *zap.Logger) *DirectoryController {
	return &DirectoryController{db: db, log: log}
}

func (d *DirectoryController) ListCandidates(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	name := strings.TrimSpace(c.Query("name"))
	role := c.Query("role")
	if role != "" && !models.ValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	var schools []string
	if raw := c.Query("schools"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				schools = append(schools, s)
			}
		}
	}

	// the stale-exclusion problem: the context user was loaded at auth time,
	// so re-read before computing the excluded id set
	fresh, err := helper.GetUserByID(d.db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}

	filter := helper.DirectoryFilter(fresh, name, schools, role)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cursor, err := d.db.Collection(database.UserCollection).Find(ctx, filter)
	if err != nil {
		d.log.Error("directory query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not search users"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not search users"})
		return
	}
	profiles := make([]models.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Public())
	}
	c.JSON(http.StatusOK, gin.H{"data": profiles})
}
