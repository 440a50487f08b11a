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
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"campusconnect/database"
	"campusconnect/helper"
	"campusconnect/middlewares"
	"campusconnect/models"
)

type ProfileController struct {
	db  *mongo.Database
	log *zap.Logger
}

func NewProfileController(db *mongo.Database, log *zap.Logger) *ProfileController {
	return &ProfileController{db: db, log: log}
}

// ownProfile is the owner's view: public fields plus the immutable email.
type ownProfile struct {
	models.PublicProfile
	Email string `json:"email"`
}

func (p *ProfileController) GetProfile(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	fresh, err := helper.GetUserByID(p.db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ownProfile{
		PublicProfile: fresh.Public(),
		Email:         fresh.Email,
	}})
}

func (p *ProfileController) GetUserProfile(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := helper.GetUserByID(p.db, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user.Public()})
}

// updateProfileBody carries the editable profile fields. Pointers distinguish
// "leave unchanged" from "set to empty". Email and password cannot travel
// through this path.
type updateProfileBody struct {
	Name    *string   `json:"name"`
	Bio     *string   `json:"bio"`
	Age     *string   `json:"age"`
	Schools *[]string `json:"schools"`
	Role    *string   `json:"role"`
}

func (p *ProfileController) UpdateProfile(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var body updateProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.M{}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}
		set["name"] = name
	}
	if body.Bio != nil {
		set["bio"] = *body.Bio
	}
	if body.Age != nil {
		age := strings.TrimSpace(*body.Age)
		if age == "" {
			age = models.AgeUnset
		}
		set["age"] = age
	}
	if body.Schools != nil {
		if !models.ValidSchools(*body.Schools) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown school"})
			return
		}
		set["schools"] = *body.Schools
	}
	if body.Role != nil {
		if !models.ValidRole(*body.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}
		set["role"] = *body.Role
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := p.db.Collection(database.UserCollection).
		UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": set})
	if err != nil {
		p.log.Error("profile update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile saved"})
}

type changePasswordBody struct {
	Password string `json:"password" validate:"required,min=6"`
}

func (p *ProfileController) ChangePassword(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var body changePasswordBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not change password"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = p.db.Collection(database.UserCollection).
		UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"password": string(hashed)}})
	if err != nil {
		p.log.Error("password update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not change password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}
