package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"campusconnect/database"
	"campusconnect/helper"
	"campusconnect/middlewares"
	"campusconnect/models"
)

var validate = validator.New()

type AuthController struct {
	db     *mongo.Database
	secret string
	log    *zap.Logger
}

func NewAuthController(db *mongo.Database, secret string, log *zap.Logger) *AuthController {
	return &AuthController{db: db, secret: secret, log: log}
}

type signUpBody struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (a *AuthController) SignUp(c *gin.Context) {
	var body signUpBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := a.db.Collection(database.UserCollection)
	count, err := users.CountDocuments(ctx, bson.M{"email": body.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check email"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This email is already in use"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	user := models.NewUser(body.Name, body.Email, string(hashed))
	if _, err := users.InsertOne(ctx, user); err != nil {
		a.log.Error("insert user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": user.Public()})
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthController) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email or Password is empty"})
		return
	}

	user, err := helper.GetUserByEmail(a.db, body.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user does not exist"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid password"})
		return
	}

	tokenString, err := helper.CreateToken(user.Email, a.secret)
	if err != nil {
		a.log.Error("sign token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", tokenString, int(helper.TokenLifetime.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"data": user.Public()})
}

func (a *AuthController) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (a *AuthController) Validate(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user does not exist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": user.Email})
}
