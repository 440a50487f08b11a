package main

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campusconnect/chat"
	"campusconnect/controllers"
	"campusconnect/database"
	"campusconnect/initializers"
	"campusconnect/legacy"
	"campusconnect/logger"
	"campusconnect/middlewares"
	"campusconnect/routes"
)

func main() {
	initializers.LoadEnvVariables()
	cfg := initializers.LoadConfig()

	log := logger.New()
	defer log.Sync()

	if cfg.SecretKey == "" {
		log.Fatal("SECRET_KEY is not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatal("connect to MongoDB failed", zap.Error(err))
	}
	defer database.Disconnect(db)
	log.Info("connected to MongoDB", zap.String("db", cfg.DBName))

	store := chat.NewMongoStore(db)
	hub := chat.NewServer(store, log)

	watcher := chat.NewWatcher(db, hub, store, log)
	go func() {
		if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("post watcher stopped", zap.Error(err))
		}
	}()

	// dead parallel path from the first iteration; off unless configured
	if cfg.LegacyLoginPort != "" {
		go func() {
			if err := legacy.Run(cfg.LegacyLoginPort, "user@example.com", "password123"); err != nil {
				log.Error("legacy login server stopped", zap.Error(err))
			}
		}()
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	auth := controllers.NewAuthController(db, cfg.SecretKey, log)
	conns := controllers.NewConnectionController(db, log)
	directory := controllers.NewDirectoryController(db, log)
	messages := controllers.NewMessageController(db, hub, log)
	posts := controllers.NewPostController(db, log)
	profile := controllers.NewProfileController(db, log)

	routes.AuthRouter(router, auth)

	authed := router.Group("/", middlewares.RequireAuth(db, cfg.SecretKey))
	routes.HomeRouter(authed, auth)
	routes.ConnectionRouter(authed, conns)
	routes.DirectoryRouter(authed, directory)
	routes.MessageRouter(authed, messages)
	routes.PostRouter(authed, posts)
	routes.ProfileRouter(authed, profile)
	routes.ChatRouter(authed, hub)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
