package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"futuremesh/backend/internal/api/handler"
	"futuremesh/backend/internal/auth"
	"futuremesh/backend/internal/chathub"
	"futuremesh/backend/internal/config"
	"futuremesh/backend/internal/models"
	"futuremesh/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ChatMessage{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting FutureMesh realtime backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	hub := chathub.NewManagerService(s, verifier)
	go hub.Run()
	go hub.RunNotificationBridge(s.SubscribeNotifications())

	r := gin.Default()
	h := handler.NewHandler(hub)

	r.GET("/ws", h.ServeWebSocket)
	r.GET("/healthz", h.Health)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
