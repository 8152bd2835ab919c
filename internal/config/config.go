package config

import (
	"os"
	"time"
)

const (
	// Chat history
	HistoryLimit = 50

	// WebSocket pumps
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 4096

	// Per-client outbound buffer. Broadcasts to a client whose buffer is
	// full are dropped rather than blocking the hub loop.
	SendBufferSize = 256

	// Redis keys/channels
	PresenceSetKey      = "presence:online"
	NotificationChannel = "realtime:notifications"
)

// Config holds the environment-driven settings for the backend.
type Config struct {
	Addr        string
	DatabaseDSN string
	RedisAddr   string
	RedisDB     int
	JWTSecret   string
}

// Load reads the configuration from environment variables, falling back to
// local development defaults (docker-compose values).
func Load() Config {
	return Config{
		Addr:        getEnv("HTTP_ADDR", ":8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=user password=password dbname=futuremesh port=5432 sslmode=disable"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:   getEnv("JWT_SECRET", "futuremesh_jwt_secret_2024"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
