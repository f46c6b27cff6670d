package config

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
)

var (
	// Global dependencies shared across the application
	DB          *sql.DB
	SecretKey   = []byte("secret")
	JWTExpiry   = 24 * time.Hour
	Validate    = validator.New()
	Ctx         = context.Background()
	RedisClient *redis.Client
)
