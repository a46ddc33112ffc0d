package redis

import (
	"context"
	"log"
	"time"

	"projectmate-service/internal/config"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

func InitRedis(cfg *config.RedisConfig) error {
	Client = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := Client.Ping(pingCtx).Err(); err != nil {
		log.Printf("Error pinging Redis: %v", err)
		return err
	}

	log.Printf("Successfully connected to Redis at %s", cfg.Address)
	return nil
}

func CloseRedis() {
	if Client != nil {
		if err := Client.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}
}
