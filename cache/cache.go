package cache

import (
	"context"
	"elearn/config"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheInstance struct holds the Redis client instance
type CacheInstance struct {
	Client *redis.Client
}

// Cache is the global Redis instance
var Cache CacheInstance

// ConnectCache establishes a connection to Redis
func ConnectCache() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	Cache = CacheInstance{Client: client}
}
