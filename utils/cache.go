// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"reflink/config"

	"github.com/go-redis/redis/v8"
)

// AuthCacheClient is the dedicated client for authorization caching.
var AuthCacheClient *redis.Client

// InitAuthCache initializes the Redis client for authorization caching.
func InitAuthCache() {
	AuthCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := AuthCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Printf("WARNING: failed to connect to Redis (Auth Cache): %v", err)
	}
}

// GetAuthCacheClient returns the Redis client for authorization caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}

// StoreTokenHash caches the SHA-256 hash of a user's active token so the
// auth middleware can verify it without a store round trip.
func StoreTokenHash(userID, token string) error {
	client := GetAuthCacheClient()
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Set(ctx, AuthCachePrefix+userID, HashToken(token), AuthCacheTTL).Err()
}

// RevokeTokenHash drops the cached token hash, invalidating the session.
func RevokeTokenHash(userID string) error {
	client := GetAuthCacheClient()
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Del(ctx, AuthCachePrefix+userID).Err()
}
