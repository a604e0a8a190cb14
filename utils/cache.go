// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"salonbook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// HoldCacheClient is the dedicated client for slot holds.
	HoldCacheClient *redis.Client
	// TenantCacheClient is the dedicated client for tenant-validity caching.
	TenantCacheClient *redis.Client
)

// InitRedis initializes every Redis client the engine uses.
func InitRedis() {
	InitHoldCache()
	InitTenantCache()
}

// InitHoldCache initializes the Redis client backing the hold store.
func InitHoldCache() {
	HoldCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisHoldDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := HoldCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Holds): %v", err)
	}
}

// GetHoldCacheClient returns the hold store client.
func GetHoldCacheClient() *redis.Client {
	if HoldCacheClient == nil {
		InitHoldCache()
	}
	return HoldCacheClient
}

// InitTenantCache initializes the Redis client for tenant-validity caching.
func InitTenantCache() {
	TenantCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTenantDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := TenantCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Tenant Cache): %v", err)
	}
}

// GetTenantCacheClient returns the tenant-validity cache client.
func GetTenantCacheClient() *redis.Client {
	if TenantCacheClient == nil {
		InitTenantCache()
	}
	return TenantCacheClient
}
