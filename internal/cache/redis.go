package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys
const (
	DashboardStatsKey   = "stats:dashboard"
	UnviewedCountKeyFmt = "workflow:unviewed:%s"
	dashboardTTL        = 5 * time.Minute
	unviewedTTL         = time.Minute
)

var client *redis.Client

// Init initializes the Redis connection. The service degrades gracefully
// when Redis is unreachable: every helper is a no-op on a nil client.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// GetCachedDashboardStats returns cached dashboard statistics if available
func GetCachedDashboardStats(ctx context.Context) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, DashboardStatsKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheDashboardStats caches dashboard statistics
func CacheDashboardStats(ctx context.Context, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, DashboardStatsKey, data, dashboardTTL)
}

// InvalidateDashboardStats drops the cached dashboard after a mutation
func InvalidateDashboardStats(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, DashboardStatsKey)
}

// GetCachedUnviewedCount returns the cached unviewed-decision count for a user
func GetCachedUnviewedCount(ctx context.Context, userID string) (int64, bool) {
	if client == nil {
		return 0, false
	}
	count, err := client.Get(ctx, fmt.Sprintf(UnviewedCountKeyFmt, userID)).Int64()
	if err != nil {
		return 0, false
	}
	return count, true
}

// CacheUnviewedCount caches the unviewed-decision count for a user
func CacheUnviewedCount(ctx context.Context, userID string, count int64) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(UnviewedCountKeyFmt, userID), count, unviewedTTL)
}

// InvalidateUnviewedCount drops a user's cached count after a decision or view
func InvalidateUnviewedCount(ctx context.Context, userID string) {
	if client == nil {
		return
	}
	client.Del(ctx, fmt.Sprintf(UnviewedCountKeyFmt, userID))
}
