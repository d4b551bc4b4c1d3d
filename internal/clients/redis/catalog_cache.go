package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/storefront-backend/internal/logger"
)

// CatalogCache caches catalog view payloads per workspace. Keys embed a
// per-workspace version counter; invalidation bumps the counter so stale
// entries simply expire instead of being scanned and deleted.
type CatalogCache interface {
	Get(ctx context.Context, workspaceID, name string, dest any) (bool, error)
	Set(ctx context.Context, workspaceID, name string, value any, ttl time.Duration) error
	InvalidateWorkspace(ctx context.Context, workspaceID string) error
	Close() error
}

type catalogCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewCatalogCache(log *logger.Logger) (CatalogCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &catalogCache{
		log: log.With("service", "RedisCatalogCache"),
		rdb: rdb,
	}, nil
}

func (c *catalogCache) Get(ctx context.Context, workspaceID, name string, dest any) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, fmt.Errorf("catalog cache not initialized")
	}

	key, err := c.entryKey(ctx, workspaceID, name)
	if err != nil {
		return false, err
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// A corrupt entry is treated as a miss; next Set overwrites it.
		c.log.Warn("Dropping unreadable cache entry", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (c *catalogCache) Set(ctx context.Context, workspaceID, name string, value any, ttl time.Duration) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("catalog cache not initialized")
	}

	key, err := c.entryKey(ctx, workspaceID, name)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

func (c *catalogCache) InvalidateWorkspace(ctx context.Context, workspaceID string) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("catalog cache not initialized")
	}
	return c.rdb.Incr(ctx, versionKey(workspaceID)).Err()
}

func (c *catalogCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *catalogCache) entryKey(ctx context.Context, workspaceID, name string) (string, error) {
	version, err := c.rdb.Get(ctx, versionKey(workspaceID)).Int64()
	if err == goredis.Nil {
		version = 0
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("modcat:ws:%s:v%d:%s", workspaceID, version, name), nil
}

func versionKey(workspaceID string) string {
	return fmt.Sprintf("modcat:ws:%s:ver", workspaceID)
}
