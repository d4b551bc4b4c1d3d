package app

import (
	"github.com/yungbote/storefront-backend/internal/clients/redis"
	"github.com/yungbote/storefront-backend/internal/logger"
)

type Clients struct {
	CatalogCache	redis.CatalogCache
	EventBus			redis.EventBus
}

// wireClients connects the optional redis-backed pieces. A missing or
// unreachable redis degrades to no caching and log-only notifications
// rather than preventing boot.
func wireClients(log *logger.Logger, cfg Config) Clients {
	log.Info("Wiring clients...")
	var clients Clients
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, catalog cache and event bus disabled")
		return clients
	}

	cache, err := redis.NewCatalogCache(log)
	if err != nil {
		log.Warn("Catalog cache unavailable", "error", err)
	} else {
		clients.CatalogCache = cache
	}

	bus, err := redis.NewEventBus(log)
	if err != nil {
		log.Warn("Event bus unavailable", "error", err)
	} else {
		clients.EventBus = bus
	}
	return clients
}

func (c Clients) Close() {
	if c.CatalogCache != nil {
		_ = c.CatalogCache.Close()
	}
	if c.EventBus != nil {
		_ = c.EventBus.Close()
	}
}
