package services

import (
  "context"
  "time"
)

// CatalogCache is the subset of the redis catalog cache the services use.
// A nil cache disables caching entirely.
type CatalogCache interface {
  Get(ctx context.Context, workspaceID, name string, dest any) (bool, error)
  Set(ctx context.Context, workspaceID, name string, value any, ttl time.Duration) error
  InvalidateWorkspace(ctx context.Context, workspaceID string) error
}

// EventPublisher is the subset of the redis event bus the notifier uses.
type EventPublisher interface {
  Publish(ctx context.Context, channel string, payload any) error
}
