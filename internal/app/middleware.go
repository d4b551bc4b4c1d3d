package app

import (
	"github.com/yungbote/storefront-backend/internal/logger"
	"github.com/yungbote/storefront-backend/internal/middleware"
)

type Middleware struct {
	Tenant										*middleware.TenantMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Tenant:									middleware.NewTenantMiddleware(log, cfg.JWTSecret),
	}
}
