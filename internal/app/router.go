package app

import (
	"github.com/gin-gonic/gin"
	"github.com/yungbote/storefront-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		MasterModuleHandler:			handlerset.MasterModule,
		WorkspaceModuleHandler:		handlerset.WorkspaceModule,
		CatalogHandler:						handlerset.Catalog,
		TenantMiddleware:					middlewareset.Tenant,
		CORSOrigins:							cfg.CORSOrigins,
	})
}
