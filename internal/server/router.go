package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/yungbote/storefront-backend/internal/handlers"
  "github.com/yungbote/storefront-backend/internal/middleware"
)

type RouterConfig struct {
  MasterModuleHandler      *handlers.MasterModuleHandler
  WorkspaceModuleHandler   *handlers.WorkspaceModuleHandler
  CatalogHandler           *handlers.CatalogHandler
  TenantMiddleware         *middleware.TenantMiddleware
  CORSOrigins              []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("storefront-backend"))

  // Cors
  origins := cfg.CORSOrigins
  if len(origins) == 0 {
    origins = []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    }
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", middleware.WorkspaceHeader},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)

// ===============
// || Workspace ||
// ===============
  workspace := router.Group("/api/workspace/modules")
  workspace.Use(cfg.TenantMiddleware.RequireAuth())
  {
    workspace.GET("/catalog", cfg.CatalogHandler.GetCatalog)
    workspace.GET("/available", cfg.CatalogHandler.GetAvailable)
    workspace.GET("", cfg.WorkspaceModuleHandler.ListInstalled)
    workspace.GET("/:module", cfg.WorkspaceModuleHandler.GetInfo)
    workspace.POST("/install/:moduleCode", cfg.WorkspaceModuleHandler.Install)
    workspace.DELETE("/:module", cfg.WorkspaceModuleHandler.Uninstall)
    workspace.POST("/:id/enable", cfg.WorkspaceModuleHandler.Enable)
    workspace.POST("/:id/disable", cfg.WorkspaceModuleHandler.Disable)
    workspace.POST("/:id/access", cfg.WorkspaceModuleHandler.RecordAccess)
    workspace.POST("/reorder", cfg.WorkspaceModuleHandler.Reorder)
  }

// ===============
// || Admin     ||
// ===============
  admin := router.Group("/api/admin/modules")
  admin.Use(cfg.TenantMiddleware.RequireAuth(), cfg.TenantMiddleware.RequireAdmin())
  {
    admin.GET("", cfg.MasterModuleHandler.List)
    admin.GET("/search", cfg.MasterModuleHandler.Search)
    admin.GET("/statistics", cfg.MasterModuleHandler.Statistics)
    admin.GET("/code/:code", cfg.MasterModuleHandler.GetByCode)
    admin.GET("/:id", cfg.MasterModuleHandler.Get)
    admin.POST("", cfg.MasterModuleHandler.Create)
    admin.PUT("/:id", cfg.MasterModuleHandler.Update)
    admin.DELETE("/:id", cfg.MasterModuleHandler.Delete)
    admin.POST("/bulk-status", cfg.MasterModuleHandler.BulkStatus)
    admin.POST("/display-order", cfg.MasterModuleHandler.Reorder)
  }

  return router
}
