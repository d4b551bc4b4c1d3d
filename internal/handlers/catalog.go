package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/services"
)

// CatalogHandler serves the assembled marketplace view.
type CatalogHandler struct {
  log     *logger.Logger
  service services.CatalogViewService
}

func NewCatalogHandler(log *logger.Logger, service services.CatalogViewService) *CatalogHandler {
  handlerLogger := log.With("handler", "CatalogHandler")
  return &CatalogHandler{log: handlerLogger, service: service}
}

func (h *CatalogHandler) GetCatalog(c *gin.Context) {
  catalog, err := h.service.BuildCatalog(c.Request.Context(), nil, filterFromQuery(c))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, catalog)
}

// GetAvailable serves just the not-yet-installed partition.
func (h *CatalogHandler) GetAvailable(c *gin.Context) {
  catalog, err := h.service.BuildCatalog(c.Request.Context(), nil, filterFromQuery(c))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, catalog.Available)
}

func filterFromQuery(c *gin.Context) services.CatalogFilter {
  return services.CatalogFilter{
    Category:        c.Query("category"),
    IncludeDisabled: c.Query("include_disabled") == "true",
  }
}
