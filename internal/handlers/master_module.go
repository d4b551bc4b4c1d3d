package handlers

import (
  "fmt"
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/repos"
  "github.com/yungbote/storefront-backend/internal/services"
  "github.com/yungbote/storefront-backend/internal/types"
)

// MasterModuleHandler exposes the catalog admin surface.
type MasterModuleHandler struct {
  log     *logger.Logger
  service services.MasterModuleService
}

func NewMasterModuleHandler(log *logger.Logger, service services.MasterModuleService) *MasterModuleHandler {
  handlerLogger := log.With("handler", "MasterModuleHandler")
  return &MasterModuleHandler{log: handlerLogger, service: service}
}

func (h *MasterModuleHandler) Create(c *gin.Context) {
  var input services.MasterModuleInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
    return
  }

  module, err := h.service.Create(c.Request.Context(), nil, input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondCreated(c, module)
}

func (h *MasterModuleHandler) Update(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("invalid module id"))
    return
  }

  var input services.MasterModuleInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
    return
  }

  module, err := h.service.Update(c.Request.Context(), nil, id, input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, module)
}

func (h *MasterModuleHandler) Get(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("invalid module id"))
    return
  }

  module, err := h.service.GetByID(c.Request.Context(), nil, id)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, module)
}

func (h *MasterModuleHandler) GetByCode(c *gin.Context) {
  module, err := h.service.GetByCode(c.Request.Context(), nil, c.Param("code"))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, module)
}

func (h *MasterModuleHandler) List(c *gin.Context) {
  filter := repos.MasterModuleFilter{}
  if raw := c.Query("category"); raw != "" {
    category := types.ModuleCategory(raw)
    filter.Category = &category
  }
  if raw := c.Query("status"); raw != "" {
    status := types.ModuleStatus(raw)
    filter.Status = &status
  }
  if raw := c.Query("complexity"); raw != "" {
    complexity := types.ModuleComplexity(raw)
    filter.Complexity = &complexity
  }
  if raw := c.Query("tier"); raw != "" {
    tier := types.SubscriptionTier(raw)
    filter.Tier = &tier
  }
  if raw := c.Query("featured"); raw != "" {
    featured := raw == "true"
    filter.Featured = &featured
  }
  if raw := c.Query("active"); raw != "" {
    active := raw == "true"
    filter.Active = &active
  }

  offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

  page, err := h.service.List(c.Request.Context(), nil, filter, offset, limit)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, page)
}

func (h *MasterModuleHandler) Search(c *gin.Context) {
  results, err := h.service.Search(c.Request.Context(), nil, c.Query("q"))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, results)
}

func (h *MasterModuleHandler) Delete(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("invalid module id"))
    return
  }

  if err := h.service.Delete(c.Request.Context(), nil, id); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}

func (h *MasterModuleHandler) BulkStatus(c *gin.Context) {
  var body struct {
    IDs    []uuid.UUID        `json:"ids"`
    Status types.ModuleStatus `json:"status"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
    return
  }

  modules, err := h.service.BulkSetStatus(c.Request.Context(), nil, body.IDs, body.Status)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, modules)
}

func (h *MasterModuleHandler) Reorder(c *gin.Context) {
  var body struct {
    OrderedIDs []uuid.UUID `json:"ordered_ids"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
    return
  }

  modules, err := h.service.ReorderCatalog(c.Request.Context(), nil, body.OrderedIDs)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, modules)
}

func (h *MasterModuleHandler) Statistics(c *gin.Context) {
  stats, err := h.service.Statistics(c.Request.Context(), nil)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, stats)
}
