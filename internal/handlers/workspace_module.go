package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/repos"
  "github.com/yungbote/storefront-backend/internal/services"
)

// WorkspaceModuleHandler exposes the tenant-facing installation surface.
type WorkspaceModuleHandler struct {
  log     *logger.Logger
  service services.WorkspaceModuleService
}

func NewWorkspaceModuleHandler(log *logger.Logger, service services.WorkspaceModuleService) *WorkspaceModuleHandler {
  handlerLogger := log.With("handler", "WorkspaceModuleHandler")
  return &WorkspaceModuleHandler{log: handlerLogger, service: service}
}

func (h *WorkspaceModuleHandler) Install(c *gin.Context) {
  moduleCode := c.Param("moduleCode")
  if moduleCode == "" {
    RespondError(c, http.StatusBadRequest, "INVALID_BODY", fmt.Errorf("module code required"))
    return
  }

  result, err := h.service.Install(c.Request.Context(), nil, moduleCode)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

func (h *WorkspaceModuleHandler) Uninstall(c *gin.Context) {
  result, err := h.service.Uninstall(c.Request.Context(), nil, c.Param("module"))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

func (h *WorkspaceModuleHandler) Enable(c *gin.Context) {
  h.setEnabled(c, true)
}

func (h *WorkspaceModuleHandler) Disable(c *gin.Context) {
  h.setEnabled(c, false)
}

func (h *WorkspaceModuleHandler) setEnabled(c *gin.Context, enabled bool) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("invalid module id"))
    return
  }

  record, err := h.service.SetEnabled(c.Request.Context(), nil, id, enabled)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, record)
}

func (h *WorkspaceModuleHandler) Reorder(c *gin.Context) {
  var body struct {
    Updates []struct {
      ModuleID uuid.UUID `json:"module_id"`
      Order    int       `json:"order"`
    } `json:"updates" binding:"required"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
    return
  }

  updates := make([]repos.DisplayOrderUpdate, 0, len(body.Updates))
  for _, u := range body.Updates {
    updates = append(updates, repos.DisplayOrderUpdate{ModuleID: u.ModuleID, Order: u.Order})
  }

  records, err := h.service.Reorder(c.Request.Context(), nil, updates)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, records)
}

func (h *WorkspaceModuleHandler) ListInstalled(c *gin.Context) {
  modules, err := h.service.GetInstalled(c.Request.Context(), nil)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, modules)
}

func (h *WorkspaceModuleHandler) GetInfo(c *gin.Context) {
  detail, err := h.service.GetModuleInfo(c.Request.Context(), nil, c.Param("module"))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, detail)
}

func (h *WorkspaceModuleHandler) RecordAccess(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "INVALID_ID", fmt.Errorf("invalid module id"))
    return
  }

  if err := h.service.RecordAccess(c.Request.Context(), nil, id); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"recorded": true})
}
