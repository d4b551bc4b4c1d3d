package services

import (
  "context"
  "errors"
  "fmt"
  "net/http"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/platform/apierr"
  "github.com/yungbote/storefront-backend/internal/repos"
  "github.com/yungbote/storefront-backend/internal/requestdata"
  "github.com/yungbote/storefront-backend/internal/types"
)

// InstallResult reports the outcome of an install request.
type InstallResult struct {
  Success     bool      `json:"success"`
  ModuleID    uuid.UUID `json:"module_id"`
  ModuleCode  string    `json:"module_code"`
  WorkspaceID string    `json:"workspace_id"`
  Message     string    `json:"message"`
  InstalledAt time.Time `json:"installed_at"`
}

type UninstallResult struct {
  Success     bool      `json:"success"`
  ModuleID    uuid.UUID `json:"module_id"`
  WorkspaceID string    `json:"workspace_id"`
  Message     string    `json:"message"`
}

// InstalledModule is the summary row for the installed-modules listing.
type InstalledModule struct {
  ID             uuid.UUID                   `json:"id"`
  ModuleCode     string                      `json:"module_code"`
  Name           string                      `json:"name"`
  Category       string                      `json:"category"`
  Version        string                      `json:"version"`
  Status         types.WorkspaceModuleStatus `json:"status"`
  Enabled        bool                        `json:"enabled"`
  InstalledAt    time.Time                   `json:"installed_at"`
  HealthScore    float64                     `json:"health_score"`
  NeedsAttention bool                        `json:"needs_attention"`
}

// ModuleDetail is the expanded view of one installation.
type ModuleDetail struct {
  ModuleID        uuid.UUID                   `json:"module_id"`
  WorkspaceID     string                      `json:"workspace_id"`
  ModuleCode      string                      `json:"module_code"`
  Name            string                      `json:"name"`
  Description     string                      `json:"description"`
  Category        string                      `json:"category"`
  Version         string                      `json:"version"`
  Status          types.WorkspaceModuleStatus `json:"status"`
  Enabled         bool                        `json:"enabled"`
  InstalledAt     time.Time                   `json:"installed_at"`
  InstalledBy     string                      `json:"installed_by,omitempty"`
  InstalledByName string                      `json:"installed_by_name,omitempty"`
  LastUpdatedAt   *time.Time                  `json:"last_updated_at,omitempty"`
  CanUninstall    bool                        `json:"can_uninstall"`
  CanBeUpdated    bool                        `json:"can_be_updated"`
  HealthScore     float64                     `json:"health_score"`
  NeedsAttention  bool                        `json:"needs_attention"`
  Settings        types.ModuleSettings        `json:"settings"`
}

type WorkspaceModuleService interface {
  Install(ctx context.Context, tx *gorm.DB, moduleCode string) (*InstallResult, error)
  Uninstall(ctx context.Context, tx *gorm.DB, moduleIDOrCode string) (*UninstallResult, error)
  SetEnabled(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, enabled bool) (*types.WorkspaceModule, error)
  Reorder(ctx context.Context, tx *gorm.DB, updates []repos.DisplayOrderUpdate) ([]*types.WorkspaceModule, error)
  GetInstalled(ctx context.Context, tx *gorm.DB) ([]*InstalledModule, error)
  GetModuleInfo(ctx context.Context, tx *gorm.DB, moduleIDOrCode string) (*ModuleDetail, error)
  RecordAccess(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) error
}

type workspaceModuleService struct {
  db         *gorm.DB
  log        *logger.Logger
  masterRepo repos.MasterModuleRepo
  wsRepo     repos.WorkspaceModuleRepo
  userDetail UserDetailProvider
  cache      CatalogCache
  notifier   ModuleNotifier
}

func NewWorkspaceModuleService(
  db *gorm.DB,
  baseLog *logger.Logger,
  masterRepo repos.MasterModuleRepo,
  wsRepo repos.WorkspaceModuleRepo,
  userDetail UserDetailProvider,
  cache CatalogCache,
  notifier ModuleNotifier,
) WorkspaceModuleService {
  return &workspaceModuleService{
    db:         db,
    log:        baseLog.With("service", "WorkspaceModuleService"),
    masterRepo: masterRepo,
    wsRepo:     wsRepo,
    userDetail: userDetail,
    cache:      cache,
    notifier:   notifier,
  }
}

func (s *workspaceModuleService) Install(ctx context.Context, tx *gorm.DB, moduleCode string) (*InstallResult, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.WorkspaceID == "" {
    return nil, apierr.New(http.StatusBadRequest, CodeTenantContextMissing, fmt.Errorf("no active workspace"))
  }
  workspaceID := rd.WorkspaceID

  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  // Retry-safe: an existing record is success, not an error.
  existing, err := s.wsRepo.GetByWorkspaceAndCode(ctx, transaction, workspaceID, moduleCode)
  if err != nil {
    return nil, err
  }
  if existing != nil {
    return &InstallResult{
      Success:     true,
      ModuleID:    existing.ID,
      ModuleCode:  moduleCode,
      WorkspaceID: workspaceID,
      Message:     "Module already installed",
      InstalledAt: existing.InstalledAt,
    }, nil
  }

  master, err := s.masterRepo.GetByCode(ctx, transaction, moduleCode)
  if err != nil {
    return nil, err
  }
  if master == nil {
    return nil, apierr.New(http.StatusNotFound, CodeModuleNotFound, fmt.Errorf("module %q not found", moduleCode))
  }
  if !master.IsProductionReady() {
    return nil, apierr.New(http.StatusConflict, CodeModuleNotProductionReady, fmt.Errorf("module %q is not production ready", moduleCode))
  }

  installedCodes, err := s.enabledCodes(ctx, transaction, workspaceID)
  if err != nil {
    return nil, err
  }

  if missing := master.MissingDependencies(installedCodes); len(missing) > 0 {
    return nil, apierr.WithDetails(http.StatusConflict, CodeMissingDependencies,
      fmt.Errorf("missing dependencies: %v", missing), missing)
  }
  if conflicts := master.Conflicts(installedCodes); len(conflicts) > 0 {
    return nil, apierr.WithDetails(http.StatusConflict, CodeModuleConflict,
      fmt.Errorf("conflicting modules enabled: %v", conflicts), conflicts)
  }

  maxOrder, err := s.wsRepo.MaxDisplayOrder(ctx, transaction, workspaceID)
  if err != nil {
    return nil, err
  }

  record := &types.WorkspaceModule{
    WorkspaceID:      workspaceID,
    MasterModuleID:   master.ID,
    Status:           types.WorkspaceModuleInstalling,
    Enabled:          true,
    InstalledVersion: master.Version,
    InstalledAt:      time.Now().UTC(),
    InstalledBy:      actorID(rd),
    InstalledByName:  s.actorName(ctx, rd),
    DisplayOrder:     maxOrder + 10,
    Settings:         types.DefaultModuleSettings(),
    UsageMetrics:     types.ModuleUsageMetrics{PerformanceScore: 1.0},
  }

  created, err := s.wsRepo.Create(ctx, transaction, record)
  if err != nil {
    if errors.Is(err, repos.ErrDuplicateInstall) {
      // Lost the insert race; the winner's record is the answer.
      winner, loadErr := s.wsRepo.GetByWorkspaceAndCode(ctx, transaction, workspaceID, moduleCode)
      if loadErr != nil {
        return nil, loadErr
      }
      if winner == nil {
        return nil, err
      }
      return &InstallResult{
        Success:     true,
        ModuleID:    winner.ID,
        ModuleCode:  moduleCode,
        WorkspaceID: workspaceID,
        Message:     "Module already installed",
        InstalledAt: winner.InstalledAt,
      }, nil
    }
    return nil, err
  }

  if err := s.masterRepo.IncrementInstallCount(ctx, transaction, master.ID); err != nil {
    s.log.Error("Install: install count increment failed", "error", err, "module_code", moduleCode)
    return nil, err
  }

  if err := s.wsRepo.UpdateStatus(ctx, transaction, created.ID, types.WorkspaceModuleActive); err != nil {
    // Record persisted but activation failed: leave ERROR and report it.
    s.log.Error("Install: activation failed, leaving record in ERROR", "error", err, "module_code", moduleCode, "workspace_id", workspaceID)
    if stErr := s.wsRepo.UpdateStatus(ctx, transaction, created.ID, types.WorkspaceModuleError); stErr != nil {
      s.log.Error("Install: could not mark record as ERROR", "error", stErr, "module_id", created.ID)
    }
    return &InstallResult{
      Success:     false,
      ModuleID:    created.ID,
      ModuleCode:  moduleCode,
      WorkspaceID: workspaceID,
      Message:     "Module activation failed; installation left in ERROR state",
      InstalledAt: created.InstalledAt,
    }, nil
  }

  s.invalidate(ctx, workspaceID)
  s.notify(ctx, workspaceID, moduleCode, "INSTALL", rd)
  s.log.Info("Module installed", "module_code", moduleCode, "workspace_id", workspaceID, "module_id", created.ID)

  return &InstallResult{
    Success:     true,
    ModuleID:    created.ID,
    ModuleCode:  moduleCode,
    WorkspaceID: workspaceID,
    Message:     fmt.Sprintf("Module %s installed successfully", master.Name),
    InstalledAt: created.InstalledAt,
  }, nil
}

func (s *workspaceModuleService) Uninstall(ctx context.Context, tx *gorm.DB, moduleIDOrCode string) (*UninstallResult, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.WorkspaceID == "" {
    return nil, apierr.New(http.StatusBadRequest, CodeTenantContextMissing, fmt.Errorf("no active workspace"))
  }
  workspaceID := rd.WorkspaceID

  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  record, err := s.resolveRecord(ctx, transaction, workspaceID, moduleIDOrCode)
  if err != nil {
    return nil, err
  }
  if record == nil || record.MasterModule == nil {
    return nil, apierr.New(http.StatusNotFound, CodeModuleNotInstalled, fmt.Errorf("module %q not installed in this workspace", moduleIDOrCode))
  }

  dependents, err := s.dependentNames(ctx, transaction, workspaceID, record.MasterModule.ModuleCode, record.ID)
  if err != nil {
    return nil, err
  }
  if len(dependents) > 0 {
    return nil, apierr.WithDetails(http.StatusConflict, CodeHasDependents,
      fmt.Errorf("modules depend on %q: %v", record.MasterModule.ModuleCode, dependents), dependents)
  }

  if err := s.masterRepo.DecrementInstallCount(ctx, transaction, record.MasterModuleID); err != nil {
    return nil, err
  }
  if err := s.wsRepo.Delete(ctx, transaction, record.ID); err != nil {
    return nil, err
  }

  s.invalidate(ctx, workspaceID)
  s.notify(ctx, workspaceID, record.MasterModule.ModuleCode, "UNINSTALL", rd)
  s.log.Info("Module uninstalled", "module_code", record.MasterModule.ModuleCode, "workspace_id", workspaceID)

  return &UninstallResult{
    Success:     true,
    ModuleID:    record.ID,
    WorkspaceID: workspaceID,
    Message:     fmt.Sprintf("Module %s uninstalled successfully", record.EffectiveName()),
  }, nil
}

func (s *workspaceModuleService) SetEnabled(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, enabled bool) (*types.WorkspaceModule, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.WorkspaceID == "" {
    return nil, apierr.New(http.StatusBadRequest, CodeTenantContextMissing, fmt.Errorf("no active workspace"))
  }

  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  record, err := s.wsRepo.GetByID(ctx, transaction, moduleID)
  if err != nil {
    return nil, err
  }
  if record == nil || record.WorkspaceID != rd.WorkspaceID {
    return nil, apierr.New(http.StatusNotFound, CodeModuleNotInstalled, fmt.Errorf("module %s not installed in this workspace", moduleID))
  }
  // ERROR and still-installing records need manual repair, not a toggle.
  if record.Status == types.WorkspaceModuleError || record.Status == types.WorkspaceModuleInstalling {
    return nil, apierr.New(http.StatusConflict, CodeModuleNotToggleable, fmt.Errorf("module in %s state cannot be toggled", record.Status))
  }

  record.Enabled = enabled
  if enabled {
    record.Status = types.WorkspaceModuleActive
  } else {
    record.Status = types.WorkspaceModuleDisabled
  }
  now := time.Now().UTC()
  record.LastUpdatedAt = &now
  record.LastUpdatedBy = actorID(rd)

  if err := s.wsRepo.Save(ctx, transaction, record); err != nil {
    return nil, err
  }

  s.invalidate(ctx, rd.WorkspaceID)
  action := "ENABLE"
  if !enabled {
    action = "DISABLE"
  }
  s.notify(ctx, rd.WorkspaceID, moduleCodeOf(record), action, rd)
  return record, nil
}

func (s *workspaceModuleService) Reorder(ctx context.Context, tx *gorm.DB, updates []repos.DisplayOrderUpdate) ([]*types.WorkspaceModule, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.WorkspaceID == "" {
    return nil, apierr.New(http.StatusBadRequest, CodeTenantContextMissing, fmt.Errorf("no active workspace"))
  }

  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  if err := s.wsRepo.UpdateDisplayOrders(ctx, transaction, rd.WorkspaceID, updates); err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.New(http.StatusBadRequest, CodePartialNotFound, fmt.Errorf("one or more modules not found in this workspace"))
    }
    return nil, err
  }

  s.invalidate(ctx, rd.WorkspaceID)
  return s.wsRepo.GetByWorkspace(ctx, transaction, rd.WorkspaceID)
}

func (s *workspaceModuleService) GetInstalled(ctx context.Context, tx *gorm.DB) ([]*InstalledModule, error) {
  workspaceID := requestdata.CurrentWorkspace(ctx)
  if workspaceID == "" {
    return []*InstalledModule{}, nil
  }

  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  records, err := s.wsRepo.GetByWorkspace(ctx, transaction, workspaceID)
  if err != nil {
    return nil, err
  }

  out := make([]*InstalledModule, 0, len(records))
  for _, record := range records {
    if !record.IsOperational() {
      continue
    }
    out = append(out, &InstalledModule{
      ID:             record.ID,
      ModuleCode:     moduleCodeOf(record),
      Name:           record.EffectiveName(),
      Category:       record.EffectiveCategory(),
      Version:        record.InstalledVersion,
      Status:         record.Status,
      Enabled:        record.Enabled,
      InstalledAt:    record.InstalledAt,
      HealthScore:    record.HealthScore(),
      NeedsAttention: record.NeedsAttention(),
    })
  }
  return out, nil
}

func (s *workspaceModuleService) GetModuleInfo(ctx context.Context, tx *gorm.DB, moduleIDOrCode string) (*ModuleDetail, error) {
  workspaceID := requestdata.CurrentWorkspace(ctx)
  if workspaceID == "" {
    return nil, apierr.New(http.StatusBadRequest, CodeTenantContextMissing, fmt.Errorf("no active workspace"))
  }

  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  record, err := s.resolveRecord(ctx, transaction, workspaceID, moduleIDOrCode)
  if err != nil {
    return nil, err
  }
  if record == nil || record.MasterModule == nil {
    return nil, apierr.New(http.StatusNotFound, CodeModuleNotInstalled, fmt.Errorf("module %q not installed in this workspace", moduleIDOrCode))
  }

  dependents, err := s.dependentNames(ctx, transaction, workspaceID, record.MasterModule.ModuleCode, record.ID)
  if err != nil {
    return nil, err
  }

  installedByName := record.InstalledByName
  if s.userDetail != nil && record.InstalledBy != "" {
    if detail := s.userDetail.GetUserDetail(ctx, record.InstalledBy); detail != nil {
      installedByName = detail.DisplayName()
    }
  }

  description := record.Settings.CustomDescription
  if description == "" {
    description = record.MasterModule.Description
  }

  return &ModuleDetail{
    ModuleID:        record.ID,
    WorkspaceID:     workspaceID,
    ModuleCode:      record.MasterModule.ModuleCode,
    Name:            record.EffectiveName(),
    Description:     description,
    Category:        record.EffectiveCategory(),
    Version:         record.InstalledVersion,
    Status:          record.Status,
    Enabled:         record.Enabled,
    InstalledAt:     record.InstalledAt,
    InstalledBy:     record.InstalledBy,
    InstalledByName: installedByName,
    LastUpdatedAt:   record.LastUpdatedAt,
    CanUninstall:    len(dependents) == 0,
    CanBeUpdated:    record.CanBeUpdated(),
    HealthScore:     record.HealthScore(),
    NeedsAttention:  record.NeedsAttention(),
    Settings:        record.Settings,
  }, nil
}

func (s *workspaceModuleService) RecordAccess(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.WorkspaceID == "" {
    return apierr.New(http.StatusBadRequest, CodeTenantContextMissing, fmt.Errorf("no active workspace"))
  }

  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  record, err := s.wsRepo.GetByID(ctx, transaction, moduleID)
  if err != nil {
    return err
  }
  if record == nil || record.WorkspaceID != rd.WorkspaceID {
    return apierr.New(http.StatusNotFound, CodeModuleNotInstalled, fmt.Errorf("module %s not installed in this workspace", moduleID))
  }

  now := time.Now().UTC()
  record.UsageMetrics.TotalAccesses++
  record.UsageMetrics.LastAccessedAt = &now
  return s.wsRepo.Save(ctx, transaction, record)
}

// resolveRecord accepts either a workspace module id or a master module code.
func (s *workspaceModuleService) resolveRecord(ctx context.Context, tx *gorm.DB, workspaceID, moduleIDOrCode string) (*types.WorkspaceModule, error) {
  if id, err := uuid.Parse(moduleIDOrCode); err == nil {
    record, err := s.wsRepo.GetByID(ctx, tx, id)
    if err != nil {
      return nil, err
    }
    if record != nil && record.WorkspaceID == workspaceID {
      return record, nil
    }
  }
  return s.wsRepo.GetByWorkspaceAndCode(ctx, tx, workspaceID, moduleIDOrCode)
}

func (s *workspaceModuleService) enabledCodes(ctx context.Context, tx *gorm.DB, workspaceID string) (map[string]bool, error) {
  records, err := s.wsRepo.GetByWorkspaceEnabled(ctx, tx, workspaceID)
  if err != nil {
    return nil, err
  }
  codes := make(map[string]bool, len(records))
  for _, record := range records {
    if record.MasterModule != nil {
      codes[record.MasterModule.ModuleCode] = true
    }
  }
  return codes, nil
}

// dependentNames lists enabled modules in the workspace that declare
// moduleCode as a dependency, excluding the record itself.
func (s *workspaceModuleService) dependentNames(ctx context.Context, tx *gorm.DB, workspaceID, moduleCode string, selfID uuid.UUID) ([]string, error) {
  records, err := s.wsRepo.GetByWorkspaceEnabled(ctx, tx, workspaceID)
  if err != nil {
    return nil, err
  }
  var names []string
  for _, record := range records {
    if record.ID == selfID || record.MasterModule == nil {
      continue
    }
    for _, dep := range record.MasterModule.Configuration.Dependencies {
      if dep == moduleCode {
        names = append(names, record.EffectiveName())
        break
      }
    }
  }
  return names, nil
}

func (s *workspaceModuleService) actorName(ctx context.Context, rd *requestdata.RequestData) string {
  if s.userDetail != nil && rd.UserID != uuid.Nil {
    if detail := s.userDetail.GetUserDetail(ctx, rd.UserID.String()); detail != nil {
      return detail.DisplayName()
    }
  }
  return rd.UserName
}

func (s *workspaceModuleService) invalidate(ctx context.Context, workspaceID string) {
  if s.cache == nil {
    return
  }
  if err := s.cache.InvalidateWorkspace(ctx, workspaceID); err != nil {
    s.log.Warn("Catalog cache invalidation failed", "error", err, "workspace_id", workspaceID)
  }
}

func (s *workspaceModuleService) notify(ctx context.Context, workspaceID, moduleCode, action string, rd *requestdata.RequestData) {
  if s.notifier == nil {
    return
  }
  s.notifier.Publish(ctx, ModuleEvent{
    WorkspaceID: workspaceID,
    ModuleCode:  moduleCode,
    Action:      action,
    ActorID:     actorID(rd),
    OccurredAt:  time.Now().UTC(),
  })
}

func actorID(rd *requestdata.RequestData) string {
  if rd.UserID == uuid.Nil {
    return ""
  }
  return rd.UserID.String()
}

func moduleCodeOf(record *types.WorkspaceModule) string {
  if record.MasterModule == nil {
    return ""
  }
  return record.MasterModule.ModuleCode
}
