package services

import (
  "context"
  "fmt"
  "net/http"
  "sort"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/platform/apierr"
  "github.com/yungbote/storefront-backend/internal/repos"
  "github.com/yungbote/storefront-backend/internal/types"
)

// MasterModuleInput carries the writable fields of a catalog definition.
// ModuleCode is set on create and immutable afterwards.
type MasterModuleInput struct {
  ModuleCode       string                    `json:"module_code"`
  Name             string                    `json:"name"`
  Description      string                    `json:"description"`
  Tagline          string                    `json:"tagline"`
  Category         types.ModuleCategory      `json:"category"`
  Status           types.ModuleStatus        `json:"status"`
  RequiredTier     types.SubscriptionTier    `json:"required_tier"`
  RequiredRole     types.UserRole            `json:"required_role"`
  Complexity       types.ModuleComplexity    `json:"complexity"`
  Version          string                    `json:"version"`
  Configuration    types.ModuleConfiguration `json:"configuration"`
  UIMetadata       datatypes.JSON            `json:"ui_metadata"`
  RouteInfo        datatypes.JSON            `json:"route_info"`
  NavigationIndex  int                       `json:"navigation_index"`
  Provider         string                    `json:"provider"`
  SupportEmail     string                    `json:"support_email"`
  DocumentationURL string                    `json:"documentation_url"`
  SizeMb           int                       `json:"size_mb"`
  Featured         bool                      `json:"featured"`
  Active           bool                      `json:"active"`
  ReleaseNotes     string                    `json:"release_notes"`
}

// ModulePage is one page of the admin catalog listing.
type ModulePage struct {
  Items  []*types.MasterModule `json:"items"`
  Total  int64                 `json:"total"`
  Offset int                   `json:"offset"`
  Limit  int                   `json:"limit"`
}

// CatalogStatistics summarizes the catalog for the admin dashboard.
type CatalogStatistics struct {
  TotalModules      int64            `json:"total_modules"`
  ActiveModules     int64            `json:"active_modules"`
  DeprecatedModules int64            `json:"deprecated_modules"`
  ByCategory        map[string]int64 `json:"by_category"`
  TotalInstalls     int64            `json:"total_installs"`
}

type MasterModuleService interface {
  Create(ctx context.Context, tx *gorm.DB, input MasterModuleInput) (*types.MasterModule, error)
  Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input MasterModuleInput) (*types.MasterModule, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MasterModule, error)
  GetByCode(ctx context.Context, tx *gorm.DB, moduleCode string) (*types.MasterModule, error)
  List(ctx context.Context, tx *gorm.DB, filter repos.MasterModuleFilter, offset, limit int) (*ModulePage, error)
  Search(ctx context.Context, tx *gorm.DB, keyword string) ([]*types.MasterModule, error)
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
  BulkSetStatus(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, status types.ModuleStatus) ([]*types.MasterModule, error)
  ReorderCatalog(ctx context.Context, tx *gorm.DB, orderedIDs []uuid.UUID) ([]*types.MasterModule, error)
  Statistics(ctx context.Context, tx *gorm.DB) (*CatalogStatistics, error)
}

type masterModuleService struct {
  db         *gorm.DB
  log        *logger.Logger
  masterRepo repos.MasterModuleRepo
  wsRepo     repos.WorkspaceModuleRepo
}

func NewMasterModuleService(
  db *gorm.DB,
  baseLog *logger.Logger,
  masterRepo repos.MasterModuleRepo,
  wsRepo repos.WorkspaceModuleRepo,
) MasterModuleService {
  return &masterModuleService{
    db:         db,
    log:        baseLog.With("service", "MasterModuleService"),
    masterRepo: masterRepo,
    wsRepo:     wsRepo,
  }
}

func (s *masterModuleService) Create(ctx context.Context, tx *gorm.DB, input MasterModuleInput) (*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  if input.ModuleCode == "" {
    return nil, apierr.New(http.StatusBadRequest, CodeInvalidDependency, fmt.Errorf("module_code is required"))
  }
  if input.Status != "" && !input.Status.Valid() {
    return nil, apierr.New(http.StatusBadRequest, CodeInvalidModuleStatus, fmt.Errorf("unknown status %q", input.Status))
  }

  existing, err := s.masterRepo.GetByCode(ctx, transaction, input.ModuleCode)
  if err != nil {
    return nil, err
  }
  if existing != nil {
    return nil, apierr.New(http.StatusConflict, CodeModuleCodeExists, fmt.Errorf("module code %q already exists", input.ModuleCode))
  }

  module := &types.MasterModule{}
  applyInput(module, input)
  module.ModuleCode = input.ModuleCode
  if module.Status == "" {
    module.Status = types.ModuleStatusDraft
  }

  if err := s.validateReferences(ctx, transaction, module); err != nil {
    return nil, err
  }

  created, err := s.masterRepo.Create(ctx, transaction, module)
  if err != nil {
    return nil, err
  }
  s.log.Info("Catalog module created", "module_code", created.ModuleCode, "module_id", created.ID)
  return created, nil
}

func (s *masterModuleService) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input MasterModuleInput) (*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  module, err := s.masterRepo.GetByID(ctx, transaction, id)
  if err != nil {
    return nil, err
  }
  if module == nil {
    return nil, apierr.New(http.StatusNotFound, CodeModuleNotFound, fmt.Errorf("module %s not found", id))
  }
  if input.Status != "" && !input.Status.Valid() {
    return nil, apierr.New(http.StatusBadRequest, CodeInvalidModuleStatus, fmt.Errorf("unknown status %q", input.Status))
  }

  // ModuleCode is the stable identity; updates never move it.
  applyInput(module, input)
  now := time.Now().UTC()
  module.LastUpdatedAt = &now

  if err := s.validateReferences(ctx, transaction, module); err != nil {
    return nil, err
  }
  if err := s.masterRepo.Save(ctx, transaction, module); err != nil {
    return nil, err
  }
  return module, nil
}

func (s *masterModuleService) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  module, err := s.masterRepo.GetByID(ctx, transaction, id)
  if err != nil {
    return nil, err
  }
  if module == nil {
    return nil, apierr.New(http.StatusNotFound, CodeModuleNotFound, fmt.Errorf("module %s not found", id))
  }
  return module, nil
}

func (s *masterModuleService) GetByCode(ctx context.Context, tx *gorm.DB, moduleCode string) (*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  module, err := s.masterRepo.GetByCode(ctx, transaction, moduleCode)
  if err != nil {
    return nil, err
  }
  if module == nil {
    return nil, apierr.New(http.StatusNotFound, CodeModuleNotFound, fmt.Errorf("module %q not found", moduleCode))
  }
  return module, nil
}

func (s *masterModuleService) List(ctx context.Context, tx *gorm.DB, filter repos.MasterModuleFilter, offset, limit int) (*ModulePage, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  items, total, err := s.masterRepo.List(ctx, transaction, filter, offset, limit)
  if err != nil {
    return nil, err
  }
  return &ModulePage{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}

func (s *masterModuleService) Search(ctx context.Context, tx *gorm.DB, keyword string) ([]*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  if keyword == "" {
    return []*types.MasterModule{}, nil
  }
  return s.masterRepo.Search(ctx, transaction, keyword)
}

func (s *masterModuleService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  module, err := s.masterRepo.GetByID(ctx, transaction, id)
  if err != nil {
    return err
  }
  if module == nil {
    return apierr.New(http.StatusNotFound, CodeModuleNotFound, fmt.Errorf("module %s not found", id))
  }

  installs, err := s.wsRepo.CountByMasterModule(ctx, transaction, id)
  if err != nil {
    return err
  }
  if installs > 0 || module.InstallCount > 0 {
    return apierr.New(http.StatusConflict, CodeModuleInUse,
      fmt.Errorf("module %q has %d active installations", module.ModuleCode, installs))
  }

  if err := s.masterRepo.Delete(ctx, transaction, module); err != nil {
    return err
  }
  s.log.Info("Catalog module deleted", "module_code", module.ModuleCode)
  return nil
}

// BulkSetStatus moves every named module or none of them and returns the
// refreshed rows.
func (s *masterModuleService) BulkSetStatus(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, status types.ModuleStatus) ([]*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  if !status.Valid() {
    return nil, apierr.New(http.StatusBadRequest, CodeInvalidModuleStatus, fmt.Errorf("unknown status %q", status))
  }
  if len(ids) == 0 {
    return []*types.MasterModule{}, nil
  }

  var updated []*types.MasterModule
  err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
    found, err := s.masterRepo.GetByIDs(ctx, inner, ids)
    if err != nil {
      return err
    }
    if len(found) != len(ids) {
      return apierr.New(http.StatusBadRequest, CodePartialNotFound,
        fmt.Errorf("%d of %d modules not found", len(ids)-len(found), len(ids)))
    }
    if err := s.masterRepo.UpdateStatusBulk(ctx, inner, ids, status); err != nil {
      return err
    }
    updated, err = s.masterRepo.GetByIDs(ctx, inner, ids)
    return err
  })
  if err != nil {
    return nil, err
  }
  return updated, nil
}

// ReorderCatalog rewrites catalog display order as gaps of 10 in the order
// given, so later inserts can slot between neighbours without renumbering.
// Returns the refreshed rows in the requested order.
func (s *masterModuleService) ReorderCatalog(ctx context.Context, tx *gorm.DB, orderedIDs []uuid.UUID) ([]*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }
  if len(orderedIDs) == 0 {
    return []*types.MasterModule{}, nil
  }

  var updated []*types.MasterModule
  err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
    for position, id := range orderedIDs {
      result := inner.
        Model(&types.MasterModule{}).
        Where("id = ?", id).
        Update("display_order", (position+1)*10)
      if result.Error != nil {
        return result.Error
      }
      if result.RowsAffected == 0 {
        return apierr.New(http.StatusBadRequest, CodePartialNotFound, fmt.Errorf("module %s not found", id))
      }
    }
    var err error
    updated, err = s.masterRepo.GetByIDs(ctx, inner, orderedIDs)
    return err
  })
  if err != nil {
    return nil, err
  }

  position := make(map[uuid.UUID]int, len(orderedIDs))
  for i, id := range orderedIDs {
    position[id] = i
  }
  sort.Slice(updated, func(i, j int) bool {
    return position[updated[i].ID] < position[updated[j].ID]
  })
  return updated, nil
}

func (s *masterModuleService) Statistics(ctx context.Context, tx *gorm.DB) (*CatalogStatistics, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  stats := &CatalogStatistics{ByCategory: map[string]int64{}}

  var err error
  if stats.TotalModules, err = s.masterRepo.Count(ctx, transaction); err != nil {
    return nil, err
  }
  if stats.ActiveModules, err = s.masterRepo.CountByStatus(ctx, transaction, types.ModuleStatusActive); err != nil {
    return nil, err
  }
  if stats.DeprecatedModules, err = s.masterRepo.CountByStatus(ctx, transaction, types.ModuleStatusDeprecated); err != nil {
    return nil, err
  }
  for _, category := range types.AllCategories() {
    count, err := s.masterRepo.CountByCategory(ctx, transaction, category)
    if err != nil {
      return nil, err
    }
    if count > 0 {
      stats.ByCategory[string(category)] = count
    }
  }

  var totalInstalls int64
  err = transaction.WithContext(ctx).
    Model(&types.MasterModule{}).
    Select("COALESCE(SUM(install_count), 0)").
    Scan(&totalInstalls).Error
  if err != nil {
    return nil, err
  }
  stats.TotalInstalls = totalInstalls
  return stats, nil
}

// validateReferences rejects self references and dependency or conflict
// codes that do not exist in the catalog.
func (s *masterModuleService) validateReferences(ctx context.Context, tx *gorm.DB, module *types.MasterModule) error {
  if module.ReferencesSelf() {
    return apierr.New(http.StatusBadRequest, CodeInvalidDependency,
      fmt.Errorf("module %q references itself", module.ModuleCode))
  }

  referenced := append([]string{}, module.Configuration.Dependencies...)
  referenced = append(referenced, module.Configuration.ConflictsWith...)
  if len(referenced) == 0 {
    return nil
  }

  found, err := s.masterRepo.GetByCodes(ctx, tx, referenced)
  if err != nil {
    return err
  }
  known := make(map[string]bool, len(found))
  for _, m := range found {
    known[m.ModuleCode] = true
  }

  var unknown []string
  for _, code := range referenced {
    if !known[code] {
      unknown = append(unknown, code)
    }
  }
  if len(unknown) > 0 {
    return apierr.WithDetails(http.StatusBadRequest, CodeInvalidDependency,
      fmt.Errorf("unknown module codes referenced: %v", unknown), unknown)
  }
  return nil
}

func applyInput(module *types.MasterModule, input MasterModuleInput) {
  module.Name = input.Name
  module.Description = input.Description
  module.Tagline = input.Tagline
  module.Category = input.Category
  if input.Status != "" {
    module.Status = input.Status
  }
  module.RequiredTier = input.RequiredTier
  module.RequiredRole = input.RequiredRole
  module.Complexity = input.Complexity
  module.Version = input.Version
  module.Configuration = input.Configuration
  module.UIMetadata = input.UIMetadata
  module.RouteInfo = input.RouteInfo
  module.NavigationIndex = input.NavigationIndex
  module.Provider = input.Provider
  module.SupportEmail = input.SupportEmail
  module.DocumentationURL = input.DocumentationURL
  module.SizeMb = input.SizeMb
  module.Featured = input.Featured
  module.Active = input.Active
  module.ReleaseNotes = input.ReleaseNotes
}
