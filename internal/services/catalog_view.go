package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/repos"
  "github.com/yungbote/storefront-backend/internal/requestdata"
  "github.com/yungbote/storefront-backend/internal/types"
)

const catalogCacheTTL = 5 * time.Minute

// ModuleAction is one action option surfaced on a catalog entry. Reason is
// set only when the action is shown but unavailable.
type ModuleAction struct {
  Type      types.ModuleActionType `json:"type"`
  Available bool                   `json:"available"`
  Reason    string                 `json:"reason,omitempty"`
}

// InstallationStatus is the per-workspace slice of a catalog entry.
type InstallationStatus struct {
  InstallationID   uuid.UUID                   `json:"installation_id"`
  Status           types.WorkspaceModuleStatus `json:"status"`
  Enabled          bool                        `json:"enabled"`
  InstalledVersion string                      `json:"installed_version"`
  InstalledAt      time.Time                   `json:"installed_at"`
  DisplayOrder     int                         `json:"display_order"`
  HealthScore      float64                     `json:"health_score"`
  NeedsAttention   bool                        `json:"needs_attention"`
}

// CatalogEntry is one module as the workspace sees it in the marketplace.
type CatalogEntry struct {
  ModuleID     uuid.UUID              `json:"module_id"`
  ModuleCode   string                 `json:"module_code"`
  Name         string                 `json:"name"`
  Tagline      string                 `json:"tagline,omitempty"`
  Description  string                 `json:"description"`
  Category     string                 `json:"category"`
  Complexity   types.ModuleComplexity `json:"complexity"`
  RequiredTier types.SubscriptionTier `json:"required_tier"`
  Version      string                 `json:"version"`
  Provider     string                 `json:"provider,omitempty"`
  SizeMb       int                    `json:"size_mb"`
  Rating       float64                `json:"rating"`
  RatingCount  int                    `json:"rating_count"`
  InstallCount int                    `json:"install_count"`
  Featured     bool                   `json:"featured"`
  UIMetadata   datatypes.JSON         `json:"ui_metadata,omitempty"`
  Installed    bool                   `json:"installed"`
  Installation *InstallationStatus    `json:"installation,omitempty"`
  Actions      []ModuleAction         `json:"actions"`
}

// CatalogViewStats summarizes the workspace's slice of the catalog.
type CatalogViewStats struct {
  TotalAvailable int `json:"total_available"`
  TotalInstalled int `json:"total_installed"`
  TotalEnabled   int `json:"total_enabled"`
  TotalDisabled  int `json:"total_disabled"`
  NeedAttention  int `json:"need_attention"`
  UpdatesPending int `json:"updates_pending"`
}

// ModuleCatalog is the full marketplace view for one workspace.
type ModuleCatalog struct {
  WorkspaceID string           `json:"workspace_id"`
  Installed   []*CatalogEntry  `json:"installed"`
  Available   []*CatalogEntry  `json:"available"`
  Categories  map[string]int   `json:"categories"`
  Statistics  CatalogViewStats `json:"statistics"`
  GeneratedAt time.Time        `json:"generated_at"`
}

// CatalogFilter narrows the catalog view. The zero value hides disabled
// installations and spans every category.
type CatalogFilter struct {
  Category        string
  IncludeDisabled bool
}

func (f CatalogFilter) cacheName() string {
  return fmt.Sprintf("catalog:%s:%t", f.Category, f.IncludeDisabled)
}

type CatalogViewService interface {
  BuildCatalog(ctx context.Context, tx *gorm.DB, filter CatalogFilter) (*ModuleCatalog, error)
}

type catalogViewService struct {
  db         *gorm.DB
  log        *logger.Logger
  masterRepo repos.MasterModuleRepo
  wsRepo     repos.WorkspaceModuleRepo
  cache      CatalogCache
}

func NewCatalogViewService(
  db *gorm.DB,
  baseLog *logger.Logger,
  masterRepo repos.MasterModuleRepo,
  wsRepo repos.WorkspaceModuleRepo,
  cache CatalogCache,
) CatalogViewService {
  return &catalogViewService{
    db:         db,
    log:        baseLog.With("service", "CatalogViewService"),
    masterRepo: masterRepo,
    wsRepo:     wsRepo,
    cache:      cache,
  }
}

func (s *catalogViewService) BuildCatalog(ctx context.Context, tx *gorm.DB, filter CatalogFilter) (*ModuleCatalog, error) {
  workspaceID := requestdata.CurrentWorkspace(ctx)
  // Reads without tenant context return an empty result set.
  if workspaceID == "" {
    return &ModuleCatalog{
      Installed:   []*CatalogEntry{},
      Available:   []*CatalogEntry{},
      Categories:  map[string]int{},
      GeneratedAt: time.Now().UTC(),
    }, nil
  }

  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  if workspaceID != "" && s.cache != nil && tx == nil {
    var cached ModuleCatalog
    hit, err := s.cache.Get(ctx, workspaceID, filter.cacheName(), &cached)
    if err != nil {
      s.log.Warn("Catalog cache read failed", "error", err, "workspace_id", workspaceID)
    } else if hit {
      return &cached, nil
    }
  }

  masters, err := s.masterRepo.ListActive(ctx, transaction)
  if err != nil {
    return nil, err
  }
  records, err := s.wsRepo.GetByWorkspace(ctx, transaction, workspaceID)
  if err != nil {
    return nil, err
  }

  catalog := s.assemble(workspaceID, masters, records, filter)

  if workspaceID != "" && s.cache != nil && tx == nil {
    if err := s.cache.Set(ctx, workspaceID, filter.cacheName(), catalog, catalogCacheTTL); err != nil {
      s.log.Warn("Catalog cache write failed", "error", err, "workspace_id", workspaceID)
    }
  }
  return catalog, nil
}

func (s *catalogViewService) assemble(workspaceID string, masters []*types.MasterModule, records []*types.WorkspaceModule, filter CatalogFilter) *ModuleCatalog {
  // An installation shadows its catalog entry by master id AND by code, so
  // a re-issued code never shows the same module as both installed and
  // available.
  installedIDs := make(map[uuid.UUID]bool, len(records))
  installedCodes := make(map[string]bool, len(records))
  enabledCodes := make(map[string]bool, len(records))
  for _, record := range records {
    installedIDs[record.MasterModuleID] = true
    if record.MasterModule != nil {
      installedCodes[record.MasterModule.ModuleCode] = true
      if record.Enabled {
        enabledCodes[record.MasterModule.ModuleCode] = true
      }
    }
  }

  // Dependents per code, for the UNINSTALL gate.
  dependents := map[string][]string{}
  for _, record := range records {
    if record.MasterModule == nil || !record.Enabled {
      continue
    }
    for _, dep := range record.MasterModule.Configuration.Dependencies {
      dependents[dep] = append(dependents[dep], record.EffectiveName())
    }
  }

  catalog := &ModuleCatalog{
    WorkspaceID: workspaceID,
    Installed:   []*CatalogEntry{},
    Available:   []*CatalogEntry{},
    Categories:  map[string]int{},
    GeneratedAt: time.Now().UTC(),
  }

  for _, record := range records {
    if record.MasterModule == nil {
      continue
    }
    // A record whose declared dependencies are no longer all enabled keeps
    // working but must be flagged; the record alone cannot see its siblings.
    attention := record.NeedsAttention() ||
      len(record.MasterModule.MissingDependencies(enabledCodes)) > 0

    // Statistics cover the whole workspace, not just the filtered view.
    catalog.Statistics.TotalInstalled++
    if record.Enabled {
      catalog.Statistics.TotalEnabled++
    } else {
      catalog.Statistics.TotalDisabled++
    }
    if attention {
      catalog.Statistics.NeedAttention++
    }
    if record.CanBeUpdated() {
      catalog.Statistics.UpdatesPending++
    }

    if !filter.IncludeDisabled && !record.Enabled {
      continue
    }
    if filter.Category != "" && record.EffectiveCategory() != filter.Category {
      continue
    }
    entry := entryFromMaster(record.MasterModule)
    entry.Name = record.EffectiveName()
    entry.Category = record.EffectiveCategory()
    entry.Installed = true
    entry.Installation = &InstallationStatus{
      InstallationID:   record.ID,
      Status:           record.Status,
      Enabled:          record.Enabled,
      InstalledVersion: record.InstalledVersion,
      InstalledAt:      record.InstalledAt,
      DisplayOrder:     record.DisplayOrder,
      HealthScore:      record.HealthScore(),
      NeedsAttention:   attention,
    }
    entry.Actions = installedActions(record, dependents[record.MasterModule.ModuleCode])
    catalog.Installed = append(catalog.Installed, entry)
    catalog.Categories[entry.Category]++
  }

  for _, master := range masters {
    if installedIDs[master.ID] || installedCodes[master.ModuleCode] {
      continue
    }
    catalog.Statistics.TotalAvailable++
    if filter.Category != "" && string(master.Category) != filter.Category {
      continue
    }
    entry := entryFromMaster(master)
    entry.Actions = []ModuleAction{availableInstallAction(master, enabledCodes)}
    catalog.Available = append(catalog.Available, entry)
    catalog.Categories[entry.Category]++
  }

  return catalog
}

func entryFromMaster(master *types.MasterModule) *CatalogEntry {
  return &CatalogEntry{
    ModuleID:     master.ID,
    ModuleCode:   master.ModuleCode,
    Name:         master.Name,
    Tagline:      master.Tagline,
    Description:  master.Description,
    Category:     string(master.Category),
    Complexity:   master.Complexity,
    RequiredTier: master.RequiredTier,
    Version:      master.Version,
    Provider:     master.Provider,
    SizeMb:       master.SizeMb,
    Rating:       master.Rating,
    RatingCount:  master.RatingCount,
    InstallCount: master.InstallCount,
    Featured:     master.Featured,
    UIMetadata:   master.UIMetadata,
  }
}

func installedActions(record *types.WorkspaceModule, dependentNames []string) []ModuleAction {
  actions := []ModuleAction{}

  uninstall := ModuleAction{Type: types.ActionUninstall, Available: true}
  if len(dependentNames) > 0 {
    uninstall.Available = false
    uninstall.Reason = "Other installed modules depend on this module"
  }
  actions = append(actions, uninstall)

  switch {
  case record.Status == types.WorkspaceModuleError:
    actions = append(actions, ModuleAction{
      Type:      types.ActionEnable,
      Available: false,
      Reason:    "Installation is in an error state",
    })
  case record.Status == types.WorkspaceModuleInstalling:
    actions = append(actions, ModuleAction{
      Type:      types.ActionEnable,
      Available: false,
      Reason:    "Installation is still in progress",
    })
  case record.Enabled:
    actions = append(actions, ModuleAction{Type: types.ActionDisable, Available: true})
  default:
    actions = append(actions, ModuleAction{Type: types.ActionEnable, Available: true})
  }

  actions = append(actions, ModuleAction{Type: types.ActionConfigure, Available: true})
  if record.CanBeUpdated() {
    actions = append(actions, ModuleAction{Type: types.ActionUpdate, Available: true})
  }
  return actions
}

func availableInstallAction(master *types.MasterModule, enabledCodes map[string]bool) ModuleAction {
  action := ModuleAction{Type: types.ActionInstall, Available: true}
  if !master.IsProductionReady() {
    action.Available = false
    action.Reason = "Module is not available for installation"
    return action
  }
  if missing := master.MissingDependencies(enabledCodes); len(missing) > 0 {
    action.Available = false
    action.Reason = "Requires modules that are not installed"
    return action
  }
  if conflicts := master.Conflicts(enabledCodes); len(conflicts) > 0 {
    action.Available = false
    action.Reason = "Conflicts with an installed module"
  }
  return action
}
