package repos

import (
  "context"
  "database/sql"
  "errors"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/types"
)

// ErrDuplicateInstall is returned when the unique (workspace_id,
// master_module_id) constraint rejects an insert. Callers treat it as
// "already installed", never as a failure.
var ErrDuplicateInstall = errors.New("workspace module already installed")

// DisplayOrderUpdate pairs an installation record with its new position.
type DisplayOrderUpdate struct {
  ModuleID uuid.UUID
  Order    int
}

type WorkspaceModuleRepo interface {
  Create(ctx context.Context, tx *gorm.DB, module *types.WorkspaceModule) (*types.WorkspaceModule, error)
  Save(ctx context.Context, tx *gorm.DB, module *types.WorkspaceModule) error
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WorkspaceModule, error)
  GetByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID string) ([]*types.WorkspaceModule, error)
  GetByWorkspaceEnabled(ctx context.Context, tx *gorm.DB, workspaceID string) ([]*types.WorkspaceModule, error)
  GetByWorkspaceAndCode(ctx context.Context, tx *gorm.DB, workspaceID, moduleCode string) (*types.WorkspaceModule, error)
  MaxDisplayOrder(ctx context.Context, tx *gorm.DB, workspaceID string) (int, error)
  UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.WorkspaceModuleStatus) error
  UpdateDisplayOrders(ctx context.Context, tx *gorm.DB, workspaceID string, updates []DisplayOrderUpdate) error
  CountByMasterModule(ctx context.Context, tx *gorm.DB, masterModuleID uuid.UUID) (int64, error)
}

type workspaceModuleRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWorkspaceModuleRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceModuleRepo {
  repoLog := baseLog.With("repo", "WorkspaceModuleRepo")
  return &workspaceModuleRepo{db: db, log: repoLog}
}

func (wr *workspaceModuleRepo) Create(ctx context.Context, tx *gorm.DB, module *types.WorkspaceModule) (*types.WorkspaceModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  if err := transaction.WithContext(ctx).Create(module).Error; err != nil {
    if isDuplicateKey(err) {
      return nil, ErrDuplicateInstall
    }
    return nil, err
  }
  return module, nil
}

func (wr *workspaceModuleRepo) Save(ctx context.Context, tx *gorm.DB, module *types.WorkspaceModule) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  return transaction.WithContext(ctx).Omit("MasterModule").Save(module).Error
}

func (wr *workspaceModuleRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  return transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.WorkspaceModule{}).Error
}

func (wr *workspaceModuleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WorkspaceModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  var result types.WorkspaceModule
  err := transaction.WithContext(ctx).
    Preload("MasterModule").
    Where("id = ?", id).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (wr *workspaceModuleRepo) GetByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID string) ([]*types.WorkspaceModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  var results []*types.WorkspaceModule
  if workspaceID == "" {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Preload("MasterModule").
    Where("workspace_id = ?", workspaceID).
    Order("display_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (wr *workspaceModuleRepo) GetByWorkspaceEnabled(ctx context.Context, tx *gorm.DB, workspaceID string) ([]*types.WorkspaceModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  var results []*types.WorkspaceModule
  if workspaceID == "" {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Preload("MasterModule").
    Where("workspace_id = ? AND enabled = ?", workspaceID, true).
    Order("display_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (wr *workspaceModuleRepo) GetByWorkspaceAndCode(ctx context.Context, tx *gorm.DB, workspaceID, moduleCode string) (*types.WorkspaceModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  var result types.WorkspaceModule
  err := transaction.WithContext(ctx).
    Preload("MasterModule").
    Joins("JOIN master_modules ON master_modules.id = workspace_modules.master_module_id").
    Where("workspace_modules.workspace_id = ? AND master_modules.module_code = ?", workspaceID, moduleCode).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (wr *workspaceModuleRepo) MaxDisplayOrder(ctx context.Context, tx *gorm.DB, workspaceID string) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  var max sql.NullInt64
  err := transaction.WithContext(ctx).
    Model(&types.WorkspaceModule{}).
    Where("workspace_id = ?", workspaceID).
    Select("MAX(display_order)").
    Scan(&max).Error
  if err != nil {
    return 0, err
  }
  if !max.Valid {
    return 0, nil
  }
  return int(max.Int64), nil
}

func (wr *workspaceModuleRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.WorkspaceModuleStatus) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  return transaction.WithContext(ctx).
    Model(&types.WorkspaceModule{}).
    Where("id = ?", id).
    Update("status", status).Error
}

// UpdateDisplayOrders applies the whole batch inside one transaction; a
// missing record rolls back every prior update.
func (wr *workspaceModuleRepo) UpdateDisplayOrders(ctx context.Context, tx *gorm.DB, workspaceID string, updates []DisplayOrderUpdate) error {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }
  if len(updates) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
    for _, update := range updates {
      result := inner.
        Model(&types.WorkspaceModule{}).
        Where("id = ? AND workspace_id = ?", update.ModuleID, workspaceID).
        Update("display_order", update.Order)
      if result.Error != nil {
        return result.Error
      }
      if result.RowsAffected == 0 {
        return gorm.ErrRecordNotFound
      }
    }
    return nil
  })
}

func (wr *workspaceModuleRepo) CountByMasterModule(ctx context.Context, tx *gorm.DB, masterModuleID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = wr.db
  }

  var count int64
  err := transaction.WithContext(ctx).
    Model(&types.WorkspaceModule{}).
    Where("master_module_id = ?", masterModuleID).
    Count(&count).Error
  return count, err
}

func isDuplicateKey(err error) bool {
  if errors.Is(err, gorm.ErrDuplicatedKey) {
    return true
  }
  msg := err.Error()
  return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
