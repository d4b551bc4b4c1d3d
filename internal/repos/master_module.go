package repos

import (
  "context"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/types"
)

// MasterModuleFilter narrows catalog listings. Nil fields are ignored.
type MasterModuleFilter struct {
  Category   *types.ModuleCategory
  Status     *types.ModuleStatus
  Complexity *types.ModuleComplexity
  Tier       *types.SubscriptionTier
  Featured   *bool
  Active     *bool
}

type MasterModuleRepo interface {
  Create(ctx context.Context, tx *gorm.DB, module *types.MasterModule) (*types.MasterModule, error)
  Save(ctx context.Context, tx *gorm.DB, module *types.MasterModule) error
  Delete(ctx context.Context, tx *gorm.DB, module *types.MasterModule) error
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MasterModule, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MasterModule, error)
  GetByCode(ctx context.Context, tx *gorm.DB, moduleCode string) (*types.MasterModule, error)
  GetByCodes(ctx context.Context, tx *gorm.DB, moduleCodes []string) ([]*types.MasterModule, error)
  List(ctx context.Context, tx *gorm.DB, filter MasterModuleFilter, offset, limit int) ([]*types.MasterModule, int64, error)
  ListActive(ctx context.Context, tx *gorm.DB) ([]*types.MasterModule, error)
  Search(ctx context.Context, tx *gorm.DB, keyword string) ([]*types.MasterModule, error)
  IncrementInstallCount(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
  DecrementInstallCount(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
  UpdateStatusBulk(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, status types.ModuleStatus) error
  CountByCategory(ctx context.Context, tx *gorm.DB, category types.ModuleCategory) (int64, error)
  CountByStatus(ctx context.Context, tx *gorm.DB, status types.ModuleStatus) (int64, error)
  Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type masterModuleRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMasterModuleRepo(db *gorm.DB, baseLog *logger.Logger) MasterModuleRepo {
  repoLog := baseLog.With("repo", "MasterModuleRepo")
  return &masterModuleRepo{db: db, log: repoLog}
}

func (mr *masterModuleRepo) Create(ctx context.Context, tx *gorm.DB, module *types.MasterModule) (*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  if err := transaction.WithContext(ctx).Create(module).Error; err != nil {
    return nil, err
  }
  return module, nil
}

func (mr *masterModuleRepo) Save(ctx context.Context, tx *gorm.DB, module *types.MasterModule) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).Save(module).Error
}

func (mr *masterModuleRepo) Delete(ctx context.Context, tx *gorm.DB, module *types.MasterModule) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).Delete(module).Error
}

func (mr *masterModuleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var result types.MasterModule
  err := transaction.WithContext(ctx).
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

func (mr *masterModuleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var results []*types.MasterModule
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *masterModuleRepo) GetByCode(ctx context.Context, tx *gorm.DB, moduleCode string) (*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var result types.MasterModule
  err := transaction.WithContext(ctx).
    Where("module_code = ?", moduleCode).
    First(&result).Error
  if err == gorm.ErrRecordNotFound {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (mr *masterModuleRepo) GetByCodes(ctx context.Context, tx *gorm.DB, moduleCodes []string) ([]*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var results []*types.MasterModule
  if len(moduleCodes) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("module_code IN ?", moduleCodes).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *masterModuleRepo) List(ctx context.Context, tx *gorm.DB, filter MasterModuleFilter, offset, limit int) ([]*types.MasterModule, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  query := transaction.WithContext(ctx).Model(&types.MasterModule{})
  if filter.Category != nil {
    query = query.Where("category = ?", *filter.Category)
  }
  if filter.Status != nil {
    query = query.Where("status = ?", *filter.Status)
  }
  if filter.Complexity != nil {
    query = query.Where("complexity = ?", *filter.Complexity)
  }
  if filter.Tier != nil {
    query = query.Where("required_tier = ?", *filter.Tier)
  }
  if filter.Featured != nil {
    query = query.Where("featured = ?", *filter.Featured)
  }
  if filter.Active != nil {
    query = query.Where("active = ?", *filter.Active)
  }

  var total int64
  if err := query.Count(&total).Error; err != nil {
    return nil, 0, err
  }

  var results []*types.MasterModule
  query = query.Order("display_order ASC")
  if limit > 0 {
    query = query.Offset(offset).Limit(limit)
  }
  if err := query.Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, total, nil
}

func (mr *masterModuleRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var results []*types.MasterModule
  if err := transaction.WithContext(ctx).
    Where("active = ?", true).
    Order("display_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (mr *masterModuleRepo) Search(ctx context.Context, tx *gorm.DB, keyword string) ([]*types.MasterModule, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  pattern := "%" + strings.ToLower(keyword) + "%"
  var results []*types.MasterModule
  if err := transaction.WithContext(ctx).
    Where("active = ?", true).
    Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
    Order("display_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// IncrementInstallCount applies a single atomic UPDATE so concurrent installs
// across workspaces never lose counts.
func (mr *masterModuleRepo) IncrementInstallCount(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).
    Model(&types.MasterModule{}).
    Where("id = ?", id).
    UpdateColumn("install_count", gorm.Expr("install_count + 1")).Error
}

// DecrementInstallCount floors at zero inside the UPDATE itself.
func (mr *masterModuleRepo) DecrementInstallCount(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  return transaction.WithContext(ctx).
    Model(&types.MasterModule{}).
    Where("id = ? AND install_count > 0", id).
    UpdateColumn("install_count", gorm.Expr("install_count - 1")).Error
}

func (mr *masterModuleRepo) UpdateStatusBulk(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, status types.ModuleStatus) error {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(ids) == 0 {
    return nil
  }
  now := time.Now().UTC()
  return transaction.WithContext(ctx).
    Model(&types.MasterModule{}).
    Where("id IN ?", ids).
    Updates(map[string]any{"status": status, "last_updated_at": now}).Error
}

func (mr *masterModuleRepo) CountByCategory(ctx context.Context, tx *gorm.DB, category types.ModuleCategory) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var count int64
  err := transaction.WithContext(ctx).
    Model(&types.MasterModule{}).
    Where("active = ? AND category = ?", true, category).
    Count(&count).Error
  return count, err
}

func (mr *masterModuleRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status types.ModuleStatus) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var count int64
  err := transaction.WithContext(ctx).
    Model(&types.MasterModule{}).
    Where("status = ?", status).
    Count(&count).Error
  return count, err
}

func (mr *masterModuleRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var count int64
  err := transaction.WithContext(ctx).
    Model(&types.MasterModule{}).
    Count(&count).Error
  return count, err
}
