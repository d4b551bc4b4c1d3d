package services

import (
  "context"
  "fmt"
  "strings"
  "sync"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/repos"
  "github.com/yungbote/storefront-backend/internal/requestdata"
  "github.com/yungbote/storefront-backend/internal/types"
)

// testEnv wires the real repos and services against an in-memory sqlite
// database, one database per test.
type testEnv struct {
  db       *gorm.DB
  master   repos.MasterModuleRepo
  ws       repos.WorkspaceModuleRepo
  lifecycle WorkspaceModuleService
  admin    MasterModuleService
  catalog  CatalogViewService
  seeder   CatalogSeeder
  cache    *fakeCache
}

func newTestEnv(t *testing.T) *testEnv {
  t.Helper()

  dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
  db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }
  sqlDB, err := db.DB()
  if err != nil {
    t.Fatalf("unwrap sql.DB: %v", err)
  }
  // A single connection keeps the shared in-memory database alive and
  // avoids sqlite lock contention under concurrent test calls.
  sqlDB.SetMaxOpenConns(1)

  if err := db.AutoMigrate(&types.MasterModule{}, &types.WorkspaceModule{}); err != nil {
    t.Fatalf("automigrate: %v", err)
  }

  log := logger.NewNop()
  masterRepo := repos.NewMasterModuleRepo(db, log)
  wsRepo := repos.NewWorkspaceModuleRepo(db, log)
  cache := &fakeCache{}

  return &testEnv{
    db:        db,
    master:    masterRepo,
    ws:        wsRepo,
    lifecycle: NewWorkspaceModuleService(db, log, masterRepo, wsRepo, nil, cache, NewLogNotifier(log)),
    admin:     NewMasterModuleService(db, log, masterRepo, wsRepo),
    catalog:   NewCatalogViewService(db, log, masterRepo, wsRepo, nil),
    seeder:    NewCatalogSeeder(db, log, masterRepo),
    cache:     cache,
  }
}

// fakeCache records invalidations so tests can assert lifecycle writes bust
// the catalog cache.
type fakeCache struct {
  mu            sync.Mutex
  invalidations []string
}

func (f *fakeCache) Get(ctx context.Context, workspaceID, name string, dest any) (bool, error) {
  return false, nil
}

func (f *fakeCache) Set(ctx context.Context, workspaceID, name string, value any, ttl time.Duration) error {
  return nil
}

func (f *fakeCache) InvalidateWorkspace(ctx context.Context, workspaceID string) error {
  f.mu.Lock()
  defer f.mu.Unlock()
  f.invalidations = append(f.invalidations, workspaceID)
  return nil
}

func (f *fakeCache) invalidationCount() int {
  f.mu.Lock()
  defer f.mu.Unlock()
  return len(f.invalidations)
}

func workspaceCtx(workspaceID string) context.Context {
  return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
    WorkspaceID: workspaceID,
    UserID:      uuid.New(),
    UserName:    "Test User",
  })
}

func (e *testEnv) mustSeedModule(t *testing.T, code string, mutate func(*types.MasterModule)) *types.MasterModule {
  t.Helper()

  module := &types.MasterModule{
    ModuleCode: code,
    Name:       "Module " + code,
    Category:   types.CategorySalesManagement,
    Status:     types.ModuleStatusActive,
    Complexity: types.ComplexityStandard,
    RequiredTier: types.TierFree,
    RequiredRole: types.RoleEmployee,
    Version:    "1.0.0",
    Active:     true,
  }
  if mutate != nil {
    mutate(module)
  }

  created, err := e.master.Create(context.Background(), nil, module)
  if err != nil {
    t.Fatalf("seed module %q: %v", code, err)
  }
  return created
}

func (e *testEnv) mustInstall(t *testing.T, ctx context.Context, code string) *InstallResult {
  t.Helper()
  result, err := e.lifecycle.Install(ctx, nil, code)
  if err != nil {
    t.Fatalf("install %q: %v", code, err)
  }
  if !result.Success {
    t.Fatalf("install %q: not successful: %s", code, result.Message)
  }
  return result
}

func (e *testEnv) installCount(t *testing.T, code string) int {
  t.Helper()
  module, err := e.master.GetByCode(context.Background(), nil, code)
  if err != nil {
    t.Fatalf("get %q: %v", code, err)
  }
  if module == nil {
    t.Fatalf("module %q vanished", code)
  }
  return module.InstallCount
}
