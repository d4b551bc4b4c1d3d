package services

import (
  "context"
  "testing"

  "github.com/yungbote/storefront-backend/internal/seed"
  "github.com/yungbote/storefront-backend/internal/types"
)

func seedDefs() []seed.Definition {
  return []seed.Definition{
    {
      ModuleCode:   "orders",
      Name:         "Orders",
      Category:     string(types.CategorySalesManagement),
      Complexity:   string(types.ComplexityStandard),
      RequiredTier: string(types.TierFree),
      RequiredRole: string(types.RoleEmployee),
      Version:      "1.0.0",
      DisplayOrder: 10,
    },
    {
      ModuleCode:   "products",
      Name:         "Products",
      Category:     string(types.CategorySalesManagement),
      Complexity:   string(types.ComplexityStandard),
      RequiredTier: string(types.TierFree),
      RequiredRole: string(types.RoleManager),
      Version:      "1.0.0",
      DisplayOrder: 20,
    },
  }
}

func TestSeederCreatesThenUpdates(t *testing.T) {
  env := newTestEnv(t)
  ctx := context.Background()

  report, err := env.seeder.Reconcile(ctx, nil, seedDefs())
  if err != nil {
    t.Fatalf("first reconcile: %v", err)
  }
  if report.Created != 2 || report.Updated != 0 || report.Failed != 0 {
    t.Fatalf("first run report = %+v, want 2 created", report)
  }

  report, err = env.seeder.Reconcile(ctx, nil, seedDefs())
  if err != nil {
    t.Fatalf("second reconcile: %v", err)
  }
  if report.Created != 0 || report.Updated != 2 || report.Failed != 0 {
    t.Fatalf("second run report = %+v, want 2 updated", report)
  }

  count, err := env.master.Count(ctx, nil)
  if err != nil {
    t.Fatalf("count: %v", err)
  }
  if count != 2 {
    t.Fatalf("catalog has %d modules after reseed, want 2", count)
  }
}

func TestSeederPreservesCountersAndIdentity(t *testing.T) {
  env := newTestEnv(t)
  ctx := context.Background()

  if _, err := env.seeder.Reconcile(ctx, nil, seedDefs()); err != nil {
    t.Fatalf("reconcile: %v", err)
  }
  before, err := env.master.GetByCode(ctx, nil, "orders")
  if err != nil || before == nil {
    t.Fatalf("load orders: %v", err)
  }

  env.mustInstall(t, workspaceCtx("ws-1"), "orders")

  // Reseed with a new version; the installation counter and identity must
  // survive while definition fields move.
  defs := seedDefs()
  defs[0].Version = "2.0.0"
  if _, err := env.seeder.Reconcile(ctx, nil, defs); err != nil {
    t.Fatalf("reseed: %v", err)
  }

  after, err := env.master.GetByCode(ctx, nil, "orders")
  if err != nil || after == nil {
    t.Fatalf("reload orders: %v", err)
  }
  if after.ID != before.ID {
    t.Fatal("reseed replaced the row instead of updating it")
  }
  if after.InstallCount != 1 {
    t.Fatalf("install count = %d after reseed, want 1", after.InstallCount)
  }
  if after.Version != "2.0.0" {
    t.Fatalf("version = %q after reseed, want 2.0.0", after.Version)
  }
}

func TestSeederSkipsBrokenDefinitions(t *testing.T) {
  env := newTestEnv(t)
  ctx := context.Background()

  defs := seedDefs()
  defs = append(defs, seed.Definition{Name: "No Code"})

  report, err := env.seeder.Reconcile(ctx, nil, defs)
  if err != nil {
    t.Fatalf("reconcile: %v", err)
  }
  if report.Created != 2 || report.Failed != 1 {
    t.Fatalf("report = %+v, want 2 created and 1 failed", report)
  }
}
