package services

import (
  "context"
  "testing"

  "github.com/yungbote/storefront-backend/internal/types"
)

func findEntry(entries []*CatalogEntry, code string) *CatalogEntry {
  for _, entry := range entries {
    if entry.ModuleCode == code {
      return entry
    }
  }
  return nil
}

func findAction(entry *CatalogEntry, action types.ModuleActionType) *ModuleAction {
  for i := range entry.Actions {
    if entry.Actions[i].Type == action {
      return &entry.Actions[i]
    }
  }
  return nil
}

func TestCatalogPartitionsInstalledAndAvailable(t *testing.T) {
  env := newTestEnv(t)
  env.mustSeedModule(t, "orders", nil)
  env.mustSeedModule(t, "products", nil)
  env.mustSeedModule(t, "draft-module", func(m *types.MasterModule) {
    m.Status = types.ModuleStatusDraft
  })
  ctx := workspaceCtx("ws-1")

  env.mustInstall(t, ctx, "orders")

  catalog, err := env.catalog.BuildCatalog(ctx, nil, CatalogFilter{IncludeDisabled: true})
  if err != nil {
    t.Fatalf("build: %v", err)
  }

  if len(catalog.Installed) != 1 || catalog.Installed[0].ModuleCode != "orders" {
    t.Fatalf("installed = %+v, want only orders", catalog.Installed)
  }
  // A module never appears in both partitions.
  if findEntry(catalog.Available, "orders") != nil {
    t.Fatal("orders is installed and must not be listed as available")
  }
  if findEntry(catalog.Available, "products") == nil {
    t.Fatal("products should be available")
  }

  // Draft modules are listed but not installable.
  draft := findEntry(catalog.Available, "draft-module")
  if draft == nil {
    t.Fatal("draft module missing from available list")
  }
  install := findAction(draft, types.ActionInstall)
  if install == nil || install.Available {
    t.Fatalf("draft module install action = %+v, want unavailable", install)
  }

  if catalog.Statistics.TotalInstalled != 1 || catalog.Statistics.TotalEnabled != 1 {
    t.Fatalf("statistics = %+v", catalog.Statistics)
  }
}

func TestCatalogInstalledActions(t *testing.T) {
  env := newTestEnv(t)
  env.mustSeedModule(t, "tax-codes", nil)
  env.mustSeedModule(t, "products", func(m *types.MasterModule) {
    m.Configuration.Dependencies = []string{"tax-codes"}
  })
  ctx := workspaceCtx("ws-1")

  env.mustInstall(t, ctx, "tax-codes")
  dependent := env.mustInstall(t, ctx, "products")

  catalog, err := env.catalog.BuildCatalog(ctx, nil, CatalogFilter{IncludeDisabled: true})
  if err != nil {
    t.Fatalf("build: %v", err)
  }

  // tax-codes has an enabled dependent, so uninstall is blocked.
  taxEntry := findEntry(catalog.Installed, "tax-codes")
  uninstall := findAction(taxEntry, types.ActionUninstall)
  if uninstall == nil || uninstall.Available {
    t.Fatalf("uninstall action = %+v, want blocked", uninstall)
  }

  // An enabled module offers DISABLE, never ENABLE.
  prodEntry := findEntry(catalog.Installed, "products")
  if findAction(prodEntry, types.ActionDisable) == nil {
    t.Fatal("enabled module should offer DISABLE")
  }
  if findAction(prodEntry, types.ActionEnable) != nil {
    t.Fatal("enabled module must not offer ENABLE")
  }
  if findAction(prodEntry, types.ActionConfigure) == nil {
    t.Fatal("operational module should offer CONFIGURE")
  }

  // After disabling, the same entry flips to ENABLE.
  if _, err := env.lifecycle.SetEnabled(ctx, nil, dependent.ModuleID, false); err != nil {
    t.Fatalf("disable: %v", err)
  }
  catalog, err = env.catalog.BuildCatalog(ctx, nil, CatalogFilter{IncludeDisabled: true})
  if err != nil {
    t.Fatalf("rebuild: %v", err)
  }
  prodEntry = findEntry(catalog.Installed, "products")
  if findAction(prodEntry, types.ActionEnable) == nil {
    t.Fatal("disabled module should offer ENABLE")
  }
  if findAction(prodEntry, types.ActionDisable) != nil {
    t.Fatal("disabled module must not offer DISABLE")
  }
  if findAction(prodEntry, types.ActionConfigure) == nil {
    t.Fatal("disabled module should still offer CONFIGURE")
  }
}

func TestCatalogFilters(t *testing.T) {
  env := newTestEnv(t)
  env.mustSeedModule(t, "orders", func(m *types.MasterModule) {
    m.Category = types.CategorySalesManagement
  })
  env.mustSeedModule(t, "products", func(m *types.MasterModule) {
    m.Category = types.CategoryInventoryManagement
  })
  env.mustSeedModule(t, "reports", func(m *types.MasterModule) {
    m.Category = types.CategoryAnalyticsReporting
  })
  ctx := workspaceCtx("ws-1")

  env.mustInstall(t, ctx, "orders")
  disabled := env.mustInstall(t, ctx, "products")
  if _, err := env.lifecycle.SetEnabled(ctx, nil, disabled.ModuleID, false); err != nil {
    t.Fatalf("disable: %v", err)
  }

  // Category narrows both partitions.
  catalog, err := env.catalog.BuildCatalog(ctx, nil, CatalogFilter{
    Category:        string(types.CategorySalesManagement),
    IncludeDisabled: true,
  })
  if err != nil {
    t.Fatalf("build: %v", err)
  }
  if len(catalog.Installed) != 1 || catalog.Installed[0].ModuleCode != "orders" {
    t.Fatalf("installed = %+v, want only orders", catalog.Installed)
  }
  if len(catalog.Available) != 0 {
    t.Fatalf("available = %+v, want empty for SALES", catalog.Available)
  }

  // Excluding disabled drops products from the installed partition without
  // moving it to available.
  catalog, err = env.catalog.BuildCatalog(ctx, nil, CatalogFilter{IncludeDisabled: false})
  if err != nil {
    t.Fatalf("build: %v", err)
  }
  if findEntry(catalog.Installed, "products") != nil {
    t.Fatal("disabled installation should be hidden")
  }
  if findEntry(catalog.Installed, "orders") == nil {
    t.Fatal("enabled installation should remain listed")
  }
  if findEntry(catalog.Available, "products") != nil {
    t.Fatal("hidden installation must not reappear as available")
  }
}

func TestCatalogUpdateAction(t *testing.T) {
  env := newTestEnv(t)
  module := env.mustSeedModule(t, "orders", nil)
  ctx := workspaceCtx("ws-1")
  env.mustInstall(t, ctx, "orders")

  // Bump the catalog version after installation.
  module.Version = "2.0.0"
  if err := env.master.Save(context.Background(), nil, module); err != nil {
    t.Fatalf("bump version: %v", err)
  }

  catalog, err := env.catalog.BuildCatalog(ctx, nil, CatalogFilter{IncludeDisabled: true})
  if err != nil {
    t.Fatalf("build: %v", err)
  }
  entry := findEntry(catalog.Installed, "orders")
  if findAction(entry, types.ActionUpdate) == nil {
    t.Fatal("outdated installation should offer UPDATE")
  }
  if catalog.Statistics.UpdatesPending != 1 {
    t.Fatalf("updates pending = %d, want 1", catalog.Statistics.UpdatesPending)
  }
  if !entry.Installation.NeedsAttention {
    t.Fatal("outdated installation should be flagged")
  }
}

func TestCatalogAvailableGates(t *testing.T) {
  env := newTestEnv(t)
  env.mustSeedModule(t, "legacy-billing", nil)
  env.mustSeedModule(t, "billing", func(m *types.MasterModule) {
    m.Configuration.ConflictsWith = []string{"legacy-billing"}
  })
  env.mustSeedModule(t, "reports", func(m *types.MasterModule) {
    m.Configuration.Dependencies = []string{"orders"}
  })
  env.mustSeedModule(t, "orders", nil)
  ctx := workspaceCtx("ws-1")

  env.mustInstall(t, ctx, "legacy-billing")

  catalog, err := env.catalog.BuildCatalog(ctx, nil, CatalogFilter{IncludeDisabled: true})
  if err != nil {
    t.Fatalf("build: %v", err)
  }

  conflicted := findAction(findEntry(catalog.Available, "billing"), types.ActionInstall)
  if conflicted == nil || conflicted.Available {
    t.Fatalf("conflicting module install action = %+v, want blocked", conflicted)
  }

  gated := findAction(findEntry(catalog.Available, "reports"), types.ActionInstall)
  if gated == nil || gated.Available {
    t.Fatalf("dependency-gated install action = %+v, want blocked", gated)
  }

  installable := findAction(findEntry(catalog.Available, "orders"), types.ActionInstall)
  if installable == nil || !installable.Available {
    t.Fatalf("orders install action = %+v, want available", installable)
  }
}

func TestCatalogWithoutWorkspaceIsEmpty(t *testing.T) {
  env := newTestEnv(t)
  env.mustSeedModule(t, "orders", nil)
  env.mustInstall(t, workspaceCtx("ws-1"), "orders")

  catalog, err := env.catalog.BuildCatalog(context.Background(), nil, CatalogFilter{IncludeDisabled: true})
  if err != nil {
    t.Fatalf("build: %v", err)
  }
  if len(catalog.Installed) != 0 {
    t.Fatalf("installed = %d without workspace, want 0", len(catalog.Installed))
  }
  if len(catalog.Available) != 0 {
    t.Fatalf("available = %d without workspace, want empty result set", len(catalog.Available))
  }
  if catalog.Statistics.TotalAvailable != 0 {
    t.Fatalf("statistics = %+v without workspace, want zeroes", catalog.Statistics)
  }
}

func TestCatalogFlagsDependentOfDisabledDependency(t *testing.T) {
  env := newTestEnv(t)
  env.mustSeedModule(t, "tax-codes", nil)
  env.mustSeedModule(t, "products", func(m *types.MasterModule) {
    m.Configuration.Dependencies = []string{"tax-codes"}
  })
  ctx := workspaceCtx("ws-1")

  dependency := env.mustInstall(t, ctx, "tax-codes")
  env.mustInstall(t, ctx, "products")

  catalog, err := env.catalog.BuildCatalog(ctx, nil, CatalogFilter{IncludeDisabled: true})
  if err != nil {
    t.Fatalf("build: %v", err)
  }
  entry := findEntry(catalog.Installed, "products")
  if entry.Installation.NeedsAttention {
    t.Fatal("dependent with all dependencies enabled must not be flagged")
  }

  if _, err := env.lifecycle.SetEnabled(ctx, nil, dependency.ModuleID, false); err != nil {
    t.Fatalf("disable dependency: %v", err)
  }
  catalog, err = env.catalog.BuildCatalog(ctx, nil, CatalogFilter{IncludeDisabled: true})
  if err != nil {
    t.Fatalf("rebuild: %v", err)
  }
  entry = findEntry(catalog.Installed, "products")
  if !entry.Installation.NeedsAttention {
    t.Fatal("dependent of a disabled dependency should need attention")
  }
  if catalog.Statistics.NeedAttention == 0 {
    t.Fatal("need-attention count should include the stranded dependent")
  }
  if catalog.Statistics.TotalDisabled != 1 {
    t.Fatalf("disabled count = %d, want 1", catalog.Statistics.TotalDisabled)
  }
}
