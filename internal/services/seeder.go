package services

import (
  "context"
  "time"

  "gorm.io/gorm"

  "github.com/yungbote/storefront-backend/internal/logger"
  "github.com/yungbote/storefront-backend/internal/repos"
  "github.com/yungbote/storefront-backend/internal/seed"
)

// SeedReport summarizes one reconcile run.
type SeedReport struct {
  Created int
  Updated int
  Failed  int
}

// CatalogSeeder reconciles the catalog table with the declared definitions.
// Safe to run on every boot.
type CatalogSeeder interface {
  Reconcile(ctx context.Context, tx *gorm.DB, defs []seed.Definition) (*SeedReport, error)
}

type catalogSeeder struct {
  db         *gorm.DB
  log        *logger.Logger
  masterRepo repos.MasterModuleRepo
}

func NewCatalogSeeder(db *gorm.DB, baseLog *logger.Logger, masterRepo repos.MasterModuleRepo) CatalogSeeder {
  return &catalogSeeder{
    db:         db,
    log:        baseLog.With("service", "CatalogSeeder"),
    masterRepo: masterRepo,
  }
}

// Reconcile upserts each definition by module code. A bad definition is
// logged and skipped; one broken entry must not block the rest of the
// catalog from seeding.
func (s *catalogSeeder) Reconcile(ctx context.Context, tx *gorm.DB, defs []seed.Definition) (*SeedReport, error) {
  transaction := tx
  if transaction == nil {
    transaction = s.db
  }

  report := &SeedReport{}
  for _, def := range defs {
    desired, err := def.ToMaster()
    if err != nil {
      s.log.Error("Seed definition rejected", "module_code", def.ModuleCode, "error", err)
      report.Failed++
      continue
    }

    existing, err := s.masterRepo.GetByCode(ctx, transaction, desired.ModuleCode)
    if err != nil {
      s.log.Error("Seed lookup failed", "module_code", desired.ModuleCode, "error", err)
      report.Failed++
      continue
    }

    if existing == nil {
      if _, err := s.masterRepo.Create(ctx, transaction, desired); err != nil {
        s.log.Error("Seed create failed", "module_code", desired.ModuleCode, "error", err)
        report.Failed++
        continue
      }
      report.Created++
      continue
    }

    // Identity and live counters survive a reseed; everything else is
    // brought back in line with the definition.
    desired.ID = existing.ID
    desired.ModuleCode = existing.ModuleCode
    desired.InstallCount = existing.InstallCount
    desired.Rating = existing.Rating
    desired.RatingCount = existing.RatingCount
    desired.CreatedAt = existing.CreatedAt
    now := time.Now().UTC()
    desired.LastUpdatedAt = &now

    if err := s.masterRepo.Save(ctx, transaction, desired); err != nil {
      s.log.Error("Seed update failed", "module_code", desired.ModuleCode, "error", err)
      report.Failed++
      continue
    }
    report.Updated++
  }

  s.log.Info("Catalog seed reconciled",
    "created", report.Created,
    "updated", report.Updated,
    "failed", report.Failed)
  return report, nil
}
