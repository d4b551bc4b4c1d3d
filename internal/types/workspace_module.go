package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModuleSettings holds tenant-local overrides for an installed module.
type ModuleSettings struct {
	CustomName           string         `json:"custom_name,omitempty"`
	CustomDescription    string         `json:"custom_description,omitempty"`
	Visibility           string         `json:"visibility"`
	EnabledFeatures      []string       `json:"enabled_features,omitempty"`
	DisabledFeatures     []string       `json:"disabled_features,omitempty"`
	CustomConfiguration  map[string]any `json:"custom_configuration,omitempty"`
	NotificationsEnabled bool           `json:"notifications_enabled"`
	AutoUpdate           bool           `json:"auto_update"`
	QuickAccess          bool           `json:"quick_access"`
}

func DefaultModuleSettings() ModuleSettings {
	return ModuleSettings{
		Visibility:           "VISIBLE",
		NotificationsEnabled: true,
		AutoUpdate:           true,
	}
}

// ModuleUsageMetrics is write-only from this subsystem; analytics reads it.
type ModuleUsageMetrics struct {
	TotalAccesses    int        `json:"total_accesses"`
	UniqueUsers      int        `json:"unique_users"`
	DailyActiveUsers int        `json:"daily_active_users"`
	LastAccessedAt   *time.Time `json:"last_accessed_at,omitempty"`
	ErrorCount       int        `json:"error_count"`
	LastErrorAt      *time.Time `json:"last_error_at,omitempty"`
	PerformanceScore float64    `json:"performance_score"`
}

type WorkspaceModule struct {
	ID               uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID      string                `gorm:"column:workspace_id;size:36;not null;index:idx_workspace_module_workspace;uniqueIndex:idx_workspace_module_unique" json:"workspace_id"`
	MasterModuleID   uuid.UUID             `gorm:"column:master_module_id;type:uuid;not null;uniqueIndex:idx_workspace_module_unique" json:"master_module_id"`
	MasterModule     *MasterModule         `gorm:"foreignKey:MasterModuleID;references:ID" json:"master_module,omitempty"`
	Status           WorkspaceModuleStatus `gorm:"column:status;size:20;not null;index" json:"status"`
	Enabled          bool                  `gorm:"column:enabled;not null;index" json:"enabled"`
	InstalledVersion string                `gorm:"column:installed_version;size:50;not null" json:"installed_version"`
	InstalledAt      time.Time             `gorm:"column:installed_at;not null" json:"installed_at"`
	InstalledBy      string                `gorm:"column:installed_by;size:36" json:"installed_by,omitempty"`
	InstalledByName  string                `gorm:"column:installed_by_name;size:255" json:"installed_by_name,omitempty"`
	LastUpdatedAt    *time.Time            `gorm:"column:last_updated_at" json:"last_updated_at,omitempty"`
	LastUpdatedBy    string                `gorm:"column:last_updated_by;size:36" json:"last_updated_by,omitempty"`
	CategoryOverride string                `gorm:"column:category_override;size:100" json:"category_override,omitempty"`
	DisplayOrder     int                   `gorm:"column:display_order;not null" json:"display_order"`
	Settings         ModuleSettings        `gorm:"column:settings;serializer:json" json:"settings"`
	UsageMetrics     ModuleUsageMetrics    `gorm:"column:usage_metrics;serializer:json" json:"usage_metrics"`
	CreatedAt        time.Time             `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time             `gorm:"not null" json:"updated_at"`
}

func (WorkspaceModule) TableName() string { return "workspace_modules" }

func (w *WorkspaceModule) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// IsOperational reports whether the module is usable right now.
func (w *WorkspaceModule) IsOperational() bool {
	return w.Enabled && w.Status == WorkspaceModuleActive
}

// EffectiveName prefers the tenant's custom name over the catalog name.
func (w *WorkspaceModule) EffectiveName() string {
	if w.Settings.CustomName != "" {
		return w.Settings.CustomName
	}
	if w.MasterModule != nil {
		return w.MasterModule.Name
	}
	return ""
}

// EffectiveCategory prefers the tenant's override over the catalog category.
func (w *WorkspaceModule) EffectiveCategory() string {
	if w.CategoryOverride != "" {
		return w.CategoryOverride
	}
	if w.MasterModule != nil {
		return string(w.MasterModule.Category)
	}
	return ""
}

// CanBeUpdated reports whether a newer production-ready catalog version
// exists for this installation.
func (w *WorkspaceModule) CanBeUpdated() bool {
	if w.MasterModule == nil {
		return false
	}
	return w.InstalledVersion != w.MasterModule.Version && w.MasterModule.IsProductionReady()
}

// NeedsAttention is the health predicate surfaced in the catalog view. A
// record needs attention when it is not cleanly active, has recorded errors,
// or lags the catalog version.
func (w *WorkspaceModule) NeedsAttention() bool {
	return w.Status != WorkspaceModuleActive ||
		w.UsageMetrics.ErrorCount > 0 ||
		w.CanBeUpdated()
}

// HealthScore collapses the record state into a 0.0-1.0 scalar.
func (w *WorkspaceModule) HealthScore() float64 {
	score := 1.0
	if w.UsageMetrics.TotalAccesses > 0 {
		errorRate := float64(w.UsageMetrics.ErrorCount) / float64(w.UsageMetrics.TotalAccesses)
		score -= errorRate * 0.3
	}
	if w.CanBeUpdated() {
		score -= 0.1
	}
	if !w.IsOperational() {
		score -= 0.4
	}
	if score < 0 {
		return 0
	}
	return score
}
