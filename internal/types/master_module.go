package types

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ModuleConfiguration declares what a module needs from a workspace before it
// can be installed there. Dependencies and conflicts are flat sets of other
// module codes; there is no transitive resolution.
type ModuleConfiguration struct {
	RequiredPermissions []string       `json:"required_permissions"`
	OptionalPermissions []string       `json:"optional_permissions"`
	DefaultEnabled      bool           `json:"default_enabled"`
	Dependencies        []string       `json:"dependencies"`
	ConflictsWith       []string       `json:"conflicts_with"`
	CustomSettings      map[string]any `json:"custom_settings"`
}

type MasterModule struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleCode       string              `gorm:"column:module_code;size:100;not null;uniqueIndex:idx_master_module_code" json:"module_code"`
	Name             string              `gorm:"column:name;size:200;not null" json:"name"`
	Description      string              `gorm:"column:description;type:text" json:"description"`
	Tagline          string              `gorm:"column:tagline;size:500" json:"tagline"`
	Category         ModuleCategory      `gorm:"column:category;size:50;not null;index" json:"category"`
	Status           ModuleStatus        `gorm:"column:status;size:20;not null;index" json:"status"`
	RequiredTier     SubscriptionTier    `gorm:"column:required_tier;size:20;not null" json:"required_tier"`
	RequiredRole     UserRole            `gorm:"column:required_role;size:20;not null" json:"required_role"`
	Complexity       ModuleComplexity    `gorm:"column:complexity;size:20;not null" json:"complexity"`
	Version          string              `gorm:"column:version;size:50;not null" json:"version"`
	Configuration    ModuleConfiguration `gorm:"column:configuration;serializer:json" json:"configuration"`
	UIMetadata       datatypes.JSON      `gorm:"column:ui_metadata" json:"ui_metadata"`
	RouteInfo        datatypes.JSON      `gorm:"column:route_info" json:"route_info"`
	NavigationIndex  int                 `gorm:"column:navigation_index;not null;default:0" json:"navigation_index"`
	Provider         string              `gorm:"column:provider;size:255" json:"provider"`
	SupportEmail     string              `gorm:"column:support_email;size:255" json:"support_email,omitempty"`
	DocumentationURL string              `gorm:"column:documentation_url;size:500" json:"documentation_url,omitempty"`
	SizeMb           int                 `gorm:"column:size_mb;not null;default:0" json:"size_mb"`
	InstallCount     int                 `gorm:"column:install_count;not null;default:0" json:"install_count"`
	Rating           float64             `gorm:"column:rating;default:0" json:"rating"`
	RatingCount      int                 `gorm:"column:rating_count;not null;default:0" json:"rating_count"`
	Featured         bool                `gorm:"column:featured;not null;default:false" json:"featured"`
	DisplayOrder     int                 `gorm:"column:display_order;not null;default:0" json:"display_order"`
	Active           bool                `gorm:"column:active;not null;default:true" json:"active"`
	ReleaseNotes     string              `gorm:"column:release_notes;type:text" json:"release_notes,omitempty"`
	LastUpdatedAt    *time.Time          `gorm:"column:last_updated_at" json:"last_updated_at,omitempty"`
	CreatedAt        time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"not null" json:"updated_at"`
}

func (MasterModule) TableName() string { return "master_modules" }

func (m *MasterModule) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// IsProductionReady reports whether the module may be installed into a
// workspace.
func (m *MasterModule) IsProductionReady() bool {
	return m.Status == ModuleStatusActive && m.Active
}

// MissingDependencies returns the declared dependencies that are not in the
// workspace's enabled-module set, sorted for stable error messages.
func (m *MasterModule) MissingDependencies(installed map[string]bool) []string {
	var missing []string
	for _, dep := range m.Configuration.Dependencies {
		if !installed[dep] {
			missing = append(missing, dep)
		}
	}
	sort.Strings(missing)
	return missing
}

// Conflicts returns the declared conflicts that are currently enabled in the
// workspace, sorted for stable error messages.
func (m *MasterModule) Conflicts(installed map[string]bool) []string {
	var conflicts []string
	for _, code := range m.Configuration.ConflictsWith {
		if installed[code] {
			conflicts = append(conflicts, code)
		}
	}
	sort.Strings(conflicts)
	return conflicts
}

// ReferencesSelf reports whether the module lists its own code as a
// dependency or conflict, which is always a definition error.
func (m *MasterModule) ReferencesSelf() bool {
	for _, dep := range m.Configuration.Dependencies {
		if dep == m.ModuleCode {
			return true
		}
	}
	for _, code := range m.Configuration.ConflictsWith {
		if code == m.ModuleCode {
			return true
		}
	}
	return false
}

func (m *MasterModule) HasDependencies() bool {
	return len(m.Configuration.Dependencies) > 0
}
