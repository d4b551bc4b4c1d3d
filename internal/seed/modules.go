package seed

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/storefront-backend/internal/types"
)

// Definition is the declarative form of a catalog module. The defaults ship
// in code; an operator can override or extend them with a YAML file.
type Definition struct {
	ModuleCode          string         `yaml:"module_code"`
	Name                string         `yaml:"name"`
	Tagline             string         `yaml:"tagline"`
	Description         string         `yaml:"description"`
	Category            string         `yaml:"category"`
	Status              string         `yaml:"status"`
	RequiredTier        string         `yaml:"required_tier"`
	RequiredRole        string         `yaml:"required_role"`
	Complexity          string         `yaml:"complexity"`
	Version             string         `yaml:"version"`
	Provider            string         `yaml:"provider"`
	SizeMb              int            `yaml:"size_mb"`
	Featured            bool           `yaml:"featured"`
	DisplayOrder        int            `yaml:"display_order"`
	NavigationIndex     int            `yaml:"navigation_index"`
	RequiredPermissions []string       `yaml:"required_permissions"`
	Dependencies        []string       `yaml:"dependencies"`
	ConflictsWith       []string       `yaml:"conflicts_with"`
	UIMetadata          map[string]any `yaml:"ui_metadata"`
	RouteInfo           map[string]any `yaml:"route_info"`
}

// ToMaster converts the definition to a catalog record. Counters and rating
// fields are deliberately absent; the seeder never touches them.
func (d Definition) ToMaster() (*types.MasterModule, error) {
	if d.ModuleCode == "" {
		return nil, fmt.Errorf("module_code is required")
	}

	module := &types.MasterModule{
		ModuleCode:      d.ModuleCode,
		Name:            d.Name,
		Tagline:         d.Tagline,
		Description:     d.Description,
		Category:        types.ModuleCategory(d.Category),
		Status:          types.ModuleStatus(d.Status),
		RequiredTier:    types.SubscriptionTier(d.RequiredTier),
		RequiredRole:    types.UserRole(d.RequiredRole),
		Complexity:      types.ModuleComplexity(d.Complexity),
		Version:         d.Version,
		Provider:        d.Provider,
		SizeMb:          d.SizeMb,
		Featured:        d.Featured,
		DisplayOrder:    d.DisplayOrder,
		NavigationIndex: d.NavigationIndex,
		Active:          true,
		Configuration: types.ModuleConfiguration{
			RequiredPermissions: d.RequiredPermissions,
			DefaultEnabled:      true,
			Dependencies:        d.Dependencies,
			ConflictsWith:       d.ConflictsWith,
		},
	}
	if module.Status == "" {
		module.Status = types.ModuleStatusActive
	}
	if !module.Status.Valid() {
		return nil, fmt.Errorf("module %q: unknown status %q", d.ModuleCode, d.Status)
	}

	if d.UIMetadata != nil {
		raw, err := json.Marshal(d.UIMetadata)
		if err != nil {
			return nil, fmt.Errorf("module %q: ui_metadata: %w", d.ModuleCode, err)
		}
		module.UIMetadata = raw
	}
	if d.RouteInfo != nil {
		raw, err := json.Marshal(d.RouteInfo)
		if err != nil {
			return nil, fmt.Errorf("module %q: route_info: %w", d.ModuleCode, err)
		}
		module.RouteInfo = raw
	}
	return module, nil
}

// LoadFile reads definitions from a YAML document of the form:
//
//	modules:
//	  - module_code: ...
func LoadFile(path string) ([]Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Modules []Definition `yaml:"modules"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Modules, nil
}

// Defaults returns the modules every deployment starts with.
func Defaults() []Definition {
	return []Definition{
		{
			ModuleCode:      "business-profile",
			Name:            "Business Profile",
			Tagline:         "Your store identity and settings",
			Description:     "Manage business details, branding, locations and operating hours.",
			Category:        string(types.CategoryAdministration),
			Complexity:      string(types.ComplexityEssential),
			RequiredTier:    string(types.TierFree),
			RequiredRole:    string(types.RoleOwner),
			Version:         "1.2.0",
			Provider:        "Storefront",
			SizeMb:          4,
			Featured:        true,
			DisplayOrder:    10,
			NavigationIndex: 0,
			RouteInfo:       map[string]any{"path": "/business", "icon": "storefront"},
		},
		{
			ModuleCode:      "user-management",
			Name:            "User Management",
			Tagline:         "Staff accounts, roles and permissions",
			Description:     "Invite staff, assign roles and control what each person can access.",
			Category:        string(types.CategoryAdministration),
			Complexity:      string(types.ComplexityEssential),
			RequiredTier:    string(types.TierFree),
			RequiredRole:    string(types.RoleAdmin),
			Version:         "1.1.0",
			Provider:        "Storefront",
			SizeMb:          3,
			DisplayOrder:    20,
			NavigationIndex: 1,
			RouteInfo:       map[string]any{"path": "/users", "icon": "group"},
		},
		{
			ModuleCode:      "customer-management",
			Name:            "Customer Management",
			Tagline:         "Customer records and purchase history",
			Description:     "Track customers, contact details, notes and order history in one place.",
			Category:        string(types.CategoryCustomerManagement),
			Complexity:      string(types.ComplexityEssential),
			RequiredTier:    string(types.TierFree),
			RequiredRole:    string(types.RoleEmployee),
			Version:         "2.0.1",
			Provider:        "Storefront",
			SizeMb:          6,
			Featured:        true,
			DisplayOrder:    30,
			NavigationIndex: 2,
			RouteInfo:       map[string]any{"path": "/customers", "icon": "people"},
		},
		{
			ModuleCode:      "tax-code-management",
			Name:            "Tax Codes",
			Tagline:         "Tax rates and jurisdiction rules",
			Description:     "Define tax codes and rates applied to products and invoices.",
			Category:        string(types.CategoryFinancialManagement),
			Complexity:      string(types.ComplexityStandard),
			RequiredTier:    string(types.TierFree),
			RequiredRole:    string(types.RoleManager),
			Version:         "1.0.3",
			Provider:        "Storefront",
			SizeMb:          2,
			DisplayOrder:    40,
			NavigationIndex: 3,
			RouteInfo:       map[string]any{"path": "/tax-codes", "icon": "percent"},
		},
		{
			ModuleCode:      "product-management",
			Name:            "Product Management",
			Tagline:         "Catalog, pricing and variants",
			Description:     "Create and organize products, variants, pricing and tax treatment.",
			Category:        string(types.CategorySalesManagement),
			Complexity:      string(types.ComplexityStandard),
			RequiredTier:    string(types.TierFree),
			RequiredRole:    string(types.RoleManager),
			Version:         "2.3.0",
			Provider:        "Storefront",
			SizeMb:          8,
			Featured:        true,
			DisplayOrder:    50,
			NavigationIndex: 4,
			Dependencies:    []string{"tax-code-management"},
			RouteInfo:       map[string]any{"path": "/products", "icon": "inventory_2"},
		},
		{
			ModuleCode:      "inventory-management",
			Name:            "Inventory Management",
			Tagline:         "Stock levels, adjustments and alerts",
			Description:     "Track stock across locations with low-stock alerts and adjustments.",
			Category:        string(types.CategoryInventoryManagement),
			Complexity:      string(types.ComplexityStandard),
			RequiredTier:    string(types.TierBasic),
			RequiredRole:    string(types.RoleManager),
			Version:         "1.4.2",
			Provider:        "Storefront",
			SizeMb:          7,
			DisplayOrder:    60,
			NavigationIndex: 5,
			Dependencies:    []string{"product-management"},
			RouteInfo:       map[string]any{"path": "/inventory", "icon": "warehouse"},
		},
		{
			ModuleCode:      "order-management",
			Name:            "Order Management",
			Tagline:         "Orders from quote to fulfilment",
			Description:     "Take orders, track fulfilment status and manage returns.",
			Category:        string(types.CategorySalesManagement),
			Complexity:      string(types.ComplexityStandard),
			RequiredTier:    string(types.TierBasic),
			RequiredRole:    string(types.RoleEmployee),
			Version:         "2.1.0",
			Provider:        "Storefront",
			SizeMb:          9,
			Featured:        true,
			DisplayOrder:    70,
			NavigationIndex: 6,
			Dependencies:    []string{"customer-management", "product-management"},
			RouteInfo:       map[string]any{"path": "/orders", "icon": "receipt_long"},
		},
		{
			ModuleCode:      "invoice-billing",
			Name:            "Invoicing & Billing",
			Tagline:         "Invoices, payments and receipts",
			Description:     "Generate invoices from orders, record payments and issue receipts.",
			Category:        string(types.CategoryFinancialManagement),
			Complexity:      string(types.ComplexityAdvanced),
			RequiredTier:    string(types.TierBasic),
			RequiredRole:    string(types.RoleManager),
			Version:         "1.6.0",
			Provider:        "Storefront",
			SizeMb:          5,
			DisplayOrder:    80,
			NavigationIndex: 7,
			Dependencies:    []string{"order-management", "tax-code-management"},
			RouteInfo:       map[string]any{"path": "/billing", "icon": "request_quote"},
		},
		{
			ModuleCode:      "notification-system",
			Name:            "Notifications",
			Tagline:         "Email and in-app notifications",
			Description:     "Send order updates and announcements to staff and customers.",
			Category:        string(types.CategoryCommunication),
			Complexity:      string(types.ComplexityStandard),
			RequiredTier:    string(types.TierBasic),
			RequiredRole:    string(types.RoleManager),
			Version:         "1.0.8",
			Provider:        "Storefront",
			SizeMb:          3,
			DisplayOrder:    90,
			NavigationIndex: 8,
			RouteInfo:       map[string]any{"path": "/notifications", "icon": "notifications"},
		},
		{
			ModuleCode:      "business-reporting",
			Name:            "Business Reporting",
			Tagline:         "Sales, inventory and finance reports",
			Description:     "Scheduled and ad-hoc reports across sales, customers and billing.",
			Category:        string(types.CategoryAnalyticsReporting),
			Complexity:      string(types.ComplexityAdvanced),
			RequiredTier:    string(types.TierPremium),
			RequiredRole:    string(types.RoleManager),
			Version:         "1.3.1",
			Provider:        "Storefront",
			SizeMb:          10,
			DisplayOrder:    100,
			NavigationIndex: 9,
			Dependencies: []string{
				"customer-management",
				"product-management",
				"order-management",
				"invoice-billing",
			},
			RouteInfo: map[string]any{"path": "/reports", "icon": "monitoring"},
		},
		{
			ModuleCode:      "business-dashboard",
			Name:            "Business Dashboard",
			Tagline:         "Key metrics at a glance",
			Description:     "A live overview of sales, orders and stock health.",
			Category:        string(types.CategoryAnalyticsReporting),
			Complexity:      string(types.ComplexityEssential),
			RequiredTier:    string(types.TierFree),
			RequiredRole:    string(types.RoleEmployee),
			Version:         "1.5.0",
			Provider:        "Storefront",
			SizeMb:          4,
			Featured:        true,
			DisplayOrder:    110,
			NavigationIndex: 10,
			RouteInfo:       map[string]any{"path": "/dashboard", "icon": "dashboard"},
		},
	}
}
