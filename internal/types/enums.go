package types

// ModuleStatus is the catalog-level lifecycle state of a master module.
type ModuleStatus string

const (
	ModuleStatusDraft      ModuleStatus = "DRAFT"
	ModuleStatusActive     ModuleStatus = "ACTIVE"
	ModuleStatusDeprecated ModuleStatus = "DEPRECATED"
	ModuleStatusRetired    ModuleStatus = "RETIRED"
)

func (s ModuleStatus) Valid() bool {
	switch s {
	case ModuleStatusDraft, ModuleStatusActive, ModuleStatusDeprecated, ModuleStatusRetired:
		return true
	}
	return false
}

// WorkspaceModuleStatus is the per-tenant installation state. It is
// orthogonal to the Enabled flag on the installation record.
type WorkspaceModuleStatus string

const (
	WorkspaceModuleInstalling WorkspaceModuleStatus = "INSTALLING"
	WorkspaceModuleActive     WorkspaceModuleStatus = "ACTIVE"
	WorkspaceModuleDisabled   WorkspaceModuleStatus = "DISABLED"
	WorkspaceModuleError      WorkspaceModuleStatus = "ERROR"
)

type ModuleCategory string

const (
	CategoryAdministration      ModuleCategory = "ADMINISTRATION"
	CategoryCustomerManagement  ModuleCategory = "CUSTOMER_MANAGEMENT"
	CategorySalesManagement     ModuleCategory = "SALES_MANAGEMENT"
	CategoryInventoryManagement ModuleCategory = "INVENTORY_MANAGEMENT"
	CategoryFinancialManagement ModuleCategory = "FINANCIAL_MANAGEMENT"
	CategoryAnalyticsReporting  ModuleCategory = "ANALYTICS_REPORTING"
	CategoryCommunication       ModuleCategory = "COMMUNICATION"
)

func AllCategories() []ModuleCategory {
	return []ModuleCategory{
		CategoryAdministration,
		CategoryCustomerManagement,
		CategorySalesManagement,
		CategoryInventoryManagement,
		CategoryFinancialManagement,
		CategoryAnalyticsReporting,
		CategoryCommunication,
	}
}

type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "FREE"
	TierBasic   SubscriptionTier = "BASIC"
	TierPremium SubscriptionTier = "PREMIUM"
)

type ModuleComplexity string

const (
	ComplexityEssential   ModuleComplexity = "ESSENTIAL"
	ComplexityStandard    ModuleComplexity = "STANDARD"
	ComplexityAdvanced    ModuleComplexity = "ADVANCED"
	ComplexitySpecialized ModuleComplexity = "SPECIALIZED"
)

type UserRole string

const (
	RoleEmployee UserRole = "EMPLOYEE"
	RoleManager  UserRole = "MANAGER"
	RoleAdmin    UserRole = "ADMIN"
	RoleOwner    UserRole = "OWNER"
)

// ModuleActionType enumerates the marketplace actions surfaced per entry.
type ModuleActionType string

const (
	ActionInstall   ModuleActionType = "INSTALL"
	ActionUninstall ModuleActionType = "UNINSTALL"
	ActionEnable    ModuleActionType = "ENABLE"
	ActionDisable   ModuleActionType = "DISABLE"
	ActionConfigure ModuleActionType = "CONFIGURE"
	ActionUpdate    ModuleActionType = "UPDATE"
)
