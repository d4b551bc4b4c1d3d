package services

// Error codes propagated to callers. All are deterministic validation
// outcomes; none are retried automatically.
const (
  CodeModuleNotFound           = "MODULE_NOT_FOUND"
  CodeModuleNotProductionReady = "MODULE_NOT_PRODUCTION_READY"
  CodeMissingDependencies      = "MISSING_DEPENDENCIES"
  CodeModuleConflict           = "MODULE_CONFLICT"
  CodeModuleNotInstalled       = "MODULE_NOT_INSTALLED"
  CodeHasDependents            = "HAS_DEPENDENTS"
  CodePartialNotFound          = "PARTIAL_NOT_FOUND"
  CodeTenantContextMissing     = "TENANT_CONTEXT_MISSING"
  CodeModuleCodeExists         = "MODULE_CODE_EXISTS"
  CodeModuleInUse              = "MODULE_IN_USE"
  CodeInvalidDependency        = "INVALID_DEPENDENCY"
  CodeInvalidModuleStatus      = "INVALID_MODULE_STATUS"
  CodeModuleNotToggleable      = "MODULE_NOT_TOGGLEABLE"
)
