package types

import (
	"math"
	"testing"
)

func TestIsOperational(t *testing.T) {
	cases := []struct {
		name    string
		status  WorkspaceModuleStatus
		enabled bool
		want    bool
	}{
		{name: "active_enabled", status: WorkspaceModuleActive, enabled: true, want: true},
		{name: "active_disabled_flag", status: WorkspaceModuleActive, enabled: false, want: false},
		{name: "disabled_status", status: WorkspaceModuleDisabled, enabled: true, want: false},
		{name: "error", status: WorkspaceModuleError, enabled: true, want: false},
		{name: "installing", status: WorkspaceModuleInstalling, enabled: true, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := WorkspaceModule{Status: tc.status, Enabled: tc.enabled}
			if got := w.IsOperational(); got != tc.want {
				t.Fatalf("IsOperational()=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestEffectiveNameAndCategory(t *testing.T) {
	master := &MasterModule{Name: "Orders", Category: CategorySalesManagement}

	w := WorkspaceModule{MasterModule: master}
	if got := w.EffectiveName(); got != "Orders" {
		t.Fatalf("EffectiveName()=%q, want catalog name", got)
	}
	if got := w.EffectiveCategory(); got != string(CategorySalesManagement) {
		t.Fatalf("EffectiveCategory()=%q, want catalog category", got)
	}

	w.Settings.CustomName = "Our Orders"
	w.CategoryOverride = "CUSTOM"
	if got := w.EffectiveName(); got != "Our Orders" {
		t.Fatalf("EffectiveName()=%q, want custom name", got)
	}
	if got := w.EffectiveCategory(); got != "CUSTOM" {
		t.Fatalf("EffectiveCategory()=%q, want override", got)
	}
}

func TestCanBeUpdated(t *testing.T) {
	cases := []struct {
		name             string
		installedVersion string
		catalogVersion   string
		catalogStatus    ModuleStatus
		catalogActive    bool
		want             bool
	}{
		{name: "same_version", installedVersion: "1.0", catalogVersion: "1.0", catalogStatus: ModuleStatusActive, catalogActive: true, want: false},
		{name: "newer_version_ready", installedVersion: "1.0", catalogVersion: "1.1", catalogStatus: ModuleStatusActive, catalogActive: true, want: true},
		{name: "newer_version_not_ready", installedVersion: "1.0", catalogVersion: "1.1", catalogStatus: ModuleStatusDraft, catalogActive: true, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := WorkspaceModule{
				InstalledVersion: tc.installedVersion,
				MasterModule: &MasterModule{
					Version: tc.catalogVersion,
					Status:  tc.catalogStatus,
					Active:  tc.catalogActive,
				},
			}
			if got := w.CanBeUpdated(); got != tc.want {
				t.Fatalf("CanBeUpdated()=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestNeedsAttention(t *testing.T) {
	healthy := WorkspaceModule{
		Status:           WorkspaceModuleActive,
		Enabled:          true,
		InstalledVersion: "1.0",
		MasterModule:     &MasterModule{Version: "1.0", Status: ModuleStatusActive, Active: true},
	}
	if healthy.NeedsAttention() {
		t.Fatal("healthy record should not need attention")
	}

	withErrors := healthy
	withErrors.UsageMetrics.ErrorCount = 3
	if !withErrors.NeedsAttention() {
		t.Fatal("record with errors should need attention")
	}

	disabled := healthy
	disabled.Status = WorkspaceModuleDisabled
	if !disabled.NeedsAttention() {
		t.Fatal("non-active record should need attention")
	}

	stale := healthy
	stale.MasterModule = &MasterModule{Version: "2.0", Status: ModuleStatusActive, Active: true}
	if !stale.NeedsAttention() {
		t.Fatal("outdated record should need attention")
	}
}

func TestHealthScore(t *testing.T) {
	perfect := WorkspaceModule{
		Status:           WorkspaceModuleActive,
		Enabled:          true,
		InstalledVersion: "1.0",
		MasterModule:     &MasterModule{Version: "1.0", Status: ModuleStatusActive, Active: true},
	}
	if got := perfect.HealthScore(); got != 1.0 {
		t.Fatalf("HealthScore()=%v, want 1.0", got)
	}

	// 10% error rate costs 0.03.
	errored := perfect
	errored.UsageMetrics.TotalAccesses = 100
	errored.UsageMetrics.ErrorCount = 10
	if got := errored.HealthScore(); math.Abs(got-0.97) > 1e-9 {
		t.Fatalf("HealthScore()=%v, want 0.97", got)
	}

	stale := perfect
	stale.MasterModule = &MasterModule{Version: "2.0", Status: ModuleStatusActive, Active: true}
	if got := stale.HealthScore(); math.Abs(got-0.9) > 1e-9 {
		t.Fatalf("HealthScore()=%v, want 0.9", got)
	}

	down := perfect
	down.Enabled = false
	if got := down.HealthScore(); math.Abs(got-0.6) > 1e-9 {
		t.Fatalf("HealthScore()=%v, want 0.6", got)
	}

	// Score never goes below zero.
	wreck := WorkspaceModule{
		Status:  WorkspaceModuleError,
		Enabled: false,
		UsageMetrics: ModuleUsageMetrics{
			TotalAccesses: 1,
			ErrorCount:    10,
		},
	}
	if got := wreck.HealthScore(); got < 0 {
		t.Fatalf("HealthScore()=%v, must not be negative", got)
	}
}
