package settings

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/compoundverse/internal/cli"
	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := cli.NewContext(store, constants.DefaultUserID)

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func intPtr(v int) *int          { return &v }
func boolPtr(v bool) *bool       { return &v }
func stringPtr(v string) *string { return &v }

func TestSettingsCmd_List(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{List: true}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Errorf("settings without flags failed: %v", err)
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		DefaultXP:       intPtr(2),
		PerfectDayBonus: intPtr(0),
		XPPerLevel:      intPtr(50),
		DomainXP:        map[string]int{"career": 5},
		MomentumWindow:  intPtr(7),
		TrendTolerance:  intPtr(3),
		NeutralMomentum: intPtr(60),
		Timezone:        stringPtr("UTC"),
		Coach:           boolPtr(false),
		GroundingDays:   boolPtr(false),
		Levels:          boolPtr(false),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	s, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if s.DefaultDomainXP != 2 || s.PerfectDayBonus != 0 || s.XPPerLevel != 50 {
		t.Errorf("XP settings not saved: %+v", s)
	}
	if s.DomainXP["career"] != 5 {
		t.Errorf("domain XP override not saved: %v", s.DomainXP)
	}
	if s.MomentumWindowDays != 7 || s.TrendTolerance != 3 || s.NeutralMomentum != 60 {
		t.Errorf("momentum settings not saved: %+v", s)
	}
	if s.Timezone != "UTC" {
		t.Errorf("timezone = %q, want UTC", s.Timezone)
	}
	if s.Features.Coach || s.Features.GroundingDays || s.Features.Levels {
		t.Errorf("feature flags not saved: %+v", s.Features)
	}
}

func TestSettingsCmd_ZeroToleranceIsKept(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{TrendTolerance: intPtr(0)}).Run(ctx); err != nil {
		t.Fatalf("zero trend tolerance rejected: %v", err)
	}
	s, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if s.TrendTolerance != 0 {
		t.Errorf("trend tolerance = %d after reload, want 0", s.TrendTolerance)
	}
}

func TestSettingsCmd_Validation(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		name string
		cmd  *SettingsCmd
	}{
		{name: "zero default xp", cmd: &SettingsCmd{DefaultXP: intPtr(0)}},
		{name: "negative bonus", cmd: &SettingsCmd{PerfectDayBonus: intPtr(-1)}},
		{name: "zero level size", cmd: &SettingsCmd{XPPerLevel: intPtr(0)}},
		{name: "negative domain xp", cmd: &SettingsCmd{DomainXP: map[string]int{"health": -1}}},
		{name: "zero window", cmd: &SettingsCmd{MomentumWindow: intPtr(0)}},
		{name: "negative tolerance", cmd: &SettingsCmd{TrendTolerance: intPtr(-1)}},
		{name: "neutral over 100", cmd: &SettingsCmd{NeutralMomentum: intPtr(101)}},
		{name: "unknown timezone", cmd: &SettingsCmd{Timezone: stringPtr("Mars/Olympus")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	s, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if s.MomentumWindowDays != constants.DefaultMomentumWindowDays {
		t.Errorf("rejected updates must not be saved, window = %d", s.MomentumWindowDays)
	}
}
