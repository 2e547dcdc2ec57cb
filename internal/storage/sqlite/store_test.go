package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/models"
	"github.com/julianstephens/compoundverse/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Fatal("Load() on missing database should fail")
	}
}

func TestInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("first Init() failed: %v", err)
	}
	store.Close()

	store = NewStore(path)
	defer store.Close()
	if err := store.Init(); err != nil {
		t.Fatalf("second Init() failed: %v", err)
	}
	pending, err := store.PendingMigrations()
	if err != nil {
		t.Fatalf("PendingMigrations() failed: %v", err)
	}
	if pending != 0 {
		t.Errorf("pending migrations = %d, want 0", pending)
	}
}

func TestSettingsDefaultsAndRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if settings.MomentumWindowDays != constants.DefaultMomentumWindowDays {
		t.Errorf("window = %d, want %d", settings.MomentumWindowDays, constants.DefaultMomentumWindowDays)
	}
	if settings.PerfectDayBonus != constants.DefaultPerfectDayBonus {
		t.Errorf("bonus = %d, want %d", settings.PerfectDayBonus, constants.DefaultPerfectDayBonus)
	}
	if !settings.Features.Coach {
		t.Error("coach feature should default to on")
	}

	settings.PerfectDayBonus = 0
	settings.DomainXP = map[string]int{"health": 3}
	settings.Features.Coach = false
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if got.PerfectDayBonus != 0 {
		t.Errorf("bonus = %d, want 0", got.PerfectDayBonus)
	}
	if got.DomainXP["health"] != 3 {
		t.Errorf("domain xp override = %d, want 3", got.DomainXP["health"])
	}
	if got.Features.Coach {
		t.Error("coach feature should be off after save")
	}
}

func TestDomainCRUD(t *testing.T) {
	store := setupTestStore(t)

	d := models.Domain{
		ID:        "health",
		UserID:    "u1",
		Name:      "Health",
		Icon:      "💪",
		Actions:   []models.MicroAction{{ID: "walk", Label: "Walk 20 min"}},
		IsCore:    true,
		XPEnabled: true,
		CreatedAt: time.Now(),
	}
	if err := store.AddDomain(d); err != nil {
		t.Fatalf("AddDomain() failed: %v", err)
	}

	got, err := store.GetDomain("u1", "health")
	if err != nil {
		t.Fatalf("GetDomain() failed: %v", err)
	}
	if got.Name != "Health" || !got.IsCore || !got.XPEnabled {
		t.Errorf("unexpected domain: %+v", got)
	}
	if len(got.Actions) != 1 || got.Actions[0].ID != "walk" {
		t.Errorf("actions = %+v, want one walk action", got.Actions)
	}

	if _, err := store.GetDomain("u2", "health"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetDomain() for other user error = %v, want ErrNotFound", err)
	}

	archived := time.Now()
	custom := models.Domain{ID: "music", UserID: "u1", Name: "Music", Position: 3, CreatedAt: time.Now(), ArchivedAt: &archived}
	if err := store.AddDomain(custom); err != nil {
		t.Fatalf("AddDomain() failed: %v", err)
	}

	active, err := store.GetDomains("u1", false)
	if err != nil {
		t.Fatalf("GetDomains() failed: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("GetDomains(false) returned %d domains, want 1", len(active))
	}
	all, err := store.GetDomains("u1", true)
	if err != nil {
		t.Fatalf("GetDomains() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("GetDomains(true) returned %d domains, want 2", len(all))
	}

	dup := d
	dup.Name = "Other"
	if err := store.AddDomain(dup); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("AddDomain() of existing id error = %v, want ErrAlreadyExists", err)
	}
	if got, _ := store.GetDomain("u1", "health"); got.Name != "Health" {
		t.Errorf("duplicate AddDomain() overwrote the row: %+v", got)
	}

	d.Name = "Body"
	d.Disabled = true
	if err := store.UpdateDomain(d); err != nil {
		t.Fatalf("UpdateDomain() failed: %v", err)
	}
	got, _ = store.GetDomain("u1", "health")
	if got.Name != "Body" || !got.Disabled {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := store.DeleteDomain("u1", "music"); err != nil {
		t.Fatalf("DeleteDomain() failed: %v", err)
	}
	if err := store.DeleteDomain("u1", "music"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteDomain() error = %v, want ErrNotFound", err)
	}
}

func TestUpsertEntryKeepsOneRowPerDay(t *testing.T) {
	store := setupTestStore(t)
	first := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	entry := models.Entry{
		ID:         "e1",
		UserID:     "u1",
		Day:        "2024-03-01",
		Domains:    map[string]int{"health": 1, "faith": 0},
		Selections: map[string][]string{"health": {"walk"}},
		DailyScore: 1,
		ActiveDay:  1,
		XPEarned:   1,
		CreatedAt:  first,
		UpdatedAt:  first,
	}
	if err := store.UpsertEntry(entry); err != nil {
		t.Fatalf("UpsertEntry() failed: %v", err)
	}

	second := first.Add(2 * time.Hour)
	entry.ID = "e2"
	entry.Domains = map[string]int{"health": 1, "faith": 1}
	entry.DailyScore = 2
	entry.XPEarned = 3
	entry.PerfectDay = 1
	entry.CreatedAt = second
	entry.UpdatedAt = second
	if err := store.UpsertEntry(entry); err != nil {
		t.Fatalf("second UpsertEntry() failed: %v", err)
	}

	entries, err := store.GetAllEntries("u1")
	if err != nil {
		t.Fatalf("GetAllEntries() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	got := entries[0]
	if got.ID != "e1" {
		t.Errorf("id = %s, want original id e1", got.ID)
	}
	if !got.CreatedAt.Equal(first) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, first)
	}
	if !got.UpdatedAt.Equal(second) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, second)
	}
	if got.DailyScore != 2 || got.PerfectDay != 1 || got.XPEarned != 3 {
		t.Errorf("last write did not win: %+v", got)
	}
	if got.Selections["health"][0] != "walk" {
		t.Errorf("selections = %v", got.Selections)
	}
}

func TestGetEntriesRange(t *testing.T) {
	store := setupTestStore(t)
	now := time.Now()

	for _, day := range []string{"2024-03-03", "2024-03-01", "2024-03-05", "2024-03-02"} {
		e := models.Entry{ID: day, UserID: "u1", Day: day, CreatedAt: now, UpdatedAt: now}
		if err := store.UpsertEntry(e); err != nil {
			t.Fatalf("UpsertEntry(%s) failed: %v", day, err)
		}
	}
	if err := store.UpsertEntry(models.Entry{ID: "other", UserID: "u2", Day: "2024-03-02", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("UpsertEntry() failed: %v", err)
	}

	entries, err := store.GetEntries("u1", "2024-03-02", "2024-03-04")
	if err != nil {
		t.Fatalf("GetEntries() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Day != "2024-03-02" || entries[1].Day != "2024-03-03" {
		t.Errorf("entries not ordered by day: %s, %s", entries[0].Day, entries[1].Day)
	}

	if _, err := store.GetEntry("u1", "2024-03-04"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetEntry() error = %v, want ErrNotFound", err)
	}
}

func TestProtectedDays(t *testing.T) {
	store := setupTestStore(t)
	now := time.Now()

	if err := store.AddProtectedDay(models.ProtectedDay{UserID: "u1", Day: "2024-03-02", Reason: "sick", CreatedAt: now}); err != nil {
		t.Fatalf("AddProtectedDay() failed: %v", err)
	}
	if err := store.AddProtectedDay(models.ProtectedDay{UserID: "u1", Day: "2024-03-02", Reason: "travel", CreatedAt: now}); err != nil {
		t.Fatalf("AddProtectedDay() twice failed: %v", err)
	}

	days, err := store.GetProtectedDays("u1", "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("GetProtectedDays() failed: %v", err)
	}
	if len(days) != 1 || days[0].Reason != "travel" {
		t.Errorf("protected days = %+v, want one day with reason travel", days)
	}

	if err := store.DeleteProtectedDay("u1", "2024-03-02"); err != nil {
		t.Fatalf("DeleteProtectedDay() failed: %v", err)
	}
	if err := store.DeleteProtectedDay("u1", "2024-03-02"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteProtectedDay() error = %v, want ErrNotFound", err)
	}
}
