package backup

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "compoundverse.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE entries (day TEXT PRIMARY KEY, score INTEGER)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO entries (day, score) VALUES ('2024-03-01', 60), ('2024-03-02', 100)`); err != nil {
		t.Fatalf("failed to insert entries: %v", err)
	}
	return dbPath
}

// steppingClock advances one second per call so every backup gets its own name.
func steppingClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func countEntries(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count); err != nil {
		t.Fatalf("failed to count entries: %v", err)
	}
	return count
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	info, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(info.Path) != filepath.Join(filepath.Dir(dbPath), DirName) {
		t.Errorf("backup written outside the backup directory: %s", info.Path)
	}
	if info.Size == 0 {
		t.Error("expected a non-empty backup")
	}
	if got := countEntries(t, info.Path); got != 2 {
		t.Errorf("expected 2 entries in backup, got %d", got)
	}
}

func TestCreate_MissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Fatal("expected an error for a missing database")
	}
}

func TestCreate_SameSecondGetsSuffix(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixed := time.Date(2024, 3, 28, 9, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	first, err := mgr.Create()
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if first.Path == second.Path {
		t.Fatalf("expected distinct backup files, both are %s", first.Path)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected 2 backups, got %d", len(backups))
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local))

	for i := 0; i < MaxBackups+3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at index %d", i)
		}
	}
}

func TestList_IgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "compoundverse-garbage.db", "other-20240101-120000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected foreign files to be ignored, got %d backups", len(backups))
	}
}

func TestList_NoDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "compoundverse.db"))
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"compoundverse-20240328-090000.db", true},
		{"compoundverse-20240328-090000-3.db", true},
		{"compoundverse-2024.db", false},
		{"compoundverse-20240328-090000.sqlite", false},
		{"backup-20240328-090000.db", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, ok := parseName(tt.name)
			if ok != tt.ok {
				t.Fatalf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if ok && ts.Format(timestampFormat) != "20240328-090000" {
				t.Errorf("unexpected timestamp %v", ts)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local))

	original, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO entries (day, score) VALUES ('2024-03-03', 20)`); err != nil {
		t.Fatal(err)
	}
	db.Close()
	if got := countEntries(t, dbPath); got != 3 {
		t.Fatalf("expected 3 entries before restore, got %d", got)
	}

	safety, err := mgr.Restore(original.Path)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := countEntries(t, dbPath); got != 2 {
		t.Errorf("expected 2 entries after restore, got %d", got)
	}
	if safety.Path == "" {
		t.Fatal("expected the pre-restore database to be saved")
	}
	if got := countEntries(t, safety.Path); got != 3 {
		t.Errorf("expected the safety backup to hold 3 entries, got %d", got)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestore_Invalid(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	_, err := mgr.Restore(filepath.Join(t.TempDir(), "nope.db"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	junk := filepath.Join(t.TempDir(), "junk.db")
	if err := os.WriteFile(junk, []byte("not a database at all, just some text"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(junk); err == nil {
		t.Error("expected an error restoring a corrupt file")
	}
	if got := countEntries(t, dbPath); got != 2 {
		t.Errorf("database changed after failed restore, got %d entries", got)
	}
}

func TestResolve(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	info, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	byName, err := mgr.Resolve(info.Name())
	if err != nil {
		t.Fatalf("Resolve by name failed: %v", err)
	}
	if byName != info.Path {
		t.Errorf("Resolve(%q) = %s, want %s", info.Name(), byName, info.Path)
	}

	byPath, err := mgr.Resolve(info.Path)
	if err != nil || byPath != info.Path {
		t.Errorf("Resolve by absolute path = %s, %v", byPath, err)
	}

	if _, err := mgr.Resolve("compoundverse-19990101-000000.db"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
