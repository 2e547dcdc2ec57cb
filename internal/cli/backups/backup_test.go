package backups

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/compoundverse/internal/backup"
	"github.com/julianstephens/compoundverse/internal/cli"
	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/registry"
	"github.com/julianstephens/compoundverse/internal/storage/postgres"
	"github.com/julianstephens/compoundverse/internal/storage/sqlite"
)

func setupTestBackupDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "compoundverse.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := cli.NewContext(store, constants.DefaultUserID)
	if _, err := ctx.Registry.SeedCore(ctx.UserID); err != nil {
		t.Fatalf("failed to seed core domains: %v", err)
	}
	return ctx, dbPath
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, dbPath := setupTestBackupDB(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list on empty directory failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	saved, err := backup.NewManager(dbPath).List()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(saved) != 1 {
		t.Errorf("expected 1 backup, got %d", len(saved))
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, dbPath := setupTestBackupDB(t)

	info, err := backup.NewManager(dbPath).Create()
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	if _, err := ctx.Registry.Add(ctx.UserID, registry.DomainInput{Name: "Reading"}); err != nil {
		t.Fatalf("failed to add domain: %v", err)
	}

	if err := (&BackupRestoreCmd{BackupFile: info.Name(), Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	domains, err := ctx.Registry.List(ctx.UserID, true)
	if err != nil {
		t.Fatalf("failed to list domains after restore: %v", err)
	}
	if len(domains) != len(constants.CoreDomains) {
		t.Errorf("expected only the core domains after restore, got %d", len(domains))
	}
}

func TestBackupRestore_NotFound(t *testing.T) {
	ctx, _ := setupTestBackupDB(t)

	err := (&BackupRestoreCmd{BackupFile: "compoundverse-19990101-000000.db", Yes: true}).Run(ctx)
	if !errors.Is(err, backup.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBackup_PostgresUnsupported(t *testing.T) {
	ctx := cli.NewContext(postgres.New("postgres://user@localhost:5432/compoundverse"), constants.DefaultUserID)

	if err := (&BackupCreateCmd{}).Run(ctx); !errors.Is(err, errPostgres) {
		t.Errorf("expected errPostgres, got %v", err)
	}
}
