package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/compoundverse/internal/cli"
	"github.com/julianstephens/compoundverse/internal/storage"
	"github.com/julianstephens/compoundverse/internal/storage/postgres"
	"github.com/julianstephens/compoundverse/internal/storage/sqlite"
)

// full date range for copying protected days
const (
	firstDay = "0001-01-01"
	lastDay  = "9999-12-31"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy the user's data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath, ok := ctx.SQLitePath()
		if !ok {
			return errors.New("--force is only supported for SQLite databases")
		}
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			ctx.AutoBackup()
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized compoundverse storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx, c.Source); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Println("Copy completed successfully!")
	}

	created, err := ctx.Registry.SeedCore(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to seed core domains: %w", err)
	}
	for _, d := range created {
		fmt.Printf("Added core domain: %s\n", cli.DomainLabel(d))
	}
	return nil
}

func (c *InitCmd) copyData(ctx *cli.Context, sourcePath string) error {
	var source storage.Provider
	if storage.IsPostgresConnString(sourcePath) {
		if valid, err := postgres.ValidateConnString(sourcePath); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return err
		}
		source = postgres.New(sourcePath)
	} else {
		source = sqlite.NewStore(sourcePath)
	}

	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	fmt.Println("  Copying settings...")
	settings, err := source.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Copying domains...")
	domains, err := source.GetDomains(ctx.UserID, true)
	if err != nil {
		return fmt.Errorf("failed to get domains from source: %w", err)
	}
	for _, d := range domains {
		if err := ctx.Store.UpdateDomain(d); err != nil {
			return fmt.Errorf("failed to add domain %s: %w", d.ID, err)
		}
	}
	fmt.Printf("    Copied %d domains\n", len(domains))

	fmt.Println("  Copying entries...")
	entries, err := source.GetAllEntries(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get entries from source: %w", err)
	}
	for _, e := range entries {
		if err := ctx.Store.UpsertEntry(e); err != nil {
			return fmt.Errorf("failed to save entry for %s: %w", e.Day, err)
		}
	}
	fmt.Printf("    Copied %d entries\n", len(entries))

	fmt.Println("  Copying protected days...")
	protected, err := source.GetProtectedDays(ctx.UserID, firstDay, lastDay)
	if err != nil {
		return fmt.Errorf("failed to get protected days from source: %w", err)
	}
	for _, p := range protected {
		if err := ctx.Store.AddProtectedDay(p); err != nil {
			return fmt.Errorf("failed to protect %s: %w", p.Day, err)
		}
	}
	fmt.Printf("    Copied %d protected days\n", len(protected))

	return nil
}
