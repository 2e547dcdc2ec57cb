package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/compoundverse/internal/cli"
	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/keyring"
	"github.com/julianstephens/compoundverse/internal/models"
	"github.com/julianstephens/compoundverse/internal/scoring"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(ctx *cli.Context) error
	// needsDB checks are skipped when the database is unreachable
	needsDB bool
	// warnOnly checks print a warning instead of failing
	warnOnly bool
}

var checks = []check{
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Settings valid", run: checkSettings, needsDB: true},
	{name: "Domain registry", run: checkDomains, needsDB: true},
	{name: "Entry integrity", run: checkEntries, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	pending, err := m.PendingMigrations()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending - run 'compoundverse migrate'", pending)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	s, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if s.MomentumWindowDays <= 0 {
		return fmt.Errorf("momentum window must be positive, got %d", s.MomentumWindowDays)
	}
	if s.TrendTolerance < 0 {
		return fmt.Errorf("trend tolerance must not be negative, got %d", s.TrendTolerance)
	}
	if s.NeutralMomentum < 0 || s.NeutralMomentum > 100 {
		return fmt.Errorf("neutral momentum must be between 0 and 100, got %d", s.NeutralMomentum)
	}
	if s.XPPerLevel <= 0 {
		return fmt.Errorf("xp per level must be positive, got %d", s.XPPerLevel)
	}
	if s.Timezone != "" && s.Timezone != constants.DefaultTimezone {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q: %w", s.Timezone, err)
		}
	}
	return nil
}

func checkDomains(ctx *cli.Context) error {
	domains, err := ctx.Registry.List(ctx.UserID, true)
	if err != nil {
		return err
	}
	active := 0
	for _, d := range domains {
		if d.IsCore && d.IsArchived() {
			return fmt.Errorf("core domain %s is archived", d.ID)
		}
		if d.IsActive() {
			active++
		}
	}
	if active > constants.MaxActiveDomains {
		return fmt.Errorf("%d active domains exceeds the limit of %d", active, constants.MaxActiveDomains)
	}
	return nil
}

// checkEntries verifies the stored flags agree with the stored score.
func checkEntries(ctx *cli.Context) error {
	entries, err := ctx.Store.GetAllEntries(ctx.UserID)
	if err != nil {
		return err
	}
	bad := 0
	for _, e := range entries {
		if _, err := time.Parse(constants.DateFormat, e.Day); err != nil {
			bad++
			continue
		}
		if !entryConsistent(e) {
			bad++
		}
	}
	if bad > 0 {
		return fmt.Errorf("found %d entries with inconsistent scores", bad)
	}
	return nil
}

// entryConsistent re-derives the score and flags from the completion map.
func entryConsistent(e models.Entry) bool {
	k := len(e.Domains)
	done := 0
	for _, v := range e.Domains {
		if v != 0 && v != 1 {
			return false
		}
		done += v
	}
	return e.DailyScore == done &&
		e.ActiveDay == boolInt(done >= 1) &&
		e.StrongDay == boolInt(k > 0 && done >= scoring.StrongThreshold(k)) &&
		e.PerfectDay == boolInt(k > 0 && done == k) &&
		e.XPEarned >= 0
}

func checkClockTimezone(_ *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(_ *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
