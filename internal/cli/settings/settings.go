package settings

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/compoundverse/internal/cli"
	"github.com/julianstephens/compoundverse/internal/constants"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	DefaultXP       *int           `name:"default-xp" help:"XP for a completed domain without an override."`
	PerfectDayBonus *int           `help:"Bonus XP when every active domain is completed."`
	XPPerLevel      *int           `name:"xp-per-level" help:"XP needed per level."`
	DomainXP        map[string]int `name:"domain-xp" help:"Per-domain XP overrides as domain=xp."`
	MomentumWindow  *int           `help:"Momentum window length in days."`
	TrendTolerance  *int           `help:"Points of change before a trend is reported."`
	NeutralMomentum *int           `help:"Momentum score used when the whole window is protected."`
	Timezone        *string        `help:"IANA timezone used to decide what today is, or Local."`

	Coach         *bool `help:"Enable or disable AI coaching text."`
	GroundingDays *bool `help:"Enable or disable grounding (protected) days."`
	Levels        *bool `help:"Enable or disable XP levels."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Default Domain XP:     %d\n", settings.DefaultDomainXP)
		fmt.Printf("  Perfect Day Bonus:     %d\n", settings.PerfectDayBonus)
		fmt.Printf("  XP Per Level:          %d\n", settings.XPPerLevel)
		if len(settings.DomainXP) > 0 {
			ids := make([]string, 0, len(settings.DomainXP))
			for id := range settings.DomainXP {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Printf("    %-20s %d\n", id, settings.DomainXP[id])
			}
		}
		fmt.Printf("  Momentum Window:       %d days\n", settings.MomentumWindowDays)
		fmt.Printf("  Trend Tolerance:       %d\n", settings.TrendTolerance)
		fmt.Printf("  Neutral Momentum:      %d\n", settings.NeutralMomentum)
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Println("\nFeatures:")
		fmt.Printf("  Coach:                 %v\n", settings.Features.Coach)
		fmt.Printf("  Grounding Days:        %v\n", settings.Features.GroundingDays)
		fmt.Printf("  Levels:                %v\n", settings.Features.Levels)
		return nil
	}

	updated := false
	if c.DefaultXP != nil {
		if *c.DefaultXP <= 0 {
			return fmt.Errorf("default XP must be positive")
		}
		settings.DefaultDomainXP = *c.DefaultXP
		updated = true
	}
	if c.PerfectDayBonus != nil {
		if *c.PerfectDayBonus < 0 {
			return fmt.Errorf("perfect day bonus must not be negative")
		}
		settings.PerfectDayBonus = *c.PerfectDayBonus
		updated = true
	}
	if c.XPPerLevel != nil {
		if *c.XPPerLevel <= 0 {
			return fmt.Errorf("XP per level must be positive")
		}
		settings.XPPerLevel = *c.XPPerLevel
		updated = true
	}
	for id, xp := range c.DomainXP {
		if xp < 0 {
			return fmt.Errorf("XP for %s must not be negative", id)
		}
		if settings.DomainXP == nil {
			settings.DomainXP = map[string]int{}
		}
		settings.DomainXP[id] = xp
		updated = true
	}
	if c.MomentumWindow != nil {
		if *c.MomentumWindow <= 0 {
			return fmt.Errorf("momentum window must be positive")
		}
		settings.MomentumWindowDays = *c.MomentumWindow
		updated = true
	}
	if c.TrendTolerance != nil {
		if *c.TrendTolerance < 0 {
			return fmt.Errorf("trend tolerance must not be negative")
		}
		settings.TrendTolerance = *c.TrendTolerance
		updated = true
	}
	if c.NeutralMomentum != nil {
		if *c.NeutralMomentum <= 0 || *c.NeutralMomentum > 100 {
			return fmt.Errorf("neutral momentum must be between 1 and 100")
		}
		settings.NeutralMomentum = *c.NeutralMomentum
		updated = true
	}
	if c.Timezone != nil {
		if *c.Timezone != constants.DefaultTimezone {
			if _, err := time.LoadLocation(*c.Timezone); err != nil {
				return fmt.Errorf("invalid timezone %q: %w", *c.Timezone, err)
			}
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.Coach != nil {
		settings.Features.Coach = *c.Coach
		updated = true
	}
	if c.GroundingDays != nil {
		settings.Features.GroundingDays = *c.GroundingDays
		updated = true
	}
	if c.Levels != nil {
		settings.Features.Levels = *c.Levels
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
