package domains

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/compoundverse/internal/cli"
	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/models"
	"github.com/julianstephens/compoundverse/internal/registry"
)

type DomainListCmd struct {
	All bool `help:"Include archived domains."`
}

func (c *DomainListCmd) Run(ctx *cli.Context) error {
	domains, err := ctx.Registry.List(ctx.UserID, c.All)
	if err != nil {
		return fmt.Errorf("failed to list domains: %w", err)
	}
	if len(domains) == 0 {
		fmt.Println("No domains yet. Run 'compoundverse init' to add the core domains.")
		return nil
	}

	fmt.Printf("Domains (%d/%d active):\n", models.CountActive(domains), constants.MaxActiveDomains)
	for _, d := range domains {
		fmt.Printf("  %-28s %s\n", cli.DomainLabel(d)+" ("+d.ID+")", status(d))
		for _, a := range d.Actions {
			fmt.Printf("      - %s (%s)\n", a.Label, a.ID)
		}
	}
	return nil
}

func status(d models.Domain) string {
	var tags []string
	switch {
	case d.IsArchived():
		tags = append(tags, "archived")
	case d.Disabled:
		tags = append(tags, "disabled")
	default:
		tags = append(tags, "active")
	}
	if d.IsCore {
		tags = append(tags, "core")
	}
	if !d.XPEnabled {
		tags = append(tags, "no xp")
	}
	return cli.MutedStyle.Render("[" + strings.Join(tags, ", ") + "]")
}

type DomainAddCmd struct {
	Name    string   `arg:"" help:"Domain name."`
	ID      string   `help:"Domain ID (defaults to a slug of the name)."`
	Icon    string   `help:"Emoji or short icon."`
	Color   string   `help:"Display color, e.g. #3b82f6."`
	Actions []string `short:"a" sep:"," help:"Comma-separated micro-action labels."`
	NoXP    bool     `name:"no-xp" help:"Exclude this domain from XP."`
}

func (c *DomainAddCmd) Run(ctx *cli.Context) error {
	in := registry.DomainInput{
		ID:      c.ID,
		Name:    c.Name,
		Icon:    c.Icon,
		Color:   c.Color,
		Actions: c.Actions,
	}
	if c.NoXP {
		xp := false
		in.XPEnabled = &xp
	}

	d, err := ctx.Registry.Add(ctx.UserID, in)
	if err != nil {
		return fmt.Errorf("failed to add domain: %w", err)
	}
	fmt.Printf("Added domain: %s (ID: %s)\n", cli.DomainLabel(d), d.ID)
	return nil
}

type DomainEditCmd struct {
	ID       string  `arg:"" help:"Domain ID."`
	Name     *string `help:"New name."`
	Icon     *string `help:"New icon."`
	Color    *string `help:"New color."`
	XP       *bool   `name:"xp" help:"Enable or disable XP for this domain."`
	Position *int    `help:"New display position."`
}

func (c *DomainEditCmd) Run(ctx *cli.Context) error {
	edit := registry.DomainEdit{
		Name:      c.Name,
		Icon:      c.Icon,
		Color:     c.Color,
		XPEnabled: c.XP,
		Position:  c.Position,
	}
	d, err := ctx.Registry.Update(ctx.UserID, c.ID, edit)
	if err != nil {
		return fmt.Errorf("failed to edit domain: %w", err)
	}
	fmt.Printf("Updated domain: %s\n", cli.DomainLabel(d))
	return nil
}

type DomainArchiveCmd struct {
	ID string `arg:"" help:"Domain ID to archive."`
}

func (c *DomainArchiveCmd) Run(ctx *cli.Context) error {
	d, err := ctx.Registry.Archive(ctx.UserID, c.ID)
	if err != nil {
		return fmt.Errorf("failed to archive domain: %w", err)
	}
	fmt.Printf("Archived domain: %s\n", cli.DomainLabel(d))
	return nil
}

type DomainRestoreCmd struct {
	ID string `arg:"" help:"Archived domain ID to restore."`
}

func (c *DomainRestoreCmd) Run(ctx *cli.Context) error {
	d, err := ctx.Registry.Restore(ctx.UserID, c.ID)
	if err != nil {
		return fmt.Errorf("failed to restore domain: %w", err)
	}
	fmt.Printf("Restored domain: %s\n", cli.DomainLabel(d))
	return nil
}

type DomainDeleteCmd struct {
	ID  string `arg:"" help:"Archived domain ID to delete permanently."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DomainDeleteCmd) Run(ctx *cli.Context) error {
	d, err := ctx.Registry.Get(ctx.UserID, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find domain with ID %s: %w", c.ID, err)
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Permanently delete %s?", d.Name)).
			Description("Past check-ins keep their scores.").
			Value(&confirmed).
			Run()
		if err != nil {
			return fmt.Errorf("confirmation prompt failed: %w", err)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	ctx.AutoBackup()
	if err := ctx.Registry.Delete(ctx.UserID, c.ID); err != nil {
		return fmt.Errorf("failed to delete domain: %w", err)
	}
	fmt.Printf("Deleted domain: %s (ID: %s)\n", d.Name, d.ID)
	return nil
}

type DomainDisableCmd struct {
	ID string `arg:"" help:"Domain ID to disable."`
}

func (c *DomainDisableCmd) Run(ctx *cli.Context) error {
	d, err := ctx.Registry.Disable(ctx.UserID, c.ID)
	if err != nil {
		return fmt.Errorf("failed to disable domain: %w", err)
	}
	fmt.Printf("Disabled domain: %s\n", cli.DomainLabel(d))
	return nil
}

type DomainEnableCmd struct {
	ID string `arg:"" help:"Domain ID to enable."`
}

func (c *DomainEnableCmd) Run(ctx *cli.Context) error {
	d, err := ctx.Registry.Enable(ctx.UserID, c.ID)
	if err != nil {
		return fmt.Errorf("failed to enable domain: %w", err)
	}
	fmt.Printf("Enabled domain: %s\n", cli.DomainLabel(d))
	return nil
}
