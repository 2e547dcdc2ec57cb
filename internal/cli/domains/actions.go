package domains

import (
	"fmt"

	"github.com/julianstephens/compoundverse/internal/cli"
)

type ActionAddCmd struct {
	Domain string `arg:"" help:"Domain ID."`
	Label  string `arg:"" help:"Micro-action label."`
}

func (c *ActionAddCmd) Run(ctx *cli.Context) error {
	a, err := ctx.Registry.AddAction(ctx.UserID, c.Domain, c.Label)
	if err != nil {
		return fmt.Errorf("failed to add micro-action: %w", err)
	}
	fmt.Printf("Added micro-action to %s: %s (ID: %s)\n", c.Domain, a.Label, a.ID)
	return nil
}

type ActionRemoveCmd struct {
	Domain string `arg:"" help:"Domain ID."`
	Action string `arg:"" help:"Micro-action ID or label."`
}

func (c *ActionRemoveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Registry.RemoveAction(ctx.UserID, c.Domain, c.Action); err != nil {
		return fmt.Errorf("failed to remove micro-action: %w", err)
	}
	fmt.Printf("Removed micro-action %s from %s\n", c.Action, c.Domain)
	return nil
}
