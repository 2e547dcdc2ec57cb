package checkins

import (
	"fmt"

	"github.com/julianstephens/compoundverse/internal/cli"
)

type ProtectCmd struct {
	Day    string `arg:"" optional:"" help:"Day to protect (YYYY-MM-DD). Defaults to today."`
	Reason string `help:"Why the day is protected (travel, illness, rest)."`
}

func (c *ProtectCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Tracker.Protect(ctx.UserID, c.Day, c.Reason)
	if err != nil {
		return err
	}
	fmt.Printf("Protected %s: it will not count against momentum.\n", p.Day)
	return nil
}

type UnprotectCmd struct {
	Day string `arg:"" help:"Protected day to clear (YYYY-MM-DD)."`
}

func (c *UnprotectCmd) Run(ctx *cli.Context) error {
	if err := ctx.Tracker.Unprotect(ctx.UserID, c.Day); err != nil {
		return fmt.Errorf("failed to unprotect %s: %w", c.Day, err)
	}
	fmt.Printf("Cleared protection for %s\n", c.Day)
	return nil
}
