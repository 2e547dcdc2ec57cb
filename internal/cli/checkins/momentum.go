package checkins

import (
	"fmt"

	"github.com/julianstephens/compoundverse/internal/cli"
)

type MomentumCmd struct {
	Date string `help:"Last day of the window (YYYY-MM-DD). Defaults to today."`
}

func (c *MomentumCmd) Run(ctx *cli.Context) error {
	m, err := ctx.Tracker.Momentum(ctx.UserID, c.Date)
	if err != nil {
		return err
	}
	fmt.Println(cli.RenderMomentum(m))
	return nil
}

type ProgressCmd struct{}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Tracker.Progress(ctx.UserID)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render("Progress"))
	fmt.Printf("  Total XP:     %d\n", p.TotalXP)
	if p.Level > 0 {
		fmt.Printf("  Level:        %d (%d/%d XP)\n", p.Level, p.XPIntoLevel, p.XPPerLevel)
		fmt.Printf("  %s\n", cli.Bar(p.XPIntoLevel*100/max(p.XPPerLevel, 1)))
	}
	fmt.Printf("  Active days:  %d\n", p.ActiveDays)
	fmt.Printf("  Strong days:  %d\n", p.StrongDays)
	fmt.Printf("  Perfect days: %d\n", p.PerfectDays)
	return nil
}
