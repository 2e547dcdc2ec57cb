package checkins

import (
	"fmt"

	"github.com/julianstephens/compoundverse/internal/cli"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	view, err := ctx.Tracker.Today(ctx.UserID)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render("Today: " + view.Day))
	if view.Protected {
		fmt.Println(cli.WarnStyle.Render("Grounding day: momentum is paused."))
	}

	for _, d := range view.Domains {
		mark := cli.MutedStyle.Render("○")
		detail := ""
		if view.Entry != nil && view.Entry.Domains[d.ID] == 1 {
			mark = cli.DoneStyle.Render("✓")
			for _, id := range view.Entry.Selections[d.ID] {
				if a, ok := d.FindAction(id); ok {
					detail += " · " + a.Label
				}
			}
		}
		fmt.Printf("  %s %s%s\n", mark, cli.DomainLabel(d), cli.MutedStyle.Render(detail))
	}

	if view.Submitted {
		fmt.Printf("\nScore: %s  XP: +%d\n", cli.DayScore(view.Entry.DailyScore, len(view.Entry.Domains)), view.Entry.XPEarned)
		if view.Entry.Reflection != "" {
			fmt.Printf("Reflection: %s\n", view.Entry.Reflection)
		}
	} else {
		fmt.Println(cli.MutedStyle.Render("\nNot checked in yet. Run 'compoundverse checkin -i'."))
	}

	fmt.Println(cli.RenderMomentum(view.Momentum))
	return nil
}
