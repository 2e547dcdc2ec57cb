package checkins

import (
	"fmt"
	"time"

	"github.com/julianstephens/compoundverse/internal/cli"
	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/models"
)

type HistoryCmd struct {
	Days int `default:"14" help:"Number of days to show, ending today."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive")
	}
	settings, err := ctx.Tracker.Settings()
	if err != nil {
		return err
	}

	to := ctx.Tracker.TodayFor(settings)
	end, err := time.Parse(constants.DateFormat, to)
	if err != nil {
		return err
	}
	from := end.AddDate(0, 0, -(c.Days - 1)).Format(constants.DateFormat)

	entries, err := ctx.Tracker.History(ctx.UserID, from, to)
	if err != nil {
		return err
	}
	protected, err := ctx.Store.GetProtectedDays(ctx.UserID, from, to)
	if err != nil {
		return fmt.Errorf("failed to load protected days: %w", err)
	}

	byDay := make(map[string]models.Entry, len(entries))
	for _, e := range entries {
		byDay[e.Day] = e
	}
	reasons := make(map[string]string, len(protected))
	for _, p := range protected {
		reasons[p.Day] = p.Reason
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("History %s → %s", from, to)))
	for d := end; !d.Before(end.AddDate(0, 0, -(c.Days - 1))); d = d.AddDate(0, 0, -1) {
		day := d.Format(constants.DateFormat)
		reason, isProtected := reasons[day]
		e, ok := byDay[day]
		switch {
		case ok:
			fmt.Printf("%s %s  XP +%-3d %s\n", day, cli.DayScore(e.DailyScore, len(e.Domains)), e.XPEarned, dayFlags(e))
		case isProtected:
			fmt.Printf("%s %s\n", day, cli.WarnStyle.Render("grounding day "+reason))
		default:
			fmt.Printf("%s %s\n", day, cli.MutedStyle.Render("no check-in"))
		}
	}
	return nil
}

func dayFlags(e models.Entry) string {
	switch {
	case e.PerfectDay == 1:
		return cli.DoneStyle.Render("perfect")
	case e.StrongDay == 1:
		return cli.DoneStyle.Render("strong")
	case e.ActiveDay == 1:
		return "active"
	default:
		return cli.MutedStyle.Render("rest")
	}
}
