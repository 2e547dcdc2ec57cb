package checkins

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/compoundverse/internal/cli"
	"github.com/julianstephens/compoundverse/internal/models"
	"github.com/julianstephens/compoundverse/internal/scoring"
	"github.com/julianstephens/compoundverse/internal/tracker"
)

type CheckInCmd struct {
	Date        string   `help:"Day to check in for (YYYY-MM-DD). Defaults to today."`
	Select      []string `short:"s" sep:"none" help:"Completed micro-actions as domain=action[,action]. Repeatable."`
	Done        []string `short:"d" sep:"none" help:"Mark a domain without micro-actions as done. Repeatable."`
	Reflection  string   `short:"r" help:"Optional reflection for the day."`
	Overwrite   bool     `help:"Replace an existing check-in for the day."`
	Interactive bool     `short:"i" help:"Pick micro-actions in an interactive form."`
}

func (c *CheckInCmd) Run(ctx *cli.Context) error {
	var selections map[string][]string
	var err error
	if c.Interactive {
		selections, err = c.runForm(ctx)
	} else {
		selections, err = cli.ParseSelections(c.Select, c.Done)
	}
	if err != nil {
		return err
	}

	result, err := ctx.Tracker.CheckIn(ctx.UserID, tracker.CheckInRequest{
		Day:        c.Date,
		Selections: selections,
		Reflection: c.Reflection,
		Overwrite:  c.Overwrite,
	})
	switch {
	case errors.Is(err, tracker.ErrAlreadySubmitted):
		return fmt.Errorf("%w: %s scored %d/%d, use --overwrite to replace it",
			err, result.Entry.Day, result.Entry.DailyScore, len(result.Entry.Domains))
	case errors.Is(err, tracker.ErrPersist):
		printScore(result.Entry, result.Score)
		return err
	case err != nil:
		return err
	}

	printScore(result.Entry, result.Score)
	if result.Momentum != nil {
		fmt.Println(cli.RenderMomentum(*result.Momentum))
	}
	return nil
}

func printScore(entry models.Entry, s scoring.DayScore) {
	fmt.Println(cli.TitleStyle.Render("Check-in for " + entry.Day))
	fmt.Println(cli.DayScore(s.DailyScore, len(entry.Domains)))

	var flags []string
	if s.ActiveDay == 1 {
		flags = append(flags, "active")
	}
	if s.StrongDay == 1 {
		flags = append(flags, "strong")
	}
	if s.PerfectDay == 1 {
		flags = append(flags, cli.DoneStyle.Render("perfect ✨"))
	}
	if len(flags) == 0 {
		flags = append(flags, cli.MutedStyle.Render("rest day"))
	}
	fmt.Printf("Day: %s  XP: +%d\n", strings.Join(flags, ", "), s.XPEarned)
}

// runForm asks for each active domain's micro-actions and a reflection.
func (c *CheckInCmd) runForm(ctx *cli.Context) (map[string][]string, error) {
	view, err := ctx.Tracker.Today(ctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(view.Domains) == 0 {
		return nil, errors.New("no active domains to check in")
	}

	picked := make(map[string]*[]string, len(view.Domains))
	done := make(map[string]*bool, len(view.Domains))
	var fields []huh.Field
	for _, d := range view.Domains {
		fields = append(fields, domainField(d, picked, done))
	}
	reflection := c.Reflection
	fields = append(fields, huh.NewText().Title("Reflection (optional)").Value(&reflection))

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return nil, fmt.Errorf("interactive form error: %w", err)
	}
	c.Reflection = reflection

	selections := make(map[string][]string)
	for id, actions := range picked {
		if len(*actions) > 0 {
			selections[id] = *actions
		}
	}
	for id, ok := range done {
		if *ok {
			selections[id] = []string{}
		}
	}
	return selections, nil
}

func domainField(d models.Domain, picked map[string]*[]string, done map[string]*bool) huh.Field {
	if len(d.Actions) == 0 {
		v := false
		done[d.ID] = &v
		return huh.NewConfirm().Title(cli.DomainLabel(d) + ": done today?").Value(&v)
	}

	var v []string
	picked[d.ID] = &v
	options := make([]huh.Option[string], 0, len(d.Actions))
	for _, a := range d.Actions {
		options = append(options, huh.NewOption(a.Label, a.ID))
	}
	return huh.NewMultiSelect[string]().
		Title(cli.DomainLabel(d)).
		Options(options...).
		Value(&v)
}
