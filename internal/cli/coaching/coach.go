package coaching

import (
	"context"
	"fmt"

	"github.com/julianstephens/compoundverse/internal/cli"
	"github.com/julianstephens/compoundverse/internal/coach"
	"github.com/julianstephens/compoundverse/internal/config"
	"github.com/julianstephens/compoundverse/internal/constants"
)

type GreetingCmd struct {
	Name string `help:"Name to greet."`
}

func (c *GreetingCmd) Run(ctx *cli.Context) error {
	return ask(ctx, constants.CoachActionGreeting, coach.Payload{Name: c.Name})
}

type AnalysisCmd struct{}

func (c *AnalysisCmd) Run(ctx *cli.Context) error {
	return ask(ctx, constants.CoachActionAnalysis, coach.Payload{})
}

type StarterPackCmd struct {
	Domain string `arg:"" help:"Domain to suggest micro-actions for."`
}

func (c *StarterPackCmd) Run(ctx *cli.Context) error {
	return ask(ctx, constants.CoachActionStarterPack, coach.Payload{Domain: c.Domain})
}

func ask(ctx *cli.Context, action string, payload coach.Payload) error {
	resp, err := respond(ctx, coach.Request{Action: action, Payload: payload})
	if err != nil {
		return err
	}
	render(resp)
	return nil
}

// respond fills the payload from the user's history and asks the coach,
// or goes straight to fallback text when coaching is switched off.
func respond(ctx *cli.Context, req coach.Request) (coach.Response, error) {
	snap, err := ctx.Tracker.Snapshot(ctx.UserID)
	if err != nil {
		return coach.Response{}, err
	}
	req.Payload.Domains = snap.Domains
	req.Payload.Momentum = &snap.Momentum
	req.Payload.Progress = &snap.Progress
	req.Payload.Recent = snap.Recent

	settings, err := ctx.Tracker.Settings()
	if err != nil {
		return coach.Response{}, err
	}
	if !settings.Features.Coach {
		return coach.Fallback(req)
	}

	cfg, err := config.Load("", ctx.ConfigDir)
	if err != nil {
		return coach.Response{}, err
	}
	return cli.NewCoach(cfg).Handle(context.Background(), req)
}

func render(resp coach.Response) {
	if resp.Greeting != "" {
		fmt.Println(cli.TitleStyle.Render(resp.Greeting))
	}
	if resp.Narrative != "" {
		fmt.Println(resp.Narrative)
	}
	for _, a := range resp.StarterPack {
		fmt.Printf("  • %s\n", a)
	}
	if len(resp.Tips) > 0 {
		fmt.Println(cli.TitleStyle.Render("Tips"))
		for _, tip := range resp.Tips {
			fmt.Printf("  • %s\n", tip)
		}
	}
	if resp.Source == coach.SourceFallback {
		fmt.Println(cli.MutedStyle.Render("(offline coaching)"))
	}
}
