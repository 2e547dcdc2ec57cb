package coach

import (
	"fmt"
	"strings"

	"github.com/julianstephens/compoundverse/internal/constants"
)

const systemPrompt = "You are a warm, concise habit coach. Reply with a single JSON object only."

var prompts = map[string]string{
	constants.CoachActionGreeting:    `Write a one or two sentence greeting for the user based on their momentum. Respond as {"greeting": "..."}.`,
	constants.CoachActionStarterPack: `Suggest three tiny daily micro-actions for the named domain, each under eight words. Respond as {"starterPack": ["...", "...", "..."]}.`,
	constants.CoachActionAnalysis:    `Summarize the user's recent check-ins in a short paragraph and give up to three practical tips. Respond as {"narrative": "...", "tips": ["..."]}.`,
}

var starterPacks = map[string][]string{
	constants.DomainHealth: {"Walk for 10 minutes", "Drink a glass of water", "Stretch before bed"},
	constants.DomainFaith:  {"Pray for two minutes", "Read one verse", "Write one gratitude"},
	constants.DomainCareer: {"Do one focused 25 minute block", "Read one industry article", "Send one helpful message"},
}

var defaultStarterPack = []string{"Spend five minutes on it", "Write down one next step", "Tell someone your goal"}

var defaultTips = []string{
	"Keep the bar low: one micro-action counts.",
	"Check in at the same time each day.",
	"Protect rest days instead of skipping them.",
}

func fallback(req Request) Response {
	resp := Response{Source: SourceFallback}
	switch req.Action {
	case constants.CoachActionGreeting:
		resp.Greeting = fallbackGreeting(req.Payload)
	case constants.CoachActionStarterPack:
		pack, ok := starterPacks[strings.ToLower(req.Payload.Domain)]
		if !ok {
			pack = defaultStarterPack
		}
		resp.StarterPack = append([]string(nil), pack...)
	case constants.CoachActionAnalysis:
		resp.Narrative = fallbackNarrative(req.Payload)
		resp.Tips = append([]string(nil), defaultTips...)
	}
	return resp
}

func fallbackGreeting(p Payload) string {
	name := p.Name
	if name == "" {
		name = "friend"
	}
	if p.Momentum == nil {
		return fmt.Sprintf("Welcome back, %s. One small step today is enough.", name)
	}
	switch {
	case p.Momentum.IsProtected:
		return fmt.Sprintf("Rest well, %s. Today is a grounding day.", name)
	case p.Momentum.Trend == constants.TrendRising:
		return fmt.Sprintf("Great to see you, %s. Your momentum is climbing.", name)
	case p.Momentum.Trend == constants.TrendFalling:
		return fmt.Sprintf("Welcome back, %s. Small steps rebuild momentum fast.", name)
	}
	return fmt.Sprintf("Welcome back, %s. Keep the rhythm going.", name)
}

func fallbackNarrative(p Payload) string {
	if p.Momentum == nil {
		return "Not enough history yet. Check in for a few days to see your patterns."
	}
	m := p.Momentum
	text := fmt.Sprintf("You were active on %d of the last %d days, for a momentum of %d%%.", m.ActiveDays, m.TotalDays, m.Score)
	if p.Progress != nil && p.Progress.PerfectDays > 0 {
		text += fmt.Sprintf(" You have logged %d perfect days so far.", p.Progress.PerfectDays)
	}
	return text
}
