// Package momentum summarizes recent consistency over a rolling window of
// days. Unlike a streak, a single missed day only moves the score by about
// 100/window points.
package momentum

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/models"
)

type Config struct {
	WindowDays     int
	TrendTolerance int
	NeutralScore   int // used when every day in a window is protected
}

func DefaultConfig() Config {
	return Config{
		WindowDays:     constants.DefaultMomentumWindowDays,
		TrendTolerance: constants.DefaultTrendTolerance,
		NeutralScore:   constants.DefaultNeutralMomentum,
	}
}

func ConfigFromSettings(s models.Settings) Config {
	cfg := Config{
		WindowDays:     s.MomentumWindowDays,
		TrendTolerance: s.TrendTolerance,
		NeutralScore:   s.NeutralMomentum,
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WindowDays <= 0 {
		c.WindowDays = d.WindowDays
	}
	if c.TrendTolerance < 0 {
		c.TrendTolerance = d.TrendTolerance
	}
	if c.NeutralScore < 0 || c.NeutralScore > 100 {
		c.NeutralScore = d.NeutralScore
	}
	return c
}

type window struct {
	score     int
	active    int
	total     int
	protected int
}

// Calculate returns the momentum for the window ending at today (inclusive,
// YYYY-MM-DD). Entries may be in any order. When several entries share a day
// the most recently updated one is used.
func Calculate(entries []models.Entry, protected []string, today string, cfg Config) models.MomentumResult {
	cfg = cfg.withDefaults()

	end, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return models.MomentumResult{Trend: constants.TrendStable, Message: "No momentum yet."}
	}

	activeByDay := normalize(entries)
	protectedSet := make(map[string]bool, len(protected))
	for _, day := range protected {
		protectedSet[day] = true
	}

	current := measure(activeByDay, protectedSet, end, cfg)
	previous := measure(activeByDay, protectedSet, end.AddDate(0, 0, -cfg.WindowDays), cfg)

	result := models.MomentumResult{
		Score:         current.score,
		PreviousScore: previous.score,
		ActiveDays:    current.active,
		TotalDays:     current.total,
		ProtectedDays: current.protected,
		IsProtected:   protectedSet[today],
		Trend:         trend(current.score, previous.score, cfg.TrendTolerance),
	}

	switch {
	case current.protected == current.total:
		result.Trend = constants.TrendStable
	case len(entries) == 0:
		result.Score = 0
		result.Trend = constants.TrendStable
	}

	result.Message = message(result)
	return result
}

// normalize maps each day to whether its latest entry was an active day.
func normalize(entries []models.Entry) map[string]bool {
	latest := make(map[string]models.Entry, len(entries))
	for _, e := range entries {
		prev, ok := latest[e.Day]
		if !ok || !e.UpdatedAt.Before(prev.UpdatedAt) {
			latest[e.Day] = e
		}
	}

	active := make(map[string]bool, len(latest))
	for day, e := range latest {
		active[day] = e.ActiveDay == 1
	}
	return active
}

func measure(active, protected map[string]bool, end time.Time, cfg Config) window {
	w := window{total: cfg.WindowDays}
	for i := 0; i < cfg.WindowDays; i++ {
		day := end.AddDate(0, 0, -i).Format(constants.DateFormat)
		switch {
		case protected[day]:
			w.protected++
		case active[day]:
			w.active++
		}
	}

	denominator := w.total - w.protected
	if denominator <= 0 {
		w.score = cfg.NeutralScore
		return w
	}
	w.score = clamp(int(math.Round(100*float64(w.active)/float64(denominator))), 0, 100)
	return w
}

func trend(current, previous, tolerance int) constants.Trend {
	switch {
	case current-previous > tolerance:
		return constants.TrendRising
	case previous-current > tolerance:
		return constants.TrendFalling
	default:
		return constants.TrendStable
	}
}

func message(r models.MomentumResult) string {
	if r.IsProtected {
		return "Today is a grounding day. Rest counts too, your momentum is safe."
	}
	switch r.Trend {
	case constants.TrendRising:
		return fmt.Sprintf("Momentum is building: %d%%, up from %d%%.", r.Score, r.PreviousScore)
	case constants.TrendFalling:
		return fmt.Sprintf("Momentum dipped to %d%%. One small action today turns it around.", r.Score)
	}
	if r.ActiveDays == 0 && r.Score == 0 {
		return "No momentum yet. Start with one small action."
	}
	return fmt.Sprintf("Momentum is steady at %d%%.", r.Score)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
