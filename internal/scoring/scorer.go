// Package scoring turns a day's completion record into the derived day
// quality flags and the XP earned for it.
package scoring

import (
	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/models"
)

// XPTable holds the XP configuration read by the scorer.
type XPTable struct {
	DefaultXP       int
	PerDomain       map[string]int
	Disabled        map[string]bool // domains with XP turned off earn nothing
	PerfectDayBonus int
}

// DayScore is the derived quality of one day. Flags are 0/1 integers to
// match the persisted entry columns.
type DayScore struct {
	DailyScore int      `json:"daily_score"`
	ActiveDay  int      `json:"active_day"`
	StrongDay  int      `json:"strong_day"`
	PerfectDay int      `json:"perfect_day"`
	XPEarned   int      `json:"xp_earned"`
	Completed  []string `json:"completed"`
}

func DefaultXPTable() XPTable {
	return XPTable{
		DefaultXP:       constants.DefaultDomainXP,
		PerfectDayBonus: constants.DefaultPerfectDayBonus,
	}
}

// NewXPTable builds the table from persisted settings and the user's domains.
func NewXPTable(settings models.Settings, domains []models.Domain) XPTable {
	t := XPTable{
		DefaultXP:       settings.DefaultDomainXP,
		PerDomain:       make(map[string]int, len(settings.DomainXP)),
		Disabled:        map[string]bool{},
		PerfectDayBonus: settings.PerfectDayBonus,
	}
	for id, xp := range settings.DomainXP {
		t.PerDomain[id] = xp
	}
	for _, d := range domains {
		if !d.XPEnabled {
			t.Disabled[d.ID] = true
		}
	}
	return t
}

// XPFor returns the XP a completed domain is worth. Never negative.
func (t XPTable) XPFor(domainID string) int {
	if t.Disabled[domainID] {
		return 0
	}
	xp := t.DefaultXP
	if v, ok := t.PerDomain[domainID]; ok {
		xp = v
	}
	return max(xp, 0)
}

func (t XPTable) bonus() int {
	return max(t.PerfectDayBonus, 0)
}

// Score computes the day quality for the active domain ids. Ids missing from
// domains count as not done, values other than 1 count as not done, and keys
// in domains that are not active are ignored.
func Score(activeDomainIDs []string, domains map[string]int, cfg XPTable) DayScore {
	seen := make(map[string]bool, len(activeDomainIDs))
	k := 0
	score := DayScore{Completed: []string{}}

	for _, id := range activeDomainIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		k++
		if domains[id] == 1 {
			score.DailyScore++
			score.XPEarned += cfg.XPFor(id)
			score.Completed = append(score.Completed, id)
		}
	}

	if k == 0 || score.DailyScore == 0 {
		return DayScore{Completed: []string{}}
	}

	score.ActiveDay = 1
	if score.DailyScore >= StrongThreshold(k) {
		score.StrongDay = 1
	}
	if score.DailyScore == k {
		score.PerfectDay = 1
		score.XPEarned += cfg.bonus()
	}
	return score
}

// StrongThreshold is the number of completed domains, out of k, that makes
// a strong day: a majority, rounded up.
func StrongThreshold(k int) int {
	if k <= 0 {
		return 0
	}
	return (k + 1) / 2
}
