package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/compoundverse/internal/models"
)

var core = []string{"health", "faith", "career"}

func TestScoreEndToEnd(t *testing.T) {
	tests := []struct {
		name    string
		domains map[string]int
		want    DayScore
	}{
		{
			name:    "all three done",
			domains: map[string]int{"health": 1, "faith": 1, "career": 1},
			want: DayScore{DailyScore: 3, ActiveDay: 1, StrongDay: 1, PerfectDay: 1, XPEarned: 4,
				Completed: []string{"health", "faith", "career"}},
		},
		{
			name:    "one of three",
			domains: map[string]int{"health": 1, "faith": 0, "career": 0},
			want:    DayScore{DailyScore: 1, ActiveDay: 1, XPEarned: 1, Completed: []string{"health"}},
		},
		{
			name:    "two of three is strong",
			domains: map[string]int{"health": 1, "faith": 1},
			want: DayScore{DailyScore: 2, ActiveDay: 1, StrongDay: 1, XPEarned: 2,
				Completed: []string{"health", "faith"}},
		},
		{
			name:    "nothing done",
			domains: map[string]int{},
			want:    DayScore{Completed: []string{}},
		},
		{
			name:    "inactive keys and odd values ignored",
			domains: map[string]int{"health": 2, "music": 1, "career": 1},
			want:    DayScore{DailyScore: 1, ActiveDay: 1, XPEarned: 1, Completed: []string{"career"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(core, tt.domains, DefaultXPTable())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreEmptyActiveSet(t *testing.T) {
	got := Score(nil, map[string]int{"health": 1}, DefaultXPTable())
	assert.Equal(t, DayScore{Completed: []string{}}, got)
}

func TestScoreXPTable(t *testing.T) {
	cfg := XPTable{
		DefaultXP:       2,
		PerDomain:       map[string]int{"career": 5, "faith": -3},
		Disabled:        map[string]bool{"health": true},
		PerfectDayBonus: 10,
	}

	got := Score(core, map[string]int{"health": 1, "faith": 1, "career": 1}, cfg)
	assert.Equal(t, 1, got.PerfectDay)
	// health disabled, faith clamped to zero, career 5, bonus 10
	assert.Equal(t, 15, got.XPEarned)

	cfg.PerfectDayBonus = -4
	got = Score(core, map[string]int{"health": 1, "faith": 1, "career": 1}, cfg)
	assert.Equal(t, 5, got.XPEarned)
}

func TestNewXPTable(t *testing.T) {
	settings := models.DefaultSettings()
	settings.DomainXP = map[string]int{"faith": 3}
	settings.PerfectDayBonus = 0
	domains := []models.Domain{
		{ID: "health", XPEnabled: false},
		{ID: "faith", XPEnabled: true},
	}

	table := NewXPTable(settings, domains)
	assert.Equal(t, 0, table.XPFor("health"))
	assert.Equal(t, 3, table.XPFor("faith"))
	assert.Equal(t, 1, table.XPFor("career"))
	assert.Equal(t, 0, table.bonus())
}

func TestScoreProperties(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	cfg := DefaultXPTable()

	for k := 0; k <= len(ids); k++ {
		active := ids[:k]
		// every subset of the active set, as a bitmask
		for mask := 0; mask < 1<<k; mask++ {
			domains := map[string]int{}
			for i, id := range active {
				if mask&(1<<i) != 0 {
					domains[id] = 1
				}
			}

			got := Score(active, domains, cfg)
			assert.GreaterOrEqual(t, got.DailyScore, 0)
			assert.LessOrEqual(t, got.DailyScore, k)
			if k > 0 {
				assert.Equal(t, got.DailyScore == k, got.PerfectDay == 1, "k=%d mask=%b", k, mask)
			}
			if got.PerfectDay == 1 {
				assert.Equal(t, 1, got.StrongDay)
			}
			if got.StrongDay == 1 {
				assert.Equal(t, 1, got.ActiveDay)
			}
			assert.Equal(t, got, Score(active, domains, cfg), "scoring must be deterministic")
		}
	}
}

func TestXPMonotonicInCompletions(t *testing.T) {
	cfg := XPTable{DefaultXP: 1, PerDomain: map[string]int{"b": 0, "c": 4}, PerfectDayBonus: 2}
	active := []string{"a", "b", "c", "d"}

	domains := map[string]int{}
	prev := Score(active, domains, cfg).XPEarned
	for _, id := range active {
		domains[id] = 1
		xp := Score(active, domains, cfg).XPEarned
		assert.GreaterOrEqual(t, xp, prev, "completing %s lowered xp", id)
		prev = xp
	}
}

func TestStrongThreshold(t *testing.T) {
	for k, want := range map[int]int{0: 0, 1: 1, 2: 1, 3: 2, 4: 2, 5: 3} {
		assert.Equal(t, want, StrongThreshold(k), "k=%d", k)
	}
}
