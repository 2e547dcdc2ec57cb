package momentum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/models"
)

const today = "2024-03-28"

func day(offset int) string {
	d, _ := time.Parse(constants.DateFormat, today)
	return d.AddDate(0, 0, -offset).Format(constants.DateFormat)
}

// entries builds one entry per offset, active where the offset is listed.
func entries(activeOffsets ...int) []models.Entry {
	var out []models.Entry
	for _, o := range activeOffsets {
		out = append(out, models.Entry{Day: day(o), ActiveDay: 1})
	}
	return out
}

func TestCalculateHalfActive(t *testing.T) {
	got := Calculate(entries(0, 2, 4, 6, 8, 10, 12), nil, today, DefaultConfig())
	assert.Equal(t, 50, got.Score)
	assert.Equal(t, 7, got.ActiveDays)
	assert.Equal(t, 14, got.TotalDays)

	// one more missed day moves the score by about 100/14
	fewer := Calculate(entries(0, 2, 4, 6, 8, 10), nil, today, DefaultConfig())
	assert.Equal(t, 43, fewer.Score)
	assert.InDelta(t, 100.0/14, got.Score-fewer.Score, 1)
}

func TestCalculateAllProtected(t *testing.T) {
	var protected []string
	for i := 0; i < 14; i++ {
		protected = append(protected, day(i))
	}

	got := Calculate(nil, protected, today, DefaultConfig())
	assert.Equal(t, constants.DefaultNeutralMomentum, got.Score)
	assert.True(t, got.IsProtected)
	assert.Equal(t, 14, got.ProtectedDays)
	assert.Equal(t, constants.TrendStable, got.Trend)

	got = Calculate(entries(20), protected, today, DefaultConfig())
	assert.Equal(t, constants.DefaultNeutralMomentum, got.Score)
}

func TestCalculateEmptyHistory(t *testing.T) {
	got := Calculate(nil, nil, today, DefaultConfig())
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, constants.TrendStable, got.Trend)
	assert.NotEmpty(t, got.Message)
}

func TestCalculateProtectedExcludedFromDenominator(t *testing.T) {
	// 7 active out of 7 non-protected days
	var protected []string
	for _, o := range []int{1, 3, 5, 7, 9, 11, 13} {
		protected = append(protected, day(o))
	}
	got := Calculate(entries(0, 2, 4, 6, 8, 10, 12), protected, today, DefaultConfig())
	assert.Equal(t, 100, got.Score)
	assert.False(t, got.IsProtected)
	assert.Equal(t, 7, got.ProtectedDays)
}

func TestCalculateTrend(t *testing.T) {
	tests := []struct {
		name    string
		offsets   []int
		tolerance int
		want      constants.Trend
	}{
		{name: "rising", offsets: []int{0, 1, 2, 3, 4, 5, 6, 14}, tolerance: 5, want: constants.TrendRising},
		{name: "falling", offsets: []int{0, 14, 15, 16, 17, 18, 19, 20}, tolerance: 5, want: constants.TrendFalling},
		{name: "stable", offsets: []int{0, 1, 2, 14, 15, 16}, tolerance: 5, want: constants.TrendStable},
		{name: "within tolerance", offsets: []int{0, 1, 2, 14, 15}, tolerance: 10, want: constants.TrendStable},
		{name: "just over tolerance", offsets: []int{0, 1, 2, 14, 15}, tolerance: 5, want: constants.TrendRising},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.TrendTolerance = tt.tolerance
			got := Calculate(entries(tt.offsets...), nil, today, cfg)
			assert.Equal(t, tt.want, got.Trend, "score=%d previous=%d", got.Score, got.PreviousScore)
		})
	}
}

func TestCalculateOrderAndDuplicates(t *testing.T) {
	t0 := time.Date(2024, 3, 28, 8, 0, 0, 0, time.UTC)
	es := []models.Entry{
		{Day: day(0), ActiveDay: 1, UpdatedAt: t0.Add(time.Hour)},
		{Day: day(1), ActiveDay: 1},
		{Day: day(0), ActiveDay: 0, UpdatedAt: t0},
	}
	reversed := []models.Entry{es[2], es[1], es[0]}

	a := Calculate(es, nil, today, DefaultConfig())
	b := Calculate(reversed, nil, today, DefaultConfig())
	assert.Equal(t, a, b)
	assert.Equal(t, 2, a.ActiveDays)
}

func TestCalculateIgnoresInactiveEntries(t *testing.T) {
	es := []models.Entry{{Day: day(0), ActiveDay: 0}, {Day: day(1), ActiveDay: 1}}
	got := Calculate(es, nil, today, DefaultConfig())
	assert.Equal(t, 1, got.ActiveDays)
	assert.Equal(t, 7, got.Score)
}

func TestCalculateScoreBounds(t *testing.T) {
	for n := 0; n <= 20; n++ {
		offsets := make([]int, n)
		for i := range offsets {
			offsets[i] = i
		}
		got := Calculate(entries(offsets...), []string{day(3)}, today, DefaultConfig())
		assert.GreaterOrEqual(t, got.Score, 0)
		assert.LessOrEqual(t, got.Score, 100)
	}
}

func TestConfigFromSettings(t *testing.T) {
	s := models.DefaultSettings()
	s.MomentumWindowDays = 7
	s.NeutralMomentum = 60
	cfg := ConfigFromSettings(s)
	assert.Equal(t, 7, cfg.WindowDays)
	assert.Equal(t, 60, cfg.NeutralScore)

	got := Calculate(entries(0, 1, 2), nil, today, cfg)
	assert.Equal(t, 7, got.TotalDays)
	assert.Equal(t, 43, got.Score)
}

func TestCalculateInvalidToday(t *testing.T) {
	got := Calculate(entries(0), nil, "not-a-date", DefaultConfig())
	assert.Equal(t, constants.TrendStable, got.Trend)
	assert.Equal(t, 0, got.Score)
}
