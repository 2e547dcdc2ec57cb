package cli

import (
	"strings"
	"testing"

	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/models"
)

func TestParseSelections(t *testing.T) {
	tests := []struct {
		name    string
		selects []string
		done    []string
		want    map[string][]string
		wantErr bool
	}{
		{
			name:    "single domain",
			selects: []string{"health=move,water"},
			want:    map[string][]string{"health": {"move", "water"}},
		},
		{
			name:    "repeated domain merges",
			selects: []string{"health=move", "health= sleep "},
			want:    map[string][]string{"health": {"move", "sleep"}},
		},
		{
			name:    "empty action list",
			selects: []string{"faith="},
			want:    map[string][]string{"faith": {}},
		},
		{
			name: "done flag",
			done: []string{"reading"},
			want: map[string][]string{"reading": {}},
		},
		{
			name:    "done does not clear selections",
			selects: []string{"health=move"},
			done:    []string{"health"},
			want:    map[string][]string{"health": {"move"}},
		},
		{
			name:    "missing separator",
			selects: []string{"health"},
			wantErr: true,
		},
		{
			name:    "missing domain",
			selects: []string{"=move"},
			wantErr: true,
		},
		{
			name:    "blank done",
			done:    []string{" "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelections(tt.selects, tt.done)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for domain, actions := range tt.want {
				gotActions, ok := got[domain]
				if !ok {
					t.Fatalf("missing domain %s in %v", domain, got)
				}
				if strings.Join(gotActions, ",") != strings.Join(actions, ",") {
					t.Errorf("domain %s: got %v, want %v", domain, gotActions, actions)
				}
			}
		})
	}
}

func TestBarClampsScore(t *testing.T) {
	if got := strings.Count(Bar(150), "█"); got != barWidth {
		t.Errorf("expected full bar, got %d blocks", got)
	}
	if got := strings.Count(Bar(-10), "░"); got != barWidth {
		t.Errorf("expected empty bar, got %d blanks", got)
	}
	if got := strings.Count(Bar(50), "█"); got != barWidth/2 {
		t.Errorf("expected half bar, got %d blocks", got)
	}
}

func TestDayScore(t *testing.T) {
	tests := []struct {
		done, total int
		blocks      int
		label       string
	}{
		{done: 3, total: 3, blocks: barWidth, label: "3/3 domains"},
		{done: 1, total: 2, blocks: barWidth / 2, label: "1/2 domains"},
		{done: 0, total: 0, blocks: 0, label: "0/0 domains"},
	}
	for _, tt := range tests {
		got := DayScore(tt.done, tt.total)
		if n := strings.Count(got, "█"); n != tt.blocks {
			t.Errorf("DayScore(%d, %d) has %d filled blocks, want %d", tt.done, tt.total, n, tt.blocks)
		}
		if !strings.Contains(got, tt.label) {
			t.Errorf("DayScore(%d, %d) = %q, want it to contain %q", tt.done, tt.total, got, tt.label)
		}
	}
}

func TestRenderMomentum(t *testing.T) {
	out := RenderMomentum(models.MomentumResult{
		Score:         50,
		Trend:         constants.TrendRising,
		ActiveDays:    7,
		TotalDays:     14,
		ProtectedDays: 2,
		Message:       "Keep going",
	})
	for _, want := range []string{"Momentum", "50%", "rising", "7/14", "Protected: 2", "Keep going"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDomainLabel(t *testing.T) {
	if got := DomainLabel(models.Domain{Name: "Health", Icon: "💪"}); got != "💪 Health" {
		t.Errorf("got %q", got)
	}
	if got := DomainLabel(models.Domain{Name: "Reading"}); got != "Reading" {
		t.Errorf("got %q", got)
	}
}
