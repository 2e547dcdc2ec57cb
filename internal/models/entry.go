package models

import "time"

// Entry is one user's check-in for a single calendar day.
// There is at most one Entry per (UserID, Day); later writes overwrite.
type Entry struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	Day        string              `json:"day"` // YYYY-MM-DD format
	Domains    map[string]int      `json:"domains"`
	Selections map[string][]string `json:"selections,omitempty"`
	Reflection string              `json:"reflection"`
	DailyScore int                 `json:"daily_score"`
	ActiveDay  int                 `json:"active_day"`
	StrongDay  int                 `json:"strong_day"`
	PerfectDay int                 `json:"perfect_day"`
	XPEarned   int                 `json:"xp_earned"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// ProtectedDay marks a date as exempt from momentum decay (a grounding day)
type ProtectedDay struct {
	UserID    string    `json:"user_id"`
	Day       string    `json:"day"` // YYYY-MM-DD format
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProtectedDays extracts the day strings from a list of protected days
func ProtectedDays(days []ProtectedDay) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Day)
	}
	return out
}
