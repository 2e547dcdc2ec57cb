package models

import "github.com/julianstephens/compoundverse/internal/constants"

// MomentumResult summarizes recent consistency. It is derived on demand and never stored.
type MomentumResult struct {
	Score         int             `json:"score"`
	PreviousScore int             `json:"previous_score"`
	Trend         constants.Trend `json:"trend"`
	ActiveDays    int             `json:"active_days"`
	TotalDays     int             `json:"total_days"`
	ProtectedDays int             `json:"protected_days"`
	IsProtected   bool            `json:"is_protected"`
	Message       string          `json:"message"`
}

// Progress is the lifetime XP summary for a user
type Progress struct {
	TotalXP     int `json:"total_xp"`
	Level       int `json:"level"`
	XPIntoLevel int `json:"xp_into_level"`
	XPPerLevel  int `json:"xp_per_level"`
	ActiveDays  int `json:"active_days"`
	StrongDays  int `json:"strong_days"`
	PerfectDays int `json:"perfect_days"`
}
