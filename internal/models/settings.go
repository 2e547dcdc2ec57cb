package models

// Features holds the named capability flags that can be toggled at runtime
type Features struct {
	Coach         bool `json:"coach"`          // AI coaching text; static fallbacks when off
	GroundingDays bool `json:"grounding_days"` // protected days excluded from momentum
	Levels        bool `json:"levels"`         // XP levels shown in progress
}

// Settings represents the versioned application configuration.
// Defaults are applied once, when settings are loaded from storage.
type Settings struct {
	Version            int            `json:"version"`              // schema version of this struct
	DefaultDomainXP    int            `json:"default_domain_xp"`    // XP for a completed domain without an override
	PerfectDayBonus    int            `json:"perfect_day_bonus"`    // flat bonus when every active domain is done
	XPPerLevel         int            `json:"xp_per_level"`         // XP needed per level
	DomainXP           map[string]int `json:"domain_xp"`            // per-domain XP overrides keyed by domain id
	MomentumWindowDays int            `json:"momentum_window_days"` // rolling window length for momentum
	TrendTolerance     int            `json:"trend_tolerance"`      // points of change before a trend is reported
	NeutralMomentum    int            `json:"neutral_momentum"`     // score used when every day in the window is protected
	Timezone           string         `json:"timezone"`             // IANA timezone name, or "Local"
	Features           Features       `json:"features"`
}

// XPFor returns the XP a completed domain is worth before the domain's own xp flag is applied.
func (s Settings) XPFor(domainID string) int {
	if xp, ok := s.DomainXP[domainID]; ok {
		return xp
	}
	return s.DefaultDomainXP
}
