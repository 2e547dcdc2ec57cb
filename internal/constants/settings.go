package constants

const (
	// SettingsVersion is bumped whenever the shape of models.Settings changes.
	SettingsVersion = 1

	// General Settings
	SettingVersion            = "version"
	SettingDefaultDomainXP    = "default_domain_xp"
	SettingPerfectDayBonus    = "perfect_day_bonus"
	SettingXPPerLevel         = "xp_per_level"
	SettingDomainXP           = "domain_xp"
	SettingMomentumWindowDays = "momentum_window_days"
	SettingTrendTolerance     = "trend_tolerance"
	SettingNeutralMomentum    = "neutral_momentum"
	SettingTimezone           = "timezone"

	// Feature flags
	SettingFeatureCoach         = "feature_coach"
	SettingFeatureGroundingDays = "feature_grounding_days"
	SettingFeatureLevels        = "feature_levels"

	// Default Settings Values
	DefaultDomainXP           = 1
	DefaultPerfectDayBonus    = 1
	DefaultXPPerLevel         = 100
	DefaultMomentumWindowDays = 14
	DefaultTrendTolerance     = 5
	DefaultNeutralMomentum    = 50
	DefaultTimezone           = "Local"

	// Server defaults
	DefaultListenAddr      = ":8080"
	DefaultRateLimit       = 10
	DefaultRateWindowSec   = 60
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultCoachTimeoutSec = 20
)
