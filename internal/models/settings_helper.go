package models

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/compoundverse/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys that are absent keep their defaults (feature flags on, default bonus).
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{
		PerfectDayBonus: constants.DefaultPerfectDayBonus,
		TrendTolerance:  constants.DefaultTrendTolerance,
		Features:        Features{Coach: true, GroundingDays: true, Levels: true},
	}

	for key, value := range data {
		var err error
		switch key {
		case constants.SettingVersion:
			_, err = fmt.Sscanf(value, "%d", &settings.Version)
		case constants.SettingDefaultDomainXP:
			_, err = fmt.Sscanf(value, "%d", &settings.DefaultDomainXP)
		case constants.SettingPerfectDayBonus:
			_, err = fmt.Sscanf(value, "%d", &settings.PerfectDayBonus)
		case constants.SettingXPPerLevel:
			_, err = fmt.Sscanf(value, "%d", &settings.XPPerLevel)
		case constants.SettingMomentumWindowDays:
			_, err = fmt.Sscanf(value, "%d", &settings.MomentumWindowDays)
		case constants.SettingTrendTolerance:
			_, err = fmt.Sscanf(value, "%d", &settings.TrendTolerance)
		case constants.SettingNeutralMomentum:
			_, err = fmt.Sscanf(value, "%d", &settings.NeutralMomentum)
		case constants.SettingDomainXP:
			if value != "" {
				err = json.Unmarshal([]byte(value), &settings.DomainXP)
			}
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingFeatureCoach:
			settings.Features.Coach = value == "true"
		case constants.SettingFeatureGroundingDays:
			settings.Features.GroundingDays = value == "true"
		case constants.SettingFeatureLevels:
			settings.Features.Levels = value == "true"
		}
		if err != nil {
			return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) (map[string]string, error) {
	domainXP := "{}"
	if len(settings.DomainXP) > 0 {
		b, err := json.Marshal(settings.DomainXP)
		if err != nil {
			return nil, fmt.Errorf("encoding domain_xp: %w", err)
		}
		domainXP = string(b)
	}

	return map[string]string{
		constants.SettingVersion:              fmt.Sprintf("%d", settings.Version),
		constants.SettingDefaultDomainXP:      fmt.Sprintf("%d", settings.DefaultDomainXP),
		constants.SettingPerfectDayBonus:      fmt.Sprintf("%d", settings.PerfectDayBonus),
		constants.SettingXPPerLevel:           fmt.Sprintf("%d", settings.XPPerLevel),
		constants.SettingDomainXP:             domainXP,
		constants.SettingMomentumWindowDays:   fmt.Sprintf("%d", settings.MomentumWindowDays),
		constants.SettingTrendTolerance:       fmt.Sprintf("%d", settings.TrendTolerance),
		constants.SettingNeutralMomentum:      fmt.Sprintf("%d", settings.NeutralMomentum),
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingFeatureCoach:         fmt.Sprintf("%v", settings.Features.Coach),
		constants.SettingFeatureGroundingDays: fmt.Sprintf("%v", settings.Features.GroundingDays),
		constants.SettingFeatureLevels:        fmt.Sprintf("%v", settings.Features.Levels),
	}, nil
}

// DefaultSettings returns a fully populated Settings value.
func DefaultSettings() Settings {
	s := Settings{
		PerfectDayBonus: constants.DefaultPerfectDayBonus,
		TrendTolerance:  constants.DefaultTrendTolerance,
		Features:        Features{Coach: true, GroundingDays: true, Levels: true},
	}
	ApplyDefaultSettings(&s)
	return s
}

// ApplyDefaultSettings applies default values to missing settings.
// Zero bonus, zero trend tolerance and zero per-domain overrides are
// legitimate values, so only fields where zero is meaningless are defaulted.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Version == 0 {
		settings.Version = constants.SettingsVersion
	}
	if settings.DefaultDomainXP <= 0 {
		settings.DefaultDomainXP = constants.DefaultDomainXP
	}
	if settings.PerfectDayBonus < 0 {
		settings.PerfectDayBonus = 0
	}
	if settings.XPPerLevel <= 0 {
		settings.XPPerLevel = constants.DefaultXPPerLevel
	}
	if settings.MomentumWindowDays <= 0 {
		settings.MomentumWindowDays = constants.DefaultMomentumWindowDays
	}
	if settings.TrendTolerance < 0 {
		settings.TrendTolerance = constants.DefaultTrendTolerance
	}
	if settings.NeutralMomentum <= 0 || settings.NeutralMomentum > 100 {
		settings.NeutralMomentum = constants.DefaultNeutralMomentum
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.DomainXP == nil {
		settings.DomainXP = map[string]int{}
	}
}
