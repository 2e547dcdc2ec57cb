// Package tracker runs the daily check-in pipeline: record the selected
// micro-actions, score the day, and upsert the entry. It also derives
// momentum and lifetime progress from the stored history.
package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/logger"
	"github.com/julianstephens/compoundverse/internal/models"
	"github.com/julianstephens/compoundverse/internal/momentum"
	"github.com/julianstephens/compoundverse/internal/registry"
	"github.com/julianstephens/compoundverse/internal/scoring"
	"github.com/julianstephens/compoundverse/internal/storage"
)

var (
	ErrAlreadySubmitted = errors.New("check-in already submitted for this day")
	ErrInvalidDay       = errors.New("invalid day, expected YYYY-MM-DD")
	ErrFutureDay        = errors.New("cannot check in for a future day")
	ErrFeatureDisabled  = errors.New("feature is disabled")
	ErrPersist          = errors.New("failed to save check-in")
)

type Service struct {
	store    storage.Provider
	registry *registry.Registry
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used to decide what "today" is.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store storage.Provider, reg *registry.Registry, opts ...Option) *Service {
	s := &Service{store: store, registry: reg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CheckInRequest struct {
	Day        string              `json:"day,omitempty"` // defaults to today
	Selections map[string][]string `json:"selections"`
	Reflection string              `json:"reflection,omitempty"`
	Overwrite  bool                `json:"overwrite,omitempty"`
}

type CheckInResult struct {
	Entry    models.Entry           `json:"entry"`
	Score    scoring.DayScore       `json:"score"`
	Momentum *models.MomentumResult `json:"momentum,omitempty"`
	Saved    bool                   `json:"saved"`
}

type TodayView struct {
	Day       string                `json:"day"`
	Domains   []models.Domain       `json:"domains"`
	Entry     *models.Entry         `json:"entry,omitempty"`
	Submitted bool                  `json:"submitted"`
	Protected bool                  `json:"protected"`
	Momentum  models.MomentumResult `json:"momentum"`
}

// Settings loads the persisted settings, defaults applied.
func (s *Service) Settings() (models.Settings, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// TodayFor returns the current date in the configured timezone.
func (s *Service) TodayFor(settings models.Settings) string {
	loc := time.Local
	if settings.Timezone != "" && settings.Timezone != constants.DefaultTimezone {
		l, err := time.LoadLocation(settings.Timezone)
		if err != nil {
			logger.Warn("Unknown timezone, using local time", "timezone", settings.Timezone, "error", err)
		} else {
			loc = l
		}
	}
	return s.now().In(loc).Format(constants.DateFormat)
}

// CheckIn scores the day and upserts its entry. A second check-in for the
// same day fails with ErrAlreadySubmitted unless Overwrite is set. When the
// save fails the computed score is still returned alongside the error.
func (s *Service) CheckIn(userID string, req CheckInRequest) (CheckInResult, error) {
	settings, err := s.Settings()
	if err != nil {
		return CheckInResult{}, err
	}

	today := s.TodayFor(settings)
	day := strings.TrimSpace(req.Day)
	if day == "" {
		day = today
	}
	if err := validateDay(day); err != nil {
		return CheckInResult{}, err
	}
	if day > today {
		return CheckInResult{}, ErrFutureDay
	}

	existing, err := s.store.GetEntry(userID, day)
	found := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return CheckInResult{}, fmt.Errorf("failed to load entry: %w", err)
	}
	if found && !req.Overwrite {
		return CheckInResult{Entry: existing}, ErrAlreadySubmitted
	}

	domains, err := s.activeDomains(userID)
	if err != nil {
		return CheckInResult{}, err
	}

	completion, err := scoring.Record(domains, req.Selections)
	if err != nil {
		return CheckInResult{}, err
	}
	score := scoring.Score(models.ActiveDomainIDs(domains), completion.Domains, scoring.NewXPTable(settings, domains))

	now := s.now()
	entry := models.Entry{
		ID:         uuid.NewString(),
		UserID:     userID,
		Day:        day,
		Domains:    completion.Domains,
		Selections: completion.Selections,
		Reflection: strings.TrimSpace(req.Reflection),
		DailyScore: score.DailyScore,
		ActiveDay:  score.ActiveDay,
		StrongDay:  score.StrongDay,
		PerfectDay: score.PerfectDay,
		XPEarned:   score.XPEarned,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if found {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	}

	result := CheckInResult{Entry: entry, Score: score}
	if err := s.store.UpsertEntry(entry); err != nil {
		logger.Error("Failed to save check-in", "user", userID, "day", day, "error", err)
		return result, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	result.Saved = true
	logger.Info("Check-in saved", "user", userID, "day", day, "score", score.DailyScore, "xp", score.XPEarned)

	m, err := s.momentum(userID, today, settings)
	if err != nil {
		logger.Warn("Failed to compute momentum after check-in", "user", userID, "error", err)
	} else {
		result.Momentum = &m
	}
	return result, nil
}

// Momentum computes momentum for the window ending on today. An empty today
// means the current date.
func (s *Service) Momentum(userID, today string) (models.MomentumResult, error) {
	settings, err := s.Settings()
	if err != nil {
		return models.MomentumResult{}, err
	}
	if today == "" {
		today = s.TodayFor(settings)
	}
	if err := validateDay(today); err != nil {
		return models.MomentumResult{}, err
	}
	return s.momentum(userID, today, settings)
}

func (s *Service) momentum(userID, today string, settings models.Settings) (models.MomentumResult, error) {
	cfg := momentum.ConfigFromSettings(settings)
	end, _ := time.Parse(constants.DateFormat, today)
	// current and previous windows
	start := end.AddDate(0, 0, -(2*cfg.WindowDays - 1)).Format(constants.DateFormat)

	entries, err := s.store.GetEntries(userID, start, today)
	if err != nil {
		return models.MomentumResult{}, fmt.Errorf("failed to load entries: %w", err)
	}

	var protected []string
	if settings.Features.GroundingDays {
		days, err := s.store.GetProtectedDays(userID, start, today)
		if err != nil {
			return models.MomentumResult{}, fmt.Errorf("failed to load protected days: %w", err)
		}
		protected = models.ProtectedDays(days)
	}

	return momentum.Calculate(entries, protected, today, cfg), nil
}

// Progress sums lifetime XP and day counts.
func (s *Service) Progress(userID string) (models.Progress, error) {
	settings, err := s.Settings()
	if err != nil {
		return models.Progress{}, err
	}
	entries, err := s.store.GetAllEntries(userID)
	if err != nil {
		return models.Progress{}, fmt.Errorf("failed to load entries: %w", err)
	}

	p := models.Progress{XPPerLevel: settings.XPPerLevel}
	for _, e := range entries {
		p.TotalXP += max(e.XPEarned, 0)
		p.ActiveDays += e.ActiveDay
		p.StrongDays += e.StrongDay
		p.PerfectDays += e.PerfectDay
	}
	if settings.Features.Levels && settings.XPPerLevel > 0 {
		p.Level = p.TotalXP/settings.XPPerLevel + 1
		p.XPIntoLevel = p.TotalXP % settings.XPPerLevel
	}
	return p, nil
}

// History returns entries between from and to inclusive. Empty bounds
// default to the last momentum window.
func (s *Service) History(userID, from, to string) ([]models.Entry, error) {
	settings, err := s.Settings()
	if err != nil {
		return nil, err
	}
	if to == "" {
		to = s.TodayFor(settings)
	}
	if err := validateDay(to); err != nil {
		return nil, err
	}
	if from == "" {
		end, _ := time.Parse(constants.DateFormat, to)
		from = end.AddDate(0, 0, -(settings.MomentumWindowDays - 1)).Format(constants.DateFormat)
	}
	if err := validateDay(from); err != nil {
		return nil, err
	}
	if from > to {
		return nil, fmt.Errorf("%w: from %s is after to %s", ErrInvalidDay, from, to)
	}

	entries, err := s.store.GetEntries(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	return entries, nil
}

// Protect marks day as a grounding day, excluded from momentum.
func (s *Service) Protect(userID, day, reason string) (models.ProtectedDay, error) {
	settings, err := s.Settings()
	if err != nil {
		return models.ProtectedDay{}, err
	}
	if !settings.Features.GroundingDays {
		return models.ProtectedDay{}, fmt.Errorf("%w: grounding days", ErrFeatureDisabled)
	}
	if day == "" {
		day = s.TodayFor(settings)
	}
	if err := validateDay(day); err != nil {
		return models.ProtectedDay{}, err
	}

	p := models.ProtectedDay{UserID: userID, Day: day, Reason: strings.TrimSpace(reason), CreatedAt: s.now()}
	if err := s.store.AddProtectedDay(p); err != nil {
		return models.ProtectedDay{}, fmt.Errorf("failed to protect day: %w", err)
	}
	logger.Info("Day protected", "user", userID, "day", day)
	return p, nil
}

func (s *Service) Unprotect(userID, day string) error {
	if err := validateDay(day); err != nil {
		return err
	}
	return s.store.DeleteProtectedDay(userID, day)
}

// Today returns the state of the current day: the domains to check in on,
// the entry if one was already submitted, and current momentum.
func (s *Service) Today(userID string) (TodayView, error) {
	settings, err := s.Settings()
	if err != nil {
		return TodayView{}, err
	}
	today := s.TodayFor(settings)

	domains, err := s.activeDomains(userID)
	if err != nil {
		return TodayView{}, err
	}
	view := TodayView{Day: today, Domains: domains}

	entry, err := s.store.GetEntry(userID, today)
	switch {
	case err == nil:
		view.Entry = &entry
		view.Submitted = true
	case !errors.Is(err, storage.ErrNotFound):
		return TodayView{}, fmt.Errorf("failed to load entry: %w", err)
	}

	if view.Momentum, err = s.momentum(userID, today, settings); err != nil {
		return TodayView{}, err
	}
	view.Protected = view.Momentum.IsProtected
	return view, nil
}

// activeDomains returns the user's active domains. The registry seeds the
// core domains for new users.
func (s *Service) activeDomains(userID string) ([]models.Domain, error) {
	active, err := s.registry.Active(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load domains: %w", err)
	}
	return active, nil
}

func validateDay(day string) error {
	if _, err := time.Parse(constants.DateFormat, day); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	return nil
}

// Snapshot is the context handed to the coach.
type Snapshot struct {
	Domains  []string              `json:"domains"`
	Momentum models.MomentumResult `json:"momentum"`
	Progress models.Progress       `json:"progress"`
	Recent   []models.Entry        `json:"recent"`
}

func (s *Service) Snapshot(userID string) (Snapshot, error) {
	domains, err := s.activeDomains(userID)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Domains: make([]string, 0, len(domains))}
	for _, d := range domains {
		snap.Domains = append(snap.Domains, d.Name)
	}

	if snap.Momentum, err = s.Momentum(userID, ""); err != nil {
		return Snapshot{}, err
	}
	if snap.Progress, err = s.Progress(userID); err != nil {
		return Snapshot{}, err
	}
	if snap.Recent, err = s.History(userID, "", ""); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
