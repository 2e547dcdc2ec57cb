package storage

import (
	"errors"
	"strings"

	"github.com/julianstephens/compoundverse/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when an insert hits an existing key
	ErrAlreadyExists = errors.New("already exists")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Domains
	// AddDomain inserts a new domain and fails with ErrAlreadyExists when the
	// (user, id) pair is taken. UpdateDomain upserts.
	AddDomain(models.Domain) error
	GetDomain(userID, id string) (models.Domain, error)
	// GetDomains returns the user's domains ordered by position. Archived
	// domains are only included when includeArchived is set.
	GetDomains(userID string, includeArchived bool) ([]models.Domain, error)
	UpdateDomain(models.Domain) error
	// DeleteDomain permanently removes a domain row.
	DeleteDomain(userID, id string) error

	// Entries
	// UpsertEntry inserts the entry or overwrites the existing one for (UserID, Day).
	UpsertEntry(models.Entry) error
	GetEntry(userID, day string) (models.Entry, error)
	// GetEntries returns entries with startDay <= day <= endDay ordered by day.
	GetEntries(userID, startDay, endDay string) ([]models.Entry, error)
	GetAllEntries(userID string) ([]models.Entry, error)

	// Protected days
	AddProtectedDay(models.ProtectedDay) error
	DeleteProtectedDay(userID, day string) error
	GetProtectedDays(userID, startDay, endDay string) ([]models.ProtectedDay, error)

	// Utils
	GetConfigPath() string
}

// IsPostgresConnString reports whether the config value names a PostgreSQL database
func IsPostgresConnString(config string) bool {
	return strings.HasPrefix(config, "postgres://") ||
		strings.HasPrefix(config, "postgresql://") ||
		strings.Contains(config, "host=")
}
