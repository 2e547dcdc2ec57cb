// Package keyring stores secrets (the PostgreSQL connection string and the
// OpenAI API key) in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/compoundverse/internal/constants"
)

var (
	ErrNotFound           = errors.New("secret not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secret names one keyring entry under the application's service name.
type Secret string

const (
	SecretDatabase Secret = constants.DefaultKeyringUser
	SecretOpenAI   Secret = constants.OpenAIKeyringUser
)

// Secrets lists every entry the application manages.
var Secrets = []Secret{SecretDatabase, SecretOpenAI}

func (s Secret) Label() string {
	switch s {
	case SecretDatabase:
		return "database connection string"
	case SecretOpenAI:
		return "OpenAI API key"
	}
	return string(s)
}

func Get(s Secret) (string, error) {
	value, err := keyring.Get(constants.AppName, string(s))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

func Set(s Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", s.Label())
	}
	if err := keyring.Set(constants.AppName, string(s), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", s.Label(), err)
	}
	return nil
}

func Delete(s Secret) error {
	if err := keyring.Delete(constants.AppName, string(s)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", s.Label(), err)
	}
	return nil
}

func GetConnectionString() (string, error) {
	return Get(SecretDatabase)
}

func SetConnectionString(connStr string) error {
	return Set(SecretDatabase, connStr)
}

func GetOpenAIKey() (string, error) {
	return Get(SecretOpenAI)
}

// IsAvailable is a best-effort probe: a not-found read still means the
// keyring answered.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
