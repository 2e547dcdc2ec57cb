package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/compoundverse/internal/models"
)

// Row encoding shared by the SQL backends. Timestamps are stored as RFC3339
// text and structured columns as JSON.

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func ParseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

func EncodeActions(actions []models.MicroAction) (string, error) {
	if actions == nil {
		actions = []models.MicroAction{}
	}
	b, err := json.Marshal(actions)
	if err != nil {
		return "", fmt.Errorf("failed to encode actions: %w", err)
	}
	return string(b), nil
}

func DecodeActions(raw string) ([]models.MicroAction, error) {
	actions := []models.MicroAction{}
	if raw == "" {
		return actions, nil
	}
	if err := json.Unmarshal([]byte(raw), &actions); err != nil {
		return nil, fmt.Errorf("failed to decode actions: %w", err)
	}
	return actions, nil
}

func EncodeEntryMaps(e models.Entry) (domains, selections string, err error) {
	d := e.Domains
	if d == nil {
		d = map[string]int{}
	}
	s := e.Selections
	if s == nil {
		s = map[string][]string{}
	}
	db, err := json.Marshal(d)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode domains: %w", err)
	}
	sb, err := json.Marshal(s)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode selections: %w", err)
	}
	return string(db), string(sb), nil
}

func DecodeEntryMaps(e *models.Entry, domains, selections string) error {
	e.Domains = map[string]int{}
	e.Selections = map[string][]string{}
	if domains != "" {
		if err := json.Unmarshal([]byte(domains), &e.Domains); err != nil {
			return fmt.Errorf("failed to decode domains for entry %s: %w", e.ID, err)
		}
	}
	if selections != "" {
		if err := json.Unmarshal([]byte(selections), &e.Selections); err != nil {
			return fmt.Errorf("failed to decode selections for entry %s: %w", e.ID, err)
		}
	}
	return nil
}
