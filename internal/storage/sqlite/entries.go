package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/compoundverse/internal/models"
	"github.com/julianstephens/compoundverse/internal/storage"
)

const entryColumns = `id, user_id, day, domains, selections, reflection, daily_score, active_day, strong_day, perfect_day, xp_earned, created_at, updated_at`

func scanEntry(row rowScanner) (models.Entry, error) {
	var e models.Entry
	var domains, selections, createdAt, updatedAt string

	err := row.Scan(&e.ID, &e.UserID, &e.Day, &domains, &selections, &e.Reflection,
		&e.DailyScore, &e.ActiveDay, &e.StrongDay, &e.PerfectDay, &e.XPEarned, &createdAt, &updatedAt)
	if err != nil {
		return models.Entry{}, err
	}

	if err := storage.DecodeEntryMaps(&e, domains, selections); err != nil {
		return models.Entry{}, err
	}
	if e.CreatedAt, err = storage.ParseTime("created_at", createdAt); err != nil {
		return models.Entry{}, err
	}
	if e.UpdatedAt, err = storage.ParseTime("updated_at", updatedAt); err != nil {
		return models.Entry{}, err
	}
	return e, nil
}

func (s *Store) UpsertEntry(entry models.Entry) error {
	domains, selections, err := storage.EncodeEntryMaps(entry)
	if err != nil {
		return err
	}

	// The id and created_at of the first write for a day are kept.
	_, err = s.db.Exec(`
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET
			domains = excluded.domains,
			selections = excluded.selections,
			reflection = excluded.reflection,
			daily_score = excluded.daily_score,
			active_day = excluded.active_day,
			strong_day = excluded.strong_day,
			perfect_day = excluded.perfect_day,
			xp_earned = excluded.xp_earned,
			updated_at = excluded.updated_at`,
		entry.ID, entry.UserID, entry.Day, domains, selections, entry.Reflection,
		entry.DailyScore, entry.ActiveDay, entry.StrongDay, entry.PerfectDay, entry.XPEarned,
		storage.FormatTime(entry.CreatedAt), storage.FormatTime(entry.UpdatedAt))

	return err
}

func (s *Store) GetEntry(userID, day string) (models.Entry, error) {
	row := s.db.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE user_id = ? AND day = ?`, userID, day)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, fmt.Errorf("entry for %s: %w", day, storage.ErrNotFound)
	}
	return e, err
}

func (s *Store) GetEntries(userID, startDay, endDay string) ([]models.Entry, error) {
	return s.queryEntries(`SELECT `+entryColumns+` FROM entries
		WHERE user_id = ? AND day >= ? AND day <= ?
		ORDER BY day`, userID, startDay, endDay)
}

func (s *Store) GetAllEntries(userID string) ([]models.Entry, error) {
	return s.queryEntries(`SELECT `+entryColumns+` FROM entries WHERE user_id = ? ORDER BY day`, userID)
}

func (s *Store) queryEntries(query string, args ...any) ([]models.Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
