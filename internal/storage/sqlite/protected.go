package sqlite

import (
	"fmt"

	"github.com/julianstephens/compoundverse/internal/models"
	"github.com/julianstephens/compoundverse/internal/storage"
)

func (s *Store) AddProtectedDay(day models.ProtectedDay) error {
	_, err := s.db.Exec(`
		INSERT INTO protected_days (user_id, day, reason, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET reason = excluded.reason`,
		day.UserID, day.Day, day.Reason, storage.FormatTime(day.CreatedAt))
	return err
}

func (s *Store) DeleteProtectedDay(userID, day string) error {
	result, err := s.db.Exec(`DELETE FROM protected_days WHERE user_id = ? AND day = ?`, userID, day)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("protected day %s: %w", day, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) GetProtectedDays(userID, startDay, endDay string) ([]models.ProtectedDay, error) {
	rows, err := s.db.Query(`
		SELECT user_id, day, reason, created_at FROM protected_days
		WHERE user_id = ? AND day >= ? AND day <= ?
		ORDER BY day`, userID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.ProtectedDay
	for rows.Next() {
		var p models.ProtectedDay
		var createdAt string
		if err := rows.Scan(&p.UserID, &p.Day, &p.Reason, &createdAt); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = storage.ParseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		days = append(days, p)
	}
	return days, rows.Err()
}
