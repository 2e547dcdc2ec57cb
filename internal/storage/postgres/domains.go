package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/compoundverse/internal/models"
	"github.com/julianstephens/compoundverse/internal/storage"
)

const domainColumns = `id, user_id, name, icon, color, actions, is_core, xp_enabled, disabled, position, created_at, archived_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDomain(row rowScanner) (models.Domain, error) {
	var d models.Domain
	var actions, createdAt string
	var archivedAt sql.NullString

	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Icon, &d.Color, &actions,
		&d.IsCore, &d.XPEnabled, &d.Disabled, &d.Position, &createdAt, &archivedAt)
	if err != nil {
		return models.Domain{}, err
	}

	if d.Actions, err = storage.DecodeActions(actions); err != nil {
		return models.Domain{}, err
	}
	if d.CreatedAt, err = storage.ParseTime("created_at", createdAt); err != nil {
		return models.Domain{}, err
	}
	if archivedAt.Valid {
		t, err := storage.ParseTime("archived_at", archivedAt.String)
		if err != nil {
			return models.Domain{}, err
		}
		d.ArchivedAt = &t
	}
	return d, nil
}

// domainArgs encodes a domain in domainColumns order.
func domainArgs(domain models.Domain) ([]any, error) {
	actions, err := storage.EncodeActions(domain.Actions)
	if err != nil {
		return nil, err
	}
	var archivedAt sql.NullString
	if domain.ArchivedAt != nil {
		archivedAt = sql.NullString{String: storage.FormatTime(*domain.ArchivedAt), Valid: true}
	}
	if domain.CreatedAt.IsZero() {
		domain.CreatedAt = time.Now()
	}
	return []any{
		domain.ID, domain.UserID, domain.Name, domain.Icon, domain.Color, actions,
		domain.IsCore, domain.XPEnabled, domain.Disabled, domain.Position,
		storage.FormatTime(domain.CreatedAt), archivedAt,
	}, nil
}

func (s *Store) AddDomain(domain models.Domain) error {
	args, err := domainArgs(domain)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(`
		INSERT INTO domains (`+domainColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT(user_id, id) DO NOTHING`, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("domain %q: %w", domain.ID, storage.ErrAlreadyExists)
	}
	return nil
}

func (s *Store) GetDomain(userID, id string) (models.Domain, error) {
	row := s.db.QueryRow(`SELECT `+domainColumns+` FROM domains WHERE user_id = $1 AND id = $2`, userID, id)
	d, err := scanDomain(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Domain{}, fmt.Errorf("domain %q: %w", id, storage.ErrNotFound)
	}
	return d, err
}

func (s *Store) GetDomains(userID string, includeArchived bool) ([]models.Domain, error) {
	query := `SELECT ` + domainColumns + ` FROM domains WHERE user_id = $1`
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY position, created_at"

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []models.Domain
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

func (s *Store) UpdateDomain(domain models.Domain) error {
	args, err := domainArgs(domain)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO domains (`+domainColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			icon = EXCLUDED.icon,
			color = EXCLUDED.color,
			actions = EXCLUDED.actions,
			is_core = EXCLUDED.is_core,
			xp_enabled = EXCLUDED.xp_enabled,
			disabled = EXCLUDED.disabled,
			position = EXCLUDED.position,
			archived_at = EXCLUDED.archived_at`, args...)

	return err
}

func (s *Store) DeleteDomain(userID, id string) error {
	result, err := s.db.Exec(`DELETE FROM domains WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("domain %q: %w", id, storage.ErrNotFound)
	}
	return nil
}
