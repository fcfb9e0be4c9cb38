package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jswierad/crmcore/pkg/models"
)

const leadColumns = `id, first_name, last_name, email, company, comment,
	dictionary_id, owner, owner_fullname, team, team_name, created_by, updated_by, created_at, updated_at`

func scanLead(row pgx.Row) (*models.Lead, error) {
	var l models.Lead
	err := row.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Company, &l.Comment,
		&l.DictionaryID, &l.Owner, &l.OwnerFullname, &l.Team, &l.TeamName,
		&l.CreatedBy, &l.UpdatedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, scope Scope) ([]*models.Lead, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+leadColumns+` FROM leads
		 WHERE team = $1 AND ($2::text IS NULL OR owner = $2)
		 ORDER BY updated_at DESC`, scope.Team, scope.Owner)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (s *PostgresStore) GetLead(ctx context.Context, id uuid.UUID, scope Scope) (*models.Lead, error) {
	l, err := scanLead(s.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads
		 WHERE id = $1 AND team = $2 AND ($3::text IS NULL OR owner = $3)`,
		id, scope.Team, scope.Owner))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, l *models.Lead) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO leads (`+leadColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		l.ID, l.FirstName, l.LastName, l.Email, l.Company, l.Comment,
		l.DictionaryID, l.Owner, l.OwnerFullname, l.Team, l.TeamName,
		l.CreatedBy, l.UpdatedBy, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isConstraintError(err) {
			return ErrConstraint
		}
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateLead(ctx context.Context, l *models.Lead) (*models.Lead, error) {
	updated, err := scanLead(s.pool.QueryRow(ctx,
		`UPDATE leads SET
			first_name = $1, last_name = $2, email = $3, company = $4, comment = $5,
			dictionary_id = $6, owner = $7, owner_fullname = $8, team_name = $9,
			updated_by = $10, updated_at = now()
		 WHERE id = $11 AND team = $12
		 RETURNING `+leadColumns,
		l.FirstName, l.LastName, l.Email, l.Company, l.Comment,
		l.DictionaryID, l.Owner, l.OwnerFullname, l.TeamName, l.UpdatedBy, l.ID, l.Team))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isConstraintError(err) {
			return nil, ErrConstraint
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return updated, nil
}

// DeleteLead fails with ErrConstraint while deals or activities still
// reference the lead.
func (s *PostgresStore) DeleteLead(ctx context.Context, id uuid.UUID, team string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM leads WHERE id = $1 AND team = $2`, id, team)
	if err != nil {
		if isConstraintError(err) {
			return ErrConstraint
		}
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
