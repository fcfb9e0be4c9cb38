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

const dealColumns = `id, comment, value, forecast, dictionary_id, lead_id,
	owner, owner_fullname, team, team_name, created_by, updated_by, created_at, updated_at`

func scanDeal(row pgx.Row) (*models.Deal, error) {
	var d models.Deal
	err := row.Scan(&d.ID, &d.Comment, &d.Value, &d.Forecast, &d.DictionaryID, &d.LeadID,
		&d.Owner, &d.OwnerFullname, &d.Team, &d.TeamName,
		&d.CreatedBy, &d.UpdatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *PostgresStore) ListDeals(ctx context.Context, scope Scope) ([]*models.Deal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+dealColumns+` FROM deals
		 WHERE team = $1 AND ($2::text IS NULL OR owner = $2)
		 ORDER BY updated_at DESC`, scope.Team, scope.Owner)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func (s *PostgresStore) GetDeal(ctx context.Context, id uuid.UUID, scope Scope) (*models.Deal, error) {
	d, err := scanDeal(s.pool.QueryRow(ctx,
		`SELECT `+dealColumns+` FROM deals
		 WHERE id = $1 AND team = $2 AND ($3::text IS NULL OR owner = $3)`,
		id, scope.Team, scope.Owner))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) CreateDeal(ctx context.Context, d *models.Deal) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO deals (`+dealColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		d.ID, d.Comment, d.Value, d.Forecast, d.DictionaryID, d.LeadID,
		d.Owner, d.OwnerFullname, d.Team, d.TeamName,
		d.CreatedBy, d.UpdatedBy, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isConstraintError(err) {
			return ErrConstraint
		}
		return fmt.Errorf("create deal: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateDeal(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	updated, err := scanDeal(s.pool.QueryRow(ctx,
		`UPDATE deals SET
			comment = $1, value = $2, forecast = $3, dictionary_id = $4, lead_id = $5,
			owner = $6, owner_fullname = $7, team_name = $8, updated_by = $9, updated_at = now()
		 WHERE id = $10 AND team = $11
		 RETURNING `+dealColumns,
		d.Comment, d.Value, d.Forecast, d.DictionaryID, d.LeadID,
		d.Owner, d.OwnerFullname, d.TeamName, d.UpdatedBy, d.ID, d.Team))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isConstraintError(err) {
			return nil, ErrConstraint
		}
		return nil, fmt.Errorf("update deal: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) DeleteDeal(ctx context.Context, id uuid.UUID, team string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM deals WHERE id = $1 AND team = $2`, id, team)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
