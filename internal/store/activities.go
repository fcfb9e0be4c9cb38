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

const activityColumns = `id, title, description, location, date, dictionary_id, lead_id,
	owner, owner_fullname, team, team_name, created_by, updated_by, created_at, updated_at`

func scanActivity(row pgx.Row) (*models.Activity, error) {
	var a models.Activity
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Location, &a.Date, &a.DictionaryID, &a.LeadID,
		&a.Owner, &a.OwnerFullname, &a.Team, &a.TeamName,
		&a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) ListActivities(ctx context.Context, scope Scope) ([]*models.Activity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+activityColumns+` FROM activities
		 WHERE team = $1 AND ($2::text IS NULL OR owner = $2)
		 ORDER BY updated_at DESC`, scope.Team, scope.Owner)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	return collectActivities(rows)
}

// ListActivitiesBetween returns scoped activities whose date falls in
// [from, to), newest first, capped at limit.
func (s *PostgresStore) ListActivitiesBetween(ctx context.Context, scope Scope, from, to time.Time, limit int) ([]*models.Activity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+activityColumns+` FROM activities
		 WHERE team = $1 AND ($2::text IS NULL OR owner = $2)
		   AND date >= $3 AND date < $4
		 ORDER BY date DESC
		 LIMIT $5`, scope.Team, scope.Owner, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities between: %w", err)
	}
	defer rows.Close()

	return collectActivities(rows)
}

func collectActivities(rows pgx.Rows) ([]*models.Activity, error) {
	var activities []*models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *PostgresStore) GetActivity(ctx context.Context, id uuid.UUID, scope Scope) (*models.Activity, error) {
	a, err := scanActivity(s.pool.QueryRow(ctx,
		`SELECT `+activityColumns+` FROM activities
		 WHERE id = $1 AND team = $2 AND ($3::text IS NULL OR owner = $3)`,
		id, scope.Team, scope.Owner))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) CreateActivity(ctx context.Context, a *models.Activity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO activities (`+activityColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		a.ID, a.Title, a.Description, a.Location, a.Date, a.DictionaryID, a.LeadID,
		a.Owner, a.OwnerFullname, a.Team, a.TeamName,
		a.CreatedBy, a.UpdatedBy, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isConstraintError(err) {
			return ErrConstraint
		}
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateActivity(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	updated, err := scanActivity(s.pool.QueryRow(ctx,
		`UPDATE activities SET
			title = $1, description = $2, location = $3, date = $4, dictionary_id = $5, lead_id = $6,
			owner = $7, owner_fullname = $8, team_name = $9, updated_by = $10, updated_at = now()
		 WHERE id = $11 AND team = $12
		 RETURNING `+activityColumns,
		a.Title, a.Description, a.Location, a.Date, a.DictionaryID, a.LeadID,
		a.Owner, a.OwnerFullname, a.TeamName, a.UpdatedBy, a.ID, a.Team))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isConstraintError(err) {
			return nil, ErrConstraint
		}
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) DeleteActivity(ctx context.Context, id uuid.UUID, team string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM activities WHERE id = $1 AND team = $2`, id, team)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
