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

const contactColumns = `id, first_name, last_name, email, company, title, phone, location, comment,
	dictionary_id, owner, owner_fullname, team, team_name, created_by, updated_by, created_at, updated_at`

func scanContact(row pgx.Row) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Company, &c.Title, &c.Phone,
		&c.Location, &c.Comment, &c.DictionaryID, &c.Owner, &c.OwnerFullname, &c.Team, &c.TeamName,
		&c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) ListContacts(ctx context.Context, scope Scope) ([]*models.Contact, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts
		 WHERE team = $1 AND ($2::text IS NULL OR owner = $2)
		 ORDER BY updated_at DESC`, scope.Team, scope.Owner)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (s *PostgresStore) GetContact(ctx context.Context, id uuid.UUID, scope Scope) (*models.Contact, error) {
	c, err := scanContact(s.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts
		 WHERE id = $1 AND team = $2 AND ($3::text IS NULL OR owner = $3)`,
		id, scope.Team, scope.Owner))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) CreateContact(ctx context.Context, c *models.Contact) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO contacts (`+contactColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Company, c.Title, c.Phone, c.Location, c.Comment,
		c.DictionaryID, c.Owner, c.OwnerFullname, c.Team, c.TeamName, c.CreatedBy, c.UpdatedBy,
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isConstraintError(err) {
			return ErrConstraint
		}
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

// UpdateContact overwrites the row matching both id and team. A zero-row
// update means the record does not exist within the caller's tenant.
func (s *PostgresStore) UpdateContact(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	updated, err := scanContact(s.pool.QueryRow(ctx,
		`UPDATE contacts SET
			first_name = $1, last_name = $2, email = $3, company = $4, title = $5, phone = $6,
			location = $7, comment = $8, dictionary_id = $9, owner = $10, owner_fullname = $11,
			team_name = $12, updated_by = $13, updated_at = now()
		 WHERE id = $14 AND team = $15
		 RETURNING `+contactColumns,
		c.FirstName, c.LastName, c.Email, c.Company, c.Title, c.Phone, c.Location, c.Comment,
		c.DictionaryID, c.Owner, c.OwnerFullname, c.TeamName, c.UpdatedBy, c.ID, c.Team))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isConstraintError(err) {
			return nil, ErrConstraint
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) DeleteContact(ctx context.Context, id uuid.UUID, team string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM contacts WHERE id = $1 AND team = $2`, id, team)
	if err != nil {
		if isConstraintError(err) {
			return ErrConstraint
		}
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
