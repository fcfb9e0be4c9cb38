package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jswierad/crmcore/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Dictionary ---

func (s *PostgresStore) ListDictionary(ctx context.Context, team, dictType string) ([]*models.DictionaryEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, type, label, value, org_id, created_at, updated_at
		 FROM dictionary
		 WHERE org_id = $1 AND ($2 = '' OR type = $2)
		 ORDER BY type, created_at`, team, dictType)
	if err != nil {
		return nil, fmt.Errorf("list dictionary: %w", err)
	}
	defer rows.Close()

	var entries []*models.DictionaryEntry
	for rows.Next() {
		var e models.DictionaryEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Label, &e.Value, &e.OrgID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan dictionary entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// GetDictionaryEntry fetches a lookup value by id within the tenant. A
// lookup id belonging to another tenant is indistinguishable from a missing
// one.
func (s *PostgresStore) GetDictionaryEntry(ctx context.Context, id uuid.UUID, team string) (*models.DictionaryEntry, error) {
	var e models.DictionaryEntry
	err := s.pool.QueryRow(ctx,
		`SELECT id, type, label, value, org_id, created_at, updated_at
		 FROM dictionary WHERE id = $1 AND org_id = $2`, id, team).
		Scan(&e.ID, &e.Type, &e.Label, &e.Value, &e.OrgID, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dictionary entry: %w", err)
	}
	return &e, nil
}

// isConstraintError reports unique or foreign-key violations.
func isConstraintError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" || pgErr.Code == "23505"
	}
	return false
}
