package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeedTenant populates a freshly provisioned tenant with its default lookup
// values and a set of sample records. The whole sequence runs inside one
// transaction: either the tenant gets all of it or none of it.
//
// Seeding is not idempotent. Calling it twice duplicates lookup values and
// sample records; the caller must ensure at-most-once invocation per tenant.
func (s *PostgresStore) SeedTenant(ctx context.Context, params SeedParams) (*SeedSummary, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	dict := func(dictType, value string) (uuid.UUID, error) {
		id := uuid.New()
		_, err := tx.Exec(ctx,
			`INSERT INTO dictionary (id, type, label, value, org_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $3, $4, $5, $5)`,
			id, dictType, value, params.Team, now)
		return id, err
	}

	// Three categories, each with the same three ordinal states.
	states := []string{"open", "active", "closed"}
	var activityStatus, dealStage, leadStatus [3]uuid.UUID
	for i, state := range states {
		if activityStatus[i], err = dict("ACTIVITY_STATUS", state); err != nil {
			return nil, fmt.Errorf("seed activity status: %w", err)
		}
		if dealStage[i], err = dict("DEAL_STAGE", state); err != nil {
			return nil, fmt.Errorf("seed deal stage: %w", err)
		}
		if leadStatus[i], err = dict("LEAD_STATUS", state); err != nil {
			return nil, fmt.Errorf("seed lead status: %w", err)
		}
	}

	lead := func(firstName, lastName, email, comment, company string, status uuid.UUID) (uuid.UUID, error) {
		id := uuid.New()
		_, err := tx.Exec(ctx,
			`INSERT INTO leads (id, first_name, last_name, email, company, comment, dictionary_id,
				owner, owner_fullname, team, team_name, created_by, updated_by, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $9, $9, $12, $12)`,
			id, firstName, lastName, email, company, comment, status,
			params.UserID, params.UserName, params.Team, params.TeamName, now)
		return id, err
	}

	sampleLeads := []struct {
		firstName, lastName, email, comment, company string
		status                                       uuid.UUID
	}{
		{"John", "Doe", "john@example.com", "simple comment", "example company", leadStatus[0]},
		{"Merry", "Doe", "merry@email.com", "", "Acme company", leadStatus[1]},
		{"Harper", "Smith", "harper@smith.com", "simple comment", "example company", leadStatus[2]},
		{"Bob", "Smith", "bob@example.com", "simple comment", "example company", leadStatus[0]},
	}
	leadIDs := make([]uuid.UUID, len(sampleLeads))
	for i, l := range sampleLeads {
		if leadIDs[i], err = lead(l.firstName, l.lastName, l.email, l.comment, l.company, l.status); err != nil {
			return nil, fmt.Errorf("seed lead: %w", err)
		}
	}

	// The owner audit fields on sample leads use the provisioning user's
	// name; deals and activities below follow the same attribution.
	deal := func(comment string, value, forecast int64, stage, leadID uuid.UUID) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO deals (id, comment, value, forecast, dictionary_id, lead_id,
				owner, owner_fullname, team, team_name, created_by, updated_by, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $8, $8, $11, $11)`,
			uuid.New(), comment, value, forecast, stage, leadID,
			params.UserID, params.UserName, params.Team, params.TeamName, now)
		return err
	}

	sampleDeals := []struct {
		comment         string
		value, forecast int64
		stage, leadID   uuid.UUID
	}{
		{"Test comment", 0, 20000, dealStage[0], leadIDs[0]},
		{"Very iteresting comment", 17000, 12000, dealStage[1], leadIDs[1]},
		{"Very iteresting comment", 11000, 14000, dealStage[0], leadIDs[2]},
		{"Very iteresting comment", 8000, 4000, dealStage[1], leadIDs[2]},
	}
	for _, d := range sampleDeals {
		if err := deal(d.comment, d.value, d.forecast, d.stage, d.leadID); err != nil {
			return nil, fmt.Errorf("seed deal: %w", err)
		}
	}

	activity := func(title, description, location string, status, leadID uuid.UUID) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO activities (id, title, description, location, date, dictionary_id, lead_id,
				owner, owner_fullname, team, team_name, created_by, updated_by, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $9, $9, $5, $5)`,
			uuid.New(), title, description, location, now, status, leadID,
			params.UserID, params.UserName, params.Team, params.TeamName)
		return err
	}

	sampleActivities := []struct {
		title, description, location string
		status, leadID               uuid.UUID
	}{
		{"Send offert", "Send offert via email", "", activityStatus[1], leadIDs[0]},
		{"Meeting", "F2F meeting at lead's office", "Wrocław office - somewhere", activityStatus[0], leadIDs[2]},
		{"Meeting", "Call meeting to discuss our new offert", "via Teams", activityStatus[0], leadIDs[1]},
	}
	for _, a := range sampleActivities {
		if err := activity(a.title, a.description, a.location, a.status, a.leadID); err != nil {
			return nil, fmt.Errorf("seed activity: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit seed transaction: %w", err)
	}

	return &SeedSummary{
		Dictionaries: len(states) * 3,
		Leads:        len(sampleLeads),
		Deals:        len(sampleDeals),
		Activities:   len(sampleActivities),
	}, nil
}
