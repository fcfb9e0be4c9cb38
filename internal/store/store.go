package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jswierad/crmcore/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrConstraint = errors.New("constraint violation")

// Scope narrows every read to the caller's tenant, and optionally to rows
// owned by the caller. Owner is nil for admins, who see the whole tenant.
type Scope struct {
	Team  string
	Owner *string
}

// TeamScope returns a tenant-wide scope with no owner restriction.
func TeamScope(team string) Scope {
	return Scope{Team: team}
}

// OwnerScope returns a scope restricted to one owner within the tenant.
func OwnerScope(team, owner string) Scope {
	return Scope{Team: team, Owner: &owner}
}

// Store is the data access interface. All database operations go through
// here. Every method that touches a tenant-scoped entity takes either a
// Scope (reads) or an explicit team (mutations); there is no way to query
// across tenants.
type Store interface {
	Ping(ctx context.Context) error

	ListContacts(ctx context.Context, scope Scope) ([]*models.Contact, error)
	GetContact(ctx context.Context, id uuid.UUID, scope Scope) (*models.Contact, error)
	CreateContact(ctx context.Context, c *models.Contact) error
	UpdateContact(ctx context.Context, c *models.Contact) (*models.Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID, team string) error

	ListLeads(ctx context.Context, scope Scope) ([]*models.Lead, error)
	GetLead(ctx context.Context, id uuid.UUID, scope Scope) (*models.Lead, error)
	CreateLead(ctx context.Context, l *models.Lead) error
	UpdateLead(ctx context.Context, l *models.Lead) (*models.Lead, error)
	DeleteLead(ctx context.Context, id uuid.UUID, team string) error

	ListDeals(ctx context.Context, scope Scope) ([]*models.Deal, error)
	GetDeal(ctx context.Context, id uuid.UUID, scope Scope) (*models.Deal, error)
	CreateDeal(ctx context.Context, d *models.Deal) error
	UpdateDeal(ctx context.Context, d *models.Deal) (*models.Deal, error)
	DeleteDeal(ctx context.Context, id uuid.UUID, team string) error

	ListActivities(ctx context.Context, scope Scope) ([]*models.Activity, error)
	ListActivitiesBetween(ctx context.Context, scope Scope, from, to time.Time, limit int) ([]*models.Activity, error)
	GetActivity(ctx context.Context, id uuid.UUID, scope Scope) (*models.Activity, error)
	CreateActivity(ctx context.Context, a *models.Activity) error
	UpdateActivity(ctx context.Context, a *models.Activity) (*models.Activity, error)
	DeleteActivity(ctx context.Context, id uuid.UUID, team string) error

	ListDictionary(ctx context.Context, team, dictType string) ([]*models.DictionaryEntry, error)
	GetDictionaryEntry(ctx context.Context, id uuid.UUID, team string) (*models.DictionaryEntry, error)

	SeedTenant(ctx context.Context, params SeedParams) (*SeedSummary, error)
}

// SeedParams identifies the tenant being bootstrapped and the user the
// sample records are attributed to.
type SeedParams struct {
	Team     string
	TeamName string
	UserID   string
	UserName string
}

// SeedSummary reports what the bootstrap inserted.
type SeedSummary struct {
	Dictionaries int `json:"dictionaries"`
	Leads        int `json:"leads"`
	Deals        int `json:"deals"`
	Activities   int `json:"activities"`
}
