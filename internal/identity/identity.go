// Package identity wraps the external identity/membership provider. The
// provider owns sessions, users, organizations and memberships; this package
// only consumes them through a narrow typed interface.
package identity

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnauthenticated means no valid session exists for the presented token.
var ErrUnauthenticated = errors.New("no valid session")

// ErrMemberNotFound means the target user is not a member of the organization.
var ErrMemberNotFound = errors.New("member not found")

// ProviderError carries a failure from the identity provider. The message is
// passed through to callers as-is, not reinterpreted.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider: %s (status %d)", e.Message, e.StatusCode)
}

// Role is the caller's role within their organization.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleBasicMember Role = "basic_member"
)

// ParseRole maps a provider role string onto a known role. Unknown values
// degrade to basic_member so a new provider role never grants admin rights.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleBasicMember
}

// Identity is the resolved caller: who they are and which organization the
// session is acting in. Resolved once per request and immutable afterwards.
// OrgID is empty when the session carries no organization membership.
type Identity struct {
	UserID     string `json:"user_id"`
	Identifier string `json:"identifier"`
	OrgID      string `json:"org_id"`
	OrgName    string `json:"org_name"`
	Role       Role   `json:"role"`
}

// HasOrganization reports whether the session is scoped to an organization.
func (i Identity) HasOrganization() bool {
	return i.OrgID != ""
}

// Member is one organization membership as reported by the provider.
type Member struct {
	UserID     string `json:"user_id"`
	Identifier string `json:"identifier"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       Role   `json:"role"`
}

// Provider is the full surface this application consumes from the identity
// service. Membership storage stays on the provider side.
type Provider interface {
	ResolveSession(ctx context.Context, token string) (*Identity, error)
	ListMembers(ctx context.Context, orgID string) ([]Member, error)
	UpdateMemberRole(ctx context.Context, orgID, userID string, role Role) error
	RemoveMember(ctx context.Context, orgID, userID string) error
}
