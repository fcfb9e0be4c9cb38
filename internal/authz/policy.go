// Package authz centralizes the tenant-scoping and role policy. Handlers
// consult it instead of branching on role strings inline, so the policy is
// testable in one place.
package authz

import (
	"github.com/jswierad/crmcore/internal/identity"
	"github.com/jswierad/crmcore/internal/store"
)

// Operation names a class of protected work.
type Operation string

const (
	OpReadEntities  Operation = "read_entities"
	OpWriteEntities Operation = "write_entities"
	OpReadMembers   Operation = "read_members"
	OpManageMembers Operation = "manage_members"
	OpBootstrap     Operation = "bootstrap"
)

// permissions is the role policy table. Any tenant member may read and write
// entities within scope; membership management is admin-only.
var permissions = map[Operation]map[identity.Role]bool{
	OpReadEntities:  {identity.RoleAdmin: true, identity.RoleBasicMember: true},
	OpWriteEntities: {identity.RoleAdmin: true, identity.RoleBasicMember: true},
	OpReadMembers:   {identity.RoleAdmin: true, identity.RoleBasicMember: true},
	OpManageMembers: {identity.RoleAdmin: true},
	OpBootstrap:     {identity.RoleAdmin: true, identity.RoleBasicMember: true},
}

// Can reports whether the role may perform the operation. Unknown operations
// are denied.
func Can(role identity.Role, op Operation) bool {
	return permissions[op][role]
}

// ListScope derives the read filter for the caller: always the caller's
// tenant, and for non-admins additionally the caller's own records.
func ListScope(id identity.Identity) store.Scope {
	if id.Role == identity.RoleAdmin {
		return store.TeamScope(id.OrgID)
	}
	return store.OwnerScope(id.OrgID, id.UserID)
}

// CanRemoveMember guards the member-removal path. Admins may remove other
// members but never themselves through this code path.
func CanRemoveMember(caller identity.Identity, targetUserID string) bool {
	if !Can(caller.Role, OpManageMembers) {
		return false
	}
	return targetUserID != caller.UserID
}
