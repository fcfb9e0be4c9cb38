package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jswierad/crmcore/internal/api/response"
	"github.com/jswierad/crmcore/internal/authz"
	"github.com/jswierad/crmcore/internal/identity"
)

// Members exposes organization membership operations. Membership storage
// lives entirely on the identity provider; these handlers only gate and
// delegate.
type Members struct {
	provider identity.Provider
}

func NewMembers(p identity.Provider) *Members {
	return &Members{provider: p}
}

// List returns the caller organization's membership list.
func (h *Members) List(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	members, err := h.provider.ListMembers(r.Context(), id.OrgID)
	if err != nil {
		providerError(w, err)
		return
	}
	if members == nil {
		members = []identity.Member{}
	}
	response.JSON(w, members)
}

type updateRoleInput struct {
	Role string `json:"role"`
}

// UpdateRole changes a member's organization role. Admin-only; the role
// string must be one of the known roles, not merely parseable.
func (h *Members) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "userID")

	var in updateRoleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	role := identity.Role(in.Role)
	if role != identity.RoleAdmin && role != identity.RoleBasicMember {
		validationError(w, "role must be admin or basic_member")
		return
	}

	if err := h.provider.UpdateMemberRole(r.Context(), id.OrgID, userID, role); err != nil {
		providerError(w, err)
		return
	}
	response.JSON(w, map[string]string{"user_id": userID, "role": in.Role})
}

// Remove removes a member from the organization. An admin can never remove
// themselves through this path.
func (h *Members) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "userID")

	if !authz.CanRemoveMember(id, userID) {
		msg := "Insufficient permissions"
		if userID == id.UserID {
			msg = "You cannot remove yourself from the organization"
		}
		response.Error(w, http.StatusForbidden, response.CodeForbidden, msg, nil)
		return
	}

	if err := h.provider.RemoveMember(r.Context(), id.OrgID, userID); err != nil {
		providerError(w, err)
		return
	}
	response.NoContent(w)
}
