// Package handler contains the HTTP handlers for the CRM procedures. Every
// handler follows the same shape: resolve identity, decode and validate
// input, consult the authorization policy, then touch the store.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/google/uuid"
	mw "github.com/jswierad/crmcore/internal/api/middleware"
	"github.com/jswierad/crmcore/internal/api/response"
	"github.com/jswierad/crmcore/internal/identity"
	"github.com/jswierad/crmcore/internal/store"
)

// ownerRef is the client's way of assigning a record to a member. Both
// fields are validated against the membership list; everything else about
// ownership (tenant, audit fields) comes from the caller's identity.
type ownerRef struct {
	UserID     string `json:"user_id"`
	Identifier string `json:"identifier"`
}

// requireIdentity fetches the caller identity or writes a 401. The auth
// middleware guarantees it for protected routes; this is the handler-level
// backstop.
func requireIdentity(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	id, ok := mw.GetIdentity(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized,
			response.CodeAuthenticationRequired, "Missing session", nil)
		return identity.Identity{}, false
	}
	return id, true
}

// decodeJSON decodes the request body, writing a validation error on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Error(w, http.StatusBadRequest,
			response.CodeValidationFailed, "Invalid JSON body", nil)
		return false
	}
	return true
}

// pathID parses a uuid path parameter, writing a validation error on failure.
func pathID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(w, http.StatusBadRequest,
			response.CodeValidationFailed, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func validationError(w http.ResponseWriter, msg string) {
	response.Error(w, http.StatusBadRequest, response.CodeValidationFailed, msg, nil)
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

// parseOptionalUUID validates an optional uuid string field.
func parseOptionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// storeError maps a store failure onto the error taxonomy without leaking
// query details.
func storeError(w http.ResponseWriter, err error, notFoundMsg, conflictMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, response.CodeNotFound, notFoundMsg, nil)
	case errors.Is(err, store.ErrConstraint):
		response.Error(w, http.StatusConflict, response.CodeConflict, conflictMsg, nil)
	default:
		response.Error(w, http.StatusInternalServerError,
			response.CodeInternalError, "An unexpected error occurred", nil)
	}
}

// providerError maps an identity-provider failure, passing the provider's
// own message through for upstream errors.
func providerError(w http.ResponseWriter, err error) {
	var pErr *identity.ProviderError
	switch {
	case errors.Is(err, identity.ErrMemberNotFound):
		response.Error(w, http.StatusNotFound, response.CodeNotFound, "Member not found", nil)
	case errors.As(err, &pErr):
		response.Error(w, http.StatusBadGateway, response.CodeUpstreamError, pErr.Message, nil)
	default:
		response.Error(w, http.StatusBadGateway,
			response.CodeUpstreamError, "Identity provider unreachable", nil)
	}
}

// resolveOwner determines who a record belongs to. A nil ref means the
// caller; a set ref must match a current member of the caller's
// organization.
func resolveOwner(ctx context.Context, provider identity.Provider, caller identity.Identity, ref *ownerRef) (userID, fullname string, err error) {
	if ref == nil || ref.UserID == "" {
		return caller.UserID, caller.Identifier, nil
	}

	members, err := provider.ListMembers(ctx, caller.OrgID)
	if err != nil {
		return "", "", err
	}
	for _, m := range members {
		if m.UserID == ref.UserID {
			return m.UserID, m.Identifier, nil
		}
	}
	return "", "", errNotAMember
}

var errNotAMember = errors.New("owner is not a member of the organization")

// checkDictionaryRef verifies that an optional lookup reference belongs to
// the caller's tenant and the expected category.
func checkDictionaryRef(ctx context.Context, s store.Store, team string, id *uuid.UUID, dictType string) error {
	if id == nil {
		return nil
	}
	entry, err := s.GetDictionaryEntry(ctx, *id, team)
	if err != nil {
		return err
	}
	if entry.Type != dictType {
		return store.ErrNotFound
	}
	return nil
}

// checkLeadRef verifies that an optional lead reference belongs to the
// caller's tenant.
func checkLeadRef(ctx context.Context, s store.Store, team string, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := s.GetLead(ctx, *id, store.TeamScope(team))
	return err
}
