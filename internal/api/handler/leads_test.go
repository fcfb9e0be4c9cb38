package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jswierad/crmcore/internal/api/response"
	"github.com/jswierad/crmcore/internal/identity"
	"github.com/jswierad/crmcore/internal/store"
	"github.com/jswierad/crmcore/pkg/models"
)

func TestLeadsCreate_StampsTenantAndAuditFields(t *testing.T) {
	var created *models.Lead
	s := &mockStore{
		createLeadFn: func(_ context.Context, l *models.Lead) error {
			created = l
			return nil
		},
	}
	h := NewLeads(s, &mockProvider{})
	rec := httptest.NewRecorder()

	body := map[string]any{
		"first_name": "John",
		"last_name":  "Doe",
		"email":      "john@example.com",
		"company":    "example company",
		// Client-supplied tenant fields must be ignored.
		"team":       "org_evil",
		"created_by": "mallory",
	}
	h.Create(rec, authedReq(t, http.MethodPost, "/api/v1/leads", body, memberIdentity()))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if created.Team != "org_acme" || created.TeamName != "Acme" {
		t.Errorf("tenant not stamped from identity: team=%q team_name=%q", created.Team, created.TeamName)
	}
	if created.CreatedBy != "member@acme.test" || created.UpdatedBy != "member@acme.test" {
		t.Errorf("audit fields not stamped: created_by=%q updated_by=%q", created.CreatedBy, created.UpdatedBy)
	}
	if created.Owner != "user_member" || created.OwnerFullname != "member@acme.test" {
		t.Errorf("owner should default to caller: owner=%q fullname=%q", created.Owner, created.OwnerFullname)
	}
}

func TestLeadsCreate_OwnerResolvedFromMembership(t *testing.T) {
	var created *models.Lead
	s := &mockStore{
		createLeadFn: func(_ context.Context, l *models.Lead) error {
			created = l
			return nil
		},
	}
	p := &mockProvider{
		listMembersFn: func(_ context.Context, orgID string) ([]identity.Member, error) {
			if orgID != "org_acme" {
				t.Errorf("expected membership lookup for org_acme, got %q", orgID)
			}
			return []identity.Member{
				{UserID: "user_admin", Identifier: "admin@acme.test", Role: identity.RoleAdmin},
				{UserID: "user_other", Identifier: "other@acme.test", Role: identity.RoleBasicMember},
			}, nil
		},
	}
	h := NewLeads(s, p)
	rec := httptest.NewRecorder()

	body := map[string]any{
		"first_name": "Merry",
		"owner":      map[string]string{"user_id": "user_other"},
	}
	h.Create(rec, authedReq(t, http.MethodPost, "/api/v1/leads", body, adminIdentity()))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if created.Owner != "user_other" || created.OwnerFullname != "other@acme.test" {
		t.Errorf("owner not resolved from membership: owner=%q fullname=%q", created.Owner, created.OwnerFullname)
	}
}

func TestLeadsCreate_OwnerNotAMember(t *testing.T) {
	s := &mockStore{}
	p := &mockProvider{
		listMembersFn: func(context.Context, string) ([]identity.Member, error) {
			return []identity.Member{{UserID: "user_admin", Identifier: "admin@acme.test"}}, nil
		},
	}
	h := NewLeads(s, p)
	rec := httptest.NewRecorder()

	body := map[string]any{
		"first_name": "Harper",
		"owner":      map[string]string{"user_id": "user_stranger"},
	}
	h.Create(rec, authedReq(t, http.MethodPost, "/api/v1/leads", body, adminIdentity()))

	status, code, _ := decodeErr(t, rec)
	if status != http.StatusBadRequest || code != response.CodeValidationFailed {
		t.Errorf("expected 400 %s, got %d %s", response.CodeValidationFailed, status, code)
	}
}

func TestLeadsCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing first_name", map[string]any{"email": "a@b.com"}},
		{"bad email", map[string]any{"first_name": "X", "email": "not-an-email"}},
		{"bad dictionary id", map[string]any{"first_name": "X", "dictionary_id": "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLeads(&mockStore{}, &mockProvider{})
			rec := httptest.NewRecorder()

			h.Create(rec, authedReq(t, http.MethodPost, "/api/v1/leads", tt.body, memberIdentity()))

			status, code, _ := decodeErr(t, rec)
			if status != http.StatusBadRequest || code != response.CodeValidationFailed {
				t.Errorf("expected 400 %s, got %d %s", response.CodeValidationFailed, status, code)
			}
		})
	}
}

func TestLeadsCreate_ForeignDictionaryRef(t *testing.T) {
	s := &mockStore{
		getDictFn: func(_ context.Context, _ uuid.UUID, team string) (*models.DictionaryEntry, error) {
			if team != "org_acme" {
				t.Errorf("dictionary lookup must be tenant-scoped, got %q", team)
			}
			return nil, store.ErrNotFound
		},
	}
	h := NewLeads(s, &mockProvider{})
	rec := httptest.NewRecorder()

	body := map[string]any{
		"first_name":    "John",
		"dictionary_id": uuid.NewString(),
	}
	h.Create(rec, authedReq(t, http.MethodPost, "/api/v1/leads", body, memberIdentity()))

	status, code, _ := decodeErr(t, rec)
	if status != http.StatusBadRequest || code != response.CodeValidationFailed {
		t.Errorf("expected 400 %s, got %d %s", response.CodeValidationFailed, status, code)
	}
}

func TestLeadsCreate_WrongDictionaryType(t *testing.T) {
	dictID := uuid.New()
	s := &mockStore{
		getDictFn: func(_ context.Context, id uuid.UUID, _ string) (*models.DictionaryEntry, error) {
			return &models.DictionaryEntry{ID: id, Type: models.DictDealStage}, nil
		},
	}
	h := NewLeads(s, &mockProvider{})
	rec := httptest.NewRecorder()

	body := map[string]any{
		"first_name":    "John",
		"dictionary_id": dictID.String(),
	}
	h.Create(rec, authedReq(t, http.MethodPost, "/api/v1/leads", body, memberIdentity()))

	status, code, _ := decodeErr(t, rec)
	if status != http.StatusBadRequest || code != response.CodeValidationFailed {
		t.Errorf("expected 400 %s, got %d %s", response.CodeValidationFailed, status, code)
	}
}

func TestLeadsList_ScopeByRole(t *testing.T) {
	tests := []struct {
		name      string
		caller    identity.Identity
		wantOwner *string
	}{
		{"admin sees whole tenant", adminIdentity(), nil},
		{"member sees own records", memberIdentity(), ptr("user_member")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotScope store.Scope
			s := &mockStore{
				listLeadsFn: func(_ context.Context, scope store.Scope) ([]*models.Lead, error) {
					gotScope = scope
					return nil, nil
				},
			}
			h := NewLeads(s, &mockProvider{})
			rec := httptest.NewRecorder()

			h.List(rec, authedReq(t, http.MethodGet, "/api/v1/leads", nil, tt.caller))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if gotScope.Team != "org_acme" {
				t.Errorf("expected team org_acme, got %q", gotScope.Team)
			}
			if (gotScope.Owner == nil) != (tt.wantOwner == nil) {
				t.Fatalf("owner filter mismatch: got %v, want %v", gotScope.Owner, tt.wantOwner)
			}
			if tt.wantOwner != nil && *gotScope.Owner != *tt.wantOwner {
				t.Errorf("expected owner %q, got %q", *tt.wantOwner, *gotScope.Owner)
			}
		})
	}
}

func TestLeadsList_NilBecomesEmptyArray(t *testing.T) {
	s := &mockStore{
		listLeadsFn: func(context.Context, store.Scope) ([]*models.Lead, error) {
			return nil, nil
		},
	}
	h := NewLeads(s, &mockProvider{})
	rec := httptest.NewRecorder()

	h.List(rec, authedReq(t, http.MethodGet, "/api/v1/leads", nil, adminIdentity()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"data\":[]}\n" {
		t.Errorf("expected empty array envelope, got %s", got)
	}
}

func TestLeadsUpdate_NotFound(t *testing.T) {
	s := &mockStore{
		updateLeadFn: func(context.Context, *models.Lead) (*models.Lead, error) {
			return nil, store.ErrNotFound
		},
	}
	h := NewLeads(s, &mockProvider{})
	rec := httptest.NewRecorder()

	body := map[string]any{"first_name": "John"}
	r := authedReq(t, http.MethodPut, "/api/v1/leads/"+uuid.NewString(), body, adminIdentity())
	h.Update(rec, withURLParam(r, "leadID", uuid.NewString()))

	status, code, _ := decodeErr(t, rec)
	if status != http.StatusNotFound || code != response.CodeNotFound {
		t.Errorf("expected 404 %s, got %d %s", response.CodeNotFound, status, code)
	}
}

func TestLeadsUpdate_CompoundFilterCarriesTenant(t *testing.T) {
	leadID := uuid.New()
	var updated *models.Lead
	s := &mockStore{
		updateLeadFn: func(_ context.Context, l *models.Lead) (*models.Lead, error) {
			updated = l
			return l, nil
		},
	}
	h := NewLeads(s, &mockProvider{})
	rec := httptest.NewRecorder()

	body := map[string]any{"first_name": "John"}
	r := authedReq(t, http.MethodPut, "/api/v1/leads/"+leadID.String(), body, memberIdentity())
	h.Update(rec, withURLParam(r, "leadID", leadID.String()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if updated.ID != leadID {
		t.Errorf("expected id %s, got %s", leadID, updated.ID)
	}
	if updated.Team != "org_acme" {
		t.Errorf("expected team org_acme, got %q", updated.Team)
	}
	if updated.UpdatedBy != "member@acme.test" {
		t.Errorf("expected updated_by from identity, got %q", updated.UpdatedBy)
	}
}

func TestLeadsDelete_Constraint(t *testing.T) {
	s := &mockStore{
		deleteLeadFn: func(context.Context, uuid.UUID, string) error {
			return store.ErrConstraint
		},
	}
	h := NewLeads(s, &mockProvider{})
	rec := httptest.NewRecorder()

	r := authedReq(t, http.MethodDelete, "/api/v1/leads/"+uuid.NewString(), nil, adminIdentity())
	h.Delete(rec, withURLParam(r, "leadID", uuid.NewString()))

	status, code, _ := decodeErr(t, rec)
	if status != http.StatusConflict || code != response.CodeConflict {
		t.Errorf("expected 409 %s, got %d %s", response.CodeConflict, status, code)
	}
}

func TestLeadsDelete_UsesCallerTenant(t *testing.T) {
	leadID := uuid.New()
	var gotTeam string
	s := &mockStore{
		deleteLeadFn: func(_ context.Context, id uuid.UUID, team string) error {
			if id != leadID {
				t.Errorf("expected id %s, got %s", leadID, id)
			}
			gotTeam = team
			return nil
		},
	}
	h := NewLeads(s, &mockProvider{})
	rec := httptest.NewRecorder()

	r := authedReq(t, http.MethodDelete, "/api/v1/leads/"+leadID.String(), nil, memberIdentity())
	h.Delete(rec, withURLParam(r, "leadID", leadID.String()))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotTeam != "org_acme" {
		t.Errorf("expected delete scoped to org_acme, got %q", gotTeam)
	}
}

func TestLeadsGet_InvalidID(t *testing.T) {
	h := NewLeads(&mockStore{}, &mockProvider{})
	rec := httptest.NewRecorder()

	r := authedReq(t, http.MethodGet, "/api/v1/leads/not-a-uuid", nil, adminIdentity())
	h.Get(rec, withURLParam(r, "leadID", "not-a-uuid"))

	status, code, _ := decodeErr(t, rec)
	if status != http.StatusBadRequest || code != response.CodeValidationFailed {
		t.Errorf("expected 400 %s, got %d %s", response.CodeValidationFailed, status, code)
	}
}

func ptr(s string) *string { return &s }
