package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/jswierad/crmcore/internal/api/middleware"
	"github.com/jswierad/crmcore/internal/identity"
	"github.com/jswierad/crmcore/internal/store"
	"github.com/jswierad/crmcore/pkg/models"
)

// --- mock identity provider ---

type mockProvider struct {
	listMembersFn      func(ctx context.Context, orgID string) ([]identity.Member, error)
	updateMemberRoleFn func(ctx context.Context, orgID, userID string, role identity.Role) error
	removeMemberFn     func(ctx context.Context, orgID, userID string) error
}

func (m *mockProvider) ResolveSession(context.Context, string) (*identity.Identity, error) {
	return nil, identity.ErrUnauthenticated
}

func (m *mockProvider) ListMembers(ctx context.Context, orgID string) ([]identity.Member, error) {
	if m.listMembersFn == nil {
		return nil, nil
	}
	return m.listMembersFn(ctx, orgID)
}

func (m *mockProvider) UpdateMemberRole(ctx context.Context, orgID, userID string, role identity.Role) error {
	if m.updateMemberRoleFn == nil {
		return nil
	}
	return m.updateMemberRoleFn(ctx, orgID, userID, role)
}

func (m *mockProvider) RemoveMember(ctx context.Context, orgID, userID string) error {
	if m.removeMemberFn == nil {
		return nil
	}
	return m.removeMemberFn(ctx, orgID, userID)
}

// --- mock store ---

// mockStore embeds the Store interface so each test only fills in the
// methods it exercises. Calling anything unset panics, which is exactly
// what we want: it means the handler touched the store in an unexpected way.
type mockStore struct {
	store.Store

	listLeadsFn   func(ctx context.Context, scope store.Scope) ([]*models.Lead, error)
	getLeadFn     func(ctx context.Context, id uuid.UUID, scope store.Scope) (*models.Lead, error)
	createLeadFn  func(ctx context.Context, l *models.Lead) error
	updateLeadFn  func(ctx context.Context, l *models.Lead) (*models.Lead, error)
	deleteLeadFn  func(ctx context.Context, id uuid.UUID, team string) error
	createDealFn  func(ctx context.Context, d *models.Deal) error
	getDictFn     func(ctx context.Context, id uuid.UUID, team string) (*models.DictionaryEntry, error)
	listDictFn    func(ctx context.Context, team, dictType string) ([]*models.DictionaryEntry, error)
	listBetweenFn func(ctx context.Context, scope store.Scope, from, to time.Time, limit int) ([]*models.Activity, error)
	seedTenantFn  func(ctx context.Context, params store.SeedParams) (*store.SeedSummary, error)
}

func (m *mockStore) ListLeads(ctx context.Context, scope store.Scope) ([]*models.Lead, error) {
	return m.listLeadsFn(ctx, scope)
}

func (m *mockStore) GetLead(ctx context.Context, id uuid.UUID, scope store.Scope) (*models.Lead, error) {
	return m.getLeadFn(ctx, id, scope)
}

func (m *mockStore) CreateLead(ctx context.Context, l *models.Lead) error {
	return m.createLeadFn(ctx, l)
}

func (m *mockStore) UpdateLead(ctx context.Context, l *models.Lead) (*models.Lead, error) {
	return m.updateLeadFn(ctx, l)
}

func (m *mockStore) DeleteLead(ctx context.Context, id uuid.UUID, team string) error {
	return m.deleteLeadFn(ctx, id, team)
}

func (m *mockStore) CreateDeal(ctx context.Context, d *models.Deal) error {
	return m.createDealFn(ctx, d)
}

func (m *mockStore) ListDictionary(ctx context.Context, team, dictType string) ([]*models.DictionaryEntry, error) {
	return m.listDictFn(ctx, team, dictType)
}

func (m *mockStore) GetDictionaryEntry(ctx context.Context, id uuid.UUID, team string) (*models.DictionaryEntry, error) {
	return m.getDictFn(ctx, id, team)
}

func (m *mockStore) ListActivitiesBetween(ctx context.Context, scope store.Scope, from, to time.Time, limit int) ([]*models.Activity, error) {
	return m.listBetweenFn(ctx, scope, from, to, limit)
}

func (m *mockStore) SeedTenant(ctx context.Context, params store.SeedParams) (*store.SeedSummary, error) {
	return m.seedTenantFn(ctx, params)
}

// --- identity fixtures ---

func adminIdentity() identity.Identity {
	return identity.Identity{
		UserID:     "user_admin",
		Identifier: "admin@acme.test",
		OrgID:      "org_acme",
		OrgName:    "Acme",
		Role:       identity.RoleAdmin,
	}
}

func memberIdentity() identity.Identity {
	return identity.Identity{
		UserID:     "user_member",
		Identifier: "member@acme.test",
		OrgID:      "org_acme",
		OrgName:    "Acme",
		Role:       identity.RoleBasicMember,
	}
}

// --- request helpers ---

func authedReq(t *testing.T, method, target string, body any, id identity.Identity) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r.WithContext(mw.SetIdentity(r.Context(), id))
}

// withURLParam injects a chi route parameter so handlers that read
// chi.URLParam can be called outside a router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int) map[string]any {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("expected %d, got %d: %s", wantStatus, rec.Code, rec.Body.String())
	}
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) (int, string, string) {
	t.Helper()
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, env.Error.Code, env.Error.Message
}
