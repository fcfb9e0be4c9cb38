package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jswierad/crmcore/internal/api/response"
	"github.com/jswierad/crmcore/internal/store"
)

func TestBootstrapSeed_ParamsComeFromIdentity(t *testing.T) {
	var got store.SeedParams
	s := &mockStore{
		seedTenantFn: func(_ context.Context, params store.SeedParams) (*store.SeedSummary, error) {
			got = params
			return &store.SeedSummary{Dictionaries: 9, Leads: 4, Deals: 4, Activities: 3}, nil
		},
	}
	h := NewBootstrap(s)
	rec := httptest.NewRecorder()

	// The body is ignored entirely; the tenant comes from the session.
	body := map[string]any{"team": "org_evil", "user_id": "mallory"}
	h.Seed(rec, authedReq(t, http.MethodPost, "/api/v1/bootstrap", body, adminIdentity()))

	data := decodeData(t, rec, http.StatusCreated)

	want := store.SeedParams{
		Team:     "org_acme",
		TeamName: "Acme",
		UserID:   "user_admin",
		UserName: "admin@acme.test",
	}
	if got != want {
		t.Errorf("seed params = %+v, want %+v", got, want)
	}

	if int(data["dictionaries"].(float64)) != 9 {
		t.Errorf("unexpected dictionaries count: %v", data["dictionaries"])
	}
	if int(data["leads"].(float64)) != 4 {
		t.Errorf("unexpected leads count: %v", data["leads"])
	}
	if int(data["deals"].(float64)) != 4 {
		t.Errorf("unexpected deals count: %v", data["deals"])
	}
	if int(data["activities"].(float64)) != 3 {
		t.Errorf("unexpected activities count: %v", data["activities"])
	}
}

func TestBootstrapSeed_StoreFailure(t *testing.T) {
	s := &mockStore{
		seedTenantFn: func(context.Context, store.SeedParams) (*store.SeedSummary, error) {
			return nil, errors.New("tx aborted")
		},
	}
	h := NewBootstrap(s)
	rec := httptest.NewRecorder()

	h.Seed(rec, authedReq(t, http.MethodPost, "/api/v1/bootstrap", nil, adminIdentity()))

	status, code, _ := decodeErr(t, rec)
	if status != http.StatusInternalServerError || code != response.CodeInternalError {
		t.Errorf("expected 500 %s, got %d %s", response.CodeInternalError, status, code)
	}
}
