package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jswierad/crmcore/internal/api/response"
	"github.com/jswierad/crmcore/internal/authz"
	"github.com/jswierad/crmcore/internal/identity"
	"github.com/jswierad/crmcore/internal/store"
	"github.com/jswierad/crmcore/pkg/models"
)

// Deals serves the deal CRUD procedures.
type Deals struct {
	store    store.Store
	provider identity.Provider
}

func NewDeals(s store.Store, p identity.Provider) *Deals {
	return &Deals{store: s, provider: p}
}

type dealInput struct {
	Comment      string    `json:"comment"`
	Value        int64     `json:"value"`
	Forecast     int64     `json:"forecast"`
	DictionaryID string    `json:"dictionary_id"`
	LeadID       string    `json:"lead_id"`
	Owner        *ownerRef `json:"owner"`
}

func (in *dealInput) validate() (dictID, leadID *uuid.UUID, msg string) {
	if in.Value < 0 {
		return nil, nil, "value must not be negative"
	}
	if in.Forecast < 0 {
		return nil, nil, "forecast must not be negative"
	}
	dictID, err := parseOptionalUUID(in.DictionaryID)
	if err != nil {
		return nil, nil, "dictionary_id must be a valid id"
	}
	leadID, err = parseOptionalUUID(in.LeadID)
	if err != nil {
		return nil, nil, "lead_id must be a valid id"
	}
	return dictID, leadID, ""
}

// checkRefs validates the stage and lead references against the caller's
// tenant.
func (h *Deals) checkRefs(w http.ResponseWriter, r *http.Request, team string, dictID, leadID *uuid.UUID) bool {
	if err := checkDictionaryRef(r.Context(), h.store, team, dictID, models.DictDealStage); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			validationError(w, "dictionary_id does not reference a deal stage of this organization")
			return false
		}
		storeError(w, err, "", "")
		return false
	}
	if err := checkLeadRef(r.Context(), h.store, team, leadID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			validationError(w, "lead_id does not reference a lead of this organization")
			return false
		}
		storeError(w, err, "", "")
		return false
	}
	return true
}

func (h *Deals) List(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	deals, err := h.store.ListDeals(r.Context(), authz.ListScope(id))
	if err != nil {
		storeError(w, err, "Deal not found", "")
		return
	}
	if deals == nil {
		deals = []*models.Deal{}
	}
	response.JSON(w, deals)
}

func (h *Deals) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	dealID, ok := pathID(w, chi.URLParam(r, "dealID"))
	if !ok {
		return
	}

	deal, err := h.store.GetDeal(r.Context(), dealID, authz.ListScope(id))
	if err != nil {
		storeError(w, err, "Deal not found", "")
		return
	}
	response.JSON(w, deal)
}

func (h *Deals) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in dealInput
	if !decodeJSON(w, r, &in) {
		return
	}
	dictID, leadID, msg := in.validate()
	if msg != "" {
		validationError(w, msg)
		return
	}

	owner, ownerName, err := resolveOwner(r.Context(), h.provider, id, in.Owner)
	if err != nil {
		if errors.Is(err, errNotAMember) {
			validationError(w, err.Error())
			return
		}
		providerError(w, err)
		return
	}

	if !h.checkRefs(w, r, id.OrgID, dictID, leadID) {
		return
	}

	deal := &models.Deal{
		Comment:       in.Comment,
		Value:         in.Value,
		Forecast:      in.Forecast,
		DictionaryID:  dictID,
		LeadID:        leadID,
		Owner:         owner,
		OwnerFullname: ownerName,
		Team:          id.OrgID,
		TeamName:      id.OrgName,
		CreatedBy:     id.Identifier,
		UpdatedBy:     id.Identifier,
	}
	if err := h.store.CreateDeal(r.Context(), deal); err != nil {
		storeError(w, err, "", "Deal conflicts with existing records")
		return
	}
	response.Created(w, deal)
}

func (h *Deals) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	dealID, ok := pathID(w, chi.URLParam(r, "dealID"))
	if !ok {
		return
	}

	var in dealInput
	if !decodeJSON(w, r, &in) {
		return
	}
	dictID, leadID, msg := in.validate()
	if msg != "" {
		validationError(w, msg)
		return
	}

	owner, ownerName, err := resolveOwner(r.Context(), h.provider, id, in.Owner)
	if err != nil {
		if errors.Is(err, errNotAMember) {
			validationError(w, err.Error())
			return
		}
		providerError(w, err)
		return
	}

	if !h.checkRefs(w, r, id.OrgID, dictID, leadID) {
		return
	}

	deal := &models.Deal{
		ID:            dealID,
		Comment:       in.Comment,
		Value:         in.Value,
		Forecast:      in.Forecast,
		DictionaryID:  dictID,
		LeadID:        leadID,
		Owner:         owner,
		OwnerFullname: ownerName,
		Team:          id.OrgID,
		TeamName:      id.OrgName,
		UpdatedBy:     id.Identifier,
	}
	updated, err := h.store.UpdateDeal(r.Context(), deal)
	if err != nil {
		storeError(w, err, "Deal not found", "Deal conflicts with existing records")
		return
	}
	response.JSON(w, updated)
}

func (h *Deals) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	dealID, ok := pathID(w, chi.URLParam(r, "dealID"))
	if !ok {
		return
	}

	if err := h.store.DeleteDeal(r.Context(), dealID, id.OrgID); err != nil {
		storeError(w, err, "Deal not found", "")
		return
	}
	response.NoContent(w)
}
