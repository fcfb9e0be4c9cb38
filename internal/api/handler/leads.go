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

// Leads serves the lead CRUD procedures.
type Leads struct {
	store    store.Store
	provider identity.Provider
}

func NewLeads(s store.Store, p identity.Provider) *Leads {
	return &Leads{store: s, provider: p}
}

type leadInput struct {
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Company      string    `json:"company"`
	Comment      string    `json:"comment"`
	DictionaryID string    `json:"dictionary_id"`
	Owner        *ownerRef `json:"owner"`
}

func (in *leadInput) validate() (*uuid.UUID, string) {
	if in.FirstName == "" {
		return nil, "first_name is required"
	}
	if in.Email != "" && !validEmail(in.Email) {
		return nil, "email must be a valid address"
	}
	dictID, err := parseOptionalUUID(in.DictionaryID)
	if err != nil {
		return nil, "dictionary_id must be a valid id"
	}
	return dictID, ""
}

func (h *Leads) List(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	leads, err := h.store.ListLeads(r.Context(), authz.ListScope(id))
	if err != nil {
		storeError(w, err, "Lead not found", "")
		return
	}
	if leads == nil {
		leads = []*models.Lead{}
	}
	response.JSON(w, leads)
}

func (h *Leads) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	leadID, ok := pathID(w, chi.URLParam(r, "leadID"))
	if !ok {
		return
	}

	lead, err := h.store.GetLead(r.Context(), leadID, authz.ListScope(id))
	if err != nil {
		storeError(w, err, "Lead not found", "")
		return
	}
	response.JSON(w, lead)
}

func (h *Leads) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in leadInput
	if !decodeJSON(w, r, &in) {
		return
	}
	dictID, msg := in.validate()
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

	if err := checkDictionaryRef(r.Context(), h.store, id.OrgID, dictID, models.DictLeadStatus); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			validationError(w, "dictionary_id does not reference a lead status of this organization")
			return
		}
		storeError(w, err, "", "")
		return
	}

	lead := &models.Lead{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Company:       in.Company,
		Comment:       in.Comment,
		DictionaryID:  dictID,
		Owner:         owner,
		OwnerFullname: ownerName,
		Team:          id.OrgID,
		TeamName:      id.OrgName,
		CreatedBy:     id.Identifier,
		UpdatedBy:     id.Identifier,
	}
	if err := h.store.CreateLead(r.Context(), lead); err != nil {
		storeError(w, err, "", "Lead conflicts with existing records")
		return
	}
	response.Created(w, lead)
}

func (h *Leads) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	leadID, ok := pathID(w, chi.URLParam(r, "leadID"))
	if !ok {
		return
	}

	var in leadInput
	if !decodeJSON(w, r, &in) {
		return
	}
	dictID, msg := in.validate()
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

	if err := checkDictionaryRef(r.Context(), h.store, id.OrgID, dictID, models.DictLeadStatus); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			validationError(w, "dictionary_id does not reference a lead status of this organization")
			return
		}
		storeError(w, err, "", "")
		return
	}

	lead := &models.Lead{
		ID:            leadID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Company:       in.Company,
		Comment:       in.Comment,
		DictionaryID:  dictID,
		Owner:         owner,
		OwnerFullname: ownerName,
		Team:          id.OrgID,
		TeamName:      id.OrgName,
		UpdatedBy:     id.Identifier,
	}
	updated, err := h.store.UpdateLead(r.Context(), lead)
	if err != nil {
		storeError(w, err, "Lead not found", "Lead conflicts with existing records")
		return
	}
	response.JSON(w, updated)
}

func (h *Leads) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	leadID, ok := pathID(w, chi.URLParam(r, "leadID"))
	if !ok {
		return
	}

	if err := h.store.DeleteLead(r.Context(), leadID, id.OrgID); err != nil {
		storeError(w, err, "Lead not found", "Lead is referenced by deals or activities")
		return
	}
	response.NoContent(w)
}
