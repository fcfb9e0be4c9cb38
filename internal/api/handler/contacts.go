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

// Contacts serves the contact CRUD procedures.
type Contacts struct {
	store    store.Store
	provider identity.Provider
}

func NewContacts(s store.Store, p identity.Provider) *Contacts {
	return &Contacts{store: s, provider: p}
}

type contactInput struct {
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Company      string    `json:"company"`
	Title        string    `json:"title"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	Comment      string    `json:"comment"`
	DictionaryID string    `json:"dictionary_id"`
	Owner        *ownerRef `json:"owner"`
}

func (in *contactInput) validate() (*uuid.UUID, string) {
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

func (h *Contacts) List(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	contacts, err := h.store.ListContacts(r.Context(), authz.ListScope(id))
	if err != nil {
		storeError(w, err, "Contact not found", "")
		return
	}
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	response.JSON(w, contacts)
}

func (h *Contacts) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	contactID, ok := pathID(w, chi.URLParam(r, "contactID"))
	if !ok {
		return
	}

	contact, err := h.store.GetContact(r.Context(), contactID, authz.ListScope(id))
	if err != nil {
		storeError(w, err, "Contact not found", "")
		return
	}
	response.JSON(w, contact)
}

func (h *Contacts) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in contactInput
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

	if err := checkDictionaryRef(r.Context(), h.store, id.OrgID, dictID, models.DictContactType); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			validationError(w, "dictionary_id does not reference a contact type of this organization")
			return
		}
		storeError(w, err, "", "")
		return
	}

	contact := &models.Contact{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Company:       in.Company,
		Title:         in.Title,
		Phone:         in.Phone,
		Location:      in.Location,
		Comment:       in.Comment,
		DictionaryID:  dictID,
		Owner:         owner,
		OwnerFullname: ownerName,
		Team:          id.OrgID,
		TeamName:      id.OrgName,
		CreatedBy:     id.Identifier,
		UpdatedBy:     id.Identifier,
	}
	if err := h.store.CreateContact(r.Context(), contact); err != nil {
		storeError(w, err, "", "Contact conflicts with existing records")
		return
	}
	response.Created(w, contact)
}

func (h *Contacts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	contactID, ok := pathID(w, chi.URLParam(r, "contactID"))
	if !ok {
		return
	}

	var in contactInput
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

	if err := checkDictionaryRef(r.Context(), h.store, id.OrgID, dictID, models.DictContactType); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			validationError(w, "dictionary_id does not reference a contact type of this organization")
			return
		}
		storeError(w, err, "", "")
		return
	}

	contact := &models.Contact{
		ID:            contactID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Company:       in.Company,
		Title:         in.Title,
		Phone:         in.Phone,
		Location:      in.Location,
		Comment:       in.Comment,
		DictionaryID:  dictID,
		Owner:         owner,
		OwnerFullname: ownerName,
		Team:          id.OrgID,
		TeamName:      id.OrgName,
		UpdatedBy:     id.Identifier,
	}
	updated, err := h.store.UpdateContact(r.Context(), contact)
	if err != nil {
		storeError(w, err, "Contact not found", "Contact conflicts with existing records")
		return
	}
	response.JSON(w, updated)
}

func (h *Contacts) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	contactID, ok := pathID(w, chi.URLParam(r, "contactID"))
	if !ok {
		return
	}

	if err := h.store.DeleteContact(r.Context(), contactID, id.OrgID); err != nil {
		storeError(w, err, "Contact not found", "Contact is referenced by other records")
		return
	}
	response.NoContent(w)
}
