package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jswierad/crmcore/internal/api/response"
	"github.com/jswierad/crmcore/internal/authz"
	"github.com/jswierad/crmcore/internal/identity"
	"github.com/jswierad/crmcore/internal/store"
	"github.com/jswierad/crmcore/pkg/models"
)

const todayLimit = 5

// Activities serves the activity CRUD procedures plus the "today" view.
type Activities struct {
	store    store.Store
	provider identity.Provider
	now      func() time.Time
}

func NewActivities(s store.Store, p identity.Provider) *Activities {
	return &Activities{store: s, provider: p, now: time.Now}
}

type activityInput struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Date         string    `json:"date"`
	DictionaryID string    `json:"dictionary_id"`
	LeadID       string    `json:"lead_id"`
	Owner        *ownerRef `json:"owner"`
}

func (in *activityInput) validate() (date time.Time, dictID, leadID *uuid.UUID, msg string) {
	if in.Title == "" {
		return time.Time{}, nil, nil, "title is required"
	}
	if in.Date == "" {
		return time.Time{}, nil, nil, "date is required"
	}
	date, err := time.Parse(time.RFC3339, in.Date)
	if err != nil {
		return time.Time{}, nil, nil, "date must be a valid RFC3339 timestamp"
	}
	dictID, err = parseOptionalUUID(in.DictionaryID)
	if err != nil {
		return time.Time{}, nil, nil, "dictionary_id must be a valid id"
	}
	leadID, err = parseOptionalUUID(in.LeadID)
	if err != nil {
		return time.Time{}, nil, nil, "lead_id must be a valid id"
	}
	return date, dictID, leadID, ""
}

func (h *Activities) checkRefs(w http.ResponseWriter, r *http.Request, team string, dictID, leadID *uuid.UUID) bool {
	if err := checkDictionaryRef(r.Context(), h.store, team, dictID, models.DictActivityStatus); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			validationError(w, "dictionary_id does not reference an activity status of this organization")
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

func (h *Activities) List(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	activities, err := h.store.ListActivities(r.Context(), authz.ListScope(id))
	if err != nil {
		storeError(w, err, "Activity not found", "")
		return
	}
	if activities == nil {
		activities = []*models.Activity{}
	}
	response.JSON(w, activities)
}

// Today lists the caller's activities scheduled between the start of today
// and the start of tomorrow, newest first.
func (h *Activities) Today(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	now := h.now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	activities, err := h.store.ListActivitiesBetween(r.Context(), authz.ListScope(id), from, to, todayLimit)
	if err != nil {
		storeError(w, err, "Activity not found", "")
		return
	}
	if activities == nil {
		activities = []*models.Activity{}
	}
	response.JSON(w, activities)
}

func (h *Activities) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	activityID, ok := pathID(w, chi.URLParam(r, "activityID"))
	if !ok {
		return
	}

	activity, err := h.store.GetActivity(r.Context(), activityID, authz.ListScope(id))
	if err != nil {
		storeError(w, err, "Activity not found", "")
		return
	}
	response.JSON(w, activity)
}

func (h *Activities) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var in activityInput
	if !decodeJSON(w, r, &in) {
		return
	}
	date, dictID, leadID, msg := in.validate()
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

	activity := &models.Activity{
		Title:         in.Title,
		Description:   in.Description,
		Location:      in.Location,
		Date:          date,
		DictionaryID:  dictID,
		LeadID:        leadID,
		Owner:         owner,
		OwnerFullname: ownerName,
		Team:          id.OrgID,
		TeamName:      id.OrgName,
		CreatedBy:     id.Identifier,
		UpdatedBy:     id.Identifier,
	}
	if err := h.store.CreateActivity(r.Context(), activity); err != nil {
		storeError(w, err, "", "Activity conflicts with existing records")
		return
	}
	response.Created(w, activity)
}

func (h *Activities) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	activityID, ok := pathID(w, chi.URLParam(r, "activityID"))
	if !ok {
		return
	}

	var in activityInput
	if !decodeJSON(w, r, &in) {
		return
	}
	date, dictID, leadID, msg := in.validate()
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

	activity := &models.Activity{
		ID:            activityID,
		Title:         in.Title,
		Description:   in.Description,
		Location:      in.Location,
		Date:          date,
		DictionaryID:  dictID,
		LeadID:        leadID,
		Owner:         owner,
		OwnerFullname: ownerName,
		Team:          id.OrgID,
		TeamName:      id.OrgName,
		UpdatedBy:     id.Identifier,
	}
	updated, err := h.store.UpdateActivity(r.Context(), activity)
	if err != nil {
		storeError(w, err, "Activity not found", "Activity conflicts with existing records")
		return
	}
	response.JSON(w, updated)
}

func (h *Activities) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	activityID, ok := pathID(w, chi.URLParam(r, "activityID"))
	if !ok {
		return
	}

	if err := h.store.DeleteActivity(r.Context(), activityID, id.OrgID); err != nil {
		storeError(w, err, "Activity not found", "")
		return
	}
	response.NoContent(w)
}
