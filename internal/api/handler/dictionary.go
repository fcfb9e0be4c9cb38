package handler

import (
	"net/http"

	"github.com/jswierad/crmcore/internal/api/response"
	"github.com/jswierad/crmcore/internal/store"
	"github.com/jswierad/crmcore/pkg/models"
)

// Dictionary serves the tenant's lookup values.
type Dictionary struct {
	store store.Store
}

func NewDictionary(s store.Store) *Dictionary {
	return &Dictionary{store: s}
}

// List returns the tenant's lookup values, optionally filtered by the
// "type" query parameter (e.g. LEAD_STATUS).
func (h *Dictionary) List(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	entries, err := h.store.ListDictionary(r.Context(), id.OrgID, r.URL.Query().Get("type"))
	if err != nil {
		storeError(w, err, "Dictionary entry not found", "")
		return
	}
	if entries == nil {
		entries = []*models.DictionaryEntry{}
	}
	response.JSON(w, entries)
}
