package handler

import (
	"log/slog"
	"net/http"

	"github.com/jswierad/crmcore/internal/api/response"
	"github.com/jswierad/crmcore/internal/store"
)

// Bootstrap seeds a freshly provisioned organization with its default
// lookup values and sample records.
type Bootstrap struct {
	store store.Store
}

func NewBootstrap(s store.Store) *Bootstrap {
	return &Bootstrap{store: s}
}

// Seed runs the one-time tenant bootstrap. The whole sequence is atomic,
// but it is not idempotent: invoking it twice for the same organization
// duplicates lookup values and sample records. Callers must gate it on the
// organization-creation event.
func (h *Bootstrap) Seed(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	summary, err := h.store.SeedTenant(r.Context(), store.SeedParams{
		Team:     id.OrgID,
		TeamName: id.OrgName,
		UserID:   id.UserID,
		UserName: id.Identifier,
	})
	if err != nil {
		slog.Error("tenant bootstrap failed", "team", id.OrgID, "error", err)
		response.Error(w, http.StatusInternalServerError,
			response.CodeInternalError, "Bootstrapping the organization failed", nil)
		return
	}

	slog.Info("tenant bootstrapped",
		"team", id.OrgID,
		"dictionaries", summary.Dictionaries,
		"leads", summary.Leads,
		"deals", summary.Deals,
		"activities", summary.Activities,
	)
	response.Created(w, summary)
}
