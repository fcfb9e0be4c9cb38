package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jswierad/crmcore/internal/api/handler"
	mw "github.com/jswierad/crmcore/internal/api/middleware"
	"github.com/jswierad/crmcore/internal/api/response"
	"github.com/jswierad/crmcore/internal/authz"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	Contacts   *handler.Contacts
	Leads      *handler.Leads
	Deals      *handler.Deals
	Activities *handler.Activities
	Dictionary *handler.Dictionary
	Members    *handler.Members
	Bootstrap  *handler.Bootstrap
}

// NewRouter builds the Chi router with the middleware stack and all routes.
// Everything except the health check requires an authenticated session with
// an active organization.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)
		r.Use(mw.RequireOrganization)

		r.Route("/api/v1/contacts", func(r chi.Router) {
			r.Get("/", deps.Contacts.List)
			r.Post("/", deps.Contacts.Create)
			r.Get("/{contactID}", deps.Contacts.Get)
			r.Put("/{contactID}", deps.Contacts.Update)
			r.Delete("/{contactID}", deps.Contacts.Delete)
		})

		r.Route("/api/v1/leads", func(r chi.Router) {
			r.Get("/", deps.Leads.List)
			r.Post("/", deps.Leads.Create)
			r.Get("/{leadID}", deps.Leads.Get)
			r.Put("/{leadID}", deps.Leads.Update)
			r.Delete("/{leadID}", deps.Leads.Delete)
		})

		r.Route("/api/v1/deals", func(r chi.Router) {
			r.Get("/", deps.Deals.List)
			r.Post("/", deps.Deals.Create)
			r.Get("/{dealID}", deps.Deals.Get)
			r.Put("/{dealID}", deps.Deals.Update)
			r.Delete("/{dealID}", deps.Deals.Delete)
		})

		r.Route("/api/v1/activities", func(r chi.Router) {
			r.Get("/", deps.Activities.List)
			r.Get("/today", deps.Activities.Today)
			r.Post("/", deps.Activities.Create)
			r.Get("/{activityID}", deps.Activities.Get)
			r.Put("/{activityID}", deps.Activities.Update)
			r.Delete("/{activityID}", deps.Activities.Delete)
		})

		r.Get("/api/v1/dictionary", deps.Dictionary.List)

		r.Get("/api/v1/members", deps.Members.List)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(mw.Require(authz.OpManageMembers))

			r.Put("/api/v1/members/{userID}/role", deps.Members.UpdateRole)
			r.Delete("/api/v1/members/{userID}", deps.Members.Remove)
		})

		r.Post("/api/v1/bootstrap", deps.Bootstrap.Seed)
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
