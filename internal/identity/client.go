package identity

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/jswierad/crmcore/internal/config"
)

// Client is the HTTP implementation of Provider.
type Client struct {
	http *resty.Client
}

// NewClient creates a Provider client for the configured identity service.
func NewClient(cfg config.IdentityConfig) *Client {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: c}
}

type sessionResponse struct {
	UserID     string `json:"user_id"`
	Identifier string `json:"identifier"`
	OrgID      string `json:"org_id"`
	OrgName    string `json:"org_name"`
	Role       string `json:"role"`
}

type providerErrorBody struct {
	Message string `json:"message"`
}

// ResolveSession exchanges an opaque session token for the caller's identity.
func (c *Client) ResolveSession(ctx context.Context, token string) (*Identity, error) {
	var out sessionResponse
	var apiErr providerErrorBody

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"token": token}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/sessions/verify")
	if err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
		return &Identity{
			UserID:     out.UserID,
			Identifier: out.Identifier,
			OrgID:      out.OrgID,
			OrgName:    out.OrgName,
			Role:       ParseRole(out.Role),
		}, nil
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusNotFound:
		return nil, ErrUnauthenticated
	default:
		return nil, &ProviderError{StatusCode: resp.StatusCode(), Message: errMessage(apiErr, resp)}
	}
}

type membershipListResponse struct {
	Members []Member `json:"members"`
}

// ListMembers returns the organization's membership list.
func (c *Client) ListMembers(ctx context.Context, orgID string) ([]Member, error) {
	var out membershipListResponse
	var apiErr providerErrorBody

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("orgID", orgID).
		SetResult(&out).
		SetError(&apiErr).
		Get("/v1/organizations/{orgID}/memberships")
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &ProviderError{StatusCode: resp.StatusCode(), Message: errMessage(apiErr, resp)}
	}
	return out.Members, nil
}

// UpdateMemberRole changes a member's organization role on the provider.
func (c *Client) UpdateMemberRole(ctx context.Context, orgID, userID string, role Role) error {
	var apiErr providerErrorBody

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("orgID", orgID).
		SetPathParam("userID", userID).
		SetBody(map[string]string{"role": string(role)}).
		SetError(&apiErr).
		Patch("/v1/organizations/{orgID}/memberships/{userID}")
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK || resp.StatusCode() == http.StatusNoContent:
		return nil
	case resp.StatusCode() == http.StatusNotFound:
		return ErrMemberNotFound
	default:
		return &ProviderError{StatusCode: resp.StatusCode(), Message: errMessage(apiErr, resp)}
	}
}

// RemoveMember removes a user from the organization on the provider.
func (c *Client) RemoveMember(ctx context.Context, orgID, userID string) error {
	var apiErr providerErrorBody

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("orgID", orgID).
		SetPathParam("userID", userID).
		SetError(&apiErr).
		Delete("/v1/organizations/{orgID}/memberships/{userID}")
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK || resp.StatusCode() == http.StatusNoContent:
		return nil
	case resp.StatusCode() == http.StatusNotFound:
		return ErrMemberNotFound
	default:
		return &ProviderError{StatusCode: resp.StatusCode(), Message: errMessage(apiErr, resp)}
	}
}

func errMessage(body providerErrorBody, resp *resty.Response) string {
	if body.Message != "" {
		return body.Message
	}
	return http.StatusText(resp.StatusCode())
}
