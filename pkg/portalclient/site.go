package portalclient

import (
	"context"
	"net/http"
	"net/url"

	leadapp "github.com/emlak/backend/internal/application/lead"
	siteapp "github.com/emlak/backend/internal/application/site"
)

type (
	Page = siteapp.PageResponse
	// CustomerRequest is the contact form of the public site. Optional
	// fields left empty are omitted from the request body.
	CustomerRequest         = leadapp.SubmitRequest
	CustomerRequestResponse = leadapp.CustomerRequestResponse
)

// Page returns a published content page. A missing page is ErrNotFound.
func (c *Client) Page(ctx context.Context, slug string) (*Page, error) {
	var p Page
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/pages/slug/" + url.PathEscape(slug), out: &p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// SubmitCustomerRequest sends the contact form
func (c *Client) SubmitCustomerRequest(ctx context.Context, req CustomerRequest) (*CustomerRequestResponse, error) {
	var resp CustomerRequestResponse
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/requests/customer", body: req, out: &resp}); err != nil {
		return nil, err
	}
	return &resp, nil
}
