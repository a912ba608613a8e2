// Package portalclient is the Go client of the portal API used by the public
// site and the back office.
//
// A Client is bound to one Session. The anonymous session serves the public
// site; Login returns an authenticated session for the back office, and
// WithSession derives a client that uses it.
package portalclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantHeader selects the tenant of public requests
const TenantHeader = "X-Tenant-ID"

const defaultTimeout = 15 * time.Second

// Meta is the pagination block of list responses
type Meta = dto.Meta

// Client calls the portal API
type Client struct {
	baseURL    string
	httpClient *http.Client
	tenantID   uuid.UUID
	session    Session
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTenant sends the tenant header on every request. Without it the
// server serves its default tenant.
func WithTenant(id uuid.UUID) Option {
	return func(c *Client) {
		c.tenantID = id
	}
}

// WithLogger sets the logger used for degraded reference data lookups
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the API mounted at baseURL, for example
// "https://emlak.example.com/api/v1".
func New(baseURL string, session Session, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		session:    session,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Session returns the session the client is bound to
func (c *Client) Session() Session {
	return c.session
}

// WithSession returns a copy of the client bound to s
func (c *Client) WithSession(s Session) *Client {
	cp := *c
	cp.session = s
	return &cp
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *Meta           `json:"meta"`
}

// call is one API request. out receives the data member of the envelope.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	// raw, when set, is sent as is with contentType
	raw         io.Reader
	contentType string
	out         any
}

// do performs the call and decodes the envelope. Non-2xx answers become
// *APIError values.
func (c *Client) do(ctx context.Context, req call) (*Meta, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	body := req.raw
	contentType := req.contentType
	if body == nil && req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.tenantID != uuid.Nil {
		httpReq.Header.Set(TenantHeader, c.tenantID.String())
	}
	if c.session.Authenticated() {
		httpReq.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.RequestID = env.Error.RequestID
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decoding %s %s: %w", req.method, req.path, decodeErr)
	}
	if req.out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, req.out); err != nil {
			return nil, fmt.Errorf("decoding %s %s: %w", req.method, req.path, err)
		}
	}
	return env.Meta, nil
}
