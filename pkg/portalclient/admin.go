package portalclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	attributeapp "github.com/emlak/backend/internal/application/attribute"
	branchapp "github.com/emlak/backend/internal/application/branch"
	consultantapp "github.com/emlak/backend/internal/application/consultant"
	leadapp "github.com/emlak/backend/internal/application/lead"
	listingapp "github.com/emlak/backend/internal/application/listing"
	locationapp "github.com/emlak/backend/internal/application/location"
	siteapp "github.com/emlak/backend/internal/application/site"
	"github.com/google/uuid"
)

// Back office operations need a session with a staff or admin role. Their
// failures are reported as *ActionError, except a missing record which is
// ErrNotFound.

const adminPrefix = "/admin"

// uploadField is the multipart field the API reads images from
const uploadField = "file"

func adminSave[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var out T
	if _, err := c.do(ctx, call{method: method, path: adminPrefix + path, body: body, out: &out}); err != nil {
		return nil, actionError(ActionSave, err)
	}
	return &out, nil
}

func adminDelete(ctx context.Context, c *Client, path string) error {
	_, err := c.do(ctx, call{method: http.MethodDelete, path: adminPrefix + path})
	return actionError(ActionDelete, err)
}

func adminUpload[T any](ctx context.Context, c *Client, path, filename string, r io.Reader) (*T, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(uploadField, filename)
	if err != nil {
		return nil, actionError(ActionUpload, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, actionError(ActionUpload, fmt.Errorf("reading %s: %w", filename, err))
	}
	if err := w.Close(); err != nil {
		return nil, actionError(ActionUpload, err)
	}

	var out T
	_, err = c.do(ctx, call{
		method:      http.MethodPost,
		path:        adminPrefix + path,
		raw:         &buf,
		contentType: w.FormDataContentType(),
		out:         &out,
	})
	if err != nil {
		return nil, actionError(ActionUpload, err)
	}
	return &out, nil
}

func adminGet[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, *Meta, error) {
	var out T
	meta, err := c.do(ctx, call{method: http.MethodGet, path: adminPrefix + path, query: query, out: &out})
	if err != nil {
		return nil, nil, err
	}
	return &out, meta, nil
}

func idPath(collection string, id uuid.UUID) string {
	return "/" + collection + "/" + id.String()
}

// Listings

// AdminListingQuery narrows the back office listing table
type AdminListingQuery struct {
	Search       string
	State        string
	BranchID     *uuid.UUID
	ConsultantID *uuid.UUID
	Page         int
	PageSize     int
}

func (q AdminListingQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.State != "" {
		v.Set("state", q.State)
	}
	if q.BranchID != nil {
		v.Set("branch_id", q.BranchID.String())
	}
	if q.ConsultantID != nil {
		v.Set("consultant_id", q.ConsultantID.String())
	}
	setPage(v, q.Page, q.PageSize)
	return v
}

func setPage(v url.Values, page, pageSize int) {
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		v.Set("page_size", strconv.Itoa(pageSize))
	}
}

// AdminListings lists listings in every publication state
func (c *Client) AdminListings(ctx context.Context, q AdminListingQuery) ([]ListingSummary, *Meta, error) {
	items, meta, err := adminGet[[]ListingSummary](ctx, c, "/listings", q.values())
	if err != nil {
		return nil, nil, err
	}
	return *items, meta, nil
}

// AdminListing returns a listing in any publication state
func (c *Client) AdminListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	l, _, err := adminGet[Listing](ctx, c, idPath("listings", id), nil)
	return l, err
}

func (c *Client) CreateListing(ctx context.Context, req listingapp.CreateListingRequest) (*Listing, error) {
	return adminSave[Listing](ctx, c, http.MethodPost, "/listings", req)
}

func (c *Client) UpdateListing(ctx context.Context, id uuid.UUID, req listingapp.UpdateListingRequest) (*Listing, error) {
	return adminSave[Listing](ctx, c, http.MethodPatch, idPath("listings", id), req)
}

func (c *Client) PublishListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	return adminSave[Listing](ctx, c, http.MethodPost, idPath("listings", id)+"/publish", nil)
}

func (c *Client) ArchiveListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	return adminSave[Listing](ctx, c, http.MethodPost, idPath("listings", id)+"/archive", nil)
}

func (c *Client) DeleteListing(ctx context.Context, id uuid.UUID) error {
	return adminDelete(ctx, c, idPath("listings", id))
}

// UploadListingImage appends an image to a listing
func (c *Client) UploadListingImage(ctx context.Context, id uuid.UUID, filename string, r io.Reader) (*Listing, error) {
	return adminUpload[Listing](ctx, c, idPath("listings", id)+"/images", filename, r)
}

func (c *Client) RemoveListingImage(ctx context.Context, id, imageID uuid.UUID) error {
	return adminDelete(ctx, c, idPath("listings", id)+"/images/"+imageID.String())
}

// Branches and consultants

func (c *Client) CreateBranch(ctx context.Context, req branchapp.CreateBranchRequest) (*Branch, error) {
	return adminSave[Branch](ctx, c, http.MethodPost, "/branches", req)
}

func (c *Client) UpdateBranch(ctx context.Context, id uuid.UUID, req branchapp.UpdateBranchRequest) (*Branch, error) {
	return adminSave[Branch](ctx, c, http.MethodPatch, idPath("branches", id), req)
}

func (c *Client) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	return adminDelete(ctx, c, idPath("branches", id))
}

func (c *Client) UploadBranchImage(ctx context.Context, id uuid.UUID, filename string, r io.Reader) (*Branch, error) {
	return adminUpload[Branch](ctx, c, idPath("branches", id)+"/image", filename, r)
}

func (c *Client) CreateConsultant(ctx context.Context, req consultantapp.CreateConsultantRequest) (*Consultant, error) {
	return adminSave[Consultant](ctx, c, http.MethodPost, "/consultants", req)
}

func (c *Client) UpdateConsultant(ctx context.Context, id uuid.UUID, req consultantapp.UpdateConsultantRequest) (*Consultant, error) {
	return adminSave[Consultant](ctx, c, http.MethodPatch, idPath("consultants", id), req)
}

func (c *Client) DeleteConsultant(ctx context.Context, id uuid.UUID) error {
	return adminDelete(ctx, c, idPath("consultants", id))
}

func (c *Client) UploadConsultantPhoto(ctx context.Context, id uuid.UUID, filename string, r io.Reader) (*Consultant, error) {
	return adminUpload[Consultant](ctx, c, idPath("consultants", id)+"/photo", filename, r)
}

// Locations

func (c *Client) CreateCity(ctx context.Context, req locationapp.CreateCityRequest) (*City, error) {
	return adminSave[City](ctx, c, http.MethodPost, "/cities", req)
}

func (c *Client) UpdateCity(ctx context.Context, id uuid.UUID, req locationapp.UpdateCityRequest) (*City, error) {
	return adminSave[City](ctx, c, http.MethodPatch, idPath("cities", id), req)
}

func (c *Client) DeleteCity(ctx context.Context, id uuid.UUID) error {
	return adminDelete(ctx, c, idPath("cities", id))
}

func (c *Client) CreateDistrict(ctx context.Context, req locationapp.CreateDistrictRequest) (*District, error) {
	return adminSave[District](ctx, c, http.MethodPost, "/districts", req)
}

func (c *Client) UpdateDistrict(ctx context.Context, id uuid.UUID, req locationapp.UpdateDistrictRequest) (*District, error) {
	return adminSave[District](ctx, c, http.MethodPatch, idPath("districts", id), req)
}

func (c *Client) DeleteDistrict(ctx context.Context, id uuid.UUID) error {
	return adminDelete(ctx, c, idPath("districts", id))
}

func (c *Client) CreateNeighborhood(ctx context.Context, req locationapp.CreateNeighborhoodRequest) (*Neighborhood, error) {
	return adminSave[Neighborhood](ctx, c, http.MethodPost, "/neighborhoods", req)
}

func (c *Client) UpdateNeighborhood(ctx context.Context, id uuid.UUID, req locationapp.UpdateNeighborhoodRequest) (*Neighborhood, error) {
	return adminSave[Neighborhood](ctx, c, http.MethodPatch, idPath("neighborhoods", id), req)
}

func (c *Client) DeleteNeighborhood(ctx context.Context, id uuid.UUID) error {
	return adminDelete(ctx, c, idPath("neighborhoods", id))
}

// Attribute definitions

func (c *Client) CreateAttributeDefinition(ctx context.Context, req attributeapp.CreateDefinitionRequest) (*AttributeDefinition, error) {
	return adminSave[AttributeDefinition](ctx, c, http.MethodPost, "/listing-attributes", req)
}

func (c *Client) UpdateAttributeDefinition(ctx context.Context, id uuid.UUID, req attributeapp.UpdateDefinitionRequest) (*AttributeDefinition, error) {
	return adminSave[AttributeDefinition](ctx, c, http.MethodPatch, idPath("listing-attributes", id), req)
}

func (c *Client) DeleteAttributeDefinition(ctx context.Context, id uuid.UUID) error {
	return adminDelete(ctx, c, idPath("listing-attributes", id))
}

// Site content

func (c *Client) UpdateSettings(ctx context.Context, req siteapp.UpdateSettingsRequest) (*Settings, error) {
	return adminSave[Settings](ctx, c, http.MethodPatch, "/settings", req)
}

func (c *Client) AdminPages(ctx context.Context) ([]Page, error) {
	pages, _, err := adminGet[[]Page](ctx, c, "/pages", nil)
	if err != nil {
		return nil, err
	}
	return *pages, nil
}

func (c *Client) CreatePage(ctx context.Context, req siteapp.CreatePageRequest) (*Page, error) {
	return adminSave[Page](ctx, c, http.MethodPost, "/pages", req)
}

func (c *Client) UpdatePage(ctx context.Context, id uuid.UUID, req siteapp.UpdatePageRequest) (*Page, error) {
	return adminSave[Page](ctx, c, http.MethodPatch, idPath("pages", id), req)
}

func (c *Client) DeletePage(ctx context.Context, id uuid.UUID) error {
	return adminDelete(ctx, c, idPath("pages", id))
}

// Customer requests

// CustomerRequestQuery narrows the customer request inbox
type CustomerRequestQuery struct {
	Status   string
	Type     string
	BranchID *uuid.UUID
	Search   string
	Page     int
	PageSize int
}

func (q CustomerRequestQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.BranchID != nil {
		v.Set("branch_id", q.BranchID.String())
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	setPage(v, q.Page, q.PageSize)
	return v
}

func (c *Client) CustomerRequests(ctx context.Context, q CustomerRequestQuery) ([]CustomerRequestResponse, *Meta, error) {
	items, meta, err := adminGet[[]CustomerRequestResponse](ctx, c, "/requests/customer", q.values())
	if err != nil {
		return nil, nil, err
	}
	return *items, meta, nil
}

// ChangeCustomerRequestStatus moves a request to CONTACTED or CLOSED
func (c *Client) ChangeCustomerRequestStatus(ctx context.Context, id uuid.UUID, status, note string) (*CustomerRequestResponse, error) {
	return adminSave[CustomerRequestResponse](ctx, c, http.MethodPatch, idPath("requests/customer", id)+"/status",
		leadapp.ChangeStatusRequest{Status: status, Note: note})
}
