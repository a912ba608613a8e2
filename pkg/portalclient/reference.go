package portalclient

import (
	"context"
	"net/http"
	"net/url"

	attributeapp "github.com/emlak/backend/internal/application/attribute"
	branchapp "github.com/emlak/backend/internal/application/branch"
	consultantapp "github.com/emlak/backend/internal/application/consultant"
	locationapp "github.com/emlak/backend/internal/application/location"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type (
	City                = locationapp.CityResponse
	District            = locationapp.DistrictResponse
	Neighborhood        = locationapp.NeighborhoodResponse
	Branch              = branchapp.BranchResponse
	Consultant          = consultantapp.ConsultantResponse
	AttributeDefinition = attributeapp.DefinitionResponse
)

// Reference data feeds dropdowns, so lookups degrade to an empty list
// instead of failing the page.

// Cities lists the cities, or nothing when the lookup fails
func (c *Client) Cities(ctx context.Context) []City {
	return referenceList[City](ctx, c, "/cities", nil)
}

// Districts lists the districts of a city, or nothing when the lookup fails
func (c *Client) Districts(ctx context.Context, cityID uuid.UUID) []District {
	return referenceList[District](ctx, c, "/districts", url.Values{"cityId": {cityID.String()}})
}

// Neighborhoods lists the neighborhoods of a district, or nothing when the
// lookup fails
func (c *Client) Neighborhoods(ctx context.Context, districtID uuid.UUID) []Neighborhood {
	return referenceList[Neighborhood](ctx, c, "/neighborhoods", url.Values{"districtId": {districtID.String()}})
}

func referenceList[T any](ctx context.Context, c *Client, path string, query url.Values) []T {
	var items []T
	if _, err := c.do(ctx, call{method: http.MethodGet, path: path, query: query, out: &items}); err != nil {
		c.logger.Warn("Reference data lookup failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Branches lists the active branches
func (c *Client) Branches(ctx context.Context) ([]Branch, error) {
	var items []Branch
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/branches", out: &items}); err != nil {
		return nil, err
	}
	return items, nil
}

// BranchBySlug returns an active branch
func (c *Client) BranchBySlug(ctx context.Context, slug string) (*Branch, error) {
	var b Branch
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/branches/slug/" + url.PathEscape(slug), out: &b}); err != nil {
		return nil, err
	}
	return &b, nil
}

// Consultants lists the active consultants
func (c *Client) Consultants(ctx context.Context) ([]Consultant, error) {
	var items []Consultant
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/consultants", out: &items}); err != nil {
		return nil, err
	}
	return items, nil
}

// AttributeDefinitions lists the attribute definitions of a listing
// category, or of every category when category is empty
func (c *Client) AttributeDefinitions(ctx context.Context, category string) ([]AttributeDefinition, error) {
	var query url.Values
	if category != "" {
		query = url.Values{"category": {category}}
	}
	var items []AttributeDefinition
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/listing-attributes", query: query, out: &items}); err != nil {
		return nil, err
	}
	return items, nil
}

// AttributeSchema returns the JSON schema listing attributes of a category
// are validated against
func (c *Client) AttributeSchema(ctx context.Context, category string) (map[string]any, error) {
	var schema map[string]any
	path := "/listing-attributes/schema/" + url.PathEscape(category)
	if _, err := c.do(ctx, call{method: http.MethodGet, path: path, out: &schema}); err != nil {
		return nil, err
	}
	return schema, nil
}
