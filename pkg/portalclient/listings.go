package portalclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	listingapp "github.com/emlak/backend/internal/application/listing"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

type (
	// FilterState is the listing filter shared with the server. Its
	// Encode form is the query string of search and showcase URLs.
	FilterState    = listing.FilterState
	Listing        = listingapp.ListingResponse
	ListingSummary = listingapp.ListingSummary
	Showcase       = listingapp.ShowcaseResult
	MapResult      = listingapp.MapResult
)

// ParseFilterState reads a filter from a query string
func ParseFilterState(rawQuery string) (FilterState, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return FilterState{}, err
	}
	return listing.ParseFilterState(values)
}

// SearchListings runs a filtered search. Meta.Query is the canonical form of
// the filter the server applied; page and pageSize of 0 use the defaults.
func (c *Client) SearchListings(ctx context.Context, fs FilterState, page, pageSize int) ([]ListingSummary, *Meta, error) {
	query := fs.Values()
	if page > 0 {
		query.Set(listingapp.ParamPage, strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set(listingapp.ParamPageSize, strconv.Itoa(pageSize))
	}

	var items []ListingSummary
	meta, err := c.do(ctx, call{method: http.MethodGet, path: "/listings", query: query, out: &items})
	if err != nil {
		return nil, nil, err
	}
	return items, meta, nil
}

// Opportunities returns the opportunity showcase narrowed by fs
func (c *Client) Opportunities(ctx context.Context, fs FilterState) (*Showcase, error) {
	var s Showcase
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/listings/opportunities", query: fs.Values(), out: &s}); err != nil {
		return nil, err
	}
	return &s, nil
}

// BranchListings returns the showcase of a branch narrowed by fs
func (c *Client) BranchListings(ctx context.Context, slug string, fs FilterState) (*Showcase, error) {
	var s Showcase
	path := "/branches/slug/" + url.PathEscape(slug) + "/listings"
	if _, err := c.do(ctx, call{method: http.MethodGet, path: path, query: fs.Values(), out: &s}); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListingMap returns the map clusters of the listings matching fs
func (c *Client) ListingMap(ctx context.Context, fs FilterState, precision int) (*MapResult, error) {
	query := fs.Values()
	if precision > 0 {
		query.Set(listingapp.ParamPrecision, strconv.Itoa(precision))
	}
	var m MapResult
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/listings/map", query: query, out: &m}); err != nil {
		return nil, err
	}
	return &m, nil
}

// Listing returns a published listing
func (c *Client) Listing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	var l Listing
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/listings/" + id.String(), out: &l}); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListingBySlug returns a published listing
func (c *Client) ListingBySlug(ctx context.Context, slug string) (*Listing, error) {
	var l Listing
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/listings/slug/" + url.PathEscape(slug), out: &l}); err != nil {
		return nil, err
	}
	return &l, nil
}

// Refilter narrows an already loaded list with the same rules the server
// applies, so a page can react to filter changes without a round trip.
func Refilter(items []Listing, fs FilterState) []Listing {
	domain := make([]*listing.Listing, len(items))
	index := make(map[*listing.Listing]int, len(items))
	for i := range items {
		l := toDomain(&items[i])
		domain[i] = l
		index[l] = i
	}

	matched := listing.Apply(domain, fs)
	out := make([]Listing, 0, len(matched))
	for _, l := range matched {
		out = append(out, items[index[l]])
	}
	return out
}

// toDomain carries the fields the filter looks at
func toDomain(r *Listing) *listing.Listing {
	price, err := valueobject.NewMoney(r.Price, valueobject.Currency(r.Currency))
	if err != nil {
		price, _ = valueobject.NewMoney(r.Price, valueobject.DefaultCurrency)
	}
	l := &listing.Listing{
		ListingNo:       r.ListingNo,
		Slug:            r.Slug,
		Title:           r.Title,
		Description:     r.Description,
		Price:           price,
		Status:          listing.Status(r.Status),
		Category:        listing.Category(r.Category),
		SubPropertyType: r.SubPropertyType,
		Area:            r.Area,
		CityID:          r.CityID,
		DistrictID:      r.DistrictID,
		NeighborhoodID:  r.NeighborhoodID,
		BranchSlug:      r.BranchSlug,
		IsOpportunity:   r.IsOpportunity,
		Attributes:      listing.Attributes(r.Attributes),
	}
	l.ID = r.ID
	l.CreatedAt = r.CreatedAt
	return l
}
