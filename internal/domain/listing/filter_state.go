package listing

import (
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Query parameter names understood by ParseFilterState
const (
	ParamStatus          = "status"
	ParamCategory        = "category"
	ParamSubPropertyType = "subPropertyType"
	ParamMinPrice        = "minPrice"
	ParamMaxPrice        = "maxPrice"
	ParamMinArea         = "minArea"
	ParamMaxArea         = "maxArea"
	ParamRoomCount       = "roomCount"
	ParamBuildingAge     = "buildingAge"
	ParamHeatingType     = "heatingType"
	ParamCityID          = "cityId"
	ParamDistrictID      = "districtId"
	ParamNeighborhoodIDs = "neighborhoodIds"
	ParamNeighborhoodID  = "neighborhoodId"
	ParamSort            = "sort"
	ParamOrder           = "order"
	ParamQuery           = "q"
	ParamIsOpportunity   = "isOpportunity"
	ParamBranchSlug      = "branchSlug"
)

// SortField is a sortable listing column
type SortField string

const (
	SortByPrice     SortField = "price"
	SortByArea      SortField = "area"
	SortByCreatedAt SortField = "createdAt"
)

// IsValid reports whether f is a known sort field
func (f SortField) IsValid() bool {
	return f == SortByPrice || f == SortByArea || f == SortByCreatedAt
}

// SortOrder is the sort direction
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// IsValid reports whether o is a known direction
func (o SortOrder) IsValid() bool {
	return o == OrderAsc || o == OrderDesc
}

// BuildingAgeBuckets are the accepted building age ranges, in display order
var BuildingAgeBuckets = []string{"0", "1-5", "6-10", "11-15", "16-20", "21+"}

// HeatingTypes are the accepted heating type values
var HeatingTypes = []string{
	"NATURAL_GAS",
	"CENTRAL",
	"FLOOR",
	"STOVE",
	"AIR_CONDITIONING",
	"NONE",
}

// "1+1", "3+2", "6+" and "1+0" style room counts
var roomCountPattern = regexp.MustCompile(`^[0-9]{1,2}\+[0-9]{0,2}$`)

// FilterState is the set of optional constraints of a listing search.
// The zero value is the unfiltered search. Set-valued fields are kept sorted
// and are nil when empty.
type FilterState struct {
	Status          Status
	Category        Category
	SubPropertyType string
	MinPrice        string
	MaxPrice        string
	MinArea         string
	MaxArea         string
	RoomCounts      []string
	BuildingAge     string
	HeatingType     string
	CityID          uuid.UUID
	DistrictID      uuid.UUID
	NeighborhoodIDs []uuid.UUID
	Sort            SortField
	Order           SortOrder
	Query           string
	IsOpportunity   bool
	BranchSlug      string
}

func invalidFilter(message string) error {
	return shared.NewDomainError("INVALID_FILTER", message)
}

// ParseFilterState builds a FilterState from URL query parameters.
// Unknown parameters are ignored.
func ParseFilterState(values url.Values) (FilterState, error) {
	var fs FilterState

	if v := strings.TrimSpace(values.Get(ParamStatus)); v != "" {
		s := Status(strings.ToUpper(v))
		if !s.IsValid() {
			return FilterState{}, invalidFilter("Unknown status: " + v)
		}
		fs.Status = s
	}
	if v := strings.TrimSpace(values.Get(ParamCategory)); v != "" {
		c := Category(strings.ToUpper(v))
		if !c.IsValid() {
			return FilterState{}, invalidFilter("Unknown category: " + v)
		}
		fs.Category = c
	}
	fs.SubPropertyType = strings.TrimSpace(values.Get(ParamSubPropertyType))

	var err error
	if fs.MinPrice, err = parseNumberParam(values, ParamMinPrice); err != nil {
		return FilterState{}, err
	}
	if fs.MaxPrice, err = parseNumberParam(values, ParamMaxPrice); err != nil {
		return FilterState{}, err
	}
	if fs.MinArea, err = parseNumberParam(values, ParamMinArea); err != nil {
		return FilterState{}, err
	}
	if fs.MaxArea, err = parseNumberParam(values, ParamMaxArea); err != nil {
		return FilterState{}, err
	}

	for _, raw := range values[ParamRoomCount] {
		// an unescaped "+" arrives as a space
		raw = strings.ReplaceAll(raw, " ", "+")
		for _, rc := range splitList(raw) {
			if !roomCountPattern.MatchString(rc) {
				return FilterState{}, invalidFilter("Invalid room count: " + rc)
			}
			fs.RoomCounts = addString(fs.RoomCounts, rc)
		}
	}

	if v := strings.TrimSpace(values.Get(ParamBuildingAge)); v != "" {
		if !slices.Contains(BuildingAgeBuckets, v) {
			return FilterState{}, invalidFilter("Invalid building age: " + v)
		}
		fs.BuildingAge = v
	}
	if v := strings.TrimSpace(values.Get(ParamHeatingType)); v != "" {
		v = strings.ToUpper(v)
		if !slices.Contains(HeatingTypes, v) {
			return FilterState{}, invalidFilter("Invalid heating type: " + v)
		}
		fs.HeatingType = v
	}

	if fs.CityID, err = parseUUIDParam(values, ParamCityID); err != nil {
		return FilterState{}, err
	}
	if fs.DistrictID, err = parseUUIDParam(values, ParamDistrictID); err != nil {
		return FilterState{}, err
	}
	for _, key := range []string{ParamNeighborhoodIDs, ParamNeighborhoodID} {
		for _, raw := range values[key] {
			for _, item := range splitList(raw) {
				id, err := uuid.Parse(item)
				if err != nil {
					return FilterState{}, invalidFilter("Invalid neighborhood id: " + item)
				}
				fs.NeighborhoodIDs = addUUID(fs.NeighborhoodIDs, id)
			}
		}
	}

	if v := strings.TrimSpace(values.Get(ParamSort)); v != "" {
		f := SortField(v)
		if !f.IsValid() {
			return FilterState{}, invalidFilter("Invalid sort field: " + v)
		}
		fs.Sort = f
	}
	if v := strings.TrimSpace(values.Get(ParamOrder)); v != "" {
		o := SortOrder(strings.ToLower(v))
		if !o.IsValid() {
			return FilterState{}, invalidFilter("Invalid sort order: " + v)
		}
		fs.Order = o
	}

	fs.Query = strings.TrimSpace(values.Get(ParamQuery))
	switch strings.ToLower(strings.TrimSpace(values.Get(ParamIsOpportunity))) {
	case "true", "1":
		fs.IsOpportunity = true
	}
	fs.BranchSlug = strings.TrimSpace(values.Get(ParamBranchSlug))

	return fs, nil
}

// SetStatus sets the deal type and clears the category together with every
// category-specific sub-filter.
func (fs *FilterState) SetStatus(s Status) error {
	if s != "" && !s.IsValid() {
		return invalidFilter("Unknown status: " + string(s))
	}
	fs.Status = s
	fs.Category = ""
	fs.clearCategorySpecific()
	return nil
}

// SetCategory sets the category and clears the category-specific sub-filters.
// Price, area, location, sort and text query are kept.
func (fs *FilterState) SetCategory(c Category) error {
	if c != "" && !c.IsValid() {
		return invalidFilter("Unknown category: " + string(c))
	}
	fs.Category = c
	fs.clearCategorySpecific()
	return nil
}

func (fs *FilterState) clearCategorySpecific() {
	fs.SubPropertyType = ""
	fs.RoomCounts = nil
	fs.BuildingAge = ""
	fs.HeatingType = ""
}

// SetSubPropertyType sets the category-specific sub type (e.g. "villa", "tarla")
func (fs *FilterState) SetSubPropertyType(v string) {
	fs.SubPropertyType = strings.TrimSpace(v)
}

// ToggleRoomCount adds v to the room count set, or removes it if present
func (fs *FilterState) ToggleRoomCount(v string) error {
	v = strings.TrimSpace(v)
	if !roomCountPattern.MatchString(v) {
		return invalidFilter("Invalid room count: " + v)
	}
	if slices.Contains(fs.RoomCounts, v) {
		fs.RoomCounts = removeString(fs.RoomCounts, v)
		return nil
	}
	fs.RoomCounts = addString(fs.RoomCounts, v)
	return nil
}

// SetBuildingAge selects a building age bucket; "" clears it
func (fs *FilterState) SetBuildingAge(v string) error {
	if v != "" && !slices.Contains(BuildingAgeBuckets, v) {
		return invalidFilter("Invalid building age: " + v)
	}
	fs.BuildingAge = v
	return nil
}

// SetHeatingType selects a heating type; "" clears it
func (fs *FilterState) SetHeatingType(v string) error {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v != "" && !slices.Contains(HeatingTypes, v) {
		return invalidFilter("Invalid heating type: " + v)
	}
	fs.HeatingType = v
	return nil
}

// SetPriceRange accepts display-formatted input such as "1.250.000" and
// stores the unformatted digit strings. Empty input clears the bound.
func (fs *FilterState) SetPriceRange(min, max string) error {
	lo, hi, err := normalizeRange(min, max)
	if err != nil {
		return err
	}
	fs.MinPrice, fs.MaxPrice = lo, hi
	return nil
}

// SetAreaRange is SetPriceRange for the area bounds
func (fs *FilterState) SetAreaRange(min, max string) error {
	lo, hi, err := normalizeRange(min, max)
	if err != nil {
		return err
	}
	fs.MinArea, fs.MaxArea = lo, hi
	return nil
}

// SetSortKey splits a compound "field-direction" key, e.g. "price-asc".
// An empty key restores the default ordering.
func (fs *FilterState) SetSortKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		fs.Sort, fs.Order = "", ""
		return nil
	}
	field, dir, ok := strings.Cut(key, "-")
	if !ok {
		return invalidFilter("Sort key must be field-direction: " + key)
	}
	f, o := SortField(field), SortOrder(dir)
	if !f.IsValid() || !o.IsValid() {
		return invalidFilter("Invalid sort key: " + key)
	}
	fs.Sort, fs.Order = f, o
	return nil
}

// SortKey joins Sort and Order back into "field-direction".
// It returns "" when no sort is selected.
func (fs FilterState) SortKey() string {
	if fs.Sort == "" {
		return ""
	}
	order := fs.Order
	if order == "" {
		order = OrderDesc
	}
	return string(fs.Sort) + "-" + string(order)
}

// SetCity selects a city and resets the district and neighborhoods
func (fs *FilterState) SetCity(id uuid.UUID) {
	fs.CityID = id
	fs.DistrictID = uuid.Nil
	fs.NeighborhoodIDs = nil
}

// SetDistrict selects a district and resets the neighborhoods
func (fs *FilterState) SetDistrict(id uuid.UUID) {
	fs.DistrictID = id
	fs.NeighborhoodIDs = nil
}

// ToggleNeighborhood adds or removes a neighborhood. A district must be
// selected first.
func (fs *FilterState) ToggleNeighborhood(id uuid.UUID) error {
	if fs.DistrictID == uuid.Nil {
		return invalidFilter("Select a district before choosing neighborhoods")
	}
	if slices.Contains(fs.NeighborhoodIDs, id) {
		fs.NeighborhoodIDs = removeUUID(fs.NeighborhoodIDs, id)
		return nil
	}
	fs.NeighborhoodIDs = addUUID(fs.NeighborhoodIDs, id)
	return nil
}

// SetNeighborhoods replaces the neighborhood selection
func (fs *FilterState) SetNeighborhoods(ids []uuid.UUID) error {
	if len(ids) > 0 && fs.DistrictID == uuid.Nil {
		return invalidFilter("Select a district before choosing neighborhoods")
	}
	fs.NeighborhoodIDs = nil
	for _, id := range ids {
		fs.NeighborhoodIDs = addUUID(fs.NeighborhoodIDs, id)
	}
	return nil
}

// SetQuery sets the free text query
func (fs *FilterState) SetQuery(q string) {
	fs.Query = strings.TrimSpace(q)
}

// SetOpportunity restricts the search to opportunity listings
func (fs *FilterState) SetOpportunity(flag bool) {
	fs.IsOpportunity = flag
}

// SetBranchSlug restricts the search to one branch
func (fs *FilterState) SetBranchSlug(slug string) {
	fs.BranchSlug = strings.TrimSpace(slug)
}

// Clear returns to the unfiltered state
func (fs *FilterState) Clear() {
	*fs = FilterState{}
}

// IsEmpty reports whether no constraint is set
func (fs FilterState) IsEmpty() bool {
	return len(fs.Values()) == 0
}

// Values serializes the non-empty fields only. Omitted fields mean
// "no constraint".
func (fs FilterState) Values() url.Values {
	v := url.Values{}
	setIf := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}

	setIf(ParamStatus, string(fs.Status))
	setIf(ParamCategory, string(fs.Category))
	setIf(ParamSubPropertyType, fs.SubPropertyType)
	setIf(ParamMinPrice, fs.MinPrice)
	setIf(ParamMaxPrice, fs.MaxPrice)
	setIf(ParamMinArea, fs.MinArea)
	setIf(ParamMaxArea, fs.MaxArea)
	setIf(ParamRoomCount, strings.Join(fs.RoomCounts, ","))
	setIf(ParamBuildingAge, fs.BuildingAge)
	setIf(ParamHeatingType, fs.HeatingType)
	if fs.CityID != uuid.Nil {
		v.Set(ParamCityID, fs.CityID.String())
	}
	if fs.DistrictID != uuid.Nil {
		v.Set(ParamDistrictID, fs.DistrictID.String())
	}
	if len(fs.NeighborhoodIDs) > 0 {
		ids := make([]string, len(fs.NeighborhoodIDs))
		for i, id := range fs.NeighborhoodIDs {
			ids[i] = id.String()
		}
		v.Set(ParamNeighborhoodIDs, strings.Join(ids, ","))
	}
	setIf(ParamSort, string(fs.Sort))
	setIf(ParamOrder, string(fs.Order))
	setIf(ParamQuery, fs.Query)
	if fs.IsOpportunity {
		v.Set(ParamIsOpportunity, "true")
	}
	setIf(ParamBranchSlug, fs.BranchSlug)

	return v
}

// Encode returns the canonical query string (keys sorted)
func (fs FilterState) Encode() string {
	return fs.Values().Encode()
}

// URL appends the query string to path, or returns the bare path when the
// state is empty.
func (fs FilterState) URL(path string) string {
	q := fs.Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}

func parseNumberParam(values url.Values, key string) (string, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return "", nil
	}
	n, err := NormalizeNumber(raw)
	if err != nil {
		return "", invalidFilter("Invalid " + key + ": " + raw)
	}
	return n, nil
}

func parseUUIDParam(values url.Values, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidFilter("Invalid " + key + ": " + raw)
	}
	return id, nil
}

func normalizeRange(min, max string) (string, string, error) {
	var lo, hi string
	var err error
	if strings.TrimSpace(min) != "" {
		if lo, err = NormalizeNumber(min); err != nil {
			return "", "", invalidFilter("Invalid minimum: " + min)
		}
	}
	if strings.TrimSpace(max) != "" {
		if hi, err = NormalizeNumber(max); err != nil {
			return "", "", invalidFilter("Invalid maximum: " + max)
		}
	}
	return lo, hi, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func addString(set []string, v string) []string {
	if slices.Contains(set, v) {
		return set
	}
	set = append(slices.Clone(set), v)
	slices.Sort(set)
	return set
}

func removeString(set []string, v string) []string {
	out := slices.DeleteFunc(slices.Clone(set), func(s string) bool { return s == v })
	if len(out) == 0 {
		return nil
	}
	return out
}

func addUUID(set []uuid.UUID, id uuid.UUID) []uuid.UUID {
	if slices.Contains(set, id) {
		return set
	}
	set = append(slices.Clone(set), id)
	slices.SortFunc(set, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })
	return set
}

func removeUUID(set []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := slices.DeleteFunc(slices.Clone(set), func(u uuid.UUID) bool { return u == id })
	if len(out) == 0 {
		return nil
	}
	return out
}
