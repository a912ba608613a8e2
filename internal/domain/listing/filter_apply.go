package listing

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Apply returns the listings matching fs, sorted by fs.Sort/fs.Order
// (newest first by default). The input slice is never modified.
//
// Every in-memory re-filter goes through Apply so the showcase pages and
// the client see the same rules as the SQL search.
func Apply(items []*Listing, fs FilterState) []*Listing {
	m := newMatcher(fs)
	out := make([]*Listing, 0, len(items))
	for _, l := range items {
		if l != nil && m.match(l) {
			out = append(out, l)
		}
	}
	sortListings(out, fs.Sort, fs.Order)
	return out
}

type matcher struct {
	fs       FilterState
	minPrice *decimal.Decimal
	maxPrice *decimal.Decimal
	minArea  *decimal.Decimal
	maxArea  *decimal.Decimal
	query    string
}

func newMatcher(fs FilterState) matcher {
	return matcher{
		fs:       fs,
		minPrice: parseBound(fs.MinPrice),
		maxPrice: parseBound(fs.MaxPrice),
		minArea:  parseBound(fs.MinArea),
		maxArea:  parseBound(fs.MaxArea),
		query:    shared.FoldTurkish(fs.Query),
	}
}

func parseBound(digits string) *decimal.Decimal {
	if digits == "" {
		return nil
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return nil
	}
	return &d
}

func (m matcher) match(l *Listing) bool {
	fs := m.fs
	if fs.Status != "" && l.Status != fs.Status {
		return false
	}
	if fs.Category != "" && l.Category != fs.Category {
		return false
	}
	if fs.SubPropertyType != "" && !strings.EqualFold(l.SubPropertyType, fs.SubPropertyType) {
		return false
	}
	if !inRange(l.Price.Amount(), m.minPrice, m.maxPrice) {
		return false
	}
	if !inRange(l.Area, m.minArea, m.maxArea) {
		return false
	}
	if len(fs.RoomCounts) > 0 && !slices.Contains(fs.RoomCounts, l.Attributes.String(AttrRoomCount)) {
		return false
	}
	if fs.BuildingAge != "" {
		age, ok := l.Attributes.Int(AttrBuildingAge)
		if !ok || !BuildingAgeMatches(fs.BuildingAge, age) {
			return false
		}
	}
	if fs.HeatingType != "" && !strings.EqualFold(l.Attributes.String(AttrHeatingType), fs.HeatingType) {
		return false
	}
	if fs.CityID != uuid.Nil && l.CityID != fs.CityID {
		return false
	}
	if fs.DistrictID != uuid.Nil && (l.DistrictID == nil || *l.DistrictID != fs.DistrictID) {
		return false
	}
	if len(fs.NeighborhoodIDs) > 0 && (l.NeighborhoodID == nil || !slices.Contains(fs.NeighborhoodIDs, *l.NeighborhoodID)) {
		return false
	}
	if fs.IsOpportunity && !l.IsOpportunity {
		return false
	}
	if fs.BranchSlug != "" && l.BranchSlug != fs.BranchSlug {
		return false
	}
	if m.query != "" && !m.matchQuery(l) {
		return false
	}
	return true
}

func (m matcher) matchQuery(l *Listing) bool {
	for _, field := range []string{l.Title, l.Description, l.ListingNo} {
		if strings.Contains(shared.FoldTurkish(field), m.query) {
			return true
		}
	}
	return false
}

func inRange(v decimal.Decimal, lo, hi *decimal.Decimal) bool {
	if lo != nil && v.LessThan(*lo) {
		return false
	}
	if hi != nil && v.GreaterThan(*hi) {
		return false
	}
	return true
}

// BuildingAgeRange returns the inclusive bounds of a building age bucket.
// max is -1 for the open-ended "21+" bucket.
func BuildingAgeRange(bucket string) (min, max int, ok bool) {
	if strings.HasSuffix(bucket, "+") {
		n, err := strconv.Atoi(strings.TrimSuffix(bucket, "+"))
		if err != nil {
			return 0, 0, false
		}
		return n, -1, true
	}
	lo, hi, found := strings.Cut(bucket, "-")
	if !found {
		n, err := strconv.Atoi(bucket)
		if err != nil {
			return 0, 0, false
		}
		return n, n, true
	}
	a, err1 := strconv.Atoi(lo)
	b, err2 := strconv.Atoi(hi)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}

// BuildingAgeMatches reports whether age falls into bucket
func BuildingAgeMatches(bucket string, age int) bool {
	lo, hi, ok := BuildingAgeRange(bucket)
	if !ok {
		return false
	}
	return age >= lo && (hi < 0 || age <= hi)
}

func sortListings(items []*Listing, field SortField, order SortOrder) {
	if field == "" {
		field = SortByCreatedAt
	}
	if order == "" {
		order = OrderDesc
	}
	slices.SortStableFunc(items, func(a, b *Listing) int {
		var c int
		switch field {
		case SortByPrice:
			c = a.Price.Amount().Cmp(b.Price.Amount())
		case SortByArea:
			c = a.Area.Cmp(b.Area)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if order == OrderDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}
