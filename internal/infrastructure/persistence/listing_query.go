package persistence

import (
	"strings"

	"github.com/emlak/backend/internal/domain/listing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// listingSortColumns maps the public sort fields onto columns
var listingSortColumns = map[listing.SortField]string{
	listing.SortByPrice:     "listings.price",
	listing.SortByArea:      "listings.area",
	listing.SortByCreatedAt: "listings.created_at",
}

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildingAgeExpr reads the building age attribute as an integer, NULL when it is not numeric
const buildingAgeExpr = "(CASE WHEN listings.attributes->>'buildingAge' ~ '^[0-9]+$' THEN (listings.attributes->>'buildingAge')::int END)"

// applyListingFilter translates a FilterState into SQL conditions.
// The conditions match listing.Apply field by field; free text uses ILIKE
// where Apply folds Turkish letters.
func applyListingFilter(query *gorm.DB, tenantID uuid.UUID, fs listing.FilterState) *gorm.DB {
	if fs.Status != "" {
		query = query.Where("listings.status = ?", fs.Status)
	}
	if fs.Category != "" {
		query = query.Where("listings.category = ?", fs.Category)
	}
	if fs.SubPropertyType != "" {
		query = query.Where("LOWER(listings.sub_property_type) = LOWER(?)", fs.SubPropertyType)
	}
	query = applyDecimalRange(query, "listings.price", fs.MinPrice, fs.MaxPrice)
	query = applyDecimalRange(query, "listings.area", fs.MinArea, fs.MaxArea)

	if len(fs.RoomCounts) > 0 {
		query = query.Where("listings.attributes->>'roomCount' IN ?", fs.RoomCounts)
	}
	if fs.BuildingAge != "" {
		if lo, hi, ok := listing.BuildingAgeRange(fs.BuildingAge); ok {
			if hi < 0 {
				query = query.Where(buildingAgeExpr+" >= ?", lo)
			} else {
				query = query.Where(buildingAgeExpr+" BETWEEN ? AND ?", lo, hi)
			}
		}
	}
	if fs.HeatingType != "" {
		query = query.Where("UPPER(listings.attributes->>'heatingType') = ?", fs.HeatingType)
	}

	if fs.CityID != uuid.Nil {
		query = query.Where("listings.city_id = ?", fs.CityID)
	}
	if fs.DistrictID != uuid.Nil {
		query = query.Where("listings.district_id = ?", fs.DistrictID)
	}
	if len(fs.NeighborhoodIDs) > 0 {
		query = query.Where("listings.neighborhood_id IN ?", fs.NeighborhoodIDs)
	}

	if fs.Query != "" {
		pattern := "%" + likeEscaper.Replace(fs.Query) + "%"
		query = query.Where(`(listings.title ILIKE ? ESCAPE '\' OR listings.description ILIKE ? ESCAPE '\' OR listings.listing_no ILIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}
	if fs.IsOpportunity {
		query = query.Where("listings.is_opportunity = ?", true)
	}
	if fs.BranchSlug != "" {
		query = query.Where("listings.branch_id IN (SELECT id FROM branches WHERE tenant_id = ? AND slug = ?)",
			tenantID, fs.BranchSlug)
	}
	return query
}

func applyDecimalRange(query *gorm.DB, column, min, max string) *gorm.DB {
	if min != "" {
		if d, err := decimal.NewFromString(min); err == nil {
			query = query.Where(column+" >= ?", d)
		}
	}
	if max != "" {
		if d, err := decimal.NewFromString(max); err == nil {
			query = query.Where(column+" <= ?", d)
		}
	}
	return query
}

// orderListings orders by the filter's sort key, newest first by default,
// with the id as tie breaker so pages are stable
func orderListings(query *gorm.DB, fs listing.FilterState) *gorm.DB {
	column, ok := listingSortColumns[fs.Sort]
	if !ok {
		column = listingSortColumns[listing.SortByCreatedAt]
	}
	dir := "DESC"
	if fs.Order == listing.OrderAsc {
		dir = "ASC"
	}
	return query.Order(column + " " + dir).Order("listings.id ASC")
}
