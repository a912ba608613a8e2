package location

import (
	"time"

	"github.com/emlak/backend/internal/domain/location"
	"github.com/google/uuid"
)

// CreateCityRequest represents a request to create a city
type CreateCityRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	PlateCode int    `json:"plate_code" binding:"min=0,max=81"`
	SortOrder *int   `json:"sort_order"`
}

// UpdateCityRequest represents a partial city update
type UpdateCityRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	SortOrder *int    `json:"sort_order"`
}

// CreateDistrictRequest represents a request to create a district
type CreateDistrictRequest struct {
	CityID    uuid.UUID `json:"city_id" binding:"required"`
	Name      string    `json:"name" binding:"required,min=1,max=100"`
	SortOrder *int      `json:"sort_order"`
}

// UpdateDistrictRequest represents a partial district update
type UpdateDistrictRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	SortOrder *int    `json:"sort_order"`
}

// CreateNeighborhoodRequest represents a request to create a neighborhood
type CreateNeighborhoodRequest struct {
	DistrictID uuid.UUID `json:"district_id" binding:"required"`
	Name       string    `json:"name" binding:"required,min=1,max=120"`
	SortOrder  *int      `json:"sort_order"`
}

// UpdateNeighborhoodRequest represents a partial neighborhood update
type UpdateNeighborhoodRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=120"`
	SortOrder *int    `json:"sort_order"`
}

// CityResponse represents a city in API responses
type CityResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	PlateCode int       `json:"plate_code"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DistrictResponse represents a district in API responses
type DistrictResponse struct {
	ID        uuid.UUID `json:"id"`
	CityID    uuid.UUID `json:"city_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	SortOrder int       `json:"sort_order"`
}

// NeighborhoodResponse represents a neighborhood in API responses
type NeighborhoodResponse struct {
	ID         uuid.UUID `json:"id"`
	DistrictID uuid.UUID `json:"district_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	SortOrder  int       `json:"sort_order"`
}

// ToCityResponse converts a domain City to CityResponse
func ToCityResponse(c *location.City) CityResponse {
	return CityResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		PlateCode: c.PlateCode,
		SortOrder: c.SortOrder,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToDistrictResponse converts a domain District to DistrictResponse
func ToDistrictResponse(d *location.District) DistrictResponse {
	return DistrictResponse{
		ID:        d.ID,
		CityID:    d.CityID,
		Name:      d.Name,
		Slug:      d.Slug,
		SortOrder: d.SortOrder,
	}
}

// ToNeighborhoodResponse converts a domain Neighborhood to NeighborhoodResponse
func ToNeighborhoodResponse(n *location.Neighborhood) NeighborhoodResponse {
	return NeighborhoodResponse{
		ID:         n.ID,
		DistrictID: n.DistrictID,
		Name:       n.Name,
		Slug:       n.Slug,
		SortOrder:  n.SortOrder,
	}
}
