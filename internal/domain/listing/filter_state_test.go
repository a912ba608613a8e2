package listing

import (
	"net/url"
	"testing"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullFilterState(t *testing.T) FilterState {
	t.Helper()
	var fs FilterState
	require.NoError(t, fs.SetStatus(StatusForSale))
	require.NoError(t, fs.SetCategory(CategoryHousing))
	fs.SetSubPropertyType("daire")
	require.NoError(t, fs.ToggleRoomCount("3+1"))
	require.NoError(t, fs.ToggleRoomCount("2+1"))
	require.NoError(t, fs.SetBuildingAge("6-10"))
	require.NoError(t, fs.SetHeatingType("natural_gas"))
	require.NoError(t, fs.SetPriceRange("1.000.000", "2,500,000"))
	require.NoError(t, fs.SetAreaRange("90", "150"))
	fs.SetCity(uuid.MustParse("11111111-1111-1111-1111-111111111111"))
	fs.SetDistrict(uuid.MustParse("22222222-2222-2222-2222-222222222222"))
	require.NoError(t, fs.ToggleNeighborhood(uuid.MustParse("44444444-4444-4444-4444-444444444444")))
	require.NoError(t, fs.ToggleNeighborhood(uuid.MustParse("33333333-3333-3333-3333-333333333333")))
	require.NoError(t, fs.SetSortKey("price-asc"))
	fs.SetQuery("deniz")
	fs.SetOpportunity(true)
	fs.SetBranchSlug("kadikoy")
	return fs
}

func TestParseFilterState(t *testing.T) {
	t.Run("initial state from url", func(t *testing.T) {
		values, err := url.ParseQuery("status=FOR_SALE&category=HOUSING&minPrice=500000")
		require.NoError(t, err)

		fs, err := ParseFilterState(values)
		require.NoError(t, err)
		assert.Equal(t, FilterState{
			Status:   StatusForSale,
			Category: CategoryHousing,
			MinPrice: "500000",
		}, fs)
	})

	t.Run("empty query is the empty state", func(t *testing.T) {
		fs, err := ParseFilterState(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, FilterState{}, fs)
		assert.True(t, fs.IsEmpty())
	})

	t.Run("ignores unknown parameters", func(t *testing.T) {
		values, _ := url.ParseQuery("page=2&utm_source=mail&status=FOR_RENT")
		fs, err := ParseFilterState(values)
		require.NoError(t, err)
		assert.Equal(t, FilterState{Status: StatusForRent}, fs)
	})

	t.Run("sets are comma joined and canonical", func(t *testing.T) {
		values, _ := url.ParseQuery("roomCount=3%2B1,1%2B1,3%2B1&neighborhoodId=33333333-3333-3333-3333-333333333333" +
			"&neighborhoodIds=22222222-2222-2222-2222-222222222222")
		fs, err := ParseFilterState(values)
		require.NoError(t, err)
		assert.Equal(t, []string{"1+1", "3+1"}, fs.RoomCounts)
		assert.Equal(t, []uuid.UUID{
			uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			uuid.MustParse("33333333-3333-3333-3333-333333333333"),
		}, fs.NeighborhoodIDs)
	})

	t.Run("unescaped plus in room count", func(t *testing.T) {
		values, _ := url.ParseQuery("roomCount=2+1,5+")
		fs, err := ParseFilterState(values)
		require.NoError(t, err)
		assert.Equal(t, []string{"2+1", "5+"}, fs.RoomCounts)
	})

	t.Run("grouped numbers are normalized", func(t *testing.T) {
		values := url.Values{"maxPrice": {"1.250.000"}, "minArea": {"1 000"}}
		fs, err := ParseFilterState(values)
		require.NoError(t, err)
		assert.Equal(t, "1250000", fs.MaxPrice)
		assert.Equal(t, "1000", fs.MinArea)
	})

	t.Run("opportunity flag", func(t *testing.T) {
		for _, v := range []string{"true", "1", "TRUE"} {
			fs, err := ParseFilterState(url.Values{"isOpportunity": {v}})
			require.NoError(t, err)
			assert.True(t, fs.IsOpportunity, v)
		}
		fs, err := ParseFilterState(url.Values{"isOpportunity": {"false"}})
		require.NoError(t, err)
		assert.False(t, fs.IsOpportunity)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		cases := []url.Values{
			{"status": {"LEASE"}},
			{"category": {"CASTLE"}},
			{"minPrice": {"cheap"}},
			{"roomCount": {"many"}},
			{"buildingAge": {"3-4"}},
			{"heatingType": {"FIREPLACE"}},
			{"cityId": {"istanbul"}},
			{"neighborhoodIds": {"x,y"}},
			{"sort": {"rating"}},
			{"order": {"up"}},
		}
		for _, values := range cases {
			_, err := ParseFilterState(values)
			require.Error(t, err, values.Encode())
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_FILTER", domainErr.Code)
		}
	})
}

func TestFilterState_RoundTrip(t *testing.T) {
	fs := fullFilterState(t)

	parsed, err := ParseFilterState(fs.Values())
	require.NoError(t, err)
	assert.Equal(t, fs, parsed)

	reparsed, err := url.ParseQuery(fs.Encode())
	require.NoError(t, err)
	parsed, err = ParseFilterState(reparsed)
	require.NoError(t, err)
	assert.Equal(t, fs, parsed)
}

func TestFilterState_Values(t *testing.T) {
	t.Run("only non-empty fields are serialized", func(t *testing.T) {
		fs := FilterState{Category: CategoryLand, MaxArea: "5000"}
		assert.Equal(t, url.Values{
			"category": {"LAND"},
			"maxArea":  {"5000"},
		}, fs.Values())
	})

	t.Run("every field of a full state", func(t *testing.T) {
		v := fullFilterState(t).Values()
		assert.Equal(t, "2+1,3+1", v.Get("roomCount"))
		assert.Equal(t, "33333333-3333-3333-3333-333333333333,44444444-4444-4444-4444-444444444444", v.Get("neighborhoodIds"))
		assert.Equal(t, "price", v.Get("sort"))
		assert.Equal(t, "asc", v.Get("order"))
		assert.Equal(t, "1000000", v.Get("minPrice"))
		assert.Equal(t, "2500000", v.Get("maxPrice"))
		assert.Equal(t, "NATURAL_GAS", v.Get("heatingType"))
		assert.Equal(t, "true", v.Get("isOpportunity"))
		for key, vals := range v {
			for _, val := range vals {
				assert.NotEmpty(t, val, key)
			}
		}
	})

	t.Run("false opportunity is omitted", func(t *testing.T) {
		fs := FilterState{IsOpportunity: false, Query: "bahçe"}
		assert.Equal(t, "q=bah%C3%A7e", fs.Encode())
	})
}

func TestFilterState_Clear(t *testing.T) {
	fs := fullFilterState(t)
	fs.Clear()

	assert.Equal(t, FilterState{}, fs)
	assert.Equal(t, "", fs.Encode())
	assert.Equal(t, "/ilanlar", fs.URL("/ilanlar"))

	initial, err := ParseFilterState(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, initial.URL("/ilanlar"), fs.URL("/ilanlar"))
}

func TestFilterState_URL(t *testing.T) {
	fs := FilterState{Status: StatusForRent, MinPrice: "15000"}
	assert.Equal(t, "/ilanlar?minPrice=15000&status=FOR_RENT", fs.URL("/ilanlar"))
}

func TestFilterState_SetStatus(t *testing.T) {
	fs := fullFilterState(t)
	cityID, districtID := fs.CityID, fs.DistrictID

	require.NoError(t, fs.SetStatus(StatusForRent))

	assert.Equal(t, StatusForRent, fs.Status)
	assert.Empty(t, fs.Category)
	assert.Empty(t, fs.SubPropertyType)
	assert.Nil(t, fs.RoomCounts)
	assert.Empty(t, fs.BuildingAge)
	assert.Empty(t, fs.HeatingType)

	assert.Equal(t, "1000000", fs.MinPrice)
	assert.Equal(t, cityID, fs.CityID)
	assert.Equal(t, districtID, fs.DistrictID)
	assert.Equal(t, "deniz", fs.Query)

	assert.Error(t, fs.SetStatus("LEASE"))
}

func TestFilterState_SetCategory(t *testing.T) {
	fs := fullFilterState(t)

	require.NoError(t, fs.SetCategory(CategoryCommercial))

	assert.Equal(t, StatusForSale, fs.Status)
	assert.Equal(t, CategoryCommercial, fs.Category)
	assert.Empty(t, fs.SubPropertyType)
	assert.Nil(t, fs.RoomCounts)
	assert.Empty(t, fs.BuildingAge)
	assert.Empty(t, fs.HeatingType)

	assert.Equal(t, "1000000", fs.MinPrice)
	assert.Equal(t, "150", fs.MaxArea)
	assert.Len(t, fs.NeighborhoodIDs, 2)
	assert.Equal(t, SortByPrice, fs.Sort)
	assert.Equal(t, "deniz", fs.Query)
}

func TestFilterState_ToggleRoomCount(t *testing.T) {
	t.Run("toggling twice restores the set", func(t *testing.T) {
		for _, start := range [][]string{nil, {"1+1"}, {"1+1", "4+1"}} {
			fs := FilterState{RoomCounts: start, Category: CategoryHousing}
			before := fs

			require.NoError(t, fs.ToggleRoomCount("2+1"))
			assert.Contains(t, fs.RoomCounts, "2+1")
			require.NoError(t, fs.ToggleRoomCount("2+1"))

			assert.Equal(t, before, fs)
		}
	})

	t.Run("does not touch other fields", func(t *testing.T) {
		fs := fullFilterState(t)
		before := fs
		require.NoError(t, fs.ToggleRoomCount("4+1"))
		fs.RoomCounts = before.RoomCounts
		assert.Equal(t, before, fs)
	})

	t.Run("does not alias a copied state", func(t *testing.T) {
		fs := FilterState{RoomCounts: make([]string, 1, 4)}
		fs.RoomCounts[0] = "1+1"
		copied := fs
		require.NoError(t, fs.ToggleRoomCount("2+1"))
		assert.Equal(t, []string{"1+1"}, copied.RoomCounts)
	})

	t.Run("rejects invalid room count", func(t *testing.T) {
		var fs FilterState
		assert.Error(t, fs.ToggleRoomCount("three"))
	})
}

func TestFilterState_LocationCascade(t *testing.T) {
	t.Run("selecting a city clears district and neighborhoods", func(t *testing.T) {
		fs := fullFilterState(t)
		newCity := uuid.New()

		fs.SetCity(newCity)

		assert.Equal(t, newCity, fs.CityID)
		assert.Equal(t, uuid.Nil, fs.DistrictID)
		assert.Nil(t, fs.NeighborhoodIDs)
	})

	t.Run("selecting a district clears neighborhoods", func(t *testing.T) {
		fs := fullFilterState(t)
		cityID := fs.CityID
		newDistrict := uuid.New()

		fs.SetDistrict(newDistrict)

		assert.Equal(t, cityID, fs.CityID)
		assert.Equal(t, newDistrict, fs.DistrictID)
		assert.Nil(t, fs.NeighborhoodIDs)
	})

	t.Run("neighborhoods require a district", func(t *testing.T) {
		var fs FilterState
		assert.Error(t, fs.ToggleNeighborhood(uuid.New()))
		assert.Error(t, fs.SetNeighborhoods([]uuid.UUID{uuid.New()}))
		assert.NoError(t, fs.SetNeighborhoods(nil))
	})

	t.Run("toggling a neighborhood twice restores the set", func(t *testing.T) {
		fs := fullFilterState(t)
		before := fs
		id := uuid.New()
		require.NoError(t, fs.ToggleNeighborhood(id))
		require.NoError(t, fs.ToggleNeighborhood(id))
		assert.Equal(t, before, fs)
	})
}

func TestFilterState_SortKey(t *testing.T) {
	var fs FilterState
	assert.Equal(t, "", fs.SortKey())

	require.NoError(t, fs.SetSortKey("area-desc"))
	assert.Equal(t, SortByArea, fs.Sort)
	assert.Equal(t, OrderDesc, fs.Order)
	assert.Equal(t, "area-desc", fs.SortKey())

	require.NoError(t, fs.SetSortKey("createdAt-asc"))
	assert.Equal(t, "createdAt-asc", fs.SortKey())

	assert.Error(t, fs.SetSortKey("price"))
	assert.Error(t, fs.SetSortKey("rating-asc"))
	assert.Error(t, fs.SetSortKey("price-up"))

	require.NoError(t, fs.SetSortKey(""))
	assert.Empty(t, fs.Sort)
	assert.Empty(t, fs.Order)
}

func TestFilterState_Ranges(t *testing.T) {
	var fs FilterState

	require.NoError(t, fs.SetPriceRange("1 250 000", ""))
	assert.Equal(t, "1250000", fs.MinPrice)
	assert.Empty(t, fs.MaxPrice)

	require.NoError(t, fs.SetAreaRange("", "2.500"))
	assert.Empty(t, fs.MinArea)
	assert.Equal(t, "2500", fs.MaxArea)

	assert.Error(t, fs.SetPriceRange("abc", ""))
	assert.Equal(t, "1250000", fs.MinPrice, "failed update keeps previous value")
}

func TestNumberFormatting(t *testing.T) {
	cases := map[string]string{
		"1.250.000":  "1250000",
		"1,250,000":  "1250000",
		"1 250 000":  "1250000",
		"1\u00a0250": "1250",
		"007":        "7",
		"0":          "0",
		"12.500":     "12500",
	}
	for in, want := range cases {
		got, err := NormalizeNumber(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "  ", "12a", "-5", "1.5e3", "1.5", "120,5", "1..250", "1.2500", "1234.567", ".250", "1.250."} {
		_, err := NormalizeNumber(in)
		assert.Error(t, err, in)
	}

	assert.Equal(t, "1.250.000", FormatNumber("1250000"))
	assert.Equal(t, "999", FormatNumber("999"))
	assert.Equal(t, "abc", FormatNumber("abc"))
}
