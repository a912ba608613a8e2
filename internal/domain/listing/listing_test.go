package listing

import (
	"strings"
	"testing"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestListing(t *testing.T) *Listing {
	t.Helper()
	l, err := NewListing(uuid.New(), NewListingInput{
		Title:    "Deniz Manzaralı 3+1 Daire",
		Price:    valueobject.MustNewMoney(2500000, valueobject.TRY),
		Status:   StatusForSale,
		Category: CategoryHousing,
		CityID:   uuid.New(),
	})
	require.NoError(t, err)
	return l
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestNewListing(t *testing.T) {
	t.Run("creates draft with listing number and slug", func(t *testing.T) {
		l := newTestListing(t)
		assert.Equal(t, StateDraft, l.State)
		assert.Len(t, l.ListingNo, 10)
		assert.Equal(t, strings.ToUpper(l.ListingNo), l.ListingNo)
		assert.Equal(t, "deniz-manzarali-3-1-daire-"+strings.ToLower(l.ListingNo), l.Slug)
		assert.NotNil(t, l.Attributes)
		assert.Empty(t, l.GetDomainEvents())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		base := NewListingInput{
			Title:    "Arsa",
			Price:    valueobject.MustNewMoney(100, valueobject.TRY),
			Status:   StatusForSale,
			Category: CategoryLand,
			CityID:   uuid.New(),
		}

		in := base
		in.Title = " "
		_, err := NewListing(uuid.New(), in)
		requireCode(t, err, "INVALID_TITLE")

		in = base
		in.Status = "LEASE"
		_, err = NewListing(uuid.New(), in)
		requireCode(t, err, "INVALID_STATUS")

		in = base
		in.Category = "CASTLE"
		_, err = NewListing(uuid.New(), in)
		requireCode(t, err, "INVALID_CATEGORY")

		in = base
		in.CityID = uuid.Nil
		_, err = NewListing(uuid.New(), in)
		requireCode(t, err, "INVALID_CITY")

		in = base
		in.Price = valueobject.MustNewMoney(0, valueobject.TRY)
		_, err = NewListing(uuid.New(), in)
		requireCode(t, err, "INVALID_PRICE")
	})
}

func TestListing_Publish(t *testing.T) {
	l := newTestListing(t)

	require.NoError(t, l.Publish())
	assert.True(t, l.IsPublished())
	assert.NotNil(t, l.PublishedAt)
	events := l.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeListingPublished, events[0].EventType())
	assert.Equal(t, l.ID, events[0].AggregateID())

	requireCode(t, l.Publish(), "ALREADY_PUBLISHED")

	require.NoError(t, l.Archive())
	assert.Equal(t, StateArchived, l.State)
	requireCode(t, l.Archive(), "ALREADY_ARCHIVED")
}

func TestListing_Reprice(t *testing.T) {
	l := newTestListing(t)

	require.NoError(t, l.Reprice(valueobject.MustNewMoney(2400000, valueobject.TRY)))
	assert.Empty(t, l.GetDomainEvents(), "draft listings do not raise price events")

	require.NoError(t, l.Publish())
	l.ClearDomainEvents()
	require.NoError(t, l.Reprice(valueobject.MustNewMoney(2300000, valueobject.TRY)))
	events := l.GetDomainEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(*ListingPriceChangedEvent)
	require.True(t, ok)
	assert.Equal(t, "2400000", changed.OldPrice)
	assert.Equal(t, "2300000", changed.NewPrice)

	l.ClearDomainEvents()
	require.NoError(t, l.Reprice(valueobject.MustNewMoney(2300000, valueobject.TRY)))
	assert.Empty(t, l.GetDomainEvents())
}

func TestListing_Reclassify(t *testing.T) {
	l := newTestListing(t)
	l.ReplaceAttributes(Attributes{AttrRoomCount: "3+1"})

	require.NoError(t, l.Reclassify(StatusForSale, CategoryHousing, "daire"))
	assert.Equal(t, "3+1", l.Attributes.String(AttrRoomCount))

	require.NoError(t, l.Reclassify(StatusForRent, CategoryLand, "tarla"))
	assert.Empty(t, l.Attributes)
	assert.Equal(t, StatusForRent, l.Status)
}

func TestListing_Location(t *testing.T) {
	l := newTestListing(t)
	districtID := uuid.New()
	neighborhoodID := uuid.New()

	requireCode(t, l.SetLocation(l.CityID, nil, &neighborhoodID), "INVALID_LOCATION")
	require.NoError(t, l.SetLocation(l.CityID, &districtID, &neighborhoodID))

	require.NoError(t, l.SetCoordinates(41.0082, 28.9784))
	assert.True(t, l.HasCoordinates())
	assert.Len(t, l.Geohash, 9)
	assert.True(t, strings.HasPrefix(l.Geohash, "sxk9"))

	requireCode(t, l.SetCoordinates(91, 0), "INVALID_COORDINATES")

	l.ClearCoordinates()
	assert.False(t, l.HasCoordinates())
	assert.Empty(t, l.Geohash)
}

func TestListing_Images(t *testing.T) {
	l := newTestListing(t)

	first, err := l.AddImage("listings/a.jpg")
	require.NoError(t, err)
	firstID := first.ID
	_, err = l.AddImage("listings/b.jpg")
	require.NoError(t, err)

	cover, ok := l.CoverImage()
	require.True(t, ok)
	assert.Equal(t, "listings/a.jpg", cover.Key)

	removed, err := l.RemoveImage(firstID)
	require.NoError(t, err)
	assert.Equal(t, "listings/a.jpg", removed.Key)
	require.Len(t, l.Images, 1)
	assert.Equal(t, 0, l.Images[0].SortOrder)

	_, err = l.RemoveImage(uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	for len(l.Images) < MaxImages {
		_, err := l.AddImage("listings/x.jpg")
		require.NoError(t, err)
	}
	_, err = l.AddImage("listings/overflow.jpg")
	requireCode(t, err, "TOO_MANY_IMAGES")
}

func TestListing_MarkOpportunity(t *testing.T) {
	l := newTestListing(t)
	l.MarkOpportunity(true)
	assert.True(t, l.IsOpportunity)
	assert.Empty(t, l.GetDomainEvents())

	require.NoError(t, l.Publish())
	l.ClearDomainEvents()
	l.MarkOpportunity(false)
	events := l.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeListingUpdated, events[0].EventType())
}

func TestListing_SetArea(t *testing.T) {
	l := newTestListing(t)
	require.NoError(t, l.SetArea(decimal.NewFromInt(145)))
	assert.True(t, l.Area.Equal(decimal.NewFromInt(145)))
	requireCode(t, l.SetArea(decimal.NewFromInt(-1)), "INVALID_AREA")
}

func TestAttributes(t *testing.T) {
	attrs := Attributes{
		"roomCount":   "2+1",
		"buildingAge": float64(7),
		"floor":       "3",
		"balcony":     true,
	}

	assert.Equal(t, "2+1", attrs.String("roomCount"))
	assert.Equal(t, "7", attrs.String("buildingAge"))
	assert.Equal(t, "true", attrs.String("balcony"))
	assert.Equal(t, "", attrs.String("missing"))

	age, ok := attrs.Int("buildingAge")
	assert.True(t, ok)
	assert.Equal(t, 7, age)
	floor, ok := attrs.Int("floor")
	assert.True(t, ok)
	assert.Equal(t, 3, floor)
	_, ok = attrs.Int("roomCount")
	assert.False(t, ok)

	clone := attrs.Clone()
	clone["floor"] = "4"
	assert.Equal(t, "3", attrs.String("floor"))

	normalized, err := Attributes{"buildingAge": 7}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, float64(7), normalized["buildingAge"])
}
