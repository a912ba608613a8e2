package attribute

import (
	"context"
	"testing"

	"github.com/emlak/backend/internal/domain/attribute"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func housingDefinitions(t *testing.T, tenantID uuid.UUID) []*attribute.Definition {
	t.Helper()

	rooms, err := attribute.NewDefinition(tenantID, listing.CategoryHousing, "roomCount", "Oda Sayısı", attribute.TypeSelect)
	require.NoError(t, err)
	require.NoError(t, rooms.SetOptions([]string{"1+1", "2+1", "3+1"}))
	rooms.Configure("", true, true, 1)

	age, err := attribute.NewDefinition(tenantID, listing.CategoryHousing, "buildingAge", "Bina Yaşı", attribute.TypeNumber)
	require.NoError(t, err)
	age.Configure("yıl", false, true, 2)

	elevator, err := attribute.NewDefinition(tenantID, listing.CategoryHousing, "hasElevator", "Asansör", attribute.TypeBoolean)
	require.NoError(t, err)

	return []*attribute.Definition{rooms, age, elevator}
}

func TestSchemaValidator_Validate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	newValidator := func() *SchemaValidator {
		repo := new(testutil.MockDefinitionRepository)
		repo.On("FindByCategory", ctx, tenantID, listing.CategoryHousing).Return(housingDefinitions(t, tenantID), nil)
		return NewSchemaValidator(repo)
	}

	t.Run("accepts matching attributes", func(t *testing.T) {
		err := newValidator().Validate(ctx, tenantID, listing.CategoryHousing, listing.Attributes{
			"roomCount":   "2+1",
			"buildingAge": 12,
			"hasElevator": true,
		})
		assert.NoError(t, err)
	})

	cases := []struct {
		name    string
		attrs   listing.Attributes
		mention string
	}{
		{"option outside the list", listing.Attributes{"roomCount": "9+9"}, "roomCount"},
		{"wrong value type", listing.Attributes{"roomCount": "2+1", "buildingAge": "eski"}, "buildingAge"},
		{"unknown key", listing.Attributes{"roomCount": "2+1", "pool": true}, "pool"},
		{"missing required key", listing.Attributes{"buildingAge": 3}, "roomCount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := newValidator().Validate(ctx, tenantID, listing.CategoryHousing, tc.attrs)
			require.Error(t, err)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_ATTRIBUTES", domainErr.Code)
			assert.Contains(t, domainErr.Message, tc.mention)
		})
	}
}

func TestDefinitionService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("duplicate key", func(t *testing.T) {
		repo := new(testutil.MockDefinitionRepository)
		repo.On("ExistsByKey", ctx, tenantID, listing.CategoryLand, "zoning").Return(true, nil)

		_, err := NewDefinitionService(repo).Create(ctx, tenantID, CreateDefinitionRequest{
			Category: "LAND", Key: "zoning", Label: "İmar Durumu", Type: "TEXT",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("select without options", func(t *testing.T) {
		repo := new(testutil.MockDefinitionRepository)
		repo.On("ExistsByKey", ctx, tenantID, listing.CategoryHousing, "heatingType").Return(false, nil)

		_, err := NewDefinitionService(repo).Create(ctx, tenantID, CreateDefinitionRequest{
			Category: "HOUSING", Key: "heatingType", Label: "Isıtma", Type: "SELECT",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_OPTIONS", domainErr.Code)
	})

	t.Run("creates a select definition", func(t *testing.T) {
		repo := new(testutil.MockDefinitionRepository)
		repo.On("ExistsByKey", ctx, tenantID, listing.CategoryHousing, "heatingType").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*attribute.Definition")).Return(nil)

		resp, err := NewDefinitionService(repo).Create(ctx, tenantID, CreateDefinitionRequest{
			Category:   "HOUSING",
			Key:        "heatingType",
			Label:      "Isıtma",
			Type:       "SELECT",
			Options:    []string{"NATURAL_GAS", " CENTRAL ", "NATURAL_GAS"},
			Filterable: true,
			SortOrder:  4,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"NATURAL_GAS", "CENTRAL"}, resp.Options)
		assert.True(t, resp.Filterable)
		assert.Equal(t, 4, resp.SortOrder)
	})
}

func TestDefinitionService_Schema(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	repo := new(testutil.MockDefinitionRepository)
	repo.On("FindByCategory", ctx, tenantID, listing.CategoryHousing).Return(housingDefinitions(t, tenantID), nil)

	doc, err := NewDefinitionService(repo).Schema(ctx, tenantID, "HOUSING")
	require.NoError(t, err)
	assert.Equal(t, []string{"roomCount"}, doc["required"])
	assert.Contains(t, doc["properties"], "buildingAge")

	_, err = NewDefinitionService(repo).Schema(ctx, tenantID, "CASTLE")
	require.Error(t, err)
}
