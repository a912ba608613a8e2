package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormCityRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds existing city", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCityRepository(db)

		tenantID := uuid.New()
		cityID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "slug", "plate_code", "sort_order", "version"}).
			AddRow(cityID, tenantID, "İzmir", "izmir", 35, 0, 1)

		mock.ExpectQuery(`SELECT \* FROM "cities" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, cityID, 1).
			WillReturnRows(rows)

		city, err := repo.FindByIDForTenant(context.Background(), tenantID, cityID)
		require.NoError(t, err)
		assert.Equal(t, "izmir", city.Slug)
		assert.Equal(t, 35, city.PlateCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCityRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "cities"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormCityRepository_HasDistricts(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormCityRepository(db)

	tenantID := uuid.New()
	cityID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "districts" WHERE tenant_id = \$1 AND city_id = \$2`).
		WithArgs(tenantID, cityID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	has, err := repo.HasDistricts(context.Background(), tenantID, cityID)
	require.NoError(t, err)
	assert.True(t, has)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDistrictRepository_DeleteForTenant(t *testing.T) {
	t.Run("deletes the district", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormDistrictRepository(db)

		tenantID := uuid.New()
		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "districts" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DeleteForTenant(context.Background(), tenantID, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing was deleted", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormDistrictRepository(db)

		mock.ExpectExec(`DELETE FROM "districts"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForTenant(context.Background(), uuid.New(), uuid.New())
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormNeighborhoodRepository_FindByDistrict(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormNeighborhoodRepository(db)

	tenantID := uuid.New()
	districtID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "tenant_id", "district_id", "name", "slug", "sort_order"}).
		AddRow(uuid.New(), tenantID, districtID, "Alsancak", "alsancak", 0).
		AddRow(uuid.New(), tenantID, districtID, "Kahramanlar", "kahramanlar", 1)

	mock.ExpectQuery(`SELECT \* FROM "neighborhoods" WHERE tenant_id = \$1 AND district_id = \$2 ORDER BY sort_order ASC, name ASC`).
		WithArgs(tenantID, districtID).
		WillReturnRows(rows)

	items, err := repo.FindByDistrict(context.Background(), tenantID, districtID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Alsancak", items[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
