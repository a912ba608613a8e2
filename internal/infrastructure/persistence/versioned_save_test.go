package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/emlak/backend/internal/domain/location"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storedCity is a city as the repository loads it
func storedCity(tenantID uuid.UUID, version int) *location.City {
	return &location.City{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{ID: uuid.New()},
				Version:    version,
			},
			TenantID: tenantID,
		},
		Name: "İzmir",
		Slug: "izmir",
	}
}

func TestGormCityRepository_SaveVersioned(t *testing.T) {
	t.Run("inserts a new city and records the acting user", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCityRepository(db)

		city, err := location.NewCity(uuid.New(), "Ankara", 6)
		require.NoError(t, err)
		userID := uuid.New()

		mock.ExpectExec(`INSERT INTO "cities"`).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Save(shared.ContextWithActor(context.Background(), userID), city))
		require.NotNil(t, city.CreatedBy)
		assert.Equal(t, userID, *city.CreatedBy)
		assert.Equal(t, 1, city.Version)
		assert.Equal(t, 1, city.StoredVersion())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("updates only the version it was loaded with", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCityRepository(db)

		tenantID := uuid.New()
		city := storedCity(tenantID, 3)
		require.NoError(t, city.Rename("İzmir Merkez"))
		require.NoError(t, city.Rename("İzmir"))

		mock.ExpectExec(`UPDATE "cities" SET .*"version"=.* WHERE \(tenant_id = \$\d+ AND version = \$\d+\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Save(context.Background(), city))
		assert.Equal(t, 4, city.Version)
		assert.Equal(t, 4, city.StoredVersion())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale copy is a concurrency conflict", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCityRepository(db)

		city := storedCity(uuid.New(), 7)
		require.NoError(t, city.Rename("Bursa"))

		mock.ExpectExec(`UPDATE "cities" SET .* WHERE \(tenant_id = \$\d+ AND version = \$\d+\)`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Save(context.Background(), city)
		assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))
		assert.Equal(t, 7, city.StoredVersion())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save without changes still moves the version", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCityRepository(db)

		city := storedCity(uuid.New(), 2)

		mock.ExpectExec(`UPDATE "cities"`).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Save(context.Background(), city))
		assert.Equal(t, 3, city.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
