package testutil

import (
	"context"

	"github.com/emlak/backend/internal/domain/attribute"
	"github.com/emlak/backend/internal/domain/branch"
	"github.com/emlak/backend/internal/domain/consultant"
	"github.com/emlak/backend/internal/domain/identity"
	"github.com/emlak/backend/internal/domain/lead"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/location"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/domain/site"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCityRepository is a mock implementation of location.CityRepository
type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*location.City, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*location.City), args.Error(1)
}

func (m *MockCityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]location.City, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]location.City), args.Error(1)
}

func (m *MockCityRepository) ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (bool, error) {
	args := m.Called(ctx, tenantID, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockCityRepository) HasDistricts(ctx context.Context, tenantID, cityID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, cityID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCityRepository) Save(ctx context.Context, city *location.City) error {
	return m.Called(ctx, city).Error(0)
}

func (m *MockCityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockDistrictRepository is a mock implementation of location.DistrictRepository
type MockDistrictRepository struct {
	mock.Mock
}

func (m *MockDistrictRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*location.District, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*location.District), args.Error(1)
}

func (m *MockDistrictRepository) FindByCity(ctx context.Context, tenantID, cityID uuid.UUID) ([]location.District, error) {
	args := m.Called(ctx, tenantID, cityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]location.District), args.Error(1)
}

func (m *MockDistrictRepository) HasNeighborhoods(ctx context.Context, tenantID, districtID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, districtID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDistrictRepository) Save(ctx context.Context, district *location.District) error {
	return m.Called(ctx, district).Error(0)
}

func (m *MockDistrictRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockNeighborhoodRepository is a mock implementation of location.NeighborhoodRepository
type MockNeighborhoodRepository struct {
	mock.Mock
}

func (m *MockNeighborhoodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*location.Neighborhood, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*location.Neighborhood), args.Error(1)
}

func (m *MockNeighborhoodRepository) FindByDistrict(ctx context.Context, tenantID, districtID uuid.UUID) ([]location.Neighborhood, error) {
	args := m.Called(ctx, tenantID, districtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]location.Neighborhood), args.Error(1)
}

func (m *MockNeighborhoodRepository) Save(ctx context.Context, neighborhood *location.Neighborhood) error {
	return m.Called(ctx, neighborhood).Error(0)
}

func (m *MockNeighborhoodRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockListingRepository is a mock implementation of listing.ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*listing.Listing, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) Search(ctx context.Context, tenantID uuid.UUID, query listing.SearchQuery) ([]*listing.Listing, int64, error) {
	args := m.Called(ctx, tenantID, query)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*listing.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) FindShowcase(ctx context.Context, tenantID uuid.UUID, scope listing.ShowcaseScope) ([]*listing.Listing, error) {
	args := m.Called(ctx, tenantID, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*listing.Listing, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) CountByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, branchID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) CountByConsultant(ctx context.Context, tenantID, consultantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, consultantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) CountByLocation(ctx context.Context, tenantID uuid.UUID, column string, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, column, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockListingRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockBranchRepository is a mock implementation of branch.BranchRepository
type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*branch.Branch, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*branch.Branch, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]branch.Branch, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBranchRepository) ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (bool, error) {
	args := m.Called(ctx, tenantID, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockBranchRepository) Save(ctx context.Context, b *branch.Branch) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBranchRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockConsultantRepository is a mock implementation of consultant.ConsultantRepository
type MockConsultantRepository struct {
	mock.Mock
}

func (m *MockConsultantRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consultant.Consultant, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consultant.Consultant), args.Error(1)
}

func (m *MockConsultantRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*consultant.Consultant, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consultant.Consultant), args.Error(1)
}

func (m *MockConsultantRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]consultant.Consultant, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]consultant.Consultant), args.Error(1)
}

func (m *MockConsultantRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockConsultantRepository) CountByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, branchID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockConsultantRepository) Save(ctx context.Context, c *consultant.Consultant) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockConsultantRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockDefinitionRepository is a mock implementation of attribute.DefinitionRepository
type MockDefinitionRepository struct {
	mock.Mock
}

func (m *MockDefinitionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*attribute.Definition, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attribute.Definition), args.Error(1)
}

func (m *MockDefinitionRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category listing.Category) ([]*attribute.Definition, error) {
	args := m.Called(ctx, tenantID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*attribute.Definition), args.Error(1)
}

func (m *MockDefinitionRepository) ExistsByKey(ctx context.Context, tenantID uuid.UUID, category listing.Category, key string) (bool, error) {
	args := m.Called(ctx, tenantID, category, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockDefinitionRepository) Save(ctx context.Context, def *attribute.Definition) error {
	return m.Called(ctx, def).Error(0)
}

func (m *MockDefinitionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockSettingsRepository is a mock implementation of site.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Find(ctx context.Context, tenantID uuid.UUID) (*site.Settings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*site.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *site.Settings) error {
	return m.Called(ctx, settings).Error(0)
}

// MockPageRepository is a mock implementation of site.PageRepository
type MockPageRepository struct {
	mock.Mock
}

func (m *MockPageRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*site.Page, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*site.Page), args.Error(1)
}

func (m *MockPageRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*site.Page, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*site.Page), args.Error(1)
}

func (m *MockPageRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]*site.Page, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*site.Page), args.Error(1)
}

func (m *MockPageRepository) ExistsBySlug(ctx context.Context, tenantID uuid.UUID, slug string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPageRepository) Save(ctx context.Context, page *site.Page) error {
	return m.Called(ctx, page).Error(0)
}

func (m *MockPageRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockCustomerRequestRepository is a mock implementation of lead.CustomerRequestRepository
type MockCustomerRequestRepository struct {
	mock.Mock
}

func (m *MockCustomerRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*lead.CustomerRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.CustomerRequest), args.Error(1)
}

func (m *MockCustomerRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*lead.CustomerRequest, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*lead.CustomerRequest), args.Error(1)
}

func (m *MockCustomerRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRequestRepository) Save(ctx context.Context, request *lead.CustomerRequest) error {
	return m.Called(ctx, request).Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, tenantID, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

var (
	_ location.CityRepository         = (*MockCityRepository)(nil)
	_ location.DistrictRepository     = (*MockDistrictRepository)(nil)
	_ location.NeighborhoodRepository = (*MockNeighborhoodRepository)(nil)
	_ listing.ListingRepository       = (*MockListingRepository)(nil)
	_ branch.BranchRepository         = (*MockBranchRepository)(nil)
	_ consultant.ConsultantRepository = (*MockConsultantRepository)(nil)
	_ attribute.DefinitionRepository  = (*MockDefinitionRepository)(nil)
	_ site.SettingsRepository         = (*MockSettingsRepository)(nil)
	_ site.PageRepository             = (*MockPageRepository)(nil)
	_ lead.CustomerRequestRepository  = (*MockCustomerRequestRepository)(nil)
	_ identity.UserRepository         = (*MockUserRepository)(nil)
)
