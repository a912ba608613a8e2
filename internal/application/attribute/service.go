package attribute

import (
	"context"

	"github.com/emlak/backend/internal/domain/attribute"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefinitionService manages the attribute schema of each listing category
type DefinitionService struct {
	repo attribute.DefinitionRepository
}

// NewDefinitionService creates a new DefinitionService
func NewDefinitionService(repo attribute.DefinitionRepository) *DefinitionService {
	return &DefinitionService{repo: repo}
}

// List returns the definitions of a category, or all definitions when category is empty
func (s *DefinitionService) List(ctx context.Context, tenantID uuid.UUID, category string) ([]DefinitionResponse, error) {
	cat := listing.Category(category)
	if category != "" && !cat.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Listing category is not valid")
	}

	defs, err := s.repo.FindByCategory(ctx, tenantID, cat)
	if err != nil {
		return nil, err
	}
	responses := make([]DefinitionResponse, len(defs))
	for i, d := range defs {
		responses[i] = ToDefinitionResponse(d)
	}
	return responses, nil
}

// GetByID retrieves a definition by ID
func (s *DefinitionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*DefinitionResponse, error) {
	def, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDefinitionResponse(def)
	return &resp, nil
}

// Create adds a definition to a category schema
func (s *DefinitionService) Create(ctx context.Context, tenantID uuid.UUID, req CreateDefinitionRequest) (*DefinitionResponse, error) {
	category := listing.Category(req.Category)
	def, err := attribute.NewDefinition(tenantID, category, req.Key, req.Label, attribute.Type(req.Type))
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByKey(ctx, tenantID, category, def.Key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Attribute with this key already exists in the category")
	}

	if err := def.SetOptions(req.Options); err != nil {
		return nil, err
	}
	def.Configure(req.Unit, req.Required, req.Filterable, req.SortOrder)

	if err := s.repo.Save(ctx, def); err != nil {
		return nil, err
	}

	resp := ToDefinitionResponse(def)
	return &resp, nil
}

// Update applies a partial update to a definition
func (s *DefinitionService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateDefinitionRequest) (*DefinitionResponse, error) {
	def, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		if err := def.SetLabel(*req.Label); err != nil {
			return nil, err
		}
	}
	if req.Type != nil {
		if err := def.ChangeType(attribute.Type(*req.Type)); err != nil {
			return nil, err
		}
	}
	if req.Options != nil {
		if err := def.SetOptions(*req.Options); err != nil {
			return nil, err
		}
	} else if def.Type.HasOptions() && len(def.Options) == 0 {
		return nil, shared.NewDomainError("INVALID_OPTIONS", "Select attributes need at least one option")
	}

	unit, required, filterable, sortOrder := def.Unit, def.Required, def.Filterable, def.SortOrder
	if req.Unit != nil {
		unit = *req.Unit
	}
	if req.Required != nil {
		required = *req.Required
	}
	if req.Filterable != nil {
		filterable = *req.Filterable
	}
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	def.Configure(unit, required, filterable, sortOrder)

	if err := s.repo.Save(ctx, def); err != nil {
		return nil, err
	}

	resp := ToDefinitionResponse(def)
	return &resp, nil
}

// Delete removes a definition. Existing listings keep their stored value.
func (s *DefinitionService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}

// Schema returns the JSON Schema document of a category
func (s *DefinitionService) Schema(ctx context.Context, tenantID uuid.UUID, category string) (map[string]any, error) {
	cat := listing.Category(category)
	if !cat.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Listing category is not valid")
	}
	defs, err := s.repo.FindByCategory(ctx, tenantID, cat)
	if err != nil {
		return nil, err
	}
	return attribute.SchemaDocument(defs), nil
}
