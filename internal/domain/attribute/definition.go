package attribute

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Type is the value type of an attribute
type Type string

const (
	TypeText        Type = "TEXT"
	TypeNumber      Type = "NUMBER"
	TypeSelect      Type = "SELECT"
	TypeMultiSelect Type = "MULTI_SELECT"
	TypeBoolean     Type = "BOOLEAN"
)

// IsValid reports whether t is a known attribute type
func (t Type) IsValid() bool {
	switch t {
	case TypeText, TypeNumber, TypeSelect, TypeMultiSelect, TypeBoolean:
		return true
	}
	return false
}

// HasOptions reports whether values of this type come from a fixed option list
func (t Type) HasOptions() bool {
	return t == TypeSelect || t == TypeMultiSelect
}

var keyPattern = regexp.MustCompile(`^[a-z][a-zA-Z0-9]{0,49}$`)

// Definition describes one category-specific listing attribute, e.g. the
// room count of a HOUSING listing. The set of definitions of a category is
// its attribute schema.
type Definition struct {
	shared.TenantAggregateRoot
	Category   listing.Category
	Key        string
	Label      string
	Type       Type
	Options    []string
	Unit       string
	Required   bool
	Filterable bool
	SortOrder  int
}

// NewDefinition creates an attribute definition
func NewDefinition(tenantID uuid.UUID, category listing.Category, key, label string, typ Type) (*Definition, error) {
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Listing category is not valid")
	}
	key = strings.TrimSpace(key)
	if !keyPattern.MatchString(key) {
		return nil, shared.NewDomainError("INVALID_KEY", "Attribute key must be camelCase letters and digits")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Attribute type is not valid")
	}
	d := &Definition{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Category:            category,
		Key:                 key,
		Type:                typ,
	}
	if err := d.SetLabel(label); err != nil {
		return nil, err
	}
	return d, nil
}

// SetLabel sets the display label
func (d *Definition) SetLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return shared.NewDomainError("INVALID_LABEL", "Attribute label cannot be empty")
	}
	if len(label) > 100 {
		return shared.NewDomainError("INVALID_LABEL", "Attribute label cannot exceed 100 characters")
	}
	d.Label = label
	d.touch()
	return nil
}

// ChangeType switches the value type. Options are dropped for types without options.
func (d *Definition) ChangeType(typ Type) error {
	if !typ.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Attribute type is not valid")
	}
	d.Type = typ
	if !typ.HasOptions() {
		d.Options = nil
	}
	d.touch()
	return nil
}

// SetOptions replaces the option list of a SELECT or MULTI_SELECT attribute.
// Blank and duplicate options are dropped; order is kept.
func (d *Definition) SetOptions(options []string) error {
	if !d.Type.HasOptions() {
		if len(options) > 0 {
			return shared.NewDomainError("INVALID_OPTIONS", "Only select attributes have options")
		}
		d.Options = nil
		return nil
	}
	cleaned := make([]string, 0, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o != "" && !slices.Contains(cleaned, o) {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) == 0 {
		return shared.NewDomainError("INVALID_OPTIONS", "Select attributes need at least one option")
	}
	d.Options = cleaned
	d.touch()
	return nil
}

// Configure sets the remaining presentation flags
func (d *Definition) Configure(unit string, required, filterable bool, sortOrder int) {
	d.Unit = strings.TrimSpace(unit)
	d.Required = required
	d.Filterable = filterable
	d.SortOrder = sortOrder
	d.touch()
}

func (d *Definition) touch() {
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}
