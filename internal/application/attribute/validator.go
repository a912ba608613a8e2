package attribute

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/emlak/backend/internal/domain/attribute"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaValidator validates listing attributes against the JSON Schema
// compiled from the category's definitions.
type SchemaValidator struct {
	repo attribute.DefinitionRepository
}

// NewSchemaValidator creates a new SchemaValidator
func NewSchemaValidator(repo attribute.DefinitionRepository) *SchemaValidator {
	return &SchemaValidator{repo: repo}
}

var _ attribute.Validator = (*SchemaValidator)(nil)

// Validate returns an INVALID_ATTRIBUTES error listing every violation
func (v *SchemaValidator) Validate(ctx context.Context, tenantID uuid.UUID, category listing.Category, attrs listing.Attributes) error {
	defs, err := v.repo.FindByCategory(ctx, tenantID, category)
	if err != nil {
		return err
	}

	schema, err := compileSchema(string(category), attribute.SchemaDocument(defs))
	if err != nil {
		return err
	}

	normalized, err := attrs.Normalize()
	if err != nil {
		return shared.NewDomainError("INVALID_ATTRIBUTES", "Attributes must be a JSON object")
	}
	instance := make(map[string]any, len(normalized))
	for k, val := range normalized {
		instance[k] = val
	}

	if err := schema.Validate(instance); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return shared.NewDomainError("INVALID_ATTRIBUTES", strings.Join(violations(verr), "; "))
		}
		return fmt.Errorf("validate attributes: %w", err)
	}
	return nil
}

func compileSchema(name string, doc map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode attribute schema: %w", err)
	}

	url := "mem://attributes/" + strings.ToLower(name) + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("load attribute schema: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile attribute schema: %w", err)
	}
	return schema, nil
}

// violations flattens the error tree into "field: message" lines
func violations(verr *jsonschema.ValidationError) []string {
	seen := map[string]struct{}{}
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := strings.TrimPrefix(e.InstanceLocation, "/")
			line := e.Message
			if field != "" {
				line = field + ": " + e.Message
			}
			seen[line] = struct{}{}
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)

	out := make([]string, 0, len(seen))
	for line := range seen {
		out = append(out, line)
	}
	sort.Strings(out)
	return out
}
