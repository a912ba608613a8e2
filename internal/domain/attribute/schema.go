package attribute

import (
	"sort"
)

// SchemaDocument builds the JSON Schema (draft 2020-12) that an attributes
// map of the category must satisfy. Unknown keys are rejected.
func SchemaDocument(defs []*Definition) map[string]any {
	sorted := make([]*Definition, len(defs))
	copy(sorted, defs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].Key < sorted[j].Key
	})

	properties := make(map[string]any, len(sorted))
	required := make([]string, 0)
	for _, d := range sorted {
		properties[d.Key] = propertySchema(d)
		if d.Required {
			required = append(required, d.Key)
		}
	}

	doc := map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func propertySchema(d *Definition) map[string]any {
	p := map[string]any{"title": d.Label}
	switch d.Type {
	case TypeNumber:
		p["type"] = "number"
	case TypeBoolean:
		p["type"] = "boolean"
	case TypeSelect:
		p["type"] = "string"
		p["enum"] = stringsToAny(d.Options)
	case TypeMultiSelect:
		p["type"] = "array"
		p["uniqueItems"] = true
		p["items"] = map[string]any{
			"type": "string",
			"enum": stringsToAny(d.Options),
		}
	default:
		p["type"] = "string"
		p["maxLength"] = 500
	}
	return p
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
