package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields present on every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// ListingSortFields contains allowed sort fields for the admin listing table.
// Public search sorts through listing.SortField instead.
var ListingSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"listing_no":   true,
	"title":        true,
	"price":        true,
	"area":         true,
	"status":       true,
	"category":     true,
	"state":        true,
	"published_at": true,
}

// BranchSortFields contains allowed sort fields for branches
var BranchSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"sort_order": true,
	"is_active":  true,
}

// ConsultantSortFields contains allowed sort fields for consultants
var ConsultantSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"full_name":  true,
	"sort_order": true,
	"is_active":  true,
}

// CustomerRequestSortFields contains allowed sort fields for customer requests
var CustomerRequestSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"full_name":  true,
	"type":       true,
	"status":     true,
}
