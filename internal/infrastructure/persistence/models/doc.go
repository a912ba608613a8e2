// Package models contains GORM persistence models for the aggregates whose
// shape differs from their table: jsonb documents (listing attributes and
// images, page blocks, settings sections, attribute options) and value
// objects such as the listing price.
//
// Reference data (cities, districts, neighborhoods), branches and consultants
// map one to one onto their tables and are persisted through their domain
// structs directly.
package models
