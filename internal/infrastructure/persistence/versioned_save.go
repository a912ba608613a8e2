package persistence

import (
	"context"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// versioned is the part of an aggregate root the save path works with
type versioned interface {
	IncrementVersion()
	StoredVersion() int
	MarkSaved()
	GetCreatedBy() *uuid.UUID
	SetCreatedBy(userID uuid.UUID)
}

// saveVersioned inserts an aggregate that was never stored. A stored one is
// updated only while its row still carries the version the aggregate was
// loaded with, otherwise shared.ErrConcurrencyConflict is returned.
// row builds the value gorm writes and is called after the version moved.
func saveVersioned(ctx context.Context, db *gorm.DB, agg versioned, tenantID uuid.UUID, row func() any) error {
	agg.IncrementVersion()
	expected := agg.StoredVersion()

	if expected == 0 {
		if userID, ok := shared.ActorFromContext(ctx); ok && agg.GetCreatedBy() == nil {
			agg.SetCreatedBy(userID)
		}
		if err := db.WithContext(ctx).Create(row()).Error; err != nil {
			return err
		}
		agg.MarkSaved()
		return nil
	}

	value := row()
	result := db.WithContext(ctx).
		Model(value).
		Select("*").
		Where("tenant_id = ? AND version = ?", tenantID, expected).
		Updates(value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	agg.MarkSaved()
	return nil
}
