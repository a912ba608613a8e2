package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/emlak/backend/internal/domain/attribute"
	"github.com/emlak/backend/internal/domain/identity"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedConfig describes the initial data of a tenant
type SeedConfig struct {
	TenantID      uuid.UUID
	AdminUsername string
	AdminPassword string
}

type seedAttribute struct {
	key        string
	label      string
	typ        attribute.Type
	options    []string
	unit       string
	filterable bool
}

// housingAttributes back the room count, building age and heating filters
var housingAttributes = []seedAttribute{
	{key: listing.AttrRoomCount, label: "Oda Sayısı", typ: attribute.TypeSelect, filterable: true,
		options: []string{"1+0", "1+1", "2+1", "3+1", "3+2", "4+1", "4+2", "5+1", "6+"}},
	{key: listing.AttrBuildingAge, label: "Bina Yaşı", typ: attribute.TypeNumber, unit: "yıl", filterable: true},
	{key: listing.AttrHeatingType, label: "Isıtma", typ: attribute.TypeSelect, filterable: true,
		options: []string{"Doğalgaz (Kombi)", "Merkezi", "Yerden Isıtma", "Klima", "Soba", "Yok"}},
	{key: "floor", label: "Bulunduğu Kat", typ: attribute.TypeText},
	{key: "furnished", label: "Eşyalı", typ: attribute.TypeBoolean},
}

// Seeder inserts the data a fresh tenant needs to be usable. Running it
// again skips everything that already exists.
type Seeder struct {
	users  identity.UserRepository
	attrs  attribute.DefinitionRepository
	logger *zap.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(users identity.UserRepository, attrs attribute.DefinitionRepository, logger *zap.Logger) *Seeder {
	return &Seeder{users: users, attrs: attrs, logger: logger}
}

// Run seeds the admin account and the housing attribute definitions
func (s *Seeder) Run(ctx context.Context, cfg SeedConfig) error {
	if cfg.TenantID == uuid.Nil {
		return errors.New("seed: tenant id is required")
	}
	if err := s.seedAdmin(ctx, cfg); err != nil {
		return err
	}
	return s.seedAttributes(ctx, cfg.TenantID)
}

func (s *Seeder) seedAdmin(ctx context.Context, cfg SeedConfig) error {
	if cfg.AdminUsername == "" {
		s.logger.Info("No admin username given, skipping admin account")
		return nil
	}
	exists, err := s.users.ExistsByUsername(ctx, cfg.TenantID, cfg.AdminUsername)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if exists {
		s.logger.Info("Admin account already exists", zap.String("username", cfg.AdminUsername))
		return nil
	}

	user, err := identity.NewUser(cfg.TenantID, cfg.AdminUsername, cfg.AdminPassword, identity.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := user.SetDisplayName("Yönetici"); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.logger.Info("Admin account created", zap.String("username", cfg.AdminUsername))
	return nil
}

func (s *Seeder) seedAttributes(ctx context.Context, tenantID uuid.UUID) error {
	created := 0
	for i, a := range housingAttributes {
		exists, err := s.attrs.ExistsByKey(ctx, tenantID, listing.CategoryHousing, a.key)
		if err != nil {
			return fmt.Errorf("seed attribute %s: %w", a.key, err)
		}
		if exists {
			continue
		}

		def, err := attribute.NewDefinition(tenantID, listing.CategoryHousing, a.key, a.label, a.typ)
		if err != nil {
			return fmt.Errorf("seed attribute %s: %w", a.key, err)
		}
		if len(a.options) > 0 {
			if err := def.SetOptions(a.options); err != nil {
				return fmt.Errorf("seed attribute %s: %w", a.key, err)
			}
		}
		def.Configure(a.unit, false, a.filterable, (i+1)*10)
		if err := s.attrs.Save(ctx, def); err != nil {
			return fmt.Errorf("seed attribute %s: %w", a.key, err)
		}
		created++
	}
	s.logger.Info("Attribute definitions seeded",
		zap.String("category", string(listing.CategoryHousing)),
		zap.Int("created", created),
	)
	return nil
}
