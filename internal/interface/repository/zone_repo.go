package repository

import (
	"context"
	"encoding/json"
	"strings"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormZoneRepository implements the ZoneRepository interface
type GormZoneRepository struct {
	db *gorm.DB
}

// NewGormZoneRepository creates a new GORM zone repository
func NewGormZoneRepository(db *gorm.DB) repository.ZoneRepository {
	return &GormZoneRepository{
		db: db,
	}
}

// Zones GORM model for database mapping
type Zones struct {
	ID          uint     `gorm:"primaryKey"`
	ZoneName    string   `gorm:"column:zone_name;not null"`
	PostalCodes []string `gorm:"column:postal_codes;type:text;serializer:json"`
	AuditColumns

	Transporters []Transporters `gorm:"foreignKey:ZoneID"`
	Routes       []Routes       `gorm:"foreignKey:ZoneID"`
}

// TableName overrides the default table name
func (Zones) TableName() string {
	return "o_zones"
}

func (z *Zones) toEntity() *entity.Zone {
	codes := z.PostalCodes
	if codes == nil {
		codes = []string{}
	}
	return &entity.Zone{
		ID:          z.ID,
		ZoneName:    z.ZoneName,
		PostalCodes: codes,
		Audit:       z.AuditColumns.toEntity(),
	}
}

// Create inserts a new zone into the database
func (r *GormZoneRepository) Create(ctx context.Context, zone *entity.Zone) error {
	model := Zones{
		ZoneName:     zone.ZoneName,
		PostalCodes:  zone.PostalCodes,
		AuditColumns: newAuditColumns(zone.Audit),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateError(err)
	}

	*zone = *model.toEntity()
	return nil
}

// GetByID finds a zone by id
func (r *GormZoneRepository) GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.Zone, error) {
	model, err := findByID[Zones](ctx, r.db, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	return model.toEntity(), nil
}

// List returns zones ordered by id, optionally only those covering a postal code
func (r *GormZoneRepository) List(ctx context.Context, filter entity.ZoneFilter) ([]*entity.Zone, error) {
	if strings.TrimSpace(filter.PostalCode) != "" {
		return r.listCovering(ctx, filter)
	}

	var zones []Zones
	if err := paged(r.db.WithContext(ctx), filter.ListFilter).Find(&zones).Error; err != nil {
		return nil, translateError(err)
	}

	// Convert to domain entities
	entities := make([]*entity.Zone, 0, len(zones))
	for i := range zones {
		entities = append(entities, zones[i].toEntity())
	}
	return entities, nil
}

// listCovering narrows the zones in SQL by the JSON encoded postal code, then
// checks the decoded codes exactly and pages the matches.
func (r *GormZoneRepository) listCovering(ctx context.Context, filter entity.ZoneFilter) ([]*entity.Zone, error) {
	code := strings.TrimSpace(filter.PostalCode)
	needle, err := json.Marshal(code)
	if err != nil {
		return nil, err
	}

	var zones []Zones
	err = scoped(r.db.WithContext(ctx), filter.IncludeDeleted).
		Where(`postal_codes LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(string(needle))+"%").
		Order("id").
		Find(&zones).Error
	if err != nil {
		return nil, translateError(err)
	}

	page := filter.ListFilter.Normalize()
	entities := make([]*entity.Zone, 0, len(zones))
	skipped := 0
	for i := range zones {
		z := zones[i].toEntity()
		if !z.Covers(code) {
			continue
		}
		if skipped < page.Offset {
			skipped++
			continue
		}
		entities = append(entities, z)
		if len(entities) == page.Limit {
			break
		}
	}
	return entities, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Update overwrites the name and postal codes of a live zone
func (r *GormZoneRepository) Update(ctx context.Context, zone *entity.Zone) error {
	model := Zones{
		ID:          zone.ID,
		ZoneName:    zone.ZoneName,
		PostalCodes: zone.PostalCodes,
		AuditColumns: AuditColumns{
			LastUpdatedBy: actorOrSystem(zone.LastUpdatedBy),
		},
	}
	return updateColumns(ctx, r.db, &model, zone.ID, "zone_name", "postal_codes")
}

// SoftDelete hides a zone
func (r *GormZoneRepository) SoftDelete(ctx context.Context, id uint, actor string) error {
	return softDelete[Zones](ctx, r.db, id, actor)
}

// Restore revives a soft-deleted zone
func (r *GormZoneRepository) Restore(ctx context.Context, id uint, actor string) error {
	return restore[Zones](ctx, r.db, id, actor)
}
