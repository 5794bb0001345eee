package repository

import (
	"context"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormRouteRepository implements the RouteRepository interface
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GORM route repository
func NewGormRouteRepository(db *gorm.DB) repository.RouteRepository {
	return &GormRouteRepository{
		db: db,
	}
}

// Routes GORM model for database mapping
type Routes struct {
	ID          uint   `gorm:"primaryKey"`
	RouteName   string `gorm:"column:route_name;not null"`
	Description string `gorm:"column:description"`
	ZoneID      *uint  `gorm:"column:zone_id;index"`
	AuditColumns

	Assignments []VehicleAssignments `gorm:"foreignKey:RouteID"`
}

// TableName overrides the default table name
func (Routes) TableName() string {
	return "t_routes"
}

func (r *Routes) toEntity() *entity.Route {
	return &entity.Route{
		ID:          r.ID,
		RouteName:   r.RouteName,
		Description: r.Description,
		ZoneID:      r.ZoneID,
		Audit:       r.AuditColumns.toEntity(),
	}
}

// Create inserts a new route into the database
func (r *GormRouteRepository) Create(ctx context.Context, route *entity.Route) error {
	model := Routes{
		RouteName:    route.RouteName,
		Description:  route.Description,
		ZoneID:       route.ZoneID,
		AuditColumns: newAuditColumns(route.Audit),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateError(err)
	}

	*route = *model.toEntity()
	return nil
}

// GetByID finds a route by id
func (r *GormRouteRepository) GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.Route, error) {
	model, err := findByID[Routes](ctx, r.db, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	return model.toEntity(), nil
}

// List returns routes ordered by id, optionally within one zone
func (r *GormRouteRepository) List(ctx context.Context, filter entity.RouteFilter) ([]*entity.Route, error) {
	var routes []Routes
	query := paged(r.db.WithContext(ctx), filter.ListFilter)
	if filter.ZoneID != nil {
		query = query.Where("zone_id = ?", *filter.ZoneID)
	}
	if err := query.Find(&routes).Error; err != nil {
		return nil, translateError(err)
	}

	entities := make([]*entity.Route, 0, len(routes))
	for i := range routes {
		entities = append(entities, routes[i].toEntity())
	}
	return entities, nil
}

// Update overwrites the fields of a live route
func (r *GormRouteRepository) Update(ctx context.Context, route *entity.Route) error {
	model := Routes{
		ID:          route.ID,
		RouteName:   route.RouteName,
		Description: route.Description,
		ZoneID:      route.ZoneID,
		AuditColumns: AuditColumns{
			LastUpdatedBy: actorOrSystem(route.LastUpdatedBy),
		},
	}
	return updateColumns(ctx, r.db, &model, route.ID, "route_name", "description", "zone_id")
}

// SoftDelete hides a route
func (r *GormRouteRepository) SoftDelete(ctx context.Context, id uint, actor string) error {
	return softDelete[Routes](ctx, r.db, id, actor)
}

// Restore revives a soft-deleted route
func (r *GormRouteRepository) Restore(ctx context.Context, id uint, actor string) error {
	return restore[Routes](ctx, r.db, id, actor)
}
