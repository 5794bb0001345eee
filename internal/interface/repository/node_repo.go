package repository

import (
	"context"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormNodeRepository implements the NodeRepository interface
type GormNodeRepository struct {
	db *gorm.DB
}

// NewGormNodeRepository creates a new GORM node repository
func NewGormNodeRepository(db *gorm.DB) repository.NodeRepository {
	return &GormNodeRepository{
		db: db,
	}
}

// Nodes GORM model for database mapping
type Nodes struct {
	ID        uint     `gorm:"primaryKey"`
	NodeName  string   `gorm:"column:node_name;not null"`
	Latitude  *float64 `gorm:"column:latitude"`
	Longitude *float64 `gorm:"column:longitude"`
	AuditColumns

	TimeWindows []TimeWindows      `gorm:"foreignKey:NodeID"`
	Outgoing    []DistanceMatrices `gorm:"foreignKey:OriginNodeID"`
	Incoming    []DistanceMatrices `gorm:"foreignKey:DestinationNodeID"`
}

// TableName overrides the default table name
func (Nodes) TableName() string {
	return "o_nodes"
}

func (n *Nodes) toEntity() *entity.Node {
	node := &entity.Node{
		ID:        n.ID,
		NodeName:  n.NodeName,
		Latitude:  n.Latitude,
		Longitude: n.Longitude,
		Audit:     n.AuditColumns.toEntity(),
	}
	for i := range n.TimeWindows {
		node.TimeWindows = append(node.TimeWindows, n.TimeWindows[i].toEntity())
	}
	return node
}

// Create inserts a new node into the database
func (r *GormNodeRepository) Create(ctx context.Context, node *entity.Node) error {
	model := Nodes{
		NodeName:     node.NodeName,
		Latitude:     node.Latitude,
		Longitude:    node.Longitude,
		AuditColumns: newAuditColumns(node.Audit),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateError(err)
	}

	*node = *model.toEntity()
	return nil
}

// GetByID finds a node by id together with its live time windows, also
// when the node itself is soft-deleted
func (r *GormNodeRepository) GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.Node, error) {
	var model Nodes
	err := scoped(r.db.WithContext(ctx), includeDeleted).
		Preload("TimeWindows", func(db *gorm.DB) *gorm.DB {
			return db.Where("deleted_at IS NULL").Order("start_time")
		}).
		First(&model, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.toEntity(), nil
}

// List returns nodes ordered by id
func (r *GormNodeRepository) List(ctx context.Context, filter entity.ListFilter) ([]*entity.Node, error) {
	var nodes []Nodes
	if err := paged(r.db.WithContext(ctx), filter).Find(&nodes).Error; err != nil {
		return nil, translateError(err)
	}

	// Convert to domain entities
	entities := make([]*entity.Node, 0, len(nodes))
	for i := range nodes {
		entities = append(entities, nodes[i].toEntity())
	}
	return entities, nil
}

// Update overwrites the name and location of a live node
func (r *GormNodeRepository) Update(ctx context.Context, node *entity.Node) error {
	model := Nodes{
		ID:        node.ID,
		NodeName:  node.NodeName,
		Latitude:  node.Latitude,
		Longitude: node.Longitude,
		AuditColumns: AuditColumns{
			LastUpdatedBy: actorOrSystem(node.LastUpdatedBy),
		},
	}
	return updateColumns(ctx, r.db, &model, node.ID, "node_name", "latitude", "longitude")
}

// SoftDelete hides a node
func (r *GormNodeRepository) SoftDelete(ctx context.Context, id uint, actor string) error {
	return softDelete[Nodes](ctx, r.db, id, actor)
}

// Restore revives a soft-deleted node
func (r *GormNodeRepository) Restore(ctx context.Context, id uint, actor string) error {
	return restore[Nodes](ctx, r.db, id, actor)
}

// GormTimeWindowRepository implements the TimeWindowRepository interface
type GormTimeWindowRepository struct {
	db *gorm.DB
}

// NewGormTimeWindowRepository creates a new GORM time window repository
func NewGormTimeWindowRepository(db *gorm.DB) repository.TimeWindowRepository {
	return &GormTimeWindowRepository{
		db: db,
	}
}

// TimeWindows GORM model for database mapping.
// Times of day are stored as HH:MM:SS text, which sorts chronologically.
type TimeWindows struct {
	ID        uint   `gorm:"primaryKey"`
	NodeID    uint   `gorm:"column:node_id;not null;index"`
	StartTime string `gorm:"column:start_time;type:varchar(8);not null"`
	EndTime   string `gorm:"column:end_time;type:varchar(8);not null"`
	AuditColumns
}

// TableName overrides the default table name
func (TimeWindows) TableName() string {
	return "o_time_windows"
}

func (w *TimeWindows) toEntity() *entity.TimeWindow {
	// stored values were validated on write
	start, _ := entity.ParseClockTime(w.StartTime)
	end, _ := entity.ParseClockTime(w.EndTime)
	return &entity.TimeWindow{
		ID:        w.ID,
		NodeID:    w.NodeID,
		StartTime: start,
		EndTime:   end,
		Audit:     w.AuditColumns.toEntity(),
	}
}

// Create inserts a new time window into the database
func (r *GormTimeWindowRepository) Create(ctx context.Context, window *entity.TimeWindow) error {
	model := TimeWindows{
		NodeID:       window.NodeID,
		StartTime:    window.StartTime.String(),
		EndTime:      window.EndTime.String(),
		AuditColumns: newAuditColumns(window.Audit),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateError(err)
	}

	*window = *model.toEntity()
	return nil
}

// GetByID finds a time window by id
func (r *GormTimeWindowRepository) GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.TimeWindow, error) {
	model, err := findByID[TimeWindows](ctx, r.db, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	return model.toEntity(), nil
}

// ListByNode returns the time windows of a node ordered by start time
func (r *GormTimeWindowRepository) ListByNode(ctx context.Context, nodeID uint, includeDeleted bool) ([]*entity.TimeWindow, error) {
	var windows []TimeWindows
	err := scoped(r.db.WithContext(ctx), includeDeleted).
		Where("node_id = ?", nodeID).
		Order("start_time").Order("id").
		Find(&windows).Error
	if err != nil {
		return nil, translateError(err)
	}

	entities := make([]*entity.TimeWindow, 0, len(windows))
	for i := range windows {
		entities = append(entities, windows[i].toEntity())
	}
	return entities, nil
}

// Update overwrites the bounds of a live time window
func (r *GormTimeWindowRepository) Update(ctx context.Context, window *entity.TimeWindow) error {
	model := TimeWindows{
		ID:        window.ID,
		StartTime: window.StartTime.String(),
		EndTime:   window.EndTime.String(),
		AuditColumns: AuditColumns{
			LastUpdatedBy: actorOrSystem(window.LastUpdatedBy),
		},
	}
	return updateColumns(ctx, r.db, &model, window.ID, "start_time", "end_time")
}

// SoftDelete hides a time window
func (r *GormTimeWindowRepository) SoftDelete(ctx context.Context, id uint, actor string) error {
	return softDelete[TimeWindows](ctx, r.db, id, actor)
}

// Restore revives a soft-deleted time window
func (r *GormTimeWindowRepository) Restore(ctx context.Context, id uint, actor string) error {
	return restore[TimeWindows](ctx, r.db, id, actor)
}
