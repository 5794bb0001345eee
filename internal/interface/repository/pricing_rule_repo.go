package repository

import (
	"context"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPricingRuleRepository implements the PricingRuleRepository interface
type GormPricingRuleRepository struct {
	db *gorm.DB
}

// NewGormPricingRuleRepository creates a new GORM pricing rule repository
func NewGormPricingRuleRepository(db *gorm.DB) repository.PricingRuleRepository {
	return &GormPricingRuleRepository{
		db: db,
	}
}

// PricingRules GORM model for database mapping
type PricingRules struct {
	ID          uint   `gorm:"primaryKey"`
	RuleName    string `gorm:"column:rule_name;not null"`
	Description string `gorm:"column:description"`
	AuditColumns

	StartFees []StartFees `gorm:"foreignKey:PricingRuleID"`
}

// TableName overrides the default table name
func (PricingRules) TableName() string {
	return "p_pricing_rules"
}

func (p *PricingRules) toEntity() *entity.PricingRule {
	rule := &entity.PricingRule{
		ID:          p.ID,
		RuleName:    p.RuleName,
		Description: p.Description,
		Audit:       p.AuditColumns.toEntity(),
	}
	for i := range p.StartFees {
		rule.StartFees = append(rule.StartFees, p.StartFees[i].toEntity())
	}
	return rule
}

// Create inserts a new pricing rule into the database
func (r *GormPricingRuleRepository) Create(ctx context.Context, rule *entity.PricingRule) error {
	model := PricingRules{
		RuleName:     rule.RuleName,
		Description:  rule.Description,
		AuditColumns: newAuditColumns(rule.Audit),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateError(err)
	}

	*rule = *model.toEntity()
	return nil
}

// GetByID finds a pricing rule by id together with its live start fees,
// also when the rule itself is soft-deleted
func (r *GormPricingRuleRepository) GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.PricingRule, error) {
	var model PricingRules
	err := scoped(r.db.WithContext(ctx), includeDeleted).
		Preload("StartFees", func(db *gorm.DB) *gorm.DB {
			return db.Where("deleted_at IS NULL").Order("location_type")
		}).
		First(&model, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.toEntity(), nil
}

// List returns pricing rules ordered by id
func (r *GormPricingRuleRepository) List(ctx context.Context, filter entity.PricingRuleFilter) ([]*entity.PricingRule, error) {
	var rules []PricingRules
	query := paged(r.db.WithContext(ctx), filter.ListFilter)
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&rules).Error; err != nil {
		return nil, translateError(err)
	}

	entities := make([]*entity.PricingRule, 0, len(rules))
	for i := range rules {
		entities = append(entities, rules[i].toEntity())
	}
	return entities, nil
}

// Update overwrites the name and description of a live pricing rule
func (r *GormPricingRuleRepository) Update(ctx context.Context, rule *entity.PricingRule) error {
	model := PricingRules{
		ID:          rule.ID,
		RuleName:    rule.RuleName,
		Description: rule.Description,
		AuditColumns: AuditColumns{
			LastUpdatedBy: actorOrSystem(rule.LastUpdatedBy),
		},
	}
	return updateColumns(ctx, r.db, &model, rule.ID, "rule_name", "description")
}

// SoftDelete hides and disables a pricing rule
func (r *GormPricingRuleRepository) SoftDelete(ctx context.Context, id uint, actor string) error {
	return softDelete[PricingRules](ctx, r.db, id, actor)
}

// Restore revives and re-enables a pricing rule
func (r *GormPricingRuleRepository) Restore(ctx context.Context, id uint, actor string) error {
	return restore[PricingRules](ctx, r.db, id, actor)
}

// GormStartFeeRepository implements the StartFeeRepository interface
type GormStartFeeRepository struct {
	db *gorm.DB
}

// NewGormStartFeeRepository creates a new GORM start fee repository
func NewGormStartFeeRepository(db *gorm.DB) repository.StartFeeRepository {
	return &GormStartFeeRepository{
		db: db,
	}
}

// StartFees GORM model for database mapping.
// The partial unique index allows one live fee per rule and location type.
type StartFees struct {
	ID            uint            `gorm:"primaryKey"`
	PricingRuleID uint            `gorm:"column:pricing_rule_id;not null;uniqueIndex:idx_p_start_fees_live,priority:1,where:deleted_at IS NULL"`
	LocationType  string          `gorm:"column:location_type;not null;uniqueIndex:idx_p_start_fees_live,priority:2,where:deleted_at IS NULL"`
	MaxFee        decimal.Decimal `gorm:"column:max_fee;type:numeric;not null"`
	AuditColumns
}

// TableName overrides the default table name
func (StartFees) TableName() string {
	return "p_start_fees"
}

func (s *StartFees) toEntity() *entity.StartFee {
	return &entity.StartFee{
		ID:            s.ID,
		PricingRuleID: s.PricingRuleID,
		LocationType:  s.LocationType,
		MaxFee:        s.MaxFee,
		Audit:         s.AuditColumns.toEntity(),
	}
}

// Create inserts a new start fee into the database
func (r *GormStartFeeRepository) Create(ctx context.Context, fee *entity.StartFee) error {
	model := StartFees{
		PricingRuleID: fee.PricingRuleID,
		LocationType:  fee.LocationType,
		MaxFee:        fee.MaxFee,
		AuditColumns:  newAuditColumns(fee.Audit),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateError(err)
	}

	*fee = *model.toEntity()
	return nil
}

// GetByID finds a start fee by id
func (r *GormStartFeeRepository) GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.StartFee, error) {
	model, err := findByID[StartFees](ctx, r.db, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	return model.toEntity(), nil
}

// ListByRule returns the start fees of a pricing rule ordered by location type
func (r *GormStartFeeRepository) ListByRule(ctx context.Context, ruleID uint, includeDeleted bool) ([]*entity.StartFee, error) {
	var fees []StartFees
	err := scoped(r.db.WithContext(ctx), includeDeleted).
		Where("pricing_rule_id = ?", ruleID).
		Order("location_type").Order("id").
		Find(&fees).Error
	if err != nil {
		return nil, translateError(err)
	}

	entities := make([]*entity.StartFee, 0, len(fees))
	for i := range fees {
		entities = append(entities, fees[i].toEntity())
	}
	return entities, nil
}

// FindByLocationType returns the live fee of a rule for a location type
func (r *GormStartFeeRepository) FindByLocationType(ctx context.Context, ruleID uint, locationType string) (*entity.StartFee, error) {
	var model StartFees
	err := r.db.WithContext(ctx).
		Where("pricing_rule_id = ? AND location_type = ?", ruleID, entity.NormalizeLocationType(locationType)).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.toEntity(), nil
}

// Update overwrites the location type and fee cap of a live start fee
func (r *GormStartFeeRepository) Update(ctx context.Context, fee *entity.StartFee) error {
	model := StartFees{
		ID:           fee.ID,
		LocationType: fee.LocationType,
		MaxFee:       fee.MaxFee,
		AuditColumns: AuditColumns{
			LastUpdatedBy: actorOrSystem(fee.LastUpdatedBy),
		},
	}
	return updateColumns(ctx, r.db, &model, fee.ID, "location_type", "max_fee")
}

// SoftDelete hides a start fee
func (r *GormStartFeeRepository) SoftDelete(ctx context.Context, id uint, actor string) error {
	return softDelete[StartFees](ctx, r.db, id, actor)
}

// Restore revives a soft-deleted start fee
func (r *GormStartFeeRepository) Restore(ctx context.Context, id uint, actor string) error {
	return restore[StartFees](ctx, r.db, id, actor)
}
