package repository

import (
	"context"

	"napo-service/internal/domain/entity"
)

// PricingRuleRepository defines the interface for pricing rule operations
type PricingRuleRepository interface {
	SoftDeleter
	Create(ctx context.Context, rule *entity.PricingRule) error
	GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.PricingRule, error)
	List(ctx context.Context, filter entity.PricingRuleFilter) ([]*entity.PricingRule, error)
	Update(ctx context.Context, rule *entity.PricingRule) error
}

// StartFeeRepository defines the interface for start fee operations
type StartFeeRepository interface {
	SoftDeleter
	Create(ctx context.Context, fee *entity.StartFee) error
	GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.StartFee, error)
	ListByRule(ctx context.Context, ruleID uint, includeDeleted bool) ([]*entity.StartFee, error)
	// FindByLocationType returns the live fee of a rule for a location type
	FindByLocationType(ctx context.Context, ruleID uint, locationType string) (*entity.StartFee, error)
	Update(ctx context.Context, fee *entity.StartFee) error
}
