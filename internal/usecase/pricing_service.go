package usecase

import (
	"context"
	"errors"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"
	"napo-service/pkg/logger"
	"napo-service/pkg/metrics"
)

// PricingService manages pricing rules and their start fee caps
type PricingService struct {
	rules repository.PricingRuleRepository
	fees  repository.StartFeeRepository
	recorder
}

// NewPricingService creates a new pricing service
func NewPricingService(
	rules repository.PricingRuleRepository,
	fees repository.StartFeeRepository,
	audit repository.AuditRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *PricingService {
	return &PricingService{
		rules:    rules,
		fees:     fees,
		recorder: newRecorder(audit, metrics, logger),
	}
}

func ruleChanges(r *entity.PricingRule) map[string]interface{} {
	return map[string]interface{}{
		"rule_name":   r.RuleName,
		"description": r.Description,
	}
}

// CreateRule validates and stores a new, active pricing rule
func (s *PricingService) CreateRule(ctx context.Context, rule *entity.PricingRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	rule.Audit = entity.NewAudit(ActorFromContext(ctx))
	if err := s.rules.Create(ctx, rule); err != nil {
		return s.failed("pricing_rule.create", err)
	}
	s.mutated(ctx, entity.EntityPricingRule, rule.ID, entity.ActionCreate, ruleChanges(rule))
	return nil
}

// GetRule returns one pricing rule with its live start fees
func (s *PricingService) GetRule(ctx context.Context, id uint, includeDeleted bool) (*entity.PricingRule, error) {
	rule, err := s.rules.GetByID(ctx, id, includeDeleted)
	return rule, s.failed("pricing_rule.get", err)
}

// ListRules returns pricing rules matching the filter
func (s *PricingService) ListRules(ctx context.Context, filter entity.PricingRuleFilter) ([]*entity.PricingRule, error) {
	rules, err := s.rules.List(ctx, filter)
	return rules, s.failed("pricing_rule.list", err)
}

// UpdateRule overwrites a live pricing rule and returns its stored state
func (s *PricingService) UpdateRule(ctx context.Context, rule *entity.PricingRule) (*entity.PricingRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	rule.LastUpdatedBy = ActorFromContext(ctx)
	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, s.failed("pricing_rule.update", err)
	}
	s.mutated(ctx, entity.EntityPricingRule, rule.ID, entity.ActionUpdate, ruleChanges(rule))
	return s.GetRule(ctx, rule.ID, false)
}

// DeleteRule soft-deletes and thereby disables a pricing rule
func (s *PricingService) DeleteRule(ctx context.Context, id uint) error {
	return s.softDelete(ctx, entity.EntityPricingRule, s.rules, id)
}

// RestoreRule revives and re-enables a pricing rule
func (s *PricingService) RestoreRule(ctx context.Context, id uint) (*entity.PricingRule, error) {
	if err := s.restore(ctx, entity.EntityPricingRule, s.rules, id); err != nil {
		return nil, err
	}
	return s.GetRule(ctx, id, false)
}

func feeChanges(f *entity.StartFee) map[string]interface{} {
	return map[string]interface{}{
		"pricing_rule_id": f.PricingRuleID,
		"location_type":   f.LocationType,
		"max_fee":         f.MaxFee.String(),
	}
}

// ensureUniqueLocation rejects a second live fee for the same location type of a rule
func (s *PricingService) ensureUniqueLocation(ctx context.Context, fee *entity.StartFee) error {
	existing, err := s.fees.FindByLocationType(ctx, fee.PricingRuleID, fee.LocationType)
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != fee.ID:
		return entity.ErrConflict
	}
	return nil
}

// AddStartFee adds a fee cap for a location type to a live pricing rule
func (s *PricingService) AddStartFee(ctx context.Context, fee *entity.StartFee) error {
	if err := fee.Validate(); err != nil {
		return err
	}
	if _, err := s.rules.GetByID(ctx, fee.PricingRuleID, false); err != nil {
		return s.failed("start_fee.create", err)
	}
	if err := s.ensureUniqueLocation(ctx, fee); err != nil {
		return s.failed("start_fee.create", err)
	}
	fee.Audit = entity.NewAudit(ActorFromContext(ctx))
	if err := s.fees.Create(ctx, fee); err != nil {
		return s.failed("start_fee.create", err)
	}
	s.mutated(ctx, entity.EntityStartFee, fee.ID, entity.ActionCreate, feeChanges(fee))
	return nil
}

// GetStartFee returns one start fee
func (s *PricingService) GetStartFee(ctx context.Context, id uint, includeDeleted bool) (*entity.StartFee, error) {
	fee, err := s.fees.GetByID(ctx, id, includeDeleted)
	return fee, s.failed("start_fee.get", err)
}

// ListStartFees returns the start fees of a pricing rule
func (s *PricingService) ListStartFees(ctx context.Context, ruleID uint, includeDeleted bool) ([]*entity.StartFee, error) {
	if _, err := s.rules.GetByID(ctx, ruleID, includeDeleted); err != nil {
		return nil, s.failed("start_fee.list", err)
	}
	fees, err := s.fees.ListByRule(ctx, ruleID, includeDeleted)
	return fees, s.failed("start_fee.list", err)
}

// UpdateStartFee changes the location type or fee cap of a live start fee
func (s *PricingService) UpdateStartFee(ctx context.Context, fee *entity.StartFee) (*entity.StartFee, error) {
	existing, err := s.fees.GetByID(ctx, fee.ID, false)
	if err != nil {
		return nil, s.failed("start_fee.update", err)
	}
	fee.PricingRuleID = existing.PricingRuleID
	if err := fee.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueLocation(ctx, fee); err != nil {
		return nil, s.failed("start_fee.update", err)
	}
	fee.LastUpdatedBy = ActorFromContext(ctx)
	if err := s.fees.Update(ctx, fee); err != nil {
		return nil, s.failed("start_fee.update", err)
	}
	s.mutated(ctx, entity.EntityStartFee, fee.ID, entity.ActionUpdate, feeChanges(fee))
	return s.GetStartFee(ctx, fee.ID, false)
}

// DeleteStartFee soft-deletes a start fee
func (s *PricingService) DeleteStartFee(ctx context.Context, id uint) error {
	return s.softDelete(ctx, entity.EntityStartFee, s.fees, id)
}

// RestoreStartFee revives a soft-deleted start fee of a live rule unless
// another live fee now covers its location type.
func (s *PricingService) RestoreStartFee(ctx context.Context, id uint) (*entity.StartFee, error) {
	fee, err := s.fees.GetByID(ctx, id, true)
	if err != nil {
		return nil, s.failed("start_fee.restore", err)
	}
	if _, err := s.rules.GetByID(ctx, fee.PricingRuleID, false); err != nil {
		return nil, s.failed("start_fee.restore", requireLive("pricing_rule_id", err))
	}
	if err := s.ensureUniqueLocation(ctx, fee); err != nil {
		return nil, s.failed("start_fee.restore", err)
	}
	if err := s.restore(ctx, entity.EntityStartFee, s.fees, id); err != nil {
		return nil, err
	}
	return s.GetStartFee(ctx, id, false)
}

// StartFeeCap returns the fee cap for a location type under an active rule.
// Deleted or disabled rules and unknown location types report ErrNotFound.
func (s *PricingService) StartFeeCap(ctx context.Context, ruleID uint, locationType string) (*entity.StartFee, error) {
	if entity.NormalizeLocationType(locationType) == "" {
		return nil, entity.NewValidationError("location_type", "is required")
	}
	rule, err := s.rules.GetByID(ctx, ruleID, false)
	if err != nil {
		return nil, s.failed("start_fee.cap", err)
	}
	if !rule.IsActive {
		return nil, entity.ErrNotFound
	}
	fee, err := s.fees.FindByLocationType(ctx, ruleID, locationType)
	return fee, s.failed("start_fee.cap", err)
}
