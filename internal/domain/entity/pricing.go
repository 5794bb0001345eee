package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PricingRule groups the start fees applied under one tariff.
// IsActive doubles as the rule's enabled flag: soft-deleting a rule disables it.
type PricingRule struct {
	ID          uint        `json:"id"`
	RuleName    string      `json:"rule_name"`
	Description string      `json:"description"`
	StartFees   []*StartFee `json:"start_fees,omitempty"`
	Audit
}

// PricingRuleFilter narrows pricing rule listings
type PricingRuleFilter struct {
	ListFilter
	ActiveOnly bool
}

func (p *PricingRule) Validate() error {
	p.RuleName = strings.TrimSpace(p.RuleName)
	if p.RuleName == "" {
		return NewValidationError("rule_name", "is required")
	}
	return nil
}

// StartFee caps the start fee charged for a location type
type StartFee struct {
	ID            uint            `json:"id"`
	PricingRuleID uint            `json:"pricing_rule_id"`
	LocationType  string          `json:"location_type"`
	MaxFee        decimal.Decimal `json:"max_fee"`
	Audit
}

// Validate normalizes the location type and checks the fee cap
func (s *StartFee) Validate() error {
	if s.PricingRuleID == 0 {
		return NewValidationError("pricing_rule_id", "is required")
	}
	s.LocationType = NormalizeLocationType(s.LocationType)
	if s.LocationType == "" {
		return NewValidationError("location_type", "is required")
	}
	if s.MaxFee.IsNegative() {
		return NewValidationError("max_fee", "must not be negative")
	}
	return nil
}

// NormalizeLocationType trims and lowercases a location type so lookups are case insensitive
func NormalizeLocationType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
