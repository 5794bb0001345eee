package repository

import (
	"context"
	"errors"
	"testing"

	"napo-service/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func TestPricingRuleWithStartFees(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))

	rule := &entity.PricingRule{RuleName: "Standard 2024", Description: "Base tariff"}
	if err := repos.Pricing.Create(ctx, rule); err != nil {
		t.Fatal(err)
	}
	if !rule.IsActive {
		t.Fatal("new rule should be active")
	}

	fees := []*entity.StartFee{
		{PricingRuleID: rule.ID, LocationType: "warehouse", MaxFee: decimal.RequireFromString("49.95")},
		{PricingRuleID: rule.ID, LocationType: "depot", MaxFee: decimal.RequireFromString("12.10")},
	}
	for _, f := range fees {
		if err := repos.StartFees.Create(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repos.Pricing.GetByID(ctx, rule.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.StartFees) != 2 || got.StartFees[0].LocationType != "depot" {
		t.Fatalf("start fees not preloaded in order: %+v", got.StartFees)
	}
	if !got.StartFees[1].MaxFee.Equal(decimal.RequireFromString("49.95")) {
		t.Errorf("max_fee = %s, want 49.95", got.StartFees[1].MaxFee)
	}

	fee, err := repos.StartFees.FindByLocationType(ctx, rule.ID, " Warehouse ")
	if err != nil {
		t.Fatal(err)
	}
	if fee.ID != fees[0].ID {
		t.Errorf("FindByLocationType() = %+v", fee)
	}

	fee.MaxFee = decimal.RequireFromString("55")
	if err := repos.StartFees.Update(ctx, fee); err != nil {
		t.Fatal(err)
	}
	reloaded, _ := repos.StartFees.GetByID(ctx, fee.ID, false)
	if !reloaded.MaxFee.Equal(decimal.NewFromInt(55)) {
		t.Errorf("updated max_fee = %s", reloaded.MaxFee)
	}

	if err := repos.StartFees.SoftDelete(ctx, fee.ID, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := repos.StartFees.FindByLocationType(ctx, rule.ID, "warehouse"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("deleted fee still found: %v", err)
	}
	all, _ := repos.StartFees.ListByRule(ctx, rule.ID, true)
	if len(all) != 2 {
		t.Errorf("ListByRule(includeDeleted) = %d, want 2", len(all))
	}

	if err := repos.Pricing.SoftDelete(ctx, rule.ID, "finance"); err != nil {
		t.Fatal(err)
	}
	deleted, err := repos.Pricing.GetByID(ctx, rule.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(deleted.StartFees) != 1 || deleted.StartFees[0].ID != fees[1].ID {
		t.Errorf("deleted rule fees = %+v, want only the live one", deleted.StartFees)
	}
}

func TestPricingRuleActiveFilter(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))

	active := &entity.PricingRule{RuleName: "Active"}
	retired := &entity.PricingRule{RuleName: "Retired"}
	for _, r := range []*entity.PricingRule{active, retired} {
		if err := repos.Pricing.Create(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	if err := repos.Pricing.SoftDelete(ctx, retired.ID, "finance"); err != nil {
		t.Fatal(err)
	}

	rules, err := repos.Pricing.List(ctx, entity.PricingRuleFilter{
		ListFilter: entity.ListFilter{IncludeDeleted: true},
		ActiveOnly: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 1 || rules[0].ID != active.ID {
		t.Errorf("active rules = %+v", rules)
	}

	deleted, err := repos.Pricing.GetByID(ctx, retired.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if deleted.IsActive {
		t.Error("soft-deleted rule should be disabled")
	}

	if err := repos.StartFees.Create(ctx, &entity.StartFee{PricingRuleID: 999, LocationType: "depot", MaxFee: decimal.NewFromInt(1)}); !errors.Is(err, entity.ErrReferenceNotFound) {
		t.Errorf("fee for unknown rule error = %v", err)
	}
}

func TestStartFeeOneLivePerLocationType(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newTestDB(t))

	rule := &entity.PricingRule{RuleName: "Standard"}
	other := &entity.PricingRule{RuleName: "Weekend"}
	for _, r := range []*entity.PricingRule{rule, other} {
		if err := repos.Pricing.Create(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	first := &entity.StartFee{PricingRuleID: rule.ID, LocationType: "depot", MaxFee: decimal.NewFromInt(10)}
	if err := repos.StartFees.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	dup := &entity.StartFee{PricingRuleID: rule.ID, LocationType: "depot", MaxFee: decimal.NewFromInt(12)}
	if err := repos.StartFees.Create(ctx, dup); !errors.Is(err, entity.ErrConflict) {
		t.Fatalf("duplicate live fee error = %v, want ErrConflict", err)
	}
	if err := repos.StartFees.Create(ctx, &entity.StartFee{PricingRuleID: other.ID, LocationType: "depot", MaxFee: decimal.NewFromInt(8)}); err != nil {
		t.Errorf("same location under another rule: %v", err)
	}

	shop := &entity.StartFee{PricingRuleID: rule.ID, LocationType: "shop", MaxFee: decimal.NewFromInt(5)}
	if err := repos.StartFees.Create(ctx, shop); err != nil {
		t.Fatal(err)
	}
	shop.LocationType = "depot"
	if err := repos.StartFees.Update(ctx, shop); !errors.Is(err, entity.ErrConflict) {
		t.Errorf("renaming onto a live location error = %v, want ErrConflict", err)
	}

	if err := repos.StartFees.SoftDelete(ctx, first.ID, "finance"); err != nil {
		t.Fatal(err)
	}
	second := &entity.StartFee{PricingRuleID: rule.ID, LocationType: "depot", MaxFee: decimal.NewFromInt(15)}
	if err := repos.StartFees.Create(ctx, second); err != nil {
		t.Fatalf("replacement after delete: %v", err)
	}
	if err := repos.StartFees.Restore(ctx, first.ID, ""); !errors.Is(err, entity.ErrConflict) {
		t.Errorf("restoring a duplicate error = %v, want ErrConflict", err)
	}

	found, err := repos.StartFees.FindByLocationType(ctx, rule.ID, "depot")
	if err != nil || found.ID != second.ID {
		t.Errorf("FindByLocationType() = %+v, %v", found, err)
	}
}
