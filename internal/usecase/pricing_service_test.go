package usecase

import (
	"context"
	"errors"
	"testing"

	"napo-service/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func TestPricingServiceStartFees(t *testing.T) {
	f := newFixture(t)
	svc := NewPricingService(f.repos.Pricing, f.repos.StartFees, f.audit, f.metrics, f.log)
	ctx := actorCtx("finance")

	rule := &entity.PricingRule{RuleName: "Standard 2024"}
	if err := svc.CreateRule(ctx, rule); err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}
	if !rule.IsActive {
		t.Error("new rule should be active")
	}

	orphan := &entity.StartFee{PricingRuleID: 999, LocationType: "depot", MaxFee: decimal.NewFromInt(10)}
	if err := svc.AddStartFee(ctx, orphan); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("AddStartFee(unknown rule) error = %v", err)
	}
	negative := &entity.StartFee{PricingRuleID: rule.ID, LocationType: "depot", MaxFee: decimal.NewFromInt(-1)}
	if err := svc.AddStartFee(ctx, negative); !entity.IsValidationError(err) {
		t.Errorf("AddStartFee(negative) error = %v", err)
	}

	depot := &entity.StartFee{PricingRuleID: rule.ID, LocationType: " Depot ", MaxFee: decimal.RequireFromString("12.50")}
	if err := svc.AddStartFee(ctx, depot); err != nil {
		t.Fatalf("AddStartFee() error = %v", err)
	}
	if depot.LocationType != "depot" {
		t.Errorf("location type = %q, want normalized", depot.LocationType)
	}
	store := &entity.StartFee{PricingRuleID: rule.ID, LocationType: "store", MaxFee: decimal.NewFromInt(8)}
	if err := svc.AddStartFee(ctx, store); err != nil {
		t.Fatal(err)
	}
	duplicate := &entity.StartFee{PricingRuleID: rule.ID, LocationType: "DEPOT", MaxFee: decimal.NewFromInt(1)}
	if err := svc.AddStartFee(ctx, duplicate); !errors.Is(err, entity.ErrConflict) {
		t.Errorf("AddStartFee(duplicate location) error = %v, want ErrConflict", err)
	}

	fee, err := svc.StartFeeCap(ctx, rule.ID, "DEPOT")
	if err != nil {
		t.Fatalf("StartFeeCap() error = %v", err)
	}
	if !fee.MaxFee.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("StartFeeCap() = %s", fee.MaxFee)
	}
	if _, err := svc.StartFeeCap(ctx, rule.ID, "airport"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("StartFeeCap(unknown type) error = %v", err)
	}
	if _, err := svc.StartFeeCap(ctx, rule.ID, " "); !entity.IsValidationError(err) {
		t.Errorf("StartFeeCap(blank) error = %v", err)
	}

	if _, err := svc.UpdateStartFee(ctx, &entity.StartFee{ID: store.ID, LocationType: "depot", MaxFee: decimal.NewFromInt(9)}); !errors.Is(err, entity.ErrConflict) {
		t.Errorf("UpdateStartFee(onto taken type) error = %v", err)
	}
	raised, err := svc.UpdateStartFee(ctx, &entity.StartFee{ID: store.ID, LocationType: "store", MaxFee: decimal.NewFromInt(9)})
	if err != nil {
		t.Fatalf("UpdateStartFee() error = %v", err)
	}
	if raised.PricingRuleID != rule.ID || !raised.MaxFee.Equal(decimal.NewFromInt(9)) {
		t.Errorf("UpdateStartFee() = %+v", raised)
	}

	fees, err := svc.ListStartFees(ctx, rule.ID, false)
	if err != nil || len(fees) != 2 {
		t.Errorf("ListStartFees() = %d, err %v", len(fees), err)
	}
	loaded, err := svc.GetRule(ctx, rule.ID, false)
	if err != nil || len(loaded.StartFees) != 2 {
		t.Errorf("GetRule() fees = %+v, err %v", loaded, err)
	}

	if err := svc.DeleteStartFee(ctx, depot.ID); err != nil {
		t.Fatal(err)
	}
	replacement := &entity.StartFee{PricingRuleID: rule.ID, LocationType: "depot", MaxFee: decimal.NewFromInt(15)}
	if err := svc.AddStartFee(ctx, replacement); err != nil {
		t.Fatalf("AddStartFee(after delete) error = %v", err)
	}
	if _, err := svc.RestoreStartFee(ctx, depot.ID); !errors.Is(err, entity.ErrConflict) {
		t.Errorf("RestoreStartFee(type taken) error = %v, want ErrConflict", err)
	}
}

func TestPricingServiceDisabledRule(t *testing.T) {
	f := newFixture(t)
	svc := NewPricingService(f.repos.Pricing, f.repos.StartFees, f.audit, f.metrics, f.log)
	ctx := context.Background()

	rule := &entity.PricingRule{RuleName: "Peak"}
	if err := svc.CreateRule(ctx, rule); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddStartFee(ctx, &entity.StartFee{PricingRuleID: rule.ID, LocationType: "hub", MaxFee: decimal.NewFromInt(20)}); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteRule(ctx, rule.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.StartFeeCap(ctx, rule.ID, "hub"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("StartFeeCap(disabled rule) error = %v", err)
	}
	active, err := svc.ListRules(ctx, entity.PricingRuleFilter{ActiveOnly: true})
	if err != nil || len(active) != 0 {
		t.Errorf("ListRules(active) = %d, err %v", len(active), err)
	}
	all, err := svc.ListRules(ctx, entity.PricingRuleFilter{ListFilter: entity.ListFilter{IncludeDeleted: true}})
	if err != nil || len(all) != 1 || all[0].IsActive {
		t.Errorf("ListRules(includeDeleted) = %+v, err %v", all, err)
	}

	restored, err := svc.RestoreRule(ctx, rule.ID)
	if err != nil || !restored.IsActive {
		t.Fatalf("RestoreRule() = %+v, %v", restored, err)
	}
	if _, err := svc.StartFeeCap(ctx, rule.ID, "hub"); err != nil {
		t.Errorf("StartFeeCap(restored rule) error = %v", err)
	}
}

func TestPricingServiceRestoreFeeNeedsLiveRule(t *testing.T) {
	f := newFixture(t)
	svc := NewPricingService(f.repos.Pricing, f.repos.StartFees, f.audit, f.metrics, f.log)
	ctx := actorCtx("finance")

	rule := &entity.PricingRule{RuleName: "Standard"}
	if err := svc.CreateRule(ctx, rule); err != nil {
		t.Fatal(err)
	}
	fee := &entity.StartFee{PricingRuleID: rule.ID, LocationType: "depot", MaxFee: decimal.NewFromInt(10)}
	if err := svc.AddStartFee(ctx, fee); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteStartFee(ctx, fee.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteRule(ctx, rule.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.RestoreStartFee(ctx, fee.ID); !errors.Is(err, entity.ErrReferenceNotFound) {
		t.Errorf("RestoreStartFee(deleted rule) error = %v", err)
	}
	if _, err := svc.RestoreRule(ctx, rule.ID); err != nil {
		t.Fatal(err)
	}
	restored, err := svc.RestoreStartFee(ctx, fee.ID)
	if err != nil || restored.IsDeleted() {
		t.Errorf("RestoreStartFee() = %+v, %v", restored, err)
	}
}
