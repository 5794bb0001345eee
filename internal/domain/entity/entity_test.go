package entity

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T { return &v }

func TestAuditSoftDeleteAndRestore(t *testing.T) {
	a := NewAudit("")
	if a.CreatedBy != SystemActor || !a.IsActive {
		t.Fatalf("unexpected new audit: %+v", a)
	}

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	a.SoftDelete(at, "alice")
	if !a.IsDeleted() || a.IsActive {
		t.Fatalf("expected deleted and inactive, got %+v", a)
	}
	if a.DeletedAt.Location() != time.UTC {
		t.Errorf("deleted_at should be UTC, got %v", a.DeletedAt.Location())
	}
	if a.LastUpdatedBy != "alice" {
		t.Errorf("last_updated_by = %q", a.LastUpdatedBy)
	}

	a.Restore(at.Add(time.Hour), "bob")
	if a.IsDeleted() || !a.IsActive || a.LastUpdatedBy != "bob" {
		t.Fatalf("restore did not revive record: %+v", a)
	}
}

func TestListFilterNormalize(t *testing.T) {
	f := ListFilter{Limit: -1, Offset: -4}.Normalize()
	if f.Limit != MaxListLimit || f.Offset != 0 {
		t.Errorf("got %+v", f)
	}
	f = ListFilter{Limit: 20, Offset: 40}.Normalize()
	if f.Limit != 20 || f.Offset != 40 {
		t.Errorf("got %+v", f)
	}
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{"08:00", NewClockTime(8, 0, 0), false},
		{"17:30:15", NewClockTime(17, 30, 15), false},
		{" 00:00 ", 0, false},
		{"23:59:59", NewClockTime(23, 59, 59), false},
		{"24:00", 0, true},
		{"8am", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClockTime(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClockTime(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseClockTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClockTimeJSON(t *testing.T) {
	var w struct {
		Start ClockTime `json:"start"`
	}
	if err := json.Unmarshal([]byte(`{"start":"07:05"}`), &w); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(w)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"start":"07:05:00"}` {
		t.Errorf("got %s", out)
	}

	if err := json.Unmarshal([]byte(`{"start":"25:00"}`), &w); !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestTimeWindowValidate(t *testing.T) {
	tests := []struct {
		name    string
		window  TimeWindow
		wantErr bool
	}{
		{"valid", TimeWindow{NodeID: 1, StartTime: NewClockTime(8, 0, 0), EndTime: NewClockTime(12, 0, 0)}, false},
		{"missing node", TimeWindow{StartTime: 0, EndTime: 60}, true},
		{"equal bounds", TimeWindow{NodeID: 1, StartTime: 60, EndTime: 60}, true},
		{"reversed", TimeWindow{NodeID: 1, StartTime: 120, EndTime: 60}, true},
		{"beyond day", TimeWindow{NodeID: 1, StartTime: 60, EndTime: secondsPerDay}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	w := TimeWindow{NodeID: 1, StartTime: NewClockTime(8, 0, 0), EndTime: NewClockTime(9, 0, 0)}
	if !w.Contains(NewClockTime(8, 0, 0)) || w.Contains(NewClockTime(9, 0, 0)) {
		t.Error("window should be half-open")
	}
}

func TestNodeValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr bool
	}{
		{"no location", Node{NodeName: "Depot"}, false},
		{"valid location", Node{NodeName: "Depot", Latitude: ptr(52.37), Longitude: ptr(4.89)}, false},
		{"blank name", Node{NodeName: "  "}, true},
		{"half location", Node{NodeName: "Depot", Latitude: ptr(52.0)}, true},
		{"latitude out of range", Node{NodeName: "Depot", Latitude: ptr(91.0), Longitude: ptr(0.0)}, true},
		{"longitude out of range", Node{NodeName: "Depot", Latitude: ptr(0.0), Longitude: ptr(-181.0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestZoneValidateNormalizesPostalCodes(t *testing.T) {
	z := Zone{ZoneName: " North ", PostalCodes: []string{"1011", " 1012", "1011"}}
	if err := z.Validate(); err != nil {
		t.Fatal(err)
	}
	if z.ZoneName != "North" {
		t.Errorf("zone_name = %q", z.ZoneName)
	}
	if len(z.PostalCodes) != 2 || z.PostalCodes[1] != "1012" {
		t.Errorf("postal_codes = %v", z.PostalCodes)
	}
	if !z.Covers("1012") || z.Covers("2000") {
		t.Error("Covers mismatch")
	}

	bad := Zone{ZoneName: "South", PostalCodes: []string{""}}
	var ve *ValidationError
	if err := bad.Validate(); !errors.As(err, &ve) || ve.Field != "postal_codes" {
		t.Errorf("expected postal_codes validation error, got %v", err)
	}
}

func TestDistanceEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   DistanceEntry
		wantErr bool
	}{
		{"valid", DistanceEntry{OriginNodeID: 1, DestinationNodeID: 2, Distance: 12.5, TravelTime: 900}, false},
		{"zero distance", DistanceEntry{OriginNodeID: 1, DestinationNodeID: 2}, false},
		{"same node", DistanceEntry{OriginNodeID: 1, DestinationNodeID: 1}, true},
		{"negative distance", DistanceEntry{OriginNodeID: 1, DestinationNodeID: 2, Distance: -1}, true},
		{"negative travel time", DistanceEntry{OriginNodeID: 1, DestinationNodeID: 2, TravelTime: -1}, true},
		{"missing origin", DistanceEntry{DestinationNodeID: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewDistanceMatrixListsMissingPairs(t *testing.T) {
	nodes := []uint{1, 2, 3}
	entries := []*DistanceEntry{
		{OriginNodeID: 1, DestinationNodeID: 2, Distance: 5},
		{OriginNodeID: 2, DestinationNodeID: 1, Distance: 5},
		{OriginNodeID: 1, DestinationNodeID: 3, Distance: 7},
	}
	m := NewDistanceMatrix(nodes, entries)
	if m.Complete() {
		t.Fatal("matrix should be incomplete")
	}
	want := []NodePair{{2, 3}, {3, 1}, {3, 2}}
	if len(m.Missing) != len(want) {
		t.Fatalf("missing = %v, want %v", m.Missing, want)
	}
	for i := range want {
		if m.Missing[i] != want[i] {
			t.Errorf("missing[%d] = %v, want %v", i, m.Missing[i], want[i])
		}
	}

	empty := NewDistanceMatrix([]uint{1, 2}, nil)
	if empty.Entries == nil || len(empty.Missing) != 2 {
		t.Errorf("unexpected empty matrix: %+v", empty)
	}
}

func TestUniqueNodeIDs(t *testing.T) {
	got := UniqueNodeIDs([]uint{3, 0, 1, 3, 2, 1})
	want := []uint{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestStartFeeValidate(t *testing.T) {
	fee := StartFee{PricingRuleID: 1, LocationType: "  Warehouse ", MaxFee: decimal.RequireFromString("12.50")}
	if err := fee.Validate(); err != nil {
		t.Fatal(err)
	}
	if fee.LocationType != "warehouse" {
		t.Errorf("location_type = %q", fee.LocationType)
	}

	neg := StartFee{PricingRuleID: 1, LocationType: "depot", MaxFee: decimal.NewFromInt(-1)}
	if err := neg.Validate(); !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestVehicleValidate(t *testing.T) {
	if err := (&Vehicle{VehicleName: "Van 1", Capacity: ptr(-2.0)}).Validate(); err == nil {
		t.Error("negative capacity accepted")
	}
	if err := (&Vehicle{VehicleName: "Van 1"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestIsAuditedEntity(t *testing.T) {
	if !IsAuditedEntity(EntityStartFee) || IsAuditedEntity("invoice") {
		t.Error("IsAuditedEntity mismatch")
	}
}
