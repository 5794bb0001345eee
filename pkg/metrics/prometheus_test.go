package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("napo_test", reg)

	m.Mutation("zone", "create")
	m.Mutation("zone", "create")
	m.Error("zone.create")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	if got := testutil.ToFloat64(m.EntityMutations.WithLabelValues("zone", "create")); got != 2 {
		t.Errorf("mutations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ErrorsCount.WithLabelValues("zone.create")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}

	count, err := testutil.GatherAndCount(reg, "napo_test_entity_mutations_total")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("series = %d, want 1", count)
	}
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	NewNopMetrics()
	NewNopMetrics()
}
