package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func position(order []string, m string) int {
	for i, o := range order {
		if o == m {
			return i
		}
	}
	return -1
}

func TestOrder_ContainsExactlyRequested(t *testing.T) {
	r := NewMetricResolver(DefaultTables().MetricDeps)
	requested := []string{"PCVS", "revenue_estimate", "SRI"}

	order := r.Order(requested)
	assert.ElementsMatch(t, requested, order)
}

func TestOrder_DependenciesPrecede(t *testing.T) {
	r := NewMetricResolver(DefaultTables().MetricDeps)
	requested := []string{"PCVS", "AAS", "MROS", "SRI"}

	order := r.Order(requested)
	require.Len(t, order, 4)
	pcvs := position(order, "PCVS")
	for _, dep := range []string{"AAS", "MROS", "SRI"} {
		assert.Less(t, position(order, dep), pcvs, "%s must precede PCVS", dep)
	}
}

// A dependency that is not itself requested is never added to the plan.
func TestOrder_DoesNotExpandRequestedSet(t *testing.T) {
	r := NewMetricResolver(DefaultTables().MetricDeps)

	order := r.Order([]string{"PCVS"})
	assert.Equal(t, []string{"PCVS"}, order)
}

func TestOrder_DeterministicForInputOrder(t *testing.T) {
	r := NewMetricResolver(DefaultTables().MetricDeps)
	requested := []string{"SRI", "FS_ms", "lambda1", "owner_age"}

	first := r.Order(requested)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Order(requested))
	}
	// FS_ms is a requested dependency of SRI, so it is emitted first even
	// though SRI comes first in the request.
	assert.Less(t, position(first, "FS_ms"), position(first, "SRI"))
}

func TestOrder_DuplicatesEmittedOnce(t *testing.T) {
	r := NewMetricResolver(DefaultTables().MetricDeps)
	// owner_age is a requested dependency of SRI, so it is emitted first.
	order := r.Order([]string{"SRI", "SRI", "owner_age"})
	assert.Equal(t, []string{"owner_age", "SRI"}, order)
}

func TestOrder_CycleGuard(t *testing.T) {
	r := NewMetricResolver(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})
	order := r.Order([]string{"a", "b"})
	assert.ElementsMatch(t, []string{"a", "b"}, order)
}

func TestPlan_CarriesDependencyTableEntries(t *testing.T) {
	r := NewMetricResolver(DefaultTables().MetricDeps)
	plan := r.Plan([]string{"PCVS", "owner_age"})

	assert.Equal(t, []string{"PCVS", "owner_age"}, plan.Requested)
	assert.Equal(t, []string{"AAS", "MROS", "SRI"}, plan.Dependencies["PCVS"])
	// Raw fields have no dependency entry.
	_, ok := plan.Dependencies["owner_age"]
	assert.False(t, ok)
}
