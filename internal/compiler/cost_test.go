package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bizatlas/internal/domain"
)

// One condition, one unweighted metric (SRI weighs 1.0), one layer:
// 1.0 + 0.1 + 1.0 + 0.5 = 2.6.
func TestEstimate_Scenario(t *testing.T) {
	e := NewCostEstimator(DefaultTables().MetricWeights)
	cost := e.Estimate(domain.FilterDSL{
		Intent: "succession",
		Where: []domain.FilterCondition{
			{Field: "owner_age", Op: ">", Value: 55.0},
		},
		Metrics: []string{"SRI"},
		Map:     domain.MapSpec{Layers: []string{"pins"}},
	})
	assert.Equal(t, 2.6, cost)
}

func TestEstimate_EmptyDocument(t *testing.T) {
	e := NewCostEstimator(DefaultTables().MetricWeights)
	cost := e.Estimate(domain.FilterDSL{
		Intent:  "rollup",
		Where:   []domain.FilterCondition{},
		Metrics: []string{},
		Map:     domain.MapSpec{Layers: []string{}},
	})
	assert.Equal(t, 1.0, cost)
}

func TestEstimate_UnweightedMetricDefaultsToOne(t *testing.T) {
	e := NewCostEstimator(DefaultTables().MetricWeights)
	base := domain.FilterDSL{
		Intent:  "rollup",
		Where:   []domain.FilterCondition{},
		Metrics: []string{"revenue_estimate"},
		Map:     domain.MapSpec{Layers: []string{}},
	}
	assert.Equal(t, 2.0, e.Estimate(base))
}

func TestEstimate_AggregationFunctions(t *testing.T) {
	e := NewCostEstimator(DefaultTables().MetricWeights)
	cost := e.Estimate(domain.FilterDSL{
		Intent:  "rollup",
		Where:   []domain.FilterCondition{},
		Metrics: []string{},
		Map:     domain.MapSpec{Layers: []string{}},
		Aggregations: &domain.Aggregations{
			GroupBy:   []string{"region"},
			Functions: []string{"sum", "avg"},
		},
	})
	assert.Equal(t, 1.6, cost)
}

func TestEstimate_MonotonicNonDecreasing(t *testing.T) {
	e := NewCostEstimator(DefaultTables().MetricWeights)
	dsl := domain.FilterDSL{
		Intent:  "rollup",
		Where:   []domain.FilterCondition{},
		Metrics: []string{},
		Map:     domain.MapSpec{Layers: []string{}},
	}
	prev := e.Estimate(dsl)

	dsl.Where = append(dsl.Where, domain.FilterCondition{Field: "a", Op: "=", Value: 1.0})
	next := e.Estimate(dsl)
	assert.GreaterOrEqual(t, next, prev)
	prev = next

	dsl.Metrics = append(dsl.Metrics, "PCVS")
	next = e.Estimate(dsl)
	assert.GreaterOrEqual(t, next, prev)
	prev = next

	dsl.Map.Layers = append(dsl.Map.Layers, "heatmap")
	next = e.Estimate(dsl)
	assert.GreaterOrEqual(t, next, prev)
}

func TestEstimate_RoundedToTwoDecimals(t *testing.T) {
	e := NewCostEstimator(DefaultTables().MetricWeights)
	cost := e.Estimate(domain.FilterDSL{
		Intent: "rollup",
		Where: []domain.FilterCondition{
			{Field: "a", Op: "=", Value: 1.0},
			{Field: "b", Op: "=", Value: 2.0},
			{Field: "c", Op: "=", Value: 3.0},
		},
		Metrics: []string{},
		Map:     domain.MapSpec{Layers: []string{}},
	})
	assert.Equal(t, 1.3, cost)
}
