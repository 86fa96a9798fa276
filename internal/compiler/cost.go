package compiler

import (
	"math"

	"bizatlas/internal/domain"
)

// CostEstimator produces a heuristic scalar cost from the condition, metric,
// layer, and aggregation counts of a document. The estimate is monotonically
// non-decreasing in each count.
type CostEstimator struct {
	weights map[string]float64
}

// NewCostEstimator builds an estimator over the static metric weight table.
func NewCostEstimator(weights map[string]float64) *CostEstimator {
	return &CostEstimator{weights: weights}
}

// Estimate computes
//
//	1.0 + 0.1*|where| + sum(metric weights, default 1.0) + 0.5*|layers| + 0.3*|aggregation functions|
//
// rounded to two decimal places.
func (e *CostEstimator) Estimate(dsl domain.FilterDSL) float64 {
	cost := 1.0 + 0.1*float64(len(dsl.Where))

	for _, m := range dsl.Metrics {
		w, ok := e.weights[m]
		if !ok {
			w = 1.0
		}
		cost += w
	}

	cost += 0.5 * float64(len(dsl.Map.Layers))

	if dsl.Aggregations != nil {
		cost += 0.3 * float64(len(dsl.Aggregations.Functions))
	}

	return math.Round(cost*100) / 100
}
