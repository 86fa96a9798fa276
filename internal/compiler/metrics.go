package compiler

import "bizatlas/internal/domain"

// MetricResolver orders a requested metric set so that every dependency of a
// metric that is itself requested appears before it. Dependencies outside the
// requested set are never silently added to the plan.
type MetricResolver struct {
	deps map[string][]string
}

// NewMetricResolver builds a resolver over the static dependency table.
func NewMetricResolver(deps map[string][]string) *MetricResolver {
	return &MetricResolver{deps: deps}
}

// Order returns a topological ordering of requested. Visitation follows the
// input order, so the output is deterministic for a given input order:
// first-encountered metrics are emitted first, post-order on the recursion.
// The visited set guards against cycles and duplicate entries.
func (r *MetricResolver) Order(requested []string) []string {
	requestedSet := toSet(requested)
	visited := make(map[string]bool, len(requested))
	order := make([]string, 0, len(requested))

	var visit func(m string)
	visit = func(m string) {
		if visited[m] {
			return
		}
		visited[m] = true
		for _, dep := range r.deps[m] {
			if requestedSet[dep] {
				visit(dep)
			}
		}
		order = append(order, m)
	}

	for _, m := range requested {
		visit(m)
	}
	return order
}

// Plan assembles the full metrics plan for the requested set: the request as
// given, its computation order, and the static dependency lists of the
// requested metrics.
func (r *MetricResolver) Plan(requested []string) domain.MetricsPlan {
	deps := make(map[string][]string, len(requested))
	for _, m := range requested {
		if d, ok := r.deps[m]; ok {
			deps[m] = d
		}
	}
	return domain.MetricsPlan{
		Requested:    append([]string(nil), requested...),
		Order:        r.Order(requested),
		Dependencies: deps,
	}
}
