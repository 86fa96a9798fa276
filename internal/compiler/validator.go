package compiler

import (
	"fmt"

	"bizatlas/internal/domain"
)

// Validator checks the structural and per-operator validity of a DSL
// document. It never panics and always returns the complete error list so a
// caller can report every problem at once.
type Validator struct {
	metricSet map[string]bool
	layerSet  map[string]bool
	fieldSet  map[string]bool // nil when no allow-list is configured
	strictOps bool
}

// NewValidator builds a Validator over the given tables. When strictOps is
// true, an unrecognized operator is reported as a validation error instead of
// being passed through to the query builder (where it would silently emit an
// empty fragment).
func NewValidator(tables Tables, strictOps bool) *Validator {
	v := &Validator{
		metricSet: toSet(tables.Metrics),
		layerSet:  toSet(tables.Layers),
		strictOps: strictOps,
	}
	if len(tables.FieldAllowList) > 0 {
		v.fieldSet = toSet(tables.FieldAllowList)
	}
	return v
}

// knownOperators is the closed operator vocabulary. Only consulted in strict
// mode; the default behavior leaves op unchecked.
var knownOperators = map[string]bool{
	"=": true, "!=": true, ">": true, "<": true, ">=": true, "<=": true,
	"in": true, "not_in": true, "between": true,
	"contains": true, "starts_with": true, "ends_with": true,
	"within": true, "near": true,
}

// Validate checks the document and returns every structural error found.
// All top-level fields are evaluated; nothing short-circuits.
func (v *Validator) Validate(dsl domain.FilterDSL) domain.ValidationResult {
	var errs []string

	if dsl.Intent == "" {
		errs = append(errs, "intent is required")
	}

	if dsl.Where == nil {
		errs = append(errs, "where must be a list of conditions")
	} else {
		for i, cond := range dsl.Where {
			errs = append(errs, v.validateCondition(i, cond)...)
		}
	}

	if dsl.Metrics == nil {
		errs = append(errs, "metrics must be a list")
	} else {
		for _, m := range dsl.Metrics {
			if !v.metricSet[m] {
				errs = append(errs, fmt.Sprintf("metrics: unknown metric %q", m))
			}
		}
	}

	if dsl.Map.Layers == nil {
		errs = append(errs, "map.layers must be a list")
	} else {
		for _, l := range dsl.Map.Layers {
			if !v.layerSet[l] {
				errs = append(errs, fmt.Sprintf("map.layers: unknown layer %q", l))
			}
		}
	}

	return domain.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func (v *Validator) validateCondition(i int, cond domain.FilterCondition) []string {
	var errs []string

	if cond.Field == "" {
		errs = append(errs, fmt.Sprintf("where[%d]: field is required", i))
	} else if v.fieldSet != nil && !v.fieldSet[cond.Field] {
		errs = append(errs, fmt.Sprintf("where[%d]: unknown field %q", i, cond.Field))
	}
	if cond.Op == "" {
		errs = append(errs, fmt.Sprintf("where[%d]: op is required", i))
	} else if v.strictOps && !knownOperators[cond.Op] {
		errs = append(errs, fmt.Sprintf("where[%d]: unknown operator %q", i, cond.Op))
	}
	if cond.Value == nil {
		errs = append(errs, fmt.Sprintf("where[%d]: value is required", i))
		return errs
	}

	switch cond.Op {
	case "between":
		if pair, ok := sequenceValue(cond.Value); !ok || len(pair) != 2 {
			errs = append(errs, fmt.Sprintf("where[%d]: between requires exactly two values", i))
		}
	case "in", "not_in":
		if _, ok := sequenceValue(cond.Value); !ok {
			errs = append(errs, fmt.Sprintf("where[%d]: %s requires a list of values", i, cond.Op))
		}
	case "near":
		if _, ok := geoValue(cond.Value); !ok {
			errs = append(errs, fmt.Sprintf("where[%d]: near requires numeric lng, lat, and radius", i))
		}
	}

	return errs
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
