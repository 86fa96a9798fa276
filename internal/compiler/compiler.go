package compiler

import (
	"bizatlas/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Compiler composes the validator and the four independent builders into the
// two public entry points, Validate and Compile. It is stateless: identical
// input yields byte-identical output, and concurrent calls need no
// synchronization.
type Compiler struct {
	tables    Tables
	strictOps bool
	canonical bool

	validator *Validator
	query     *QueryBuilder
	metrics   *MetricResolver
	maps      *MapBuilder
	cost      *CostEstimator
	keys      *CacheKeyGenerator
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithTables replaces the default vocabularies and lookup tables.
func WithTables(t Tables) Option {
	return func(c *Compiler) { c.tables = t }
}

// WithStrictOperators makes an unrecognized operator a validation error
// instead of an empty query fragment.
func WithStrictOperators() Option {
	return func(c *Compiler) { c.strictOps = true }
}

// WithCanonicalCacheKeys sorts the metric and layer sets before hashing so
// that cosmetic reordering of those sets keeps the cache key stable. The
// default is order-sensitive.
func WithCanonicalCacheKeys() Option {
	return func(c *Compiler) { c.canonical = true }
}

// WithFieldAllowList restricts condition fields to the given column names at
// validation time. Without it, field names pass into the query text verbatim.
func WithFieldAllowList(fields []string) Option {
	return func(c *Compiler) { c.tables.FieldAllowList = fields }
}

// New builds a Compiler with the default tables unless overridden.
func New(opts ...Option) *Compiler {
	c := &Compiler{tables: DefaultTables()}
	for _, opt := range opts {
		opt(c)
	}

	c.validator = NewValidator(c.tables, c.strictOps)
	c.query = NewQueryBuilder()
	c.metrics = NewMetricResolver(c.tables.MetricDeps)
	c.maps = NewMapBuilder(c.tables)
	c.cost = NewCostEstimator(c.tables.MetricWeights)
	c.keys = NewCacheKeyGenerator(c.canonical)
	return c
}

// Validate reports every structural problem in the document. It never
// returns an error; invalidity is data, not a failure.
func (c *Compiler) Validate(dsl domain.FilterDSL) domain.ValidationResult {
	return c.validator.Validate(dsl)
}

// Compile assembles the CompiledQuery artifact. The caller is responsible
// for checking Validate first; Compile assumes a structurally valid
// document. The four builders have no inter-dependencies and run
// concurrently.
func (c *Compiler) Compile(dsl domain.FilterDSL) *domain.CompiledQuery {
	var out domain.CompiledQuery

	var g errgroup.Group
	g.Go(func() error {
		out.QueryText, out.Parameters = c.query.Build(dsl)
		return nil
	})
	g.Go(func() error {
		out.MetricsPlan = c.metrics.Plan(dsl.Metrics)
		return nil
	})
	g.Go(func() error {
		out.MapConfig = c.maps.Build(dsl.Map, dsl.Intent)
		return nil
	})
	g.Go(func() error {
		out.CacheKey = c.keys.Key(dsl)
		out.EstimatedCost = c.cost.Estimate(dsl)
		return nil
	})
	_ = g.Wait() // builders are pure and never fail

	return &out
}
