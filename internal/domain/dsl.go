// Package domain defines the filter DSL document model, the compiled query
// artifact, and shared error types.
package domain

// Logical connectors accepted on a FilterCondition.
const (
	LogicalAnd = "AND"
	LogicalOr  = "OR"
)

// FilterCondition is a single predicate in the DSL's where list.
//
// Value is dynamic: a scalar for comparison operators, a sequence for
// in/not_in, an ordered two-element pair for between, a GeoJSON geometry for
// within, and an object with lng/lat/radius for near. The validator checks
// the shape per operator so downstream code never re-inspects raw values.
type FilterCondition struct {
	Field   string `json:"field"`
	Op      string `json:"op"`
	Value   any    `json:"value"`
	Logical string `json:"logical,omitempty"`
}

// GeoPoint is the structured value required by the near operator.
type GeoPoint struct {
	Lng    float64 `json:"lng"`
	Lat    float64 `json:"lat"`
	Radius float64 `json:"radius"`
}

// MapSpec describes the requested map rendering: which layers to draw and an
// optional viewport override.
type MapSpec struct {
	Layers []string  `json:"layers"`
	Center []float64 `json:"center,omitempty"` // [lng, lat]
	Zoom   *float64  `json:"zoom,omitempty"`
	Bounds []float64 `json:"bounds,omitempty"` // passed through unmodified
}

// Aggregations lists grouping dimensions and aggregate functions to apply.
type Aggregations struct {
	GroupBy   []string `json:"group_by,omitempty"`
	Functions []string `json:"functions"`
}

// SortSpec is one ORDER BY term.
type SortSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// FilterDSL is the structured document describing a business-intelligence
// query. It is constructed from untrusted input once per request and never
// mutated after parse.
//
// Where, Metrics, and Map.Layers must be present (possibly empty) sequences;
// a nil slice means the field was absent from the document.
type FilterDSL struct {
	Intent              string            `json:"intent"`
	Where               []FilterCondition `json:"where"`
	Metrics             []string          `json:"metrics"`
	Map                 MapSpec           `json:"map"`
	Aggregations        *Aggregations     `json:"aggregations,omitempty"`
	Sorting             []SortSpec        `json:"sorting,omitempty"`
	Limit               int               `json:"limit,omitempty"`
	ConfidenceThreshold float64           `json:"confidence_threshold,omitempty"`
}

// ValidationResult is the complete outcome of structural validation.
// Errors lists every problem found; validation never stops at the first.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// MetricsPlan is the ordered metric-computation plan. Order is a topological
// ordering of Requested: every dependency of a metric that is itself
// requested appears before it. Dependencies carries the static dependency
// lists for the requested metrics.
type MetricsPlan struct {
	Requested    []string            `json:"requested"`
	Order        []string            `json:"order"`
	Dependencies map[string][]string `json:"dependencies"`
}

// LayerConfig is the render configuration for a single map layer.
type LayerConfig struct {
	Type       string         `json:"type"`
	DataSource string         `json:"data_source"`
	Styling    map[string]any `json:"styling"`
}

// Viewport is the initial map camera position.
type Viewport struct {
	Center []float64 `json:"center"`
	Zoom   float64   `json:"zoom"`
	Bounds []float64 `json:"bounds,omitempty"`
}

// MapConfig is the compiled map-rendering configuration.
type MapConfig struct {
	Layers   []LayerConfig `json:"layers"`
	Viewport Viewport      `json:"viewport"`
}

// CompiledQuery is the artifact produced by one compile call: a parameterized
// query string, its positional parameters, the metric plan, the map config,
// a deterministic cache key, and a heuristic cost estimate. It is immutable
// and safe to serialize to an execution or caching collaborator.
type CompiledQuery struct {
	QueryText     string      `json:"query_text"`
	Parameters    []any       `json:"parameters"`
	MetricsPlan   MetricsPlan `json:"metrics_plan"`
	MapConfig     MapConfig   `json:"map_config"`
	CacheKey      string      `json:"cache_key"`
	EstimatedCost float64     `json:"estimated_cost"`
}
