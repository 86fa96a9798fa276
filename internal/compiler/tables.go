// Package compiler turns a filter DSL document into an executable
// CompiledQuery artifact: a parameterized query string, an ordered metric
// plan, a map-rendering configuration, a cache key, and a cost estimate.
//
// All components are pure transformations over immutable input. The static
// vocabularies and lookup tables are injected via Tables rather than
// referenced as package globals, so a Compiler carries no hidden state and is
// safe to call from arbitrarily many goroutines.
package compiler

// Palette is the two-colour scheme selected by query intent.
type Palette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Tables bundles the closed vocabularies and static lookup data shared by the
// compiler components. Treat a Tables value as read-only after construction.
type Tables struct {
	// Metrics is the closed metric vocabulary.
	Metrics []string
	// Layers is the closed map-layer vocabulary.
	Layers []string
	// Intents is the closed intent vocabulary.
	Intents []string

	// MetricDeps maps each derived metric to the raw fields or other metrics
	// it needs. Metrics absent from the table have no dependencies.
	MetricDeps map[string][]string
	// MetricWeights holds per-metric cost weights. Metrics absent from the
	// table weigh 1.0.
	MetricWeights map[string]float64

	// LayerStyles holds the per-layer styling template, keyed by layer type.
	LayerStyles map[string]map[string]any
	// LayerSources maps each layer type to the dataset it renders.
	LayerSources map[string]string

	// Palettes maps intent to its colour pair; DefaultPalette is used for
	// unknown intents.
	Palettes       map[string]Palette
	DefaultPalette Palette

	// FieldAllowList, when non-empty, restricts condition fields to known
	// column names at validation time. Empty preserves the permissive
	// behavior where field names pass through verbatim.
	FieldAllowList []string
}

// DefaultTables returns the built-in vocabularies and lookup data.
func DefaultTables() Tables {
	return Tables{
		Metrics: []string{
			"revenue_estimate", "employee_count", "owner_age",
			"FS_ms", "HHI_local", "D2", "SRI", "lambda1", "MROS", "AAS", "PCVS",
		},
		Layers:  []string{"pins", "clusters", "choropleth", "heatmap", "flow"},
		Intents: []string{"rollup", "acquisition", "succession", "market_analysis", "custom"},

		MetricDeps: map[string][]string{
			"FS_ms":     {"revenue_estimate", "employee_count"},
			"HHI_local": {"revenue_estimate"},
			"D2":        {"employee_count", "HHI_local"},
			"SRI":       {"owner_age", "FS_ms"},
			"lambda1":   {"FS_ms"},
			"MROS":      {"HHI_local", "D2"},
			"AAS":       {"revenue_estimate", "employee_count", "owner_age"},
			"PCVS":      {"AAS", "MROS", "SRI"},
		},
		MetricWeights: map[string]float64{
			"FS_ms":     2.0,
			"HHI_local": 1.5,
			"D2":        1.2,
			"SRI":       1.0,
			"lambda1":   2.5,
			"MROS":      1.8,
			"AAS":       1.5,
			"PCVS":      3.0,
		},

		LayerStyles: map[string]map[string]any{
			"pins":       {"radius": 6.0, "opacity": 0.8},
			"clusters":   {"min_radius": 10.0, "max_radius": 40.0},
			"choropleth": {"color_scale": "quantile", "stroke_color": "#ffffff", "stroke_width": 0.5},
			"heatmap":    {"radius": 24.0, "blur": 18.0},
			"flow":       {"animated": true, "stroke_width": 2.0},
		},
		LayerSources: map[string]string{
			"pins":       "businesses",
			"clusters":   "businesses",
			"choropleth": "regions_aggregate",
			"heatmap":    "business_density",
			"flow":       "succession_flows",
		},

		Palettes: map[string]Palette{
			"rollup":          {Primary: "#2563eb", Secondary: "#93c5fd"},
			"acquisition":     {Primary: "#16a34a", Secondary: "#86efac"},
			"succession":      {Primary: "#ea580c", Secondary: "#fdba74"},
			"market_analysis": {Primary: "#7c3aed", Secondary: "#c4b5fd"},
			"custom":          {Primary: "#0f766e", Secondary: "#5eead4"},
		},
		DefaultPalette: Palette{Primary: "#64748b", Secondary: "#cbd5e1"},
	}
}
