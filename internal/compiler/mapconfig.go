package compiler

import "bizatlas/internal/domain"

// Continental-US default viewport.
var defaultCenter = []float64{-98.5795, 39.8283}

const defaultZoom = 4

// MapBuilder derives per-layer styling and the viewport from the map spec and
// the query intent.
type MapBuilder struct {
	tables Tables
}

// NewMapBuilder builds a MapBuilder over the given tables.
func NewMapBuilder(tables Tables) *MapBuilder {
	return &MapBuilder{tables: tables}
}

// Build selects a styling template per requested layer, colours it with the
// intent's palette (unknown intents fall back to the neutral default), and
// resolves the viewport. Bounds, when present, pass through unmodified.
func (b *MapBuilder) Build(spec domain.MapSpec, intent string) domain.MapConfig {
	palette, ok := b.tables.Palettes[intent]
	if !ok {
		palette = b.tables.DefaultPalette
	}

	layers := make([]domain.LayerConfig, 0, len(spec.Layers))
	for _, layerType := range spec.Layers {
		styling := make(map[string]any, len(b.tables.LayerStyles[layerType])+2)
		for k, v := range b.tables.LayerStyles[layerType] {
			styling[k] = v
		}
		styling["color"] = palette.Primary
		styling["secondary_color"] = palette.Secondary

		layers = append(layers, domain.LayerConfig{
			Type:       layerType,
			DataSource: b.tables.LayerSources[layerType],
			Styling:    styling,
		})
	}

	viewport := domain.Viewport{Center: defaultCenter, Zoom: defaultZoom}
	if len(spec.Center) == 2 {
		viewport.Center = spec.Center
	}
	if spec.Zoom != nil {
		viewport.Zoom = *spec.Zoom
	}
	if spec.Bounds != nil {
		viewport.Bounds = spec.Bounds
	}

	return domain.MapConfig{Layers: layers, Viewport: viewport}
}
