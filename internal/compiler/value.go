package compiler

import (
	"encoding/json"
	"fmt"

	"bizatlas/internal/domain"
)

// sequenceValue interprets a dynamic condition value as a sequence.
// JSON decoding yields []any; a Go caller may also hand in typed slices.
func sequenceValue(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []float64:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []int:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	default:
		return nil, false
	}
}

// geoValue interprets a dynamic condition value as the lng/lat/radius object
// required by the near operator.
func geoValue(v any) (domain.GeoPoint, bool) {
	if g, ok := v.(domain.GeoPoint); ok {
		return g, true
	}
	m, ok := v.(map[string]any)
	if !ok {
		return domain.GeoPoint{}, false
	}
	lng, okLng := numericValue(m["lng"])
	lat, okLat := numericValue(m["lat"])
	radius, okRadius := numericValue(m["radius"])
	if !okLng || !okLat || !okRadius {
		return domain.GeoPoint{}, false
	}
	return domain.GeoPoint{Lng: lng, Lat: lat, Radius: radius}, true
}

// geoJSONValue renders a within-operator value as a GeoJSON string so it can
// be bound as a single text parameter. String values pass through untouched.
func geoJSONValue(v any) any {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
