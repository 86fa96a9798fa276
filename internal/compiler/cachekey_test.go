package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizatlas/internal/domain"
)

func keyDSL() domain.FilterDSL {
	return domain.FilterDSL{
		Intent: "acquisition",
		Where: []domain.FilterCondition{
			{Field: "revenue_estimate", Op: ">", Value: 500000.0},
			{Field: "region", Op: "=", Value: "tx"},
		},
		Metrics: []string{"AAS", "MROS"},
		Map:     domain.MapSpec{Layers: []string{"pins", "heatmap"}},
	}
}

func TestKey_PrefixAndShape(t *testing.T) {
	g := NewCacheKeyGenerator(false)
	key := g.Key(keyDSL())

	require.True(t, strings.HasPrefix(key, "bi_query:"))
	digest := strings.TrimPrefix(key, "bi_query:")
	require.Len(t, digest, 32)
	for _, c := range digest {
		assert.Contains(t, "0123456789abcdef", string(c))
	}
}

func TestKey_Deterministic(t *testing.T) {
	g := NewCacheKeyGenerator(false)
	assert.Equal(t, g.Key(keyDSL()), g.Key(keyDSL()))
}

func TestKey_DiffersOnContent(t *testing.T) {
	g := NewCacheKeyGenerator(false)
	other := keyDSL()
	other.Limit = 10
	assert.NotEqual(t, g.Key(keyDSL()), g.Key(other))
}

// The default serialization is order-sensitive: permuting the condition list
// produces a different key even though the document is semantically close.
func TestKey_OrderSensitiveByDefault(t *testing.T) {
	g := NewCacheKeyGenerator(false)
	swapped := keyDSL()
	swapped.Where[0], swapped.Where[1] = swapped.Where[1], swapped.Where[0]
	assert.NotEqual(t, g.Key(keyDSL()), g.Key(swapped))

	reordered := keyDSL()
	reordered.Metrics = []string{"MROS", "AAS"}
	assert.NotEqual(t, g.Key(keyDSL()), g.Key(reordered))
}

func TestKey_CanonicalIgnoresMetricAndLayerOrder(t *testing.T) {
	g := NewCacheKeyGenerator(true)

	reordered := keyDSL()
	reordered.Metrics = []string{"MROS", "AAS"}
	reordered.Map.Layers = []string{"heatmap", "pins"}
	assert.Equal(t, g.Key(keyDSL()), g.Key(reordered))
}

func TestKey_DoesNotMutateDocument(t *testing.T) {
	g := NewCacheKeyGenerator(true)
	dsl := keyDSL()
	dsl.Metrics = []string{"MROS", "AAS"}
	_ = g.Key(dsl)
	assert.Equal(t, []string{"MROS", "AAS"}, dsl.Metrics)
}
