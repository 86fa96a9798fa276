package compiler

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizatlas/internal/domain"
)

func compileDSL() domain.FilterDSL {
	return domain.FilterDSL{
		Intent: "succession",
		Where: []domain.FilterCondition{
			{Field: "owner_age", Op: ">", Value: 55.0},
			{Field: "revenue_estimate", Op: "between", Value: []any{2000000.0, 10000000.0}},
		},
		Metrics: []string{"PCVS", "AAS", "MROS", "SRI"},
		Map:     domain.MapSpec{Layers: []string{"pins", "choropleth"}},
		Sorting: []domain.SortSpec{{Field: "SRI", Direction: "desc"}},
	}
}

func TestCompile_AssemblesAllParts(t *testing.T) {
	c := New()
	dsl := compileDSL()
	require.True(t, c.Validate(dsl).Valid)

	out := c.Compile(dsl)
	assert.Contains(t, out.QueryText, "owner_age > $1")
	assert.Contains(t, out.QueryText, "revenue_estimate BETWEEN $2 AND $3")
	assert.Equal(t, []any{55.0, 2000000.0, 10000000.0}, out.Parameters)
	assert.Equal(t, dsl.Metrics, out.MetricsPlan.Requested)
	assert.Len(t, out.MapConfig.Layers, 2)
	assert.True(t, out.EstimatedCost > 1.0)
	assert.NotEmpty(t, out.CacheKey)
}

func TestCompile_Idempotent(t *testing.T) {
	c := New()
	dsl := compileDSL()

	first := c.Compile(dsl)
	second := c.Compile(dsl)

	assert.Equal(t, first.QueryText, second.QueryText)
	assert.Equal(t, first.Parameters, second.Parameters)
	assert.Equal(t, first.EstimatedCost, second.EstimatedCost)
	assert.Equal(t, first.CacheKey, second.CacheKey)

	// Byte-identical once serialized.
	raw1, err := json.Marshal(first)
	require.NoError(t, err)
	raw2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, raw1, raw2)
}

func TestCompile_ConcurrentCallers(t *testing.T) {
	c := New()
	dsl := compileDSL()
	want := c.Compile(dsl)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := c.Compile(dsl)
			assert.Equal(t, want.QueryText, got.QueryText)
			assert.Equal(t, want.CacheKey, got.CacheKey)
		}()
	}
	wg.Wait()
}

func TestCompile_StrictOperatorsOption(t *testing.T) {
	dsl := compileDSL()
	dsl.Where = append(dsl.Where, domain.FilterCondition{Field: "name", Op: "soundex", Value: "smith"})

	assert.True(t, New().Validate(dsl).Valid)
	assert.False(t, New(WithStrictOperators()).Validate(dsl).Valid)
}

func TestCompile_FieldAllowListOption(t *testing.T) {
	c := New(WithFieldAllowList([]string{"owner_age"}))

	dsl := compileDSL()
	result := c.Validate(dsl)
	assert.False(t, result.Valid) // revenue_estimate is not on the list
}

func TestCompile_CustomTables(t *testing.T) {
	tables := DefaultTables()
	tables.Metrics = []string{"only_metric"}
	c := New(WithTables(tables))

	dsl := compileDSL()
	result := c.Validate(dsl)
	assert.False(t, result.Valid)

	dsl.Metrics = []string{"only_metric"}
	dsl.Where = []domain.FilterCondition{}
	assert.True(t, c.Validate(dsl).Valid)
}
