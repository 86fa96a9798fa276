package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizatlas/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const jsonDoc = `{
	"intent": "succession",
	"where": [{"field": "owner_age", "op": ">", "value": 55}],
	"metrics": ["SRI"],
	"map": {"layers": ["pins"]}
}`

const yamlDoc = `intent: succession
where:
  - field: owner_age
    op: ">"
    value: 55
metrics:
  - SRI
map:
  layers:
    - pins
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLoadDSL_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := loadDSL(writeFile(t, "doc.json", jsonDoc))
	require.NoError(t, err)
	fromYAML, err := loadDSL(writeFile(t, "doc.yaml", yamlDoc))
	require.NoError(t, err)

	assert.Equal(t, fromJSON.Intent, fromYAML.Intent)
	assert.Equal(t, fromJSON.Metrics, fromYAML.Metrics)
	assert.Equal(t, fromJSON.Map.Layers, fromYAML.Map.Layers)
	require.Len(t, fromYAML.Where, 1)
	assert.Equal(t, "owner_age", fromYAML.Where[0].Field)
}

func TestValidateCommand_OK(t *testing.T) {
	out, err := runCLI(t, "validate", writeFile(t, "doc.json", jsonDoc))
	require.NoError(t, err)

	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Valid)
}

func TestValidateCommand_InvalidDocumentFails(t *testing.T) {
	out, err := runCLI(t, "validate", writeFile(t, "doc.json", `{"intent":"rollup"}`))
	require.Error(t, err)
	assert.Contains(t, out, "where must be a list")
}

func TestCompileCommand(t *testing.T) {
	out, err := runCLI(t, "compile", writeFile(t, "doc.yaml", yamlDoc))
	require.NoError(t, err)

	var compiled domain.CompiledQuery
	require.NoError(t, json.Unmarshal([]byte(out), &compiled))
	assert.Contains(t, compiled.QueryText, "owner_age > $1")
	assert.Equal(t, 2.6, compiled.EstimatedCost)
}

func TestCompileCommand_StrictRejectsUnknownOperator(t *testing.T) {
	doc := `{
		"intent": "rollup",
		"where": [{"field": "name", "op": "sounds_like", "value": "smith"}],
		"metrics": [],
		"map": {"layers": []}
	}`
	path := writeFile(t, "doc.json", doc)

	_, err := runCLI(t, "compile", path)
	require.NoError(t, err) // lenient by default

	_, err = runCLI(t, "compile", "--strict", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sounds_like")
}

func TestCostCommand(t *testing.T) {
	out, err := runCLI(t, "cost", writeFile(t, "doc.json", jsonDoc))
	require.NoError(t, err)
	assert.Equal(t, "2.60\n", out)
}

func TestLoadDSL_MissingFile(t *testing.T) {
	_, err := loadDSL(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
