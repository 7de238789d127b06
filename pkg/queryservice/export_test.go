package queryservice

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCSVQuotesAndCoerces(t *testing.T) {
	rows := []map[string]any{
		{"name": "A,B", "value": float64(10)},
		{"name": `say "hi"`, "value": 2.5},
		{"name": nil, "value": true},
	}

	payload, err := EncodeCSV(rows, []string{"name", "value"})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, []string{"name", "value"}, records[0])
	assert.Equal(t, []string{"A,B", "10"}, records[1])
	assert.Equal(t, []string{`say "hi"`, "2.5"}, records[2])
	assert.Equal(t, []string{"", "true"}, records[3])
}

func TestEncodeCSVMissingCells(t *testing.T) {
	rows := []map[string]any{
		{"a": "x"},
	}

	payload, err := EncodeCSV(rows, []string{"a", "b"})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", ""}, records[1])
}

func TestEncodeJSONRoundTrip(t *testing.T) {
	rows := []map[string]any{
		{"category": "Electronics", "total": float64(125000)},
	}

	payload, err := EncodeJSON(rows)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, rows, decoded)
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		format string
		suffix string
	}{
		{"csv", ".csv"},
		{"json", ".json"},
		{"excel", ".xlsx"},
	}

	for _, tt := range tests {
		name := ExportFilename(tt.format)
		assert.True(t, strings.HasPrefix(name, "data_"), name)
		assert.True(t, strings.HasSuffix(name, tt.suffix), name)
	}
}
