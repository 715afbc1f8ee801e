package tool

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/casualjim/genwire/pkg/jsonx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	data := []byte(`[
		{"name":"get_weather","description":"Current weather","parameters":{"type":"object","properties":{"city":{"type":"string"}},"required":["city"]}},
		{"type":"function","function":{"name":"list_files"}}
	]`)

	defs, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	name, schema := defs[0].ToNameAndSchema()
	assert.Equal(t, "get_weather", name)
	assert.Equal(t, "Current weather", defs[0].Description)
	params, err := jsonx.ToDynamicJSON(schema)
	require.NoError(t, err)
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, []any{"city"}, params["required"])
	assert.Contains(t, params["properties"], "city")

	name, schema = defs[1].ToNameAndSchema()
	assert.Equal(t, "list_files", name)
	assert.Equal(t, "object", schema.Type)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		message string
	}{
		{name: "invalid json", data: `[{"name":`, message: "not valid JSON"},
		{name: "not an array", data: `{"name":"x"}`, message: "must be a JSON array"},
		{name: "missing name", data: `[{"description":"nameless"}]`, message: "tool 0: name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"ping"}]`), 0o600))

	defs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "ping", defs[0].Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read tool declarations")
}
