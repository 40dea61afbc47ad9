package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "valid json untouched",
			in:   `{"summary": "ok", "explanations": []}`,
			want: `{"summary": "ok", "explanations": []}`,
		},
		{
			name: "missing opening quote on key",
			in:   `{ summary": "ok"}`,
			want: `{ "summary": "ok"}`,
		},
		{
			name: "fully unquoted key",
			in:   `{summary: "ok"}`,
			want: `{"summary": "ok"}`,
		},
		{
			name: "unquoted key after comma",
			in:   `{"a": 1, type": "x"}`,
			want: `{"a": 1, "type": "x"}`,
		},
		{
			name: "trailing comma in object",
			in:   `{"a": 1,}`,
			want: `{"a": 1}`,
		},
		{
			name: "trailing comma in array",
			in:   `{"a": [1, 2,]}`,
			want: `{"a": [1, 2]}`,
		},
		{
			name: "braces inside strings untouched",
			in:   `{"a": "curly { and , comma"}`,
			want: `{"a": "curly { and , comma"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairJSON(tt.in)
			assert.Equal(t, tt.want, got)

			var v any
			require.NoError(t, json.Unmarshal([]byte(got), &v), "repaired output must be valid JSON")
		})
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}
