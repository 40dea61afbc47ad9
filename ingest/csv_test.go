package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want [][]string
	}{
		{
			name: "simple rows",
			text: "a,b,c\n1,2,3\n",
			want: [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name: "quoted field with comma",
			text: "id,title\nx,\"Hello, world\"\n",
			want: [][]string{{"id", "title"}, {"x", "Hello, world"}},
		},
		{
			name: "quoted field with newline",
			text: "id,title\nx,\"line one\nline two\"\n",
			want: [][]string{{"id", "title"}, {"x", "line one\nline two"}},
		},
		{
			name: "doubled quote escaping",
			text: `x,"say ""hi"""` + "\n",
			want: [][]string{{"x", `say "hi"`}},
		},
		{
			name: "crlf endings",
			text: "a,b\r\n1,2\r\n",
			want: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "bare cr endings",
			text: "a,b\r1,2\r",
			want: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "trailing row without newline",
			text: "a,b\n1,2",
			want: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCSVLines(tt.text))
		})
	}
}

func TestParseCSVNodesScenarios(t *testing.T) {
	t.Run("valid and invalid rows together", func(t *testing.T) {
		res := ParseCSVNodes("id,title\nfoo-bar,Foo Bar\n,Missing Id\n")

		require.Len(t, res.Results, 2)
		assert.True(t, res.Results[0].Success)
		assert.Equal(t, "foo-bar", res.Results[0].Id)
		assert.False(t, res.Results[1].Success)
		assert.Equal(t, `Missing "id".`, res.Results[1].Error)
		assert.True(t, res.HasErrors)
		require.Len(t, res.Nodes, 1)
	})

	t.Run("header only", func(t *testing.T) {
		res := ParseCSVNodes("id,title\n")
		require.Len(t, res.Results, 1)
		assert.Equal(t, "CSV must have a header row and at least one data row.", res.Results[0].Error)
		assert.True(t, res.HasErrors)
	})

	t.Run("missing required columns", func(t *testing.T) {
		res := ParseCSVNodes("title,category\nFoo,Bar\n")
		require.Len(t, res.Results, 1)
		assert.Equal(t, "Missing required columns: id", res.Results[0].Error)
		assert.True(t, res.HasErrors)
	})

	t.Run("invalid id shape", func(t *testing.T) {
		res := ParseCSVNodes("id,title\nFoo_Bar,Title\n")
		require.Len(t, res.Results, 1)
		assert.Equal(t, "ID must be lowercase letters, numbers, and hyphens only.", res.Results[0].Error)
	})

	t.Run("row numbers count from the header", func(t *testing.T) {
		res := ParseCSVNodes("id,title\na,A\nb,B\n")
		require.Len(t, res.Results, 2)
		assert.Equal(t, 2, res.Results[0].Row)
		assert.Equal(t, 3, res.Results[1].Row)
	})

	t.Run("blank rows are skipped", func(t *testing.T) {
		res := ParseCSVNodes("id,title\na,A\n,\nb,B\n")
		assert.Len(t, res.Results, 2)
		assert.False(t, res.HasErrors)
	})
}

func TestParseCSVNodesJSONColumns(t *testing.T) {
	t.Run("alt_phrasings must be an array", func(t *testing.T) {
		res := ParseCSVNodes("id,title,alt_phrasings\na,A,\"{\"\"x\"\": 1}\"\n")
		require.Len(t, res.Results, 1)
		assert.Equal(t, "alt_phrasings must be a JSON array.", res.Results[0].Error)
	})

	t.Run("alt_phrasings malformed", func(t *testing.T) {
		res := ParseCSVNodes("id,title,alt_phrasings\na,A,not-json\n")
		require.Len(t, res.Results, 1)
		assert.Equal(t, "alt_phrasings is not valid JSON.", res.Results[0].Error)
	})

	t.Run("layer json columns populate the node", func(t *testing.T) {
		csv := "id,title,layer1,alt_phrasings,layer2_json\n" +
			`g,Gravity,Things fall,"[""why do things fall""]","{""reasoning"":[{""id"":""mass"",""title"":""Mass"",""summary"":""s"",""detail"":""d""}]}"` + "\n"
		res := ParseCSVNodes(csv)
		require.False(t, res.HasErrors)
		require.Len(t, res.Nodes, 1)

		node := res.Nodes[0]
		assert.Equal(t, []string{"why do things fall"}, node.AltPhrasings)
		require.Len(t, node.Layer2.Reasoning, 1)
		assert.Equal(t, "Mass", node.Layer2.Reasoning[0].Title)
		assert.Equal(t, "Gravity Things fall why do things fall", node.SearchBlob)
	})

	t.Run("malformed layer2_json", func(t *testing.T) {
		res := ParseCSVNodes("id,title,layer2_json\na,A,{broken\n")
		require.Len(t, res.Results, 1)
		assert.Equal(t, "layer2_json is not valid JSON.", res.Results[0].Error)
	})
}

func TestParseCSVNodesDraftInversion(t *testing.T) {
	tests := []struct {
		draft     string
		published bool
	}{
		{"false", true},
		{"FALSE", true},
		{"no", true},
		{"0", true},
		{"true", false},
		{"yes", false},
		{"", false},
		{"anything", false},
	}

	for _, tt := range tests {
		t.Run("draft="+tt.draft, func(t *testing.T) {
			res := ParseCSVNodes("id,title,draft\na,A," + tt.draft + "\n")
			require.False(t, res.HasErrors)
			require.Len(t, res.Nodes, 1)
			assert.Equal(t, tt.published, res.Nodes[0].Published)
		})
	}
}
