package generator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testcase-generator/internal/domain"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n[1]\n```", "[1]"},
		{"bare fence", "```\n[1]\n```", "[1]"},
		{"no fence", "  [1]  ", "[1]"},
		{"single line", "```[1]```", "[1]"},
		{"crlf", "```json\r\n[1]\r\n```", "[1]"},
		{"inner fence kept", "```\na ``` b\n```", "a ``` b"},
		{"prose", "Here you go", "Here you go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestExtractArray(t *testing.T) {
	got, ok := ExtractArray("Sure! Here they are:\n[{\"a\":[1]}, {\"b\":2}]\nEnjoy.")
	require.True(t, ok)
	assert.Equal(t, `[{"a":[1]}, {"b":2}]`, got)

	_, ok = ExtractArray("I cannot help with that.")
	assert.False(t, ok)

	got, ok = ExtractArray("a [1] b [2] c")
	require.True(t, ok)
	assert.Equal(t, "[1] b [2]", got)
}

func TestParseCases_FencedResponse(t *testing.T) {
	raw := "```json\n[{\"input\":1,\"expectedOutput\":2,\"description\":\"d\"}]\n```"
	payload, ok := ExtractArray(Sanitize(raw))
	require.True(t, ok)

	cases, err := ParseCases(payload)
	require.NoError(t, err)
	require.Len(t, cases, 1)

	var got domain.GeneratedCase
	require.NoError(t, json.Unmarshal(cases[0], &got))
	assert.Equal(t, domain.GeneratedCase{Input: float64(1), ExpectedOutput: float64(2), Description: "d"}, got)
}

func TestParseCases_KeepsEntriesAsIs(t *testing.T) {
	cases, err := ParseCases(`[{"input":"x","extra":true}, 7]`)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.JSONEq(t, `{"input":"x","extra":true}`, string(cases[0]))
	assert.JSONEq(t, `7`, string(cases[1]))
}

func TestParseCases_Invalid(t *testing.T) {
	_, err := ParseCases(`[{"input": 1,]`)
	assert.Error(t, err)
}
