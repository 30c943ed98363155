package generator

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_+-]*[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\r?\n?```$")
	// greedy: first '[' through last ']'
	jsonArray = regexp.MustCompile(`\[[\s\S]*\]`)
)

// Sanitize trims whitespace and strips one leading and one trailing markdown
// code fence. Fences inside the text are left alone.
func Sanitize(raw string) string {
	text := strings.TrimSpace(raw)
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractArray returns the bracketed array substring of text, if any.
func ExtractArray(text string) (string, bool) {
	match := jsonArray.FindString(text)
	return match, match != ""
}

// ParseCases decodes a JSON array, keeping each entry exactly as the model wrote it.
func ParseCases(payload string) ([]json.RawMessage, error) {
	var cases []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &cases); err != nil {
		return nil, err
	}
	if cases == nil {
		cases = []json.RawMessage{}
	}
	return cases, nil
}
