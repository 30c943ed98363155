package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	code := "def add(a, b):\n    return a + b"
	prompt := BuildPrompt("python", code)

	assert.Contains(t, prompt, "Generate at least 5 diverse test cases for the following python function.")
	assert.Contains(t, prompt, "Return ONLY valid JSON")
	assert.Contains(t, prompt, `"input"`)
	assert.Contains(t, prompt, `"expectedOutput"`)
	assert.Contains(t, prompt, `"description"`)
	assert.Contains(t, prompt, "```python\n"+code+"\n```")
	assert.Equal(t, prompt, BuildPrompt("python", code))
}
